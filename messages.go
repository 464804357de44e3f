package irmamobile

import (
	"fmt"

	"github.com/go-errors/errors"
)

// Action encodes the session type of an IRMA session (e.g., disclosing).
type Action string

// ErrorType are session errors.
type ErrorType string

// Actions
const (
	ActionDisclosing = Action("disclosing")
	ActionSigning    = Action("signing")
	ActionIssuing    = Action("issuing")
	ActionUnknown    = Action("unknown")
)

// Session and keyshare errors, as reported by the IRMA client
const (
	// Protocol version not supported
	ErrorProtocolVersionNotSupported = ErrorType("protocolVersionNotSupported")
	// Error in HTTP communication
	ErrorTransport = ErrorType("transport")
	// Unknown session type (not disclosing, signing, or issuing)
	ErrorUnknownAction = ErrorType("unknownAction")
	// Crypto error during calculation of our response (second IRMA message)
	ErrorCrypto = ErrorType("crypto")
	// Server rejected our response (second IRMA message)
	ErrorRejected = ErrorType("rejectedByServer")
	// (De)serializing of a message failed
	ErrorSerialization = ErrorType("serialization")
	// Error in keyshare protocol
	ErrorKeyshare = ErrorType("keyshare")
	// Keyshare server has blocked us
	ErrorKeyshareBlocked = ErrorType("keyshareBlocked")
	// The scheme manager of a requested attribute is not known
	ErrorUnknownSchemeManager = ErrorType("unknownSchemeManager")
	// API server error
	ErrorApi = ErrorType("api")
	// Recovered panic
	ErrorPanic = ErrorType("panic")
	// Error involving the PIN change itself, as opposed to the session it runs in
	ErrorChangePin = ErrorType("changePin")
)

// SessionError is a protocol error. It is carried in the state of a session or PIN change
// and shown to the user as is.
type SessionError struct {
	Err       error     `json:"-"`
	ErrorType ErrorType `json:"errorType"`
	Info      string    `json:"info,omitempty"`
	*RemoteError
}

// RemoteError is an error message returned by the API server on errors.
type RemoteError struct {
	Status      int    `json:"status,omitempty"`
	ErrorName   string `json:"error,omitempty"`
	Description string `json:"description,omitempty"`
	Message     string `json:"message,omitempty"`
	Stacktrace  string `json:"stacktrace,omitempty"`
}

// An Event is a request for a state transition, applied to the application state by the
// reducers of the store package.
type Event interface {
	EventName() string
}

func (e *SessionError) Error() string {
	if e == nil {
		return ""
	}
	var msg string
	if e.Err != nil {
		msg = e.Err.Error()
	} else if e.Info != "" {
		msg = e.Info
	}
	if e.RemoteError != nil && e.RemoteError.Message != "" {
		if msg != "" {
			msg += ": "
		}
		msg += e.RemoteError.Message
	}
	if msg == "" {
		return string(e.ErrorType)
	}
	return fmt.Sprintf("%s: %s", string(e.ErrorType), msg)
}

// Unwrap returns the wrapped error, if any.
func (e *SessionError) Unwrap() error {
	return e.Err
}

// WrappedError returns the message of the wrapped error, or the empty string.
func (e *SessionError) WrappedError() string {
	if e == nil || e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Stack returns the stack trace of the wrapped error if it carries one,
// falling back to the stacktrace reported by the remote server.
func (e *SessionError) Stack() string {
	if e == nil {
		return ""
	}
	if withStack, ok := e.Err.(*errors.Error); ok {
		return string(withStack.Stack())
	}
	if e.RemoteError != nil {
		return e.RemoteError.Stacktrace
	}
	return ""
}

func (err *RemoteError) Error() string {
	var msg string
	if err.Message != "" {
		msg = fmt.Sprintf(" (%s)", err.Message)
	}
	return fmt.Sprintf("%s%s: %s", err.ErrorName, msg, err.Description)
}
