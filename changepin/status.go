package changepin

import (
	"time"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// Status is the status of a PIN change. It is one of Started, PinError, Changing, Success,
// KeyshareBlocked, Failed, or Unknown for status names this version does not know.
type Status interface {
	// Name returns the name of the status as used on the wire.
	Name() string
	isStatus()
}

// Status names
const (
	NameStarted         = "started"
	NamePinError        = "pinError"
	NameChanging        = "changing"
	NameSuccess         = "success"
	NameKeyshareBlocked = "keyshareBlocked"
	NameError           = "error"
)

// Started: awaiting the old and new PIN.
type Started struct{}

// PinError: the last attempt was rejected because the old PIN was incorrect.
type PinError struct {
	RemainingAttempts int
}

// Changing: the change request is in flight.
type Changing struct{}

// Success: the PIN was changed.
type Success struct{}

// KeyshareBlocked: too many incorrect attempts; the keyshare server refuses PIN checks
// for Timeout.
type KeyshareBlocked struct {
	Timeout time.Duration
}

// Failed: the PIN change failed unexpectedly.
type Failed struct {
	Err *irmamobile.SessionError
}

// Unknown is a status whose name is not known to this version.
type Unknown struct {
	Status string
}

func (Started) Name() string         { return NameStarted }
func (PinError) Name() string        { return NamePinError }
func (Changing) Name() string        { return NameChanging }
func (Success) Name() string         { return NameSuccess }
func (KeyshareBlocked) Name() string { return NameKeyshareBlocked }
func (Failed) Name() string          { return NameError }
func (u Unknown) Name() string       { return u.Status }

func (Started) isStatus()         {}
func (PinError) isStatus()        {}
func (Changing) isStatus()        {}
func (Success) isStatus()         {}
func (KeyshareBlocked) isStatus() {}
func (Failed) isStatus()          {}
func (Unknown) isStatus()         {}

// Terminal returns whether the status ends the flow, i.e., the user can only dismiss the screen.
func Terminal(s Status) bool {
	switch s.(type) {
	case Success, KeyshareBlocked, Failed:
		return true
	default:
		return false
	}
}

// ParseStatus builds a status from its wire name and the payload fields of the old,
// flat representation. Payload fields that do not belong to the named status are ignored.
func ParseStatus(name string, remainingAttempts int, timeout time.Duration, err *irmamobile.SessionError) Status {
	switch name {
	case NameStarted:
		return Started{}
	case NamePinError:
		return PinError{RemainingAttempts: remainingAttempts}
	case NameChanging:
		return Changing{}
	case NameSuccess:
		return Success{}
	case NameKeyshareBlocked:
		return KeyshareBlocked{Timeout: timeout}
	case NameError:
		return Failed{Err: err}
	default:
		return Unknown{Status: name}
	}
}
