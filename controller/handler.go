package controller

import (
	"encoding/json"
	"time"

	"github.com/go-errors/errors"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/changepin"
	"github.com/privacybydesign/irmamobile/session"
	"github.com/privacybydesign/irmamobile/store"
)

// Client callbacks. They may be called from any goroutine.

func (c *Controller) ChangePinSuccess(manager irmamobile.SchemeManagerIdentifier) {
	irmamobile.Logger.WithField("manager", manager.String()).Info("PIN changed")
	c.store.Dispatch(changepin.Succeeded{})
}

func (c *Controller) ChangePinIncorrect(manager irmamobile.SchemeManagerIdentifier, attempts int) {
	c.store.Dispatch(changepin.Incorrect{RemainingAttempts: attempts})
}

// ChangePinBlocked is called when the keyshare server blocked PIN checks for timeout seconds.
func (c *Controller) ChangePinBlocked(manager irmamobile.SchemeManagerIdentifier, timeout int) {
	c.store.Dispatch(changepin.Blocked{Timeout: time.Duration(timeout) * time.Second})
}

func (c *Controller) ChangePinFailure(manager irmamobile.SchemeManagerIdentifier, err error) {
	irmamobile.Logger.WithField("manager", manager.String()).Warn("PIN change failed: ", err)
	c.store.Dispatch(changepin.Failure{Err: sessionError(err, irmamobile.ErrorChangePin)})
}

// SessionStarted adds a new session and shows it.
func (c *Controller) SessionStarted(sessionID int, action irmamobile.Action, request json.RawMessage) {
	c.store.Dispatch(session.New{SessionID: sessionID, Action: action, Request: request})
	c.nav.Navigate(Route{Name: RouteSession, SessionID: sessionID})
}

func (c *Controller) StatusUpdate(sessionID int, status session.Status) {
	c.store.Dispatch(session.StatusUpdated{SessionID: sessionID, Status: status})
}

func (c *Controller) RequestPermission(
	sessionID int, serverName irmamobile.TranslatedString, message string, disjunctions []session.Disjunction,
) {
	c.store.Dispatch(session.PermissionRequested{
		SessionID:    sessionID,
		ServerName:   serverName,
		Message:      message,
		Disjunctions: disjunctions,
	})
}

// RequestPin asks for the PIN; remainingAttempts is -1 on the first attempt.
func (c *Controller) RequestPin(sessionID int, remainingAttempts int) {
	c.clearInput(sessionID)
	c.store.Dispatch(session.PinRequested{SessionID: sessionID, RemainingAttempts: remainingAttempts})
}

func (c *Controller) UnsatisfiableRequest(
	sessionID int, serverName irmamobile.TranslatedString, missing []session.MissingDisjunction,
) {
	c.store.Dispatch(session.Unsatisfiable{SessionID: sessionID, ServerName: serverName, Missing: missing})
}

// KeyshareBlocked is called when the keyshare server blocked the user for duration seconds.
func (c *Controller) KeyshareBlocked(sessionID int, manager irmamobile.SchemeManagerIdentifier, duration int) {
	c.store.Dispatch(session.Blocked{
		SessionID: sessionID,
		Manager:   manager,
		Duration:  time.Duration(duration) * time.Second,
	})
}

func (c *Controller) KeyshareEnrollmentMissing(sessionID int, manager irmamobile.SchemeManagerIdentifier) {
	c.store.Dispatch(session.EnrollmentMissing{SessionID: sessionID, Manager: manager})
}

func (c *Controller) Success(sessionID int) {
	irmamobile.Logger.WithField("session", sessionID).Info("session succeeded")
	c.store.Dispatch(session.Succeeded{SessionID: sessionID})
}

func (c *Controller) Cancelled(sessionID int) {
	c.clearInput(sessionID)
	c.store.Dispatch(session.Cancelled{SessionID: sessionID})
}

func (c *Controller) Failure(sessionID int, err *irmamobile.SessionError) {
	irmamobile.Logger.WithField("session", sessionID).Warn("session failed: ", err.Error())
	c.clearInput(sessionID)
	c.store.Dispatch(session.Failed{SessionID: sessionID, Err: err})
}

func (c *Controller) EnrollmentSuccess(manager irmamobile.SchemeManagerIdentifier) {
	c.store.Dispatch(store.EnrollmentSucceeded{Manager: manager})
}

func (c *Controller) EnrollmentFailure(manager irmamobile.SchemeManagerIdentifier, err error) {
	c.store.Dispatch(store.EnrollmentFailed{Manager: manager, Err: sessionError(err, irmamobile.ErrorKeyshare)})
}

func (c *Controller) UpdateCredentials(credentials irmamobile.CredentialInfoList) {
	c.store.Dispatch(store.CredentialsUpdated{Credentials: credentials})
}

func (c *Controller) UpdateConfiguration(conf *irmamobile.Configuration) {
	c.store.Dispatch(store.ConfigurationUpdated{Configuration: conf})
}

// sessionError returns err if it is a *SessionError, and wraps it in one of the given type
// otherwise.
func sessionError(err error, typ irmamobile.ErrorType) *irmamobile.SessionError {
	if err == nil {
		return &irmamobile.SessionError{ErrorType: typ}
	}
	var serr *irmamobile.SessionError
	if errors.As(err, &serr) {
		return serr
	}
	return &irmamobile.SessionError{ErrorType: typ, Err: errors.Wrap(err, 0)}
}
