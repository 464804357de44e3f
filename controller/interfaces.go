package controller

import (
	"encoding/json"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/session"
)

// Client is the part of the IRMA client used by the controller. Its methods must not block on
// the user: results are reported asynchronously through the Handler methods of the controller.
type Client interface {
	KeyshareChangePin(manager irmamobile.SchemeManagerIdentifier, oldPin, newPin string)
	// RespondPermission answers a permission request; disclosure lists the chosen attributes.
	RespondPermission(sessionID int, proceed bool, disclosure []irmamobile.AttributeTypeIdentifier)
	RespondPin(sessionID int, proceed bool, pin string)
	DismissSession(sessionID int)
}

// Navigator switches between the screens of the app.
type Navigator interface {
	Navigate(route Route)
	Back()
}

// Mailer sends error reports of failed sessions to the developers.
type Mailer interface {
	SendErrorReport(report ErrorReport) error
}

// ErrorReport describes a failed session.
type ErrorReport struct {
	SessionID int
	Action    irmamobile.Action
	Error     *irmamobile.SessionError
}

// Handler receives the callbacks of the IRMA client, in the manner of the irmaclient handlers.
// It is implemented by Controller.
type Handler interface {
	ChangePinSuccess(manager irmamobile.SchemeManagerIdentifier)
	ChangePinIncorrect(manager irmamobile.SchemeManagerIdentifier, attempts int)
	ChangePinBlocked(manager irmamobile.SchemeManagerIdentifier, timeout int)
	ChangePinFailure(manager irmamobile.SchemeManagerIdentifier, err error)

	SessionStarted(sessionID int, action irmamobile.Action, request json.RawMessage)
	StatusUpdate(sessionID int, status session.Status)
	RequestPermission(sessionID int, serverName irmamobile.TranslatedString, message string, disjunctions []session.Disjunction)
	RequestPin(sessionID int, remainingAttempts int)
	UnsatisfiableRequest(sessionID int, serverName irmamobile.TranslatedString, missing []session.MissingDisjunction)
	KeyshareBlocked(sessionID int, manager irmamobile.SchemeManagerIdentifier, duration int)
	KeyshareEnrollmentMissing(sessionID int, manager irmamobile.SchemeManagerIdentifier)
	Success(sessionID int)
	Cancelled(sessionID int)
	Failure(sessionID int, err *irmamobile.SessionError)

	EnrollmentSuccess(manager irmamobile.SchemeManagerIdentifier)
	EnrollmentFailure(manager irmamobile.SchemeManagerIdentifier, err error)
	UpdateCredentials(credentials irmamobile.CredentialInfoList)
	UpdateConfiguration(conf *irmamobile.Configuration)
}
