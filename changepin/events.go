package changepin

import (
	"time"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// Begin starts a new PIN change flow.
type Begin struct{}

// OldPinChanged sets the pending old PIN.
type OldPinChanged struct{ Pin string }

// NewPinChanged sets the pending new PIN. An empty Pin means no valid, confirmed PIN was entered.
type NewPinChanged struct{ Pin string }

// ValidationForced makes the inputs show their validation errors.
type ValidationForced struct{}

// Requested is applied when the change is sent to the keyshare servers.
type Requested struct{}

// Succeeded is applied when the keyshare servers accepted the change.
type Succeeded struct{}

// Incorrect is applied when the old PIN was rejected.
type Incorrect struct{ RemainingAttempts int }

// Blocked is applied when the keyshare server blocked further attempts.
type Blocked struct{ Timeout time.Duration }

// Failure is applied when the change failed for any other reason.
type Failure struct{ Err *irmamobile.SessionError }

// Reset returns to the initial state, e.g. when the user leaves the screen.
type Reset struct{}

func (Begin) EventName() string            { return "changePin/begin" }
func (OldPinChanged) EventName() string    { return "changePin/oldPinChanged" }
func (NewPinChanged) EventName() string    { return "changePin/newPinChanged" }
func (ValidationForced) EventName() string { return "changePin/validationForced" }
func (Requested) EventName() string        { return "changePin/requested" }
func (Succeeded) EventName() string        { return "changePin/succeeded" }
func (Incorrect) EventName() string        { return "changePin/incorrect" }
func (Blocked) EventName() string          { return "changePin/blocked" }
func (Failure) EventName() string          { return "changePin/failure" }
func (Reset) EventName() string            { return "changePin/reset" }
