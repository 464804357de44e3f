package session

import (
	"encoding/json"
	"time"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// New adds a session in status initialized.
type New struct {
	SessionID int
	Action    irmamobile.Action
	Request   json.RawMessage
}

// StatusUpdated reports protocol progress (communicating, connected).
type StatusUpdated struct {
	SessionID int
	Status    Status
}

// PermissionRequested asks the user to disclose one candidate of each disjunction.
type PermissionRequested struct {
	SessionID    int
	ServerName   irmamobile.TranslatedString
	Message      string
	Disjunctions []Disjunction
}

// PinRequested asks the user for the keyshare PIN.
type PinRequested struct {
	SessionID         int
	RemainingAttempts int
}

// PinSubmitted is applied when the entered PIN is sent to the keyshare server.
type PinSubmitted struct{ SessionID int }

// ChoiceMade selects a candidate of a disjunction.
type ChoiceMade struct {
	SessionID   int
	Disjunction int
	Candidate   int
}

// Unsatisfiable reports that the user lacks attributes for the request.
type Unsatisfiable struct {
	SessionID  int
	ServerName irmamobile.TranslatedString
	Missing    []MissingDisjunction
}

// EnrollmentMissing reports that the user is not enrolled at the keyshare server of Manager.
type EnrollmentMissing struct {
	SessionID int
	Manager   irmamobile.SchemeManagerIdentifier
}

// Blocked reports that the keyshare server of Manager blocked the user for Duration.
type Blocked struct {
	SessionID int
	Manager   irmamobile.SchemeManagerIdentifier
	Duration  time.Duration
}

type Succeeded struct{ SessionID int }

type Cancelled struct{ SessionID int }

type Failed struct {
	SessionID int
	Err       *irmamobile.SessionError
}

// Dismissed removes the session.
type Dismissed struct{ SessionID int }

func (New) EventName() string                 { return "session/new" }
func (StatusUpdated) EventName() string       { return "session/statusUpdated" }
func (PermissionRequested) EventName() string { return "session/permissionRequested" }
func (PinRequested) EventName() string        { return "session/pinRequested" }
func (PinSubmitted) EventName() string        { return "session/pinSubmitted" }
func (ChoiceMade) EventName() string          { return "session/choiceMade" }
func (Unsatisfiable) EventName() string       { return "session/unsatisfiable" }
func (EnrollmentMissing) EventName() string   { return "session/enrollmentMissing" }
func (Blocked) EventName() string             { return "session/blocked" }
func (Succeeded) EventName() string           { return "session/succeeded" }
func (Cancelled) EventName() string           { return "session/cancelled" }
func (Failed) EventName() string              { return "session/failed" }
func (Dismissed) EventName() string           { return "session/dismissed" }
