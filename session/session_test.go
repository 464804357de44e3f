package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	irmamobile "github.com/privacybydesign/irmamobile"
)

func testDisjunctions() []Disjunction {
	candidate := func(attr, value, cred string) Candidate {
		return Candidate{
			Type:           irmamobile.NewAttributeTypeIdentifier(attr),
			Name:           irmamobile.NewTranslatedString(irmamobile.NewAttributeTypeIdentifier(attr).Name()),
			Value:          irmamobile.NewTranslatedString(value),
			CredentialName: irmamobile.NewTranslatedString(cred),
		}
	}
	return []Disjunction{
		{
			Label: "Age",
			Candidates: []Candidate{
				candidate("irma-demo.MijnOverheid.ageLower.over18", "yes", "Age limits"),
				candidate("irma-demo.RU.studentCard.over18", "yes", "Student card"),
			},
		},
		{
			Candidates: []Candidate{
				candidate("irma-demo.MijnOverheid.fullName.firstname", "Alice", "Name"),
			},
		},
	}
}

func permissionSessions() Sessions {
	s := Reduce(nil, New{SessionID: 1, Action: irmamobile.ActionSigning})
	return Reduce(s, PermissionRequested{
		SessionID:    1,
		ServerName:   irmamobile.NewTranslatedString("Demo requestor"),
		Message:      "Please confirm your age",
		Disjunctions: testDisjunctions(),
	})
}

func TestStatusSets(t *testing.T) {
	require.True(t, StatusRequestPin.Known())
	require.False(t, Status("futureStatus").Known())
	require.False(t, Status("futureStatus").Finished())
	require.False(t, StatusRequestPermission.Finished())
	for _, s := range []Status{StatusSuccess, StatusCancelled, StatusError, StatusKeyshareBlocked} {
		require.True(t, s.Finished(), s)
	}
}

func TestNewSession(t *testing.T) {
	sessions := Reduce(nil, New{SessionID: 3, Action: irmamobile.ActionDisclosing})
	require.Len(t, sessions, 1)
	require.Equal(t, StatusInitialized, sessions[3].Status)
	require.Equal(t, -1, sessions[3].RemainingAttempts)

	// Adding an existing session does nothing
	again := Reduce(sessions, New{SessionID: 3, Action: irmamobile.ActionSigning})
	require.Equal(t, irmamobile.ActionDisclosing, again[3].Action)
}

func TestReduceCopiesOnWrite(t *testing.T) {
	before := permissionSessions()
	original := before[1]

	after := Reduce(before, ChoiceMade{SessionID: 1, Disjunction: 0, Candidate: 1})
	require.Equal(t, []int{0, 0}, before[1].Choice)
	require.Same(t, original, before[1])
	require.Equal(t, []int{1, 0}, after[1].Choice)
	require.NotSame(t, original, after[1])

	chosen, ok := after[1].Chosen(0)
	require.True(t, ok)
	require.Equal(t, "Student card", chosen.CredentialName.Translate("en"))
}

func TestChoiceValidation(t *testing.T) {
	sessions := permissionSessions()
	require.Equal(t, sessions, Reduce(sessions, ChoiceMade{SessionID: 1, Disjunction: 5}))
	require.Equal(t, sessions, Reduce(sessions, ChoiceMade{SessionID: 1, Disjunction: 1, Candidate: 1}))
	require.Equal(t, sessions, Reduce(sessions, ChoiceMade{SessionID: 2, Disjunction: 0, Candidate: 1}))

	_, ok := sessions[1].Chosen(7)
	require.False(t, ok)
	require.Len(t, sessions[1].Disclosure(), 2)
}

func TestPinFlow(t *testing.T) {
	sessions := Reduce(permissionSessions(), PinRequested{SessionID: 1, RemainingAttempts: -1})
	require.Equal(t, StatusRequestPin, sessions[1].Status)

	sessions = Reduce(sessions, PinSubmitted{SessionID: 1})
	require.Equal(t, StatusCommunicating, sessions[1].Status)

	// Only from requestPin
	require.Equal(t, sessions, Reduce(sessions, PinSubmitted{SessionID: 1}))

	sessions = Reduce(sessions, PinRequested{SessionID: 1, RemainingAttempts: 2})
	require.Equal(t, 2, sessions[1].RemainingAttempts)
}

func TestFinishedSessionsOnlyAcceptDismiss(t *testing.T) {
	manager := irmamobile.NewSchemeManagerIdentifier("irma-demo")
	sessions := Reduce(permissionSessions(), Blocked{SessionID: 1, Manager: manager, Duration: time.Minute})
	require.Equal(t, StatusKeyshareBlocked, sessions[1].Status)
	require.Equal(t, time.Minute, sessions[1].BlockedDuration)

	require.Equal(t, sessions, Reduce(sessions, Succeeded{SessionID: 1}))
	require.Equal(t, sessions, Reduce(sessions, StatusUpdated{SessionID: 1, Status: StatusCommunicating}))

	sessions = Reduce(sessions, Dismissed{SessionID: 1})
	require.Empty(t, sessions)
	require.Equal(t, sessions, Reduce(sessions, Dismissed{SessionID: 1}))
}

func TestTerminalEvents(t *testing.T) {
	err := &irmamobile.SessionError{ErrorType: irmamobile.ErrorRejected}
	manager := irmamobile.NewSchemeManagerIdentifier("pbdf")

	cases := map[Status]irmamobile.Event{
		StatusSuccess:                   Succeeded{SessionID: 1},
		StatusCancelled:                 Cancelled{SessionID: 1},
		StatusError:                     Failed{SessionID: 1, Err: err},
		StatusKeyshareEnrollmentMissing: EnrollmentMissing{SessionID: 1, Manager: manager},
		StatusUnsatisfiableRequest:      Unsatisfiable{SessionID: 1},
		Status("futureStatus"):          StatusUpdated{SessionID: 1, Status: "futureStatus"},
	}
	for status, event := range cases {
		sessions := Reduce(permissionSessions(), event)
		require.Equal(t, status, sessions[1].Status, event.EventName())
	}

	failed := Reduce(permissionSessions(), Failed{SessionID: 1, Err: err})
	require.Same(t, err, failed[1].Error)
}
