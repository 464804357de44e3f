package changepin

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/require"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/i18n"
	"github.com/privacybydesign/irmamobile/ui"
)

func translator(t *testing.T) *i18n.Translator {
	catalog, err := i18n.Load("en")
	require.NoError(t, err)
	return catalog.Translator("en")
}

func testError() *irmamobile.SessionError {
	return &irmamobile.SessionError{
		ErrorType: irmamobile.ErrorTransport,
		Info:      "keyshare server unreachable",
		Err:       errors.New("connection refused"),
	}
}

var allStatuses = []Status{
	Started{},
	PinError{RemainingAttempts: 2},
	Changing{},
	Success{},
	KeyshareBlocked{Timeout: 90 * time.Second},
	Failed{Err: testError()},
}

// row describes which elements of the screen are visible.
type row struct {
	form, banner, icon bool
	errorCard, dismiss bool
	iconName           ui.Icon
}

func rowOf(n *ui.Node) row {
	r := row{
		form:      n.Find(ChangeButton) != nil,
		banner:    n.Find(ErrorTextID) != nil,
		errorCard: len(n.FindKind(ui.KindErrorCard)) > 0,
		dismiss:   n.Find(DismissID) != nil,
	}
	if icons := n.FindKind(ui.KindIconCard); len(icons) > 0 {
		r.icon = true
		r.iconName = icons[0].Icon
	}
	return r
}

func TestViewMatchesExactlyOneRow(t *testing.T) {
	tr := translator(t)
	expected := map[string]row{
		NameStarted:         {form: true},
		NamePinError:        {form: true, banner: true},
		NameChanging:        {icon: true, iconName: ui.IconChatboxes},
		NameSuccess:         {icon: true, iconName: ui.IconCheckmarkCircle, dismiss: true},
		NameKeyshareBlocked: {icon: true, iconName: ui.IconAlert, dismiss: true},
		NameError:           {icon: true, iconName: ui.IconAlert, errorCard: true, dismiss: true},
	}

	seen := map[row]string{}
	for _, status := range allStatuses {
		n := View(State{Status: status}, tr)
		require.Equal(t, TestID, n.TestID)
		r := rowOf(n)
		require.Equal(t, expected[status.Name()], r, status.Name())
		other, dup := seen[r]
		require.False(t, dup, "%s renders like %s", status.Name(), other)
		seen[r] = status.Name()
	}
}

func TestDismissOnlyForTerminalStatuses(t *testing.T) {
	tr := translator(t)
	for _, status := range append(allStatuses, Unknown{Status: "futureStatus"}) {
		n := View(State{Status: status}, tr)
		dismiss := n.Find(DismissID)
		require.Equal(t, Terminal(status), dismiss != nil, status.Name())
		if dismiss != nil {
			require.Equal(t, NavigateBack{}, dismiss.Command)
			require.Equal(t, "Dismiss", dismiss.Text)
		}
	}
}

func TestPinErrorShowsRemainingAttempts(t *testing.T) {
	tr := translator(t)

	n := View(State{Status: PinError{RemainingAttempts: 3}}, tr)
	banner := n.Find(ErrorTextID)
	require.NotNil(t, banner)
	require.Equal(t, ui.StyleError, banner.Style)
	require.Equal(t, "Your current PIN is incorrect. You have 3 attempts left.", banner.Text)

	n = View(State{Status: PinError{RemainingAttempts: 1}}, tr)
	require.Equal(t, "Your current PIN is incorrect. You have 1 attempt left.", n.Find(ErrorTextID).Text)
}

func TestOldPinInputIsResetOnEveryAttempt(t *testing.T) {
	tr := translator(t)
	state := Reduce(Initial(), OldPinChanged{Pin: "54321"})
	state = Reduce(state, NewPinChanged{Pin: "67890"})
	state = Reduce(state, Requested{})
	state = Reduce(state, Incorrect{RemainingAttempts: 2})

	require.Equal(t, PinError{RemainingAttempts: 2}, state.Status)
	require.Empty(t, state.OldPin)
	require.Equal(t, "67890", state.NewPin)

	input := View(state, tr).FindKind(ui.KindInput)
	require.Len(t, input, 1)
	require.Equal(t, "attempt-2", input[0].Key)
	require.Nil(t, input[0].Prop(ui.PropInitialValue))

	state = Reduce(Reduce(state, Requested{}), Incorrect{RemainingAttempts: 1})
	require.Equal(t, "attempt-1", View(state, tr).FindKind(ui.KindInput)[0].Key)

	require.Equal(t, "attempt--1", View(Initial(), tr).FindKind(ui.KindInput)[0].Key)
}

func TestValidationForcedReachesBothInputs(t *testing.T) {
	tr := translator(t)
	for _, forced := range []bool{false, true} {
		n := View(State{Status: Started{}, ValidationForced: forced, NewPin: "13579"}, tr)
		old := n.FindKind(ui.KindInput)
		repeated := n.FindKind(ui.KindRepeatedInput)
		require.Len(t, old, 1)
		require.Len(t, repeated, 1)
		require.Equal(t, forced, old[0].BoolProp(ui.PropValidationForced))
		require.Equal(t, forced, repeated[0].BoolProp(ui.PropValidationForced))
		require.True(t, old[0].BoolProp(ui.PropShowInvalidMessage))
		require.Equal(t, "13579", repeated[0].StringProp(ui.PropInitialValue))
	}
}

func TestInputsSendCommands(t *testing.T) {
	n := View(Initial(), translator(t))
	require.Equal(t, ChangeOldPin{Value: "12345"}, n.FindKind(ui.KindInput)[0].OnChange("12345"))
	require.Equal(t, ChangeNewPin{Value: ""}, n.FindKind(ui.KindRepeatedInput)[0].OnChange(""))
	require.Equal(t, ChangePin{}, n.Find(ChangeButton).Command)
}

func TestBlockedShowsDuration(t *testing.T) {
	n := View(State{Status: KeyshareBlocked{Timeout: 90 * time.Second}}, translator(t))
	require.Contains(t, n.Texts(), "Too many incorrect attempts. Your PIN is blocked for 90 seconds.")
}

func TestFailedShowsErrorVerbatim(t *testing.T) {
	err := testError()
	n := View(State{Status: Failed{Err: err}}, translator(t))
	cards := n.FindKind(ui.KindErrorCard)
	require.Len(t, cards, 1)
	require.Same(t, err, cards[0].Error)
	require.Contains(t, cards[0].Texts(), "keyshare server unreachable")
	require.Contains(t, cards[0].Texts(), "connection refused")
}

func TestUnknownStatusRendersEmptyContent(t *testing.T) {
	var n *ui.Node
	require.NotPanics(t, func() {
		n = View(State{Status: ParseStatus("futureStatus", 0, 0, nil)}, translator(t))
	})
	require.Len(t, n.Children, 1)
	require.Equal(t, ui.KindContent, n.Children[0].Kind)
	require.Empty(t, n.Children[0].Children)
}

func TestReducerTransitions(t *testing.T) {
	state := Initial()

	// Outcomes are only accepted while changing
	require.Equal(t, state, Reduce(state, Succeeded{}))
	require.Equal(t, state, Reduce(state, Incorrect{RemainingAttempts: 1}))

	state = Reduce(state, ValidationForced{})
	require.True(t, state.ValidationForced)
	state = Reduce(state, Requested{})
	require.Equal(t, Changing{}, state.Status)
	require.False(t, state.ValidationForced)

	// No second request while one is in flight, and no input
	require.Equal(t, state, Reduce(state, Requested{}))
	require.Equal(t, state, Reduce(state, OldPinChanged{Pin: "11111"}))

	blocked := Reduce(state, Blocked{Timeout: time.Minute})
	require.Equal(t, KeyshareBlocked{Timeout: time.Minute}, blocked.Status)
	require.Equal(t, blocked, Reduce(blocked, Requested{}))

	failed := Reduce(state, Failure{Err: testError()})
	require.Equal(t, NameError, failed.Status.Name())

	success := Reduce(state, Succeeded{})
	require.Equal(t, Success{}, success.Status)
	require.Empty(t, success.NewPin)

	require.Equal(t, Initial(), Reduce(success, Reset{}))
	require.Equal(t, Initial(), Reduce(State{}, Begin{}))
}

type otherEvent struct{}

func (otherEvent) EventName() string { return "other" }

func TestReducerIgnoresOtherEvents(t *testing.T) {
	state := State{Status: PinError{RemainingAttempts: 1}, NewPin: "24680"}
	require.Equal(t, state, Reduce(state, otherEvent{}))
}

func TestParseStatus(t *testing.T) {
	for _, status := range allStatuses {
		var attempts int
		var timeout time.Duration
		var err *irmamobile.SessionError
		switch s := status.(type) {
		case PinError:
			attempts = s.RemainingAttempts
		case KeyshareBlocked:
			timeout = s.Timeout
		case Failed:
			err = s.Err
		}
		require.Equal(t, status, ParseStatus(status.Name(), attempts, timeout, err))
	}

	// Stale payload of other statuses is dropped
	require.Equal(t, Success{}, ParseStatus(NameSuccess, 3, time.Second, testError()))
	require.Equal(t, Unknown{Status: "futureStatus"}, ParseStatus("futureStatus", 0, 0, nil))
}

func TestStateJSON(t *testing.T) {
	state := State{Status: KeyshareBlocked{Timeout: 2 * time.Minute}, OldPin: "12345", NewPin: "54321"}
	bts, err := json.Marshal(state)
	require.NoError(t, err)
	require.JSONEq(t, `{"status":"keyshareBlocked","timeout":120,"validationForced":false}`, string(bts))

	var decoded State
	require.NoError(t, json.Unmarshal(bts, &decoded))
	require.Equal(t, State{Status: KeyshareBlocked{Timeout: 2 * time.Minute}}, decoded)
}

func TestRegisterCommands(t *testing.T) {
	r := ui.NewRegistry()
	RegisterCommands(r)
	cmd, err := r.Decode("changePin.changeOldPin", map[string]interface{}{"value": "12345"})
	require.NoError(t, err)
	require.Equal(t, ChangeOldPin{Value: "12345"}, cmd)

	cmd, err = r.Decode("changePin.changePin", nil)
	require.NoError(t, err)
	require.Equal(t, ChangePin{}, cmd)
}
