package controller

import (
	"net/smtp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-errors/errors"
	"github.com/stretchr/testify/require"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/changepin"
	"github.com/privacybydesign/irmamobile/session"
	"github.com/privacybydesign/irmamobile/store"
)

type pinChange struct {
	manager        irmamobile.SchemeManagerIdentifier
	oldPin, newPin string
}

type permission struct {
	id         int
	proceed    bool
	disclosure []irmamobile.AttributeTypeIdentifier
}

type pinResponse struct {
	id      int
	proceed bool
	pin     string
}

// fakeClient records the calls of the controller.
type fakeClient struct {
	mu          sync.Mutex
	pinChanges  []pinChange
	permissions []permission
	pins        []pinResponse
	dismissed   []int
}

func (c *fakeClient) KeyshareChangePin(manager irmamobile.SchemeManagerIdentifier, oldPin, newPin string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinChanges = append(c.pinChanges, pinChange{manager, oldPin, newPin})
}

func (c *fakeClient) RespondPermission(id int, proceed bool, disclosure []irmamobile.AttributeTypeIdentifier) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.permissions = append(c.permissions, permission{id, proceed, disclosure})
}

func (c *fakeClient) RespondPin(id int, proceed bool, pin string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pins = append(c.pins, pinResponse{id, proceed, pin})
}

func (c *fakeClient) DismissSession(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.dismissed = append(c.dismissed, id)
}

type fakeMailer struct {
	reports []ErrorReport
	err     error
}

func (m *fakeMailer) SendErrorReport(report ErrorReport) error {
	m.reports = append(m.reports, report)
	return m.err
}

func newController(t *testing.T) (*Controller, *fakeClient, *RouteStack, *fakeMailer) {
	s, err := store.New(nil)
	require.NoError(t, err)
	client := &fakeClient{}
	nav := NewRouteStack(Route{Name: RouteHome})
	mailer := &fakeMailer{}
	return New(s, client, nav, mailer, Options{}), client, nav, mailer
}

func TestChangePinValidation(t *testing.T) {
	c, client, nav, _ := newController(t)
	c.BeginChangePin()
	require.Equal(t, RouteChangePin, nav.Current().Name)

	c.Dispatch(changepin.ChangeOldPin{Value: "123"})
	c.Dispatch(changepin.ChangeNewPin{Value: "54321"})
	c.Dispatch(changepin.ChangePin{})

	state := c.Store().State().ChangePin
	require.True(t, state.ValidationForced)
	require.Equal(t, changepin.Started{}, state.Status)
	require.Empty(t, client.pinChanges)

	c.Dispatch(changepin.ChangeOldPin{Value: "12345"})
	c.Dispatch(changepin.ChangeNewPin{Value: ""})
	c.Dispatch(changepin.ChangePin{})
	require.Empty(t, client.pinChanges)
}

func TestChangePinFlow(t *testing.T) {
	c, client, nav, _ := newController(t)
	c.BeginChangePin()

	c.Dispatch(changepin.ChangeOldPin{Value: "12345"})
	c.Dispatch(changepin.ChangeNewPin{Value: "54321"})
	c.Dispatch(changepin.ChangePin{})

	require.Equal(t, changepin.Changing{}, c.Store().State().ChangePin.Status)
	require.Equal(t, []pinChange{{irmamobile.NewSchemeManagerIdentifier("pbdf"), "12345", "54321"}}, client.pinChanges)

	// A second press while changing does nothing
	c.Dispatch(changepin.ChangePin{})
	require.Len(t, client.pinChanges, 1)

	c.ChangePinIncorrect(irmamobile.NewSchemeManagerIdentifier("pbdf"), 2)
	state := c.Store().State().ChangePin
	require.Equal(t, changepin.PinError{RemainingAttempts: 2}, state.Status)
	require.Empty(t, state.OldPin)

	// The old PIN must be entered again
	c.Dispatch(changepin.ChangePin{})
	require.Len(t, client.pinChanges, 1)
	require.True(t, c.Store().State().ChangePin.ValidationForced)

	c.Dispatch(changepin.ChangeOldPin{Value: "11111"})
	c.Dispatch(changepin.ChangePin{})
	require.Len(t, client.pinChanges, 2)

	c.ChangePinBlocked(irmamobile.NewSchemeManagerIdentifier("pbdf"), 60)
	require.Equal(t, changepin.KeyshareBlocked{Timeout: time.Minute}, c.Store().State().ChangePin.Status)

	c.Dispatch(changepin.NavigateBack{})
	require.Equal(t, changepin.Initial(), c.Store().State().ChangePin)
	require.Equal(t, RouteHome, nav.Current().Name)
}

func TestChangePinUsesEnrolledManager(t *testing.T) {
	c, client, _, _ := newController(t)
	c.EnrollmentSuccess(irmamobile.NewSchemeManagerIdentifier("irma-demo"))
	c.BeginChangePin()
	c.Dispatch(changepin.ChangeOldPin{Value: "12345"})
	c.Dispatch(changepin.ChangeNewPin{Value: "54321"})
	c.Dispatch(changepin.ChangePin{})
	require.Equal(t, "irma-demo", client.pinChanges[0].manager.String())
}

func TestChangePinFailureWrapsError(t *testing.T) {
	c, _, _, _ := newController(t)
	c.BeginChangePin()
	c.Dispatch(changepin.ChangeOldPin{Value: "12345"})
	c.Dispatch(changepin.ChangeNewPin{Value: "54321"})
	c.Dispatch(changepin.ChangePin{})

	c.ChangePinFailure(irmamobile.NewSchemeManagerIdentifier("pbdf"), errors.New("server unreachable"))
	failed, ok := c.Store().State().ChangePin.Status.(changepin.Failed)
	require.True(t, ok)
	require.Equal(t, irmamobile.ErrorChangePin, failed.Err.ErrorType)
	require.Equal(t, "server unreachable", failed.Err.WrappedError())
	require.NotEmpty(t, failed.Err.Stack())
}

func TestSessionErrorKeepsSessionErrors(t *testing.T) {
	serr := &irmamobile.SessionError{ErrorType: irmamobile.ErrorRejected}
	require.Same(t, serr, sessionError(errors.WrapPrefix(serr, "wrapped", 0), irmamobile.ErrorKeyshare))
}

func startPermissionSession(c *Controller) {
	c.SessionStarted(1, irmamobile.ActionSigning, nil)
	c.StatusUpdate(1, session.StatusConnected)
	c.RequestPermission(1, irmamobile.NewTranslatedString("Demo"), "Sign this", []session.Disjunction{{
		Candidates: []session.Candidate{
			{Type: irmamobile.NewAttributeTypeIdentifier("irma-demo.RU.studentCard.studentID")},
			{Type: irmamobile.NewAttributeTypeIdentifier("irma-demo.RU.studentCard.university")},
		},
	}})
}

func TestSessionPermission(t *testing.T) {
	c, client, nav, _ := newController(t)
	startPermissionSession(c)
	require.Equal(t, Route{Name: RouteSession, SessionID: 1}, nav.Current())

	c.Dispatch(session.MakeDisclosureChoice{SessionID: 1, Disjunction: 0, Candidate: 1})
	c.Dispatch(session.NextStep{SessionID: 1, Proceed: true})

	require.Len(t, client.permissions, 1)
	require.True(t, client.permissions[0].proceed)
	require.Equal(t, []irmamobile.AttributeTypeIdentifier{
		irmamobile.NewAttributeTypeIdentifier("irma-demo.RU.studentCard.university"),
	}, client.permissions[0].disclosure)

	c.Dispatch(session.NextStep{SessionID: 1, Proceed: false})
	require.False(t, client.permissions[1].proceed)
	require.Nil(t, client.permissions[1].disclosure)
}

func TestSessionPinEntry(t *testing.T) {
	c, client, _, _ := newController(t)
	startPermissionSession(c)
	c.RequestPin(1, -1)

	var notified int
	cancel := c.Subscribe(func(store.State) { notified++ })
	defer cancel()

	c.Dispatch(session.PinChange{SessionID: 1, Pin: "12"})
	c.Dispatch(session.NextStep{SessionID: 1, Proceed: true})
	props, ok := c.SessionProps(1)
	require.True(t, ok)
	require.True(t, props.ValidationForced)
	require.Empty(t, client.pins)
	require.Equal(t, 2, notified)

	c.Dispatch(session.PinChange{SessionID: 1, Pin: "12345"})
	c.Dispatch(session.NextStep{SessionID: 1, Proceed: true})
	require.Equal(t, []pinResponse{{1, true, "12345"}}, client.pins)
	require.Equal(t, session.StatusCommunicating, c.Store().State().Sessions[1].Status)

	props, _ = c.SessionProps(1)
	require.False(t, props.ValidationForced)

	c.RequestPin(1, 2)
	c.Dispatch(session.NextStep{SessionID: 1, Proceed: false})
	require.Equal(t, pinResponse{1, false, ""}, client.pins[1])
}

func TestLeaveSession(t *testing.T) {
	c, client, nav, _ := newController(t)
	startPermissionSession(c)
	c.Dispatch(session.NavigateBack{SessionID: 1})
	require.Equal(t, []int{1}, client.dismissed)
	require.Empty(t, c.Store().State().Sessions)
	require.Equal(t, RouteHome, nav.Current().Name)

	// Finished sessions are not dismissed at the client
	c.SessionStarted(2, irmamobile.ActionSigning, nil)
	c.Success(2)
	c.Dispatch(session.NavigateBack{SessionID: 2})
	require.Equal(t, []int{1}, client.dismissed)

	_, ok := c.SessionProps(2)
	require.False(t, ok)
}

func TestSendMail(t *testing.T) {
	c, _, _, mailer := newController(t)
	c.SessionStarted(3, irmamobile.ActionDisclosing, nil)

	c.Dispatch(session.SendMail{SessionID: 3})
	require.Empty(t, mailer.reports)

	serr := &irmamobile.SessionError{ErrorType: irmamobile.ErrorTransport, Info: "timeout"}
	c.Failure(3, serr)
	c.Dispatch(session.SendMail{SessionID: 3})
	require.Equal(t, []ErrorReport{{SessionID: 3, Action: irmamobile.ActionDisclosing, Error: serr}}, mailer.reports)

	mailer.err = errors.New("smtp down")
	require.NotPanics(t, func() { c.Dispatch(session.SendMail{SessionID: 3}) })
}

func TestNavigateToEnrollment(t *testing.T) {
	c, _, nav, _ := newController(t)
	c.SessionStarted(4, irmamobile.ActionSigning, nil)
	c.KeyshareEnrollmentMissing(4, irmamobile.NewSchemeManagerIdentifier("pbdf"))
	c.Dispatch(session.NavigateToEnrollment{SessionID: 4, Manager: "pbdf"})
	require.Equal(t, Route{Name: RouteEnrollment, SessionID: 4, Manager: "pbdf"}, nav.Current())
}

type unknownCommand struct{}

func (unknownCommand) CommandName() string { return "unknown" }

func TestUnknownCommand(t *testing.T) {
	c, _, _, _ := newController(t)
	before := c.Store().State()
	require.NotPanics(t, func() {
		c.Dispatch(unknownCommand{})
		c.Dispatch(nil)
		c.Dispatch(session.NextStep{SessionID: 42, Proceed: true})
	})
	require.Equal(t, before, c.Store().State())
}

func TestRouteStack(t *testing.T) {
	rs := NewRouteStack(Route{Name: RouteHome})
	rs.Back()
	require.Equal(t, 1, rs.Len())
	rs.Navigate(Route{Name: RouteChangePin})
	require.Equal(t, RouteChangePin, rs.Current().Name)
	rs.Back()
	require.Equal(t, RouteHome, rs.Current().Name)
}

func TestSMTPMailer(t *testing.T) {
	_, err := NewSMTPMailer(MailConfiguration{EmailServer: "localhost:25", EmailFrom: "not an address", ReportTo: "dev@example.com"})
	require.Error(t, err)

	m, err := NewSMTPMailer(MailConfiguration{
		EmailServer: "localhost:25",
		EmailFrom:   "Wallet <wallet@example.com>",
		ReportTo:    "dev@example.com",
	})
	require.NoError(t, err)

	var sent struct {
		addr string
		from string
		to   []string
		msg  string
	}
	m.sendMail = func(addr string, _ smtp.Auth, from string, to []string, msg []byte) error {
		sent.addr, sent.from, sent.to, sent.msg = addr, from, to, string(msg)
		return nil
	}

	err = m.SendErrorReport(ErrorReport{
		SessionID: 5,
		Action:    irmamobile.ActionSigning,
		Error: &irmamobile.SessionError{
			ErrorType:   irmamobile.ErrorApi,
			Err:         errors.New("bad request"),
			RemoteError: &irmamobile.RemoteError{Status: 400, ErrorName: "MALFORMED_INPUT"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "localhost:25", sent.addr)
	require.Equal(t, "wallet@example.com", sent.from)
	require.Equal(t, []string{"dev@example.com"}, sent.to)
	require.True(t, strings.HasPrefix(sent.msg, "To: dev@example.com\r\n"))
	require.Contains(t, sent.msg, "Session: 5")
	require.Contains(t, sent.msg, "Type:    api")
	require.Contains(t, sent.msg, "Error:   bad request")
	require.Contains(t, sent.msg, "400 MALFORMED_INPUT")
}
