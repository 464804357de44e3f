package session

import (
	"strings"
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

func sessionWithStatus(status Status) *Session {
	return &Session{
		ID:                7,
		Action:            irmamobile.ActionSigning,
		Status:            status,
		ServerName:        irmamobile.NewTranslatedString("Demo requestor"),
		Message:           "Please confirm your age",
		Disjunctions:      testDisjunctions(),
		Choice:            []int{1, 0},
		RemainingAttempts: -1,
		Manager:           irmamobile.NewSchemeManagerIdentifier("irma-demo"),
		BlockedDuration:   30 * time.Second,
		Error: &irmamobile.SessionError{
			ErrorType: irmamobile.ErrorTransport,
			Err:       errors.New("timeout"),
		},
	}
}

var allStatuses = []Status{
	StatusInitialized, StatusCommunicating, StatusConnected, StatusRequestPermission,
	StatusRequestPin, StatusUnsatisfiableRequest, StatusKeyshareEnrollmentMissing,
	StatusKeyshareBlocked, StatusSuccess, StatusCancelled, StatusError,
}

func render(t *testing.T, s *Session) *ui.Node {
	return View(Props{Session: s}, translator(t))
}

func TestCompositionOrder(t *testing.T) {
	s := sessionWithStatus(StatusRequestPermission)
	s.Missing = []MissingDisjunction{{Attributes: []irmamobile.AttributeTypeIdentifier{
		irmamobile.NewAttributeTypeIdentifier("irma-demo.MijnOverheid.address.city"),
	}}}
	n := render(t, s)

	require.Equal(t, TestID, n.TestID)
	require.Len(t, n.Children, 3)
	require.Equal(t, ui.KindHeader, n.Children[0].Kind)
	require.Equal(t, NavigateBack{SessionID: 7}, n.Children[0].Command)
	require.Equal(t, ui.KindContent, n.Children[1].Kind)
	require.Equal(t, FooterID, n.Children[2].TestID)

	var order []string
	for _, child := range n.Children[1].Children {
		order = append(order, child.TestID)
	}
	require.Equal(t, []string{StatusCardID, MissingDisclosuresID, DisclosureChoicesID}, order)
}

func TestHeadingOnlyForSomeStatuses(t *testing.T) {
	expected := map[Status]string{
		StatusSuccess:           "Message signed",
		StatusCancelled:         "Signing cancelled",
		StatusRequestPermission: "Signature request",
	}
	for _, status := range allStatuses {
		heading := render(t, sessionWithStatus(status)).Find(HeadingID)
		if text, ok := expected[status]; ok {
			require.NotNil(t, heading, status)
			require.Equal(t, text, heading.Text)
		} else {
			require.Nil(t, heading, status)
		}
	}
}

func TestRequestPermissionExplanationOrder(t *testing.T) {
	explanation := render(t, sessionWithStatus(StatusRequestPermission)).Find(ExplanationID)
	require.NotNil(t, explanation)

	texts := explanation.Texts()
	require.Equal(t, []string{
		"Demo requestor asks you to sign the following message:",
		"\nPlease confirm your age",
		"\nChoose the attributes you want to sign with below.",
	}, texts)
	require.True(t, explanation.Find(MessageID).Bold)

	joined := strings.Join(texts, "")
	before := strings.Index(joined, "sign the following message:")
	message := strings.Index(joined, "Please confirm your age")
	after := strings.Index(joined, "Choose the attributes")
	require.True(t, before < message && message < after)
}

func TestSuccessExplanationUsesSuccessKeys(t *testing.T) {
	explanation := render(t, sessionWithStatus(StatusSuccess)).Find(ExplanationID)
	require.Equal(t, []string{
		"You have signed the following message:",
		"\nPlease confirm your age",
		"\nThe signature contains the attributes shown below.",
	}, explanation.Texts())
}

func TestExplanationWithoutMessage(t *testing.T) {
	s := sessionWithStatus(StatusRequestPermission)
	s.Message = ""
	explanation := render(t, s).Find(ExplanationID)
	require.Nil(t, explanation.Find(MessageID))
	require.Len(t, explanation.Texts(), 2)
}

func TestUnsatisfiableExplanation(t *testing.T) {
	explanation := render(t, sessionWithStatus(StatusUnsatisfiableRequest)).Find(ExplanationID)
	require.Equal(t, []string{
		"You cannot sign this message, because you do not have the requested attributes.",
	}, explanation.Texts())
}

func TestNoExplanationForOtherStatuses(t *testing.T) {
	for _, status := range allStatuses {
		switch status {
		case StatusRequestPermission, StatusSuccess, StatusUnsatisfiableRequest:
			continue
		}
		n := render(t, sessionWithStatus(status))
		require.Nil(t, n.Find(ExplanationID), status)
		require.NotNil(t, n.Find(StatusCardID), status)
	}
}

func TestDisclosureChoicesVisibility(t *testing.T) {
	for _, status := range allStatuses {
		choices := render(t, sessionWithStatus(status)).Find(DisclosureChoicesID)
		visible := status == StatusRequestPermission || status == StatusSuccess
		require.Equal(t, visible, choices != nil, status)
	}
}

func TestRequestPermissionShowsAllCandidates(t *testing.T) {
	choices := render(t, sessionWithStatus(StatusRequestPermission)).Find(DisclosureChoicesID)
	options := choices.FindKind(ui.KindOption)
	require.Len(t, options, 3)
	require.False(t, options[0].BoolProp(ui.PropSelected))
	require.True(t, options[1].BoolProp(ui.PropSelected))
	require.Equal(t, MakeDisclosureChoice{SessionID: 7, Disjunction: 0, Candidate: 0}, options[0].Command)
}

func TestSuccessHidesUnchosenCandidates(t *testing.T) {
	choices := render(t, sessionWithStatus(StatusSuccess)).Find(DisclosureChoicesID)
	options := choices.FindKind(ui.KindOption)
	require.Len(t, options, 2)
	for _, option := range options {
		require.True(t, option.BoolProp(ui.PropSelected))
		require.Nil(t, option.Command)
	}
	require.Contains(t, choices.Texts(), "Student card")
	require.NotContains(t, choices.Texts(), "Age limits")
	require.Contains(t, choices.Texts(), "Disclosed attributes")
}

func TestSubviewsGateThemselves(t *testing.T) {
	for _, status := range allStatuses {
		n := render(t, sessionWithStatus(status))
		require.Equal(t, status == StatusError, n.Find(ErrorID) != nil, status)
		require.Equal(t, status == StatusRequestPin, n.Find(PinEntryID) != nil, status)
		require.Nil(t, n.Find(MissingDisclosuresID), status)
	}
}

func TestErrorViewShowsError(t *testing.T) {
	errorView := render(t, sessionWithStatus(StatusError)).Find(ErrorID)
	cards := errorView.FindKind(ui.KindErrorCard)
	require.Len(t, cards, 1)
	require.Contains(t, cards[0].Texts(), "transport")
	require.Contains(t, cards[0].Texts(), "timeout")
}

func TestPinEntry(t *testing.T) {
	s := sessionWithStatus(StatusRequestPin)
	n := View(Props{Session: s, ValidationForced: true}, translator(t))
	require.False(t, n.FindKind(ui.KindContent)[0].BoolProp(ui.PropAutomaticScroll))

	entry := n.Find(PinEntryID)
	require.Contains(t, entry.Texts(), "Enter your IRMA PIN.")
	input := entry.FindKind(ui.KindInput)[0]
	require.True(t, input.BoolProp(ui.PropValidationForced))
	require.Equal(t, "attempt--1", input.Key)
	require.Equal(t, PinChange{SessionID: 7, Pin: "12345"}, input.OnChange("12345"))

	s.RemainingAttempts = 2
	entry = render(t, s).Find(PinEntryID)
	require.Contains(t, entry.Texts(), "Incorrect PIN. You have 2 attempts left.")
	require.Equal(t, "attempt-2", entry.FindKind(ui.KindInput)[0].Key)
	require.False(t, entry.FindKind(ui.KindInput)[0].BoolProp(ui.PropValidationForced))
}

func TestMissingDisclosuresUsesConfiguration(t *testing.T) {
	city := irmamobile.NewAttributeTypeIdentifier("irma-demo.MijnOverheid.address.city")
	street := irmamobile.NewAttributeTypeIdentifier("irma-demo.MijnOverheid.address.street")
	conf := &irmamobile.Configuration{AttributeTypes: map[irmamobile.AttributeTypeIdentifier]*irmamobile.AttributeType{
		city: {ID: "city", CredentialTypeID: "irma-demo.MijnOverheid.address", Name: irmamobile.NewTranslatedString("City")},
	}}
	s := sessionWithStatus(StatusUnsatisfiableRequest)
	s.Missing = []MissingDisjunction{{Label: "Address", Attributes: []irmamobile.AttributeTypeIdentifier{city, street}}}

	missing := View(Props{Session: s, Configuration: conf}, translator(t)).Find(MissingDisclosuresID)
	require.NotNil(t, missing)
	require.Contains(t, missing.Texts(), "Address")
	require.Contains(t, missing.Texts(), "City or street")
}

func TestStatusCardDetails(t *testing.T) {
	card := render(t, sessionWithStatus(StatusKeyshareEnrollmentMissing)).Find(StatusCardID)
	enroll := card.Find(EnrollButtonID)
	require.NotNil(t, enroll)
	require.Equal(t, NavigateToEnrollment{SessionID: 7, Manager: "irma-demo"}, enroll.Command)

	card = render(t, sessionWithStatus(StatusKeyshareBlocked)).Find(StatusCardID)
	require.Contains(t, card.Texts(), "Your PIN is blocked for 30 seconds because of too many incorrect attempts.")

	card = render(t, sessionWithStatus(StatusError)).Find(StatusCardID)
	require.Equal(t, []string{"The session failed."}, card.Texts())
	require.Equal(t, ui.StyleError, card.Children[0].Style)
}

func TestFooterActions(t *testing.T) {
	expected := map[Status][]string{
		StatusRequestPermission:         {NoButtonID, YesButtonID},
		StatusRequestPin:                {CancelButtonID, OkButtonID},
		StatusError:                     {DismissButtonID, SendMailButtonID},
		StatusSuccess:                   {DismissButtonID},
		StatusCancelled:                 {DismissButtonID},
		StatusUnsatisfiableRequest:      {DismissButtonID},
		StatusKeyshareBlocked:           {DismissButtonID},
		StatusKeyshareEnrollmentMissing: {DismissButtonID},
	}
	for _, status := range append(allStatuses, "futureStatus") {
		footer := render(t, sessionWithStatus(status)).Find(FooterID)
		require.NotNil(t, footer, status)
		var ids []string
		for _, button := range footer.FindKind(ui.KindButton) {
			ids = append(ids, button.TestID)
		}
		require.Equal(t, expected[status], ids, status)
	}

	footer := render(t, sessionWithStatus(StatusRequestPermission)).Find(FooterID)
	require.Equal(t, NextStep{SessionID: 7, Proceed: true}, footer.Find(YesButtonID).Command)
	require.Equal(t, NextStep{SessionID: 7, Proceed: false}, footer.Find(NoButtonID).Command)
}

func TestUnknownStatusFallback(t *testing.T) {
	s := sessionWithStatus("futureStatus")
	var n *ui.Node
	require.NotPanics(t, func() { n = render(t, s) })

	require.Nil(t, n.Find(HeadingID))
	require.Nil(t, n.Find(ExplanationID))
	require.Nil(t, n.Find(DisclosureChoicesID))
	require.NotNil(t, n.Find(StatusCardID))
	require.Empty(t, n.Find(StatusCardID).Children)
	require.True(t, n.FindKind(ui.KindContent)[0].BoolProp(ui.PropAutomaticScroll))
}

func TestNilSession(t *testing.T) {
	require.NotPanics(t, func() {
		n := View(Props{}, translator(t))
		require.Empty(t, n.Children)
	})
}
