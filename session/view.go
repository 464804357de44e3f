package session

import (
	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/i18n"
	"github.com/privacybydesign/irmamobile/ui"
)

// Test IDs of the signing session screen
const (
	TestID               = "SigningSession"
	HeadingID            = "heading"
	ExplanationID        = "explanation"
	MessageID            = "message"
	StatusCardID         = "statusCard"
	ErrorID              = "sessionError"
	PinEntryID           = "pinEntry"
	MissingDisclosuresID = "missingDisclosures"
	DisclosureChoicesID  = "disclosureChoices"
	FooterID             = "sessionFooter"
	EnrollButtonID       = "enrollButton"
	NoButtonID           = "noButton"
	YesButtonID          = "yesButton"
	CancelButtonID       = "cancelButton"
	OkButtonID           = "okButton"
	DismissButtonID      = "dismissButton"
	SendMailButtonID     = "sendMailButton"
)

// Props are the inputs of the signing session screen.
type Props struct {
	Session *Session
	// ValidationForced makes the PIN input show its validation error immediately.
	ValidationForced bool
	// Configuration is used for the names of missing attributes; it may be nil.
	Configuration *irmamobile.Configuration
}

// View renders the signing session screen. t is the root translator.
func View(props Props, t *i18n.Translator) *ui.Node {
	s := props.Session
	if s == nil {
		return ui.Container("")
	}
	st := t.Namespaced("Session.SigningSession")

	return ui.Container(TestID,
		Header(s, st.T(".headerTitle")),
		ui.Content(
			StatusCard(s, heading(s, st), explanation(s, st), t),
			ErrorView(s, t),
			PinEntry(s, props.ValidationForced, t),
			MissingDisclosures(s, props.Configuration, t),
			disclosures(s, t),
		).WithProp(ui.PropAutomaticScroll, s.Status != StatusRequestPin),
		Footer(s, t),
	)
}

func heading(s *Session, t *i18n.Translator) *ui.Node {
	switch s.Status {
	case StatusSuccess, StatusCancelled, StatusRequestPermission:
		return ui.Text(t.T("." + string(s.Status) + "Heading")).WithTestID(HeadingID)
	default:
		return nil
	}
}

func explanation(s *Session, t *i18n.Translator) *ui.Node {
	switch s.Status {
	case StatusUnsatisfiableRequest:
		return ui.Text(t.T(".unsatisfiableRequestExplanation")).WithTestID(ExplanationID)

	case StatusRequestPermission, StatusSuccess:
		t = t.Namespaced("." + string(s.Status))
		params := i18n.Params{"serverName": s.ServerName.Translate(t.Language())}
		var message *ui.Node
		if s.Message != "" {
			message = ui.Text("\n" + s.Message).WithBold().WithTestID(MessageID)
		}
		return ui.View(
			ui.Text(t.T(".beforeExplanation", params)),
			message,
			ui.Text("\n"+t.T(".afterExplanation", params)),
		).WithTestID(ExplanationID)

	default:
		return nil
	}
}

func disclosures(s *Session, t *i18n.Translator) *ui.Node {
	switch s.Status {
	case StatusRequestPermission:
		return DisclosureChoices(s, false, t)
	case StatusSuccess:
		return DisclosureChoices(s, true, t)
	default:
		return nil
	}
}
