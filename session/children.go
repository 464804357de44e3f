package session

import (
	"fmt"
	"strings"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/i18n"
	"github.com/privacybydesign/irmamobile/ui"
)

// Header is the title bar of the session screen, with a back action.
func Header(s *Session, title string) *ui.Node {
	return ui.Header(title, NavigateBack{SessionID: s.ID})
}

// StatusCard shows heading and explanation, which may be nil, followed by a description of
// the protocol progress or of the keyshare problem that ended the session.
func StatusCard(s *Session, heading, explanation *ui.Node, t *i18n.Translator) *ui.Node {
	t = t.Namespaced("Session.StatusCard")

	var details []*ui.Node
	switch s.Status {
	case StatusInitialized, StatusCommunicating, StatusConnected, StatusRequestPin:
		details = append(details, ui.Text(t.T("."+string(s.Status))).WithStyle(ui.StyleFaint))
	case StatusKeyshareBlocked:
		seconds := int64(s.BlockedDuration.Seconds())
		details = append(details, ui.IconCard(ui.IconLock,
			ui.Text(t.T(".keyshareBlocked", i18n.Params{"duration": seconds})),
		))
	case StatusKeyshareEnrollmentMissing:
		manager := s.Manager.String()
		details = append(details,
			ui.Text(t.T(".keyshareEnrollmentMissing", i18n.Params{"manager": manager})),
			ui.Button(t.T(".enroll"), NavigateToEnrollment{SessionID: s.ID, Manager: manager}).
				WithTestID(EnrollButtonID),
		)
	case StatusError:
		details = append(details, ui.Text(t.T(".error")).WithStyle(ui.StyleError))
	}

	return ui.StatusCard(heading, explanation, details...).WithTestID(StatusCardID)
}

// ErrorView shows the error of a failed session.
func ErrorView(s *Session, t *i18n.Translator) *ui.Node {
	if s.Status != StatusError {
		return nil
	}
	return ui.Card(
		ui.CardItem(ui.Text(t.T("Session.Error.heading")).WithBold().WithStyle(ui.StyleError)),
		ui.ErrorCard(s.Error, t),
	).WithTestID(ErrorID)
}

// PinEntry asks for the keyshare PIN while the session requests it.
func PinEntry(s *Session, validationForced bool, t *i18n.Translator) *ui.Node {
	if s.Status != StatusRequestPin {
		return nil
	}
	t = t.Namespaced("Session.PinEntry")

	var prompt *ui.Node
	if s.RemainingAttempts < 0 {
		prompt = ui.Text(t.T(".firstAttempt"))
	} else {
		attempts := t.T(".attempts", i18n.Params{"count": s.RemainingAttempts})
		prompt = ui.Text(t.T(".incorrect", i18n.Params{"attempts": attempts})).WithStyle(ui.StyleError)
	}

	id := s.ID
	input := ui.Input(ui.InputTypePin, t.T(".label"), func(value string) ui.Command {
		return PinChange{SessionID: id, Pin: value}
	}).
		WithKey(fmt.Sprintf("attempt-%d", s.RemainingAttempts)).
		WithProp(ui.PropValidationForced, validationForced).
		WithProp(ui.PropShowInvalidMessage, true)

	return ui.Card(ui.CardItem(prompt), ui.Form(input)).WithTestID(PinEntryID)
}

// MissingDisclosures lists the requested attributes the user does not have.
func MissingDisclosures(s *Session, conf *irmamobile.Configuration, t *i18n.Translator) *ui.Node {
	if len(s.Missing) == 0 {
		return nil
	}
	t = t.Namespaced("Session.MissingDisclosures")
	lang := t.Language()

	items := []*ui.Node{
		ui.CardItem(ui.Text(t.T(".heading")).WithBold()),
		ui.CardItem(ui.Text(t.T(".explanation"))),
	}
	for _, missing := range s.Missing {
		names := make([]string, 0, len(missing.Attributes))
		for _, attr := range missing.Attributes {
			names = append(names, conf.AttributeName(attr, lang))
		}
		item := ui.CardItem()
		if missing.Label != "" {
			item.Children = append(item.Children, ui.Text(missing.Label).WithBold())
		}
		item.Children = append(item.Children, ui.Text(strings.Join(names, " "+t.T(".or")+" ")))
		items = append(items, item)
	}
	return ui.Card(items...).WithTestID(MissingDisclosuresID)
}

// DisclosureChoices lists the candidates of every disjunction. With hideUnchosen only the
// chosen candidates are shown, and they cannot be changed.
func DisclosureChoices(s *Session, hideUnchosen bool, t *i18n.Translator) *ui.Node {
	t = t.Namespaced("Session.DisclosureChoices")
	lang := t.Language()

	title := t.T(".heading")
	if hideUnchosen {
		title = t.T(".disclosed")
	}
	items := []*ui.Node{ui.CardItem(ui.Text(title).WithBold())}

	for i, disjunction := range s.Disjunctions {
		chosen := s.choice(i)
		options := ui.List()
		for j, candidate := range disjunction.Candidates {
			selected := j == chosen
			if hideUnchosen && !selected {
				continue
			}
			var cmd ui.Command
			if !hideUnchosen {
				cmd = MakeDisclosureChoice{SessionID: s.ID, Disjunction: i, Candidate: j}
			}
			options.Children = append(options.Children, ui.Option(
				candidate.Name.Translate(lang), selected, cmd,
				ui.Text(candidate.Value.Translate(lang)),
				ui.Text(candidate.CredentialName.Translate(lang)).WithStyle(ui.StyleFaint),
			).WithKey(fmt.Sprintf("%d-%d", i, j)))
		}

		item := ui.CardItem()
		if disjunction.Label != "" {
			item.Children = append(item.Children, ui.Text(disjunction.Label).WithBold())
		}
		item.Children = append(item.Children, options)
		items = append(items, item)
	}

	return ui.Card(items...).WithTestID(DisclosureChoicesID)
}

// Footer shows the actions available in the current status. It is always present, but has no
// actions while the session is in progress or in an unknown status.
func Footer(s *Session, t *i18n.Translator) *ui.Node {
	t = t.Namespaced("Session.Footer")
	id := s.ID
	button := func(key, testID string, cmd ui.Command) *ui.Node {
		return ui.Button(t.T(key), cmd).WithTestID(testID)
	}
	dismiss := button(".dismiss", DismissButtonID, NavigateBack{SessionID: id}).WithStyle(ui.StylePrimary)

	var actions []*ui.Node
	switch s.Status {
	case StatusRequestPermission:
		actions = []*ui.Node{
			button(".no", NoButtonID, NextStep{SessionID: id, Proceed: false}),
			button(".yes", YesButtonID, NextStep{SessionID: id, Proceed: true}).WithStyle(ui.StylePrimary),
		}
	case StatusRequestPin:
		actions = []*ui.Node{
			button(".cancel", CancelButtonID, NextStep{SessionID: id, Proceed: false}),
			button(".ok", OkButtonID, NextStep{SessionID: id, Proceed: true}).WithStyle(ui.StylePrimary),
		}
	case StatusError:
		actions = []*ui.Node{dismiss, button(".sendMail", SendMailButtonID, SendMail{SessionID: id})}
	case StatusSuccess, StatusCancelled, StatusUnsatisfiableRequest, StatusKeyshareBlocked,
		StatusKeyshareEnrollmentMissing:
		actions = []*ui.Node{dismiss}
	}

	return ui.Footer(actions...).WithTestID(FooterID)
}
