package changepin

import (
	"fmt"

	"github.com/privacybydesign/irmamobile/i18n"
	"github.com/privacybydesign/irmamobile/ui"
)

// Test IDs of the screen
const (
	TestID       = "ChangePin"
	ErrorTextID  = "errorText"
	ChangeButton = "changeButton"
	DismissID    = "dismissButton"
)

// View renders the change PIN screen for state. t is the root translator.
func View(state State, t *i18n.Translator) *ui.Node {
	t = t.Namespaced("ChangePin")
	return ui.Container(TestID,
		ui.Content(content(state, t)...),
		footer(state.Status, t),
	)
}

func content(state State, t *i18n.Translator) []*ui.Node {
	switch status := state.Status.(type) {
	case Started, PinError:
		return []*ui.Node{form(state, t)}

	case Changing:
		return []*ui.Node{ui.IconCard(ui.IconChatboxes, ui.Text(t.T(".changing")))}

	case Success:
		return []*ui.Node{ui.IconCard(ui.IconCheckmarkCircle, ui.Text(t.T(".success")))}

	case KeyshareBlocked:
		seconds := int64(status.Timeout.Seconds())
		return []*ui.Node{ui.IconCard(ui.IconAlert,
			ui.Text(t.T(".pinBlocked", i18n.Params{"duration": seconds})),
		)}

	case Failed:
		return []*ui.Node{
			ui.IconCard(ui.IconAlert, ui.Text(t.T(".failure"))).WithKey("header"),
			ui.ErrorCard(status.Err, t).WithKey("error"),
		}

	default:
		return nil
	}
}

func pinError(status Status, t *i18n.Translator) *ui.Node {
	pe, ok := status.(PinError)
	if !ok {
		return nil
	}
	attempts := t.T(".attempts", i18n.Params{"count": pe.RemainingAttempts})
	return ui.CardItem(
		ui.Text(t.T(".pinError", i18n.Params{"attempts": attempts})).
			WithTestID(ErrorTextID).
			WithStyle(ui.StyleError),
	)
}

func form(state State, t *i18n.Translator) *ui.Node {
	// The key changes with every rejected attempt, so that hosts create a fresh, empty input.
	attempt := -1
	if remaining, ok := state.RemainingAttempts(); ok {
		attempt = remaining
	}
	oldPin := ui.Input(ui.InputTypePin, t.T(".oldPinLabel"), func(value string) ui.Command {
		return ChangeOldPin{Value: value}
	}).
		WithKey(fmt.Sprintf("attempt-%d", attempt)).
		WithProp(ui.PropValidationForced, state.ValidationForced).
		WithProp(ui.PropShowInvalidMessage, true)

	newPin := ui.RepeatedInput(ui.InputTypePin, t.T(".newPinLabel"), t.T(".newPinRepeatLabel"),
		func(value string) ui.Command {
			return ChangeNewPin{Value: value}
		}).
		WithProp(ui.PropValidationForced, state.ValidationForced).
		WithProp(ui.PropInitialValue, state.NewPin)

	return ui.View(
		ui.Card(
			ui.CardItem(ui.Text(t.T(".intro"))),
			pinError(state.Status, t),
			ui.Form(oldPin),
			newPin,
			ui.View(ui.Button(t.T(".doChange"), ChangePin{}).WithTestID(ChangeButton)),
		),
	)
}

func footer(status Status, t *i18n.Translator) *ui.Node {
	if !Terminal(status) {
		return nil
	}
	return ui.Footer(
		ui.Button(t.T(".dismiss"), NavigateBack{}).WithTestID(DismissID).WithStyle(ui.StylePrimary),
	)
}
