package tui

import (
	"github.com/privacybydesign/irmamobile/i18n"
	"github.com/privacybydesign/irmamobile/ui"
)

// Test IDs of the screens drawn by the TUI itself.
const (
	HomeTestID       = "Home"
	EnrollmentTestID = "Enrollment"
)

type beginChangePin struct{}

type startSession struct{}

type leaveEnrollment struct{}

func (beginChangePin) CommandName() string  { return "home.changePin" }
func (startSession) CommandName() string    { return "home.startSession" }
func (leaveEnrollment) CommandName() string { return "enrollment.navigateBack" }

func homeView(t *i18n.Translator, withSessions bool) *ui.Node {
	t = t.Namespaced("Home")
	var start *ui.Node
	if withSessions {
		start = ui.View(ui.Button(t.T(".startSession"), startSession{}))
	}
	return ui.Container(HomeTestID,
		ui.Content(
			ui.Text(t.T(".title")).WithBold().WithStyle(ui.StylePrimary),
			ui.View(ui.Button(t.T(".changePin"), beginChangePin{})),
			start,
		),
	)
}

func enrollmentView(t *i18n.Translator, manager string) *ui.Node {
	t = t.Namespaced("Home")
	return ui.Container(EnrollmentTestID,
		ui.Header(t.T(".back"), leaveEnrollment{}),
		ui.Content(ui.Text(t.T(".enrollment", i18n.Params{"manager": manager}))),
	)
}
