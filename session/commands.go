package session

import (
	"github.com/privacybydesign/irmamobile/ui"
)

// NavigateBack leaves the session screen, dismissing the session.
type NavigateBack struct {
	SessionID int `json:"sessionId"`
}

// SendMail sends an error report of a failed session.
type SendMail struct {
	SessionID int `json:"sessionId"`
}

// NextStep answers the question of the current status: whether to disclose the chosen
// attributes, or whether to continue with the entered PIN.
type NextStep struct {
	SessionID int  `json:"sessionId"`
	Proceed   bool `json:"proceed"`
}

// PinChange is sent when the PIN input changes.
type PinChange struct {
	SessionID int    `json:"sessionId"`
	Pin       string `json:"pin"`
}

type MakeDisclosureChoice struct {
	SessionID   int `json:"sessionId"`
	Disjunction int `json:"disjunction"`
	Candidate   int `json:"candidate"`
}

// NavigateToEnrollment opens the enrollment screen of a scheme manager.
type NavigateToEnrollment struct {
	SessionID int    `json:"sessionId"`
	Manager   string `json:"manager"`
}

func (NavigateBack) CommandName() string         { return "session.navigateBack" }
func (SendMail) CommandName() string             { return "session.sendMail" }
func (NextStep) CommandName() string             { return "session.nextStep" }
func (PinChange) CommandName() string            { return "session.pinChange" }
func (MakeDisclosureChoice) CommandName() string { return "session.makeDisclosureChoice" }
func (NavigateToEnrollment) CommandName() string { return "session.navigateToEnrollment" }

// Command is a command of the session screen, addressed to a single session.
type Command interface {
	ui.Command
	TargetSession() int
}

func (c NavigateBack) TargetSession() int         { return c.SessionID }
func (c SendMail) TargetSession() int             { return c.SessionID }
func (c NextStep) TargetSession() int             { return c.SessionID }
func (c PinChange) TargetSession() int            { return c.SessionID }
func (c MakeDisclosureChoice) TargetSession() int { return c.SessionID }
func (c NavigateToEnrollment) TargetSession() int { return c.SessionID }

// RegisterCommands adds the commands of the session screen to r.
func RegisterCommands(r *ui.Registry) {
	ui.Register[NavigateBack](r)
	ui.Register[SendMail](r)
	ui.Register[NextStep](r)
	ui.Register[PinChange](r)
	ui.Register[MakeDisclosureChoice](r)
	ui.Register[NavigateToEnrollment](r)
}
