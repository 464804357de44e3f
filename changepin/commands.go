package changepin

import (
	"github.com/privacybydesign/irmamobile/ui"
)

// ChangeOldPin is sent when the old PIN input changes.
type ChangeOldPin struct {
	Value string `json:"value"`
}

// ChangeNewPin is sent when the repeated new PIN input changes; Value is empty unless both
// entries match and are valid.
type ChangeNewPin struct {
	Value string `json:"value"`
}

// ChangePin requests the PIN change.
type ChangePin struct{}

// NavigateBack leaves the screen.
type NavigateBack struct{}

func (ChangeOldPin) CommandName() string { return "changePin.changeOldPin" }
func (ChangeNewPin) CommandName() string { return "changePin.changeNewPin" }
func (ChangePin) CommandName() string    { return "changePin.changePin" }
func (NavigateBack) CommandName() string { return "changePin.navigateBack" }

// RegisterCommands adds the commands of this screen to r.
func RegisterCommands(r *ui.Registry) {
	ui.Register[ChangeOldPin](r)
	ui.Register[ChangeNewPin](r)
	ui.Register[ChangePin](r)
	ui.Register[NavigateBack](r)
}
