// Package tui is an interactive terminal host for the wallet screens. It renders the view trees
// of the change-PIN and session screens and sends the commands of the pressed elements to the
// controller.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/privacybydesign/irmamobile/changepin"
	"github.com/privacybydesign/irmamobile/controller"
	"github.com/privacybydesign/irmamobile/i18n"
	"github.com/privacybydesign/irmamobile/internal/democlient"
	"github.com/privacybydesign/irmamobile/session"
	"github.com/privacybydesign/irmamobile/store"
	"github.com/privacybydesign/irmamobile/ui"
	"github.com/privacybydesign/irmamobile/ui/render"
)

const defaultWidth = 72

// SessionStarter starts sessions on behalf of a requestor.
type SessionStarter interface {
	NewSession(request democlient.Request) (int, error)
}

// stateMsg is sent when the state of the controller changed.
type stateMsg struct{}

// field is a focusable element. Repeated inputs consist of two fields.
type field struct {
	node   *ui.Node
	repeat bool
}

func (f field) input() bool {
	return f.node.Kind == ui.KindInput || f.node.Kind == ui.KindRepeatedInput
}

// Model implements tea.Model.
type Model struct {
	ctrl    *controller.Controller
	nav     *controller.RouteStack
	starter SessionStarter
	t       *i18n.Translator
	theme   render.Theme
	keys    KeyMap

	updates     chan struct{}
	unsubscribe func()

	// screen identifies the shown screen; focus and entered values are reset when it changes
	screen string
	view   *ui.Node
	fields []field
	focus  int
	values map[string]string
	editor textinput.Model
	width  int
	err    error
}

// NewModel returns a model showing the current route of nav. starter may be nil, in which
// case no sessions can be started from the home screen.
func NewModel(ctrl *controller.Controller, nav *controller.RouteStack, starter SessionStarter, t *i18n.Translator, theme render.Theme) Model {
	updates := make(chan struct{}, 1)
	unsubscribe := ctrl.Subscribe(func(store.State) {
		select {
		case updates <- struct{}{}:
		default:
		}
	})

	editor := textinput.New()
	editor.Prompt = ""

	model := Model{
		ctrl:        ctrl,
		nav:         nav,
		starter:     starter,
		t:           t,
		theme:       theme,
		keys:        DefaultKeyMap(),
		updates:     updates,
		unsubscribe: unsubscribe,
		values:      map[string]string{},
		editor:      editor,
		width:       defaultWidth,
	}
	model.rebuild()
	return model
}

// Init implements tea.Model.
func (model Model) Init() tea.Cmd {
	return listenForUpdate(model.updates)
}

// listenForUpdate returns a tea.Cmd that blocks until the state changes.
func listenForUpdate(channel <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-channel; !ok {
			return nil
		}
		return stateMsg{}
	}
}

// Close stops listening for state changes.
func (model Model) Close() {
	model.unsubscribe()
}

// Update implements tea.Model.
func (model Model) Update(message tea.Msg) (tea.Model, tea.Cmd) {
	switch message := message.(type) {
	case stateMsg:
		model.rebuild()
		return model, listenForUpdate(model.updates)

	case tea.WindowSizeMsg:
		model.width = message.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(message, model.keys.Quit):
			return model, tea.Quit
		case key.Matches(message, model.keys.Next):
			model.moveFocus(1)
		case key.Matches(message, model.keys.Previous):
			model.moveFocus(-1)
		case key.Matches(message, model.keys.Back):
			model.back()
			model.rebuild()
		case key.Matches(message, model.keys.Press):
			if f, ok := model.focused(); ok {
				if f.input() {
					model.moveFocus(1)
				} else {
					model.press(f.node)
					model.rebuild()
				}
			}
		default:
			if f, ok := model.focused(); ok && f.input() {
				var cmd tea.Cmd
				model.editor, cmd = model.editor.Update(message)
				model.values[model.valueKey(f.node, f.repeat)] = model.editor.Value()
				model.changed(f.node)
				model.rebuild()
				return model, cmd
			}
		}
	}
	return model, nil
}

// View implements tea.Model.
func (model Model) View() string {
	r := render.New(model.theme, model.width)
	if f, ok := model.focused(); ok {
		r.Focus = f.node
	}
	r.Value = func(n *ui.Node) string { return model.values[model.valueKey(n, false)] }
	r.RepeatValue = func(n *ui.Node) string { return model.values[model.valueKey(n, true)] }
	r.Message = model.validationMessage

	var b strings.Builder
	b.WriteString(r.Render(model.view))
	b.WriteString("\n\n")
	if model.err != nil {
		b.WriteString(model.style(model.theme.ErrorText).Render(model.err.Error()))
		b.WriteString("\n")
	}
	b.WriteString(model.style(model.theme.FaintText).Render(model.t.T("Home.help")))
	return b.String()
}

func (model Model) style(color lipgloss.Color) lipgloss.Style {
	if model.theme.Plain {
		return lipgloss.NewStyle()
	}
	return lipgloss.NewStyle().Foreground(color)
}

// rebuild renders the view tree of the current route and collects its focusable fields.
func (model *Model) rebuild() {
	route := model.nav.Current()
	screen := route.Name
	var view *ui.Node

	switch route.Name {
	case controller.RouteChangePin:
		view = changepin.View(model.ctrl.Store().State().ChangePin, model.t)
	case controller.RouteSession:
		props, ok := model.ctrl.SessionProps(route.SessionID)
		if !ok {
			// the session was dismissed elsewhere
			model.nav.Back()
			model.rebuild()
			return
		}
		screen = fmt.Sprintf("%s/%d", route.Name, route.SessionID)
		view = session.View(props, model.t)
	case controller.RouteEnrollment:
		view = enrollmentView(model.t, route.Manager)
	default:
		view = homeView(model.t, model.starter != nil)
	}

	if screen != model.screen {
		model.screen = screen
		model.focus = 0
		model.values = map[string]string{}
		model.err = nil
	}
	model.view = view

	model.fields = nil
	for _, n := range view.Interactive() {
		model.fields = append(model.fields, field{node: n})
		if n.Kind == ui.KindRepeatedInput {
			model.fields = append(model.fields, field{node: n, repeat: true})
			model.initRepeated(n)
		}
	}
	if model.focus >= len(model.fields) {
		model.focus = max(len(model.fields)-1, 0)
	}
	model.syncEditor()
}

// initRepeated fills both entries of a repeated input with its initial value, if it has not
// been edited yet.
func (model *Model) initRepeated(n *ui.Node) {
	initial := n.StringProp(ui.PropInitialValue)
	if initial == "" {
		return
	}
	first, repeat := model.valueKey(n, false), model.valueKey(n, true)
	if _, ok := model.values[first]; ok {
		return
	}
	model.values[first] = initial
	model.values[repeat] = initial
}

func (model Model) focused() (field, bool) {
	if model.focus < 0 || model.focus >= len(model.fields) {
		return field{}, false
	}
	return model.fields[model.focus], true
}

func (model *Model) moveFocus(delta int) {
	if len(model.fields) == 0 {
		return
	}
	model.focus = (model.focus + delta + len(model.fields)) % len(model.fields)
	model.syncEditor()
}

// syncEditor loads the value of the focused input into the editor.
func (model *Model) syncEditor() {
	f, ok := model.focused()
	if !ok || !f.input() {
		model.editor.Blur()
		return
	}
	model.editor.EchoMode = textinput.EchoNormal
	if ui.InputType(f.node.StringProp(ui.PropInputType)) == ui.InputTypePin {
		model.editor.EchoMode = textinput.EchoPassword
	}
	model.editor.SetValue(model.values[model.valueKey(f.node, f.repeat)])
	model.editor.Focus()
}

// valueKey identifies the value of an input across renders. Inputs with a key get a fresh
// value when their key changes.
func (model Model) valueKey(n *ui.Node, repeat bool) string {
	id := n.Key
	if id == "" {
		id = n.TestID
	}
	if id == "" {
		id = string(n.Kind) + ":" + n.StringProp(ui.PropLabel) + n.StringProp(ui.PropFirstLabel)
	}
	if repeat {
		return id + "#repeat"
	}
	return id
}

// changed sends the change command of an input.
func (model *Model) changed(n *ui.Node) {
	if n.OnChange == nil {
		return
	}
	var value string
	switch n.Kind {
	case ui.KindInput:
		value = model.values[model.valueKey(n, false)]
	case ui.KindRepeatedInput:
		value, _ = ui.ValidateRepeated(
			ui.InputType(n.StringProp(ui.PropInputType)),
			model.values[model.valueKey(n, false)],
			model.values[model.valueKey(n, true)],
		)
	}
	model.ctrl.Dispatch(n.OnChange(value))
}

func (model *Model) press(n *ui.Node) {
	switch n.Command.(type) {
	case beginChangePin:
		model.ctrl.BeginChangePin()
	case startSession:
		if model.starter == nil {
			return
		}
		id, err := model.starter.NewSession(democlient.DemoRequest())
		if err != nil {
			model.err = err
			return
		}
		model.nav.Navigate(controller.Route{Name: controller.RouteSession, SessionID: id})
	case leaveEnrollment:
		model.nav.Back()
	default:
		model.ctrl.Dispatch(n.Command)
	}
}

func (model *Model) back() {
	route := model.nav.Current()
	switch route.Name {
	case controller.RouteChangePin:
		model.ctrl.Dispatch(changepin.NavigateBack{})
	case controller.RouteSession:
		model.ctrl.Dispatch(session.NavigateBack{SessionID: route.SessionID})
	case controller.RouteEnrollment:
		model.nav.Back()
	}
}

// validationMessage returns the message to show below an input whose value is invalid.
func (model Model) validationMessage(n *ui.Node) string {
	inputType := ui.InputType(n.StringProp(ui.PropInputType))
	forced := n.BoolProp(ui.PropValidationForced)
	first := model.values[model.valueKey(n, false)]

	var messageKey string
	switch n.Kind {
	case ui.KindInput:
		if !forced && !(n.BoolProp(ui.PropShowInvalidMessage) && first != "") {
			return ""
		}
		_, messageKey = ui.Validate(inputType, first)
	case ui.KindRepeatedInput:
		repeat := model.values[model.valueKey(n, true)]
		if !forced && repeat == "" {
			return ""
		}
		_, messageKey = ui.ValidateRepeated(inputType, first, repeat)
	}
	if messageKey == "" {
		return ""
	}
	return model.t.Namespaced("FormInput").T(messageKey)
}
