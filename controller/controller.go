package controller

import (
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/changepin"
	"github.com/privacybydesign/irmamobile/internal/concmap"
	"github.com/privacybydesign/irmamobile/session"
	"github.com/privacybydesign/irmamobile/store"
	"github.com/privacybydesign/irmamobile/ui"
)

// Options configure a Controller.
type Options struct {
	// KeyshareManager is the scheme manager whose keyshare PIN is changed, if the user is not
	// enrolled at any keyshare server yet.
	KeyshareManager irmamobile.SchemeManagerIdentifier
}

// Controller is the single ui.Dispatcher of the app.
type Controller struct {
	store  *store.Store
	client Client
	nav    Navigator
	mailer Mailer
	opts   Options

	// commands are handled one at a time
	commands sync.Mutex

	// PIN inputs of sessions, which are not part of the application state
	inputsMu sync.Mutex
	inputs   map[int]pinInput

	listeners concmap.ConcMap[int64, func(store.State)]
	nextID    atomic.Int64
}

type pinInput struct {
	pin              string
	validationForced bool
}

var (
	_ ui.Dispatcher = (*Controller)(nil)
	_ Handler       = (*Controller)(nil)
)

// New returns a controller. mailer may be nil, in which case error reports are only logged.
func New(s *store.Store, client Client, nav Navigator, mailer Mailer, opts Options) *Controller {
	if opts.KeyshareManager.Empty() {
		opts.KeyshareManager = irmamobile.NewSchemeManagerIdentifier("pbdf")
	}
	return &Controller{
		store:     s,
		client:    client,
		nav:       nav,
		mailer:    mailer,
		opts:      opts,
		inputs:    map[int]pinInput{},
		listeners: concmap.New[int64, func(store.State)](),
	}
}

// Store returns the store the controller dispatches to.
func (c *Controller) Store() *store.Store {
	return c.store
}

// Subscribe calls f with the current state whenever the state or the local input of a session
// changes. The returned function unsubscribes f.
func (c *Controller) Subscribe(f func(store.State)) (cancel func()) {
	cancelStore := c.store.Subscribe(f)
	id := c.nextID.Add(1)
	c.listeners.Set(id, f)
	return func() {
		cancelStore()
		c.listeners.Delete(id)
	}
}

func (c *Controller) notifyLocal() {
	state := c.store.State()
	for _, f := range c.listeners.Values() {
		f(state)
	}
}

// SessionProps returns the props of the session screen of the given session.
func (c *Controller) SessionProps(id int) (session.Props, bool) {
	state := c.store.State()
	s, ok := state.Sessions[id]
	if !ok {
		return session.Props{}, false
	}
	c.inputsMu.Lock()
	input := c.inputs[id]
	c.inputsMu.Unlock()
	return session.Props{
		Session:          s,
		ValidationForced: input.validationForced,
		Configuration:    state.IrmaConfiguration,
	}, true
}

// BeginChangePin starts the PIN change flow and shows its screen.
func (c *Controller) BeginChangePin() {
	c.store.Dispatch(changepin.Begin{})
	c.nav.Navigate(Route{Name: RouteChangePin})
}

// Dispatch handles a command of a view.
func (c *Controller) Dispatch(cmd ui.Command) {
	if cmd == nil {
		return
	}
	c.commands.Lock()
	defer c.commands.Unlock()

	log := irmamobile.Logger.WithField("command", cmd.CommandName())
	log.Debug("handling command")

	switch cmd := cmd.(type) {
	case changepin.ChangeOldPin:
		c.store.Dispatch(changepin.OldPinChanged{Pin: cmd.Value})
	case changepin.ChangeNewPin:
		c.store.Dispatch(changepin.NewPinChanged{Pin: cmd.Value})
	case changepin.ChangePin:
		c.changePin(log)
	case changepin.NavigateBack:
		c.store.Dispatch(changepin.Reset{})
		c.nav.Back()

	case session.MakeDisclosureChoice:
		c.store.Dispatch(session.ChoiceMade{
			SessionID:   cmd.SessionID,
			Disjunction: cmd.Disjunction,
			Candidate:   cmd.Candidate,
		})
	case session.PinChange:
		c.setInput(cmd.SessionID, func(input *pinInput) { input.pin = cmd.Pin })
	case session.NextStep:
		c.nextStep(cmd, log.WithField("session", cmd.SessionID))
	case session.NavigateBack:
		c.leaveSession(cmd.SessionID)
	case session.SendMail:
		c.sendMail(cmd.SessionID, log.WithField("session", cmd.SessionID))
	case session.NavigateToEnrollment:
		c.nav.Navigate(Route{Name: RouteEnrollment, SessionID: cmd.SessionID, Manager: cmd.Manager})

	default:
		log.Warn("ignoring unknown command")
	}
}

func (c *Controller) keyshareManager() irmamobile.SchemeManagerIdentifier {
	if enrolled := c.store.State().Enrollment.Enrolled; len(enrolled) > 0 {
		return irmamobile.NewSchemeManagerIdentifier(enrolled[0])
	}
	return c.opts.KeyshareManager
}

func (c *Controller) changePin(log *logrus.Entry) {
	state := c.store.State().ChangePin
	switch state.Status.(type) {
	case changepin.Started, changepin.PinError:
	default:
		log.WithField("status", state.Status.Name()).Debug("ignoring PIN change request")
		return
	}

	if ok, _ := ui.Validate(ui.InputTypePin, state.OldPin); !ok || state.NewPin == "" {
		c.store.Dispatch(changepin.ValidationForced{})
		return
	}

	c.store.Dispatch(changepin.Requested{})
	c.client.KeyshareChangePin(c.keyshareManager(), state.OldPin, state.NewPin)
}

func (c *Controller) nextStep(cmd session.NextStep, log *logrus.Entry) {
	s, ok := c.store.State().Sessions[cmd.SessionID]
	if !ok {
		log.Warn("next step for unknown session")
		return
	}

	switch s.Status {
	case session.StatusRequestPermission:
		var disclosure []irmamobile.AttributeTypeIdentifier
		if cmd.Proceed {
			for _, candidate := range s.Disclosure() {
				disclosure = append(disclosure, candidate.Type)
			}
		}
		c.client.RespondPermission(cmd.SessionID, cmd.Proceed, disclosure)

	case session.StatusRequestPin:
		if !cmd.Proceed {
			c.clearInput(cmd.SessionID)
			c.client.RespondPin(cmd.SessionID, false, "")
			return
		}
		c.inputsMu.Lock()
		pin := c.inputs[cmd.SessionID].pin
		c.inputsMu.Unlock()
		if ok, _ := ui.Validate(ui.InputTypePin, pin); !ok {
			c.setInput(cmd.SessionID, func(input *pinInput) { input.validationForced = true })
			return
		}
		c.clearInput(cmd.SessionID)
		c.store.Dispatch(session.PinSubmitted{SessionID: cmd.SessionID})
		c.client.RespondPin(cmd.SessionID, true, pin)

	default:
		log.WithField("status", s.Status).Debug("no next step in this status")
	}
}

func (c *Controller) leaveSession(id int) {
	if s, ok := c.store.State().Sessions[id]; ok && !s.Status.Finished() {
		c.client.DismissSession(id)
	}
	c.clearInput(id)
	c.store.Dispatch(session.Dismissed{SessionID: id})
	c.nav.Back()
}

func (c *Controller) sendMail(id int, log *logrus.Entry) {
	s, ok := c.store.State().Sessions[id]
	if !ok || s.Status != session.StatusError {
		log.Warn("no error to report")
		return
	}
	report := ErrorReport{SessionID: id, Action: s.Action, Error: s.Error}
	if c.mailer == nil {
		log.WithField("error", s.Error.Error()).Info("error reporting disabled")
		return
	}
	if err := c.mailer.SendErrorReport(report); err != nil {
		log.WithField("error", err.Error()).Error("failed to send error report")
		return
	}
	log.Info("error report sent")
}

func (c *Controller) setInput(id int, f func(input *pinInput)) {
	c.inputsMu.Lock()
	input := c.inputs[id]
	f(&input)
	c.inputs[id] = input
	c.inputsMu.Unlock()
	c.notifyLocal()
}

func (c *Controller) clearInput(id int) {
	c.inputsMu.Lock()
	_, existed := c.inputs[id]
	delete(c.inputs, id)
	c.inputsMu.Unlock()
	if existed {
		c.notifyLocal()
	}
}
