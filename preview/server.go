// Package preview serves the application state and the rendered screens over HTTP, so that
// the views can be inspected and driven from a browser or with curl.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/alexandrevicenzi/go-sse"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-errors/errors"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"

	"github.com/privacybydesign/irmamobile/changepin"
	"github.com/privacybydesign/irmamobile/controller"
	"github.com/privacybydesign/irmamobile/i18n"
	"github.com/privacybydesign/irmamobile/internal/democlient"
	"github.com/privacybydesign/irmamobile/session"
	"github.com/privacybydesign/irmamobile/store"
	"github.com/privacybydesign/irmamobile/ui"
)

// SessionStarter starts sessions on behalf of a requestor.
type SessionStarter interface {
	NewSession(request democlient.Request) (int, error)
}

// Server is a preview server instance.
type Server struct {
	conf     *Configuration
	ctrl     *controller.Controller
	nav      *controller.RouteStack
	starter  SessionStarter
	registry *ui.Registry
	t        *i18n.Translator

	events      *sse.Server
	unsubscribe func()

	stop    chan struct{}
	stopped chan struct{}
}

// Views contains the current route and the rendered screens.
type Views struct {
	Route     controller.Route `json:"route"`
	ChangePin *ui.Node         `json:"changePin"`
	Sessions  map[int]*ui.Node `json:"sessions"`
}

// CommandMessage is the body of POST /commands.
type CommandMessage struct {
	Command string                 `json:"command"`
	Args    map[string]interface{} `json:"args"`
}

// SessionPointer is returned when a session was started.
type SessionPointer struct {
	SessionID int `json:"sessionId"`
}

var corsMethods = []string{http.MethodGet, http.MethodPost}

// New returns a server that shows the screens of ctrl. starter may be nil, in which case
// POST /sessions is unsupported.
func New(conf *Configuration, ctrl *controller.Controller, nav *controller.RouteStack, starter SessionStarter) (*Server, error) {
	if err := conf.Check(); err != nil {
		return nil, err
	}
	registry := ui.NewRegistry()
	changepin.RegisterCommands(registry)
	session.RegisterCommands(registry)

	s := &Server{
		conf:     conf,
		ctrl:     ctrl,
		nav:      nav,
		starter:  starter,
		registry: registry,
		t:        conf.Catalog.Translator(conf.Language),
	}
	if conf.EnableSSE {
		s.events = eventServer(conf)
		s.unsubscribe = ctrl.Subscribe(func(store.State) {
			s.publish()
		})
	}
	return s, nil
}

func eventServer(conf *Configuration) *sse.Server {
	return sse.NewServer(&sse.Options{
		ChannelNameFunc: func(r *http.Request) string {
			return "views"
		},
		Headers: map[string]string{
			"Access-Control-Allow-Methods": "GET, OPTIONS",
			"Access-Control-Allow-Headers": "Keep-Alive,X-Requested-With,Cache-Control,Content-Type,Last-Event-ID",
		},
		Logger: log.New(conf.Logger.WithField("type", "sse").WriterLevel(logrus.DebugLevel), "", 0),
	})
}

// Handler returns a http.Handler that serves the preview API.
func (s *Server) Handler() http.Handler {
	router := chi.NewRouter()
	router.Use(cors.New(cors.Options{
		AllowedOrigins: s.conf.AllowedOrigins,
		AllowedHeaders: []string{"Accept", "Content-Type", "Cache-Control"},
		AllowedMethods: corsMethods,
	}).Handler)

	router.Get("/state", s.handleState)
	router.Get("/views", s.handleViews)
	router.Get("/views/changepin", s.handleChangePinView)
	router.Get("/views/sessions/{id}", s.handleSessionView)
	router.Get("/commands", s.handleCommandNames)
	router.Post("/commands", s.handleCommand)
	router.Post("/sessions", s.handleNewSession)
	if s.events != nil {
		router.Get("/events", s.events.ServeHTTP)
	}
	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, ErrorInvalidRequest, "no handler for "+r.URL.Path)
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		s.writeError(w, ErrorInvalidRequest, r.Method+" not allowed on "+r.URL.Path)
	})
	return router
}

// Start the server. If successful then it will not return until Stop() is called.
func (s *Server) Start() error {
	fulladdr := fmt.Sprintf("%s:%d", s.conf.ListenAddress, s.conf.Port)
	s.conf.Logger.Info("Preview server listening at ", fulladdr)

	s.stop = make(chan struct{})
	s.stopped = make(chan struct{}, 1)
	serv := &http.Server{
		Addr:              fulladdr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-s.stop
		ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
		defer cancel()
		if err := serv.Shutdown(ctx); err != nil {
			s.conf.Logger.Error("failed to shut down preview server: ", err.Error())
		}
		s.stopped <- struct{}{}
	}()

	return filterStopError(serv.ListenAndServe())
}

func filterStopError(err error) error {
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Stop the server and the event stream.
func (s *Server) Stop() {
	if s.unsubscribe != nil {
		s.unsubscribe()
	}
	if s.events != nil {
		s.events.Shutdown()
	}
	if s.stop != nil {
		close(s.stop)
		<-s.stopped
	}
}

// Views renders all screens of the current state.
func (s *Server) Views() Views {
	state := s.ctrl.Store().State()
	views := Views{
		ChangePin: changepin.View(state.ChangePin, s.t),
		Sessions:  make(map[int]*ui.Node, len(state.Sessions)),
	}
	if s.nav != nil {
		views.Route = s.nav.Current()
	}
	for id := range state.Sessions {
		if props, ok := s.ctrl.SessionProps(id); ok {
			views.Sessions[id] = session.View(props, s.t)
		}
	}
	return views
}

func (s *Server) publish() {
	bts, err := json.Marshal(s.Views())
	if err != nil {
		s.conf.Logger.Error("failed to serialize views: ", err.Error())
		return
	}
	s.events.SendMessage("views", sse.NewMessage("", string(bts), "state"))
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, s.ctrl.Store().State())
}

func (s *Server) handleViews(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, s.Views())
}

func (s *Server) handleChangePinView(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, changepin.View(s.ctrl.Store().State().ChangePin, s.t))
}

func (s *Server) handleSessionView(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, ErrorMalformedInput, "session ID must be a number")
		return
	}
	props, ok := s.ctrl.SessionProps(id)
	if !ok {
		s.writeError(w, ErrorSessionUnknown, strconv.Itoa(id))
		return
	}
	s.writeJson(w, session.View(props, s.t))
}

func (s *Server) handleCommandNames(w http.ResponseWriter, r *http.Request) {
	s.writeJson(w, s.registry.Names())
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	var msg CommandMessage
	if err := readJson(r, &msg); err != nil {
		s.writeError(w, ErrorMalformedInput, err.Error())
		return
	}
	cmd, err := s.registry.Decode(msg.Command, msg.Args)
	if errors.Is(err, ui.ErrUnknownCommand) {
		s.writeError(w, ErrorUnknownCommand, msg.Command)
		return
	}
	if err != nil {
		s.writeError(w, ErrorMalformedInput, err.Error())
		return
	}
	if sc, ok := cmd.(session.Command); ok {
		if _, exists := s.ctrl.SessionProps(sc.TargetSession()); !exists {
			s.writeError(w, ErrorSessionUnknown, strconv.Itoa(sc.TargetSession()))
			return
		}
	}

	s.conf.Logger.WithField("command", msg.Command).Debug("dispatching command")
	s.ctrl.Dispatch(cmd)
	s.writeJson(w, s.Views())
}

func (s *Server) handleNewSession(w http.ResponseWriter, r *http.Request) {
	if s.starter == nil {
		s.writeError(w, ErrorUnsupported, "no session starter configured")
		return
	}
	var args map[string]interface{}
	if err := readJson(r, &args); err != nil {
		s.writeError(w, ErrorMalformedInput, err.Error())
		return
	}
	var request democlient.Request
	if len(args) == 0 {
		request = democlient.DemoRequest()
	} else if err := decodeRequest(args, &request); err != nil {
		s.writeError(w, ErrorMalformedInput, err.Error())
		return
	}

	id, err := s.starter.NewSession(request)
	if err != nil {
		s.writeError(w, ErrorSessionRejected, err.Error())
		return
	}
	if s.nav != nil {
		s.nav.Navigate(controller.Route{Name: controller.RouteSession, SessionID: id})
	}
	s.writeJson(w, SessionPointer{SessionID: id})
}

func decodeRequest(args map[string]interface{}, request *democlient.Request) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:      request,
		ErrorUnused: true,
	})
	if err != nil {
		return err
	}
	if err = decoder.Decode(args); err != nil {
		return errors.WrapPrefix(err, "failed to decode session request", 0)
	}
	return nil
}

func readJson(r *http.Request, v interface{}) error {
	bts, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		return errors.WrapPrefix(err, "failed to read request body", 0)
	}
	if len(bts) == 0 {
		return nil
	}
	if err = json.Unmarshal(bts, v); err != nil {
		return errors.WrapPrefix(err, "failed to parse request body", 0)
	}
	return nil
}
