package democlient

import (
	"context"
	"time"

	"github.com/go-errors/errors"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/session"
)

// RequestDisjunction asks for one of Attributes.
type RequestDisjunction struct {
	Label      string   `json:"label,omitempty" mapstructure:"label"`
	Attributes []string `json:"attributes" mapstructure:"attributes"`
}

// Request is a session request as a requestor would send it.
type Request struct {
	Action     irmamobile.Action    `json:"action" mapstructure:"action"`
	ServerName string               `json:"serverName" mapstructure:"serverName"`
	Message    string               `json:"message,omitempty" mapstructure:"message"`
	Disclose   []RequestDisjunction `json:"disclose" mapstructure:"disclose"`
}

// Check fills in defaults and validates the request.
func (r *Request) Check() error {
	if r.Action == "" {
		r.Action = irmamobile.ActionSigning
	}
	switch r.Action {
	case irmamobile.ActionDisclosing:
	case irmamobile.ActionSigning:
		if r.Message == "" {
			return errors.New("signing request without message")
		}
	default:
		return &irmamobile.SessionError{ErrorType: irmamobile.ErrorUnknownAction, Info: string(r.Action)}
	}
	if r.ServerName == "" {
		r.ServerName = "Demo requestor"
	}
	if len(r.Disclose) == 0 {
		return errors.New("request does not ask for attributes")
	}
	for _, d := range r.Disclose {
		if len(d.Attributes) == 0 {
			return errors.New("empty disjunction in request")
		}
	}
	return nil
}

// DemoRequest is the signing request started by the demo hosts.
func DemoRequest() Request {
	return Request{
		Action:     irmamobile.ActionSigning,
		ServerName: "Demo shop",
		Message:    "Please confirm your age",
		Disclose: []RequestDisjunction{
			{Label: "Age", Attributes: []string{
				"irma-demo.MijnOverheid.ageLower.over18",
				"irma-demo.RU.studentCard.over18",
			}},
			{Attributes: []string{"irma-demo.MijnOverheid.fullName.firstname"}},
		},
	}
}

type permissionResponse struct {
	proceed    bool
	disclosure []irmamobile.AttributeTypeIdentifier
}

type pinResponse struct {
	proceed bool
	pin     string
}

type demoSession struct {
	id      int
	request Request
	client  *Client

	ctx    context.Context
	cancel context.CancelFunc

	permission chan permissionResponse
	pin        chan pinResponse
}

// respondPermission passes r to the goroutine of the session. Responses the session is not
// waiting for are dropped.
func (s *demoSession) respondPermission(r permissionResponse) {
	select {
	case s.permission <- r:
	default:
	}
}

func (s *demoSession) respondPin(r pinResponse) {
	select {
	case s.pin <- r:
	default:
	}
}

func (s *demoSession) done() {
	s.client.mu.Lock()
	delete(s.client.sessions, s.id)
	s.client.mu.Unlock()
	s.cancel()
}

func (s *demoSession) run() {
	defer s.done()
	c := s.client
	h := c.handler
	log := irmamobile.Logger.WithField("session", s.id)
	serverName := irmamobile.NewTranslatedString(s.request.ServerName)

	defer func() {
		if e := recover(); e != nil {
			log.Error("panic in session: ", e)
			h.Failure(s.id, &irmamobile.SessionError{
				ErrorType: irmamobile.ErrorPanic,
				Err:       errors.Errorf("recovered from panic: %v", e),
			})
		}
	}()

	h.StatusUpdate(s.id, session.StatusCommunicating)
	if !c.sleep() {
		return
	}
	h.StatusUpdate(s.id, session.StatusConnected)

	disjunctions, missing := Candidates(s.client.conf, s.client.creds, s.request)
	if len(missing) > 0 {
		log.Info("request cannot be satisfied")
		h.UnsatisfiableRequest(s.id, serverName, missing)
		return
	}

	if wait := c.blockedFor(); wait > 0 {
		h.KeyshareBlocked(s.id, c.manager, seconds(wait))
		return
	}

	h.RequestPermission(s.id, serverName, s.request.Message, disjunctions)
	var permission permissionResponse
	select {
	case permission = <-s.permission:
	case <-s.ctx.Done():
		return
	}
	if !permission.proceed {
		h.Cancelled(s.id)
		return
	}
	if err := s.checkDisclosure(permission.disclosure, disjunctions); err != nil {
		h.Failure(s.id, err)
		return
	}

	remaining := -1
	for {
		h.RequestPin(s.id, remaining)
		var pin pinResponse
		select {
		case pin = <-s.pin:
		case <-s.ctx.Done():
			return
		}
		if !pin.proceed {
			h.Cancelled(s.id)
			return
		}

		h.StatusUpdate(s.id, session.StatusCommunicating)
		if !c.sleep() {
			return
		}
		ok, left, blocked := c.checkPin(pin.pin)
		if blocked > 0 {
			h.KeyshareBlocked(s.id, c.manager, seconds(blocked))
			return
		}
		if ok {
			break
		}
		remaining = left
	}

	if !c.sleep() {
		return
	}
	log.Info("session succeeded")
	h.Success(s.id)
}

func (c *Client) blockedFor() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Until(c.blockedUntil)
}

// Candidates returns the candidates of every disjunction of request from creds, and the
// disjunctions for which creds contains none.
func Candidates(
	conf *irmamobile.Configuration, creds irmamobile.CredentialInfoList, request Request,
) ([]session.Disjunction, []session.MissingDisjunction) {
	var disjunctions []session.Disjunction
	var missing []session.MissingDisjunction

	for _, requested := range request.Disclose {
		d := session.Disjunction{Label: requested.Label}
		var ids []irmamobile.AttributeTypeIdentifier
		for _, attr := range requested.Attributes {
			id := irmamobile.NewAttributeTypeIdentifier(attr)
			ids = append(ids, id)
			for _, cred := range creds {
				value, ok := cred.Attributes[id]
				if !ok || cred.IsExpired() {
					continue
				}
				d.Candidates = append(d.Candidates, session.Candidate{
					Type:           id,
					Name:           attributeName(conf, id),
					Value:          value,
					CredentialName: credentialName(conf, cred.Identifier()),
				})
			}
		}
		if len(d.Candidates) == 0 {
			missing = append(missing, session.MissingDisjunction{Label: requested.Label, Attributes: ids})
		}
		disjunctions = append(disjunctions, d)
	}
	return disjunctions, missing
}

func attributeName(conf *irmamobile.Configuration, id irmamobile.AttributeTypeIdentifier) irmamobile.TranslatedString {
	if at, ok := conf.AttributeTypes[id]; ok {
		return at.Name
	}
	return irmamobile.NewTranslatedString(id.Name())
}

func credentialName(conf *irmamobile.Configuration, id irmamobile.CredentialTypeIdentifier) irmamobile.TranslatedString {
	if ct, ok := conf.CredentialTypes[id]; ok {
		return ct.Name
	}
	return irmamobile.NewTranslatedString(id.Name())
}

// checkDisclosure verifies that the disclosure contains one candidate of every disjunction.
func (s *demoSession) checkDisclosure(
	disclosure []irmamobile.AttributeTypeIdentifier, disjunctions []session.Disjunction,
) *irmamobile.SessionError {
	if len(disclosure) != len(disjunctions) {
		return &irmamobile.SessionError{
			ErrorType: irmamobile.ErrorRejected,
			Info:      "disclosure does not match request",
			RemoteError: &irmamobile.RemoteError{
				Status:      400,
				ErrorName:   "ATTRIBUTES_WRONG",
				Description: "Wrong number of attributes disclosed",
			},
		}
	}
	for i, d := range disjunctions {
		found := false
		for _, candidate := range d.Candidates {
			if candidate.Type == disclosure[i] {
				found = true
				break
			}
		}
		if !found {
			return &irmamobile.SessionError{
				ErrorType: irmamobile.ErrorRejected,
				Info:      disclosure[i].String(),
				RemoteError: &irmamobile.RemoteError{
					Status:      400,
					ErrorName:   "ATTRIBUTES_WRONG",
					Description: "Disclosed attribute was not requested",
				},
			}
		}
	}
	return nil
}
