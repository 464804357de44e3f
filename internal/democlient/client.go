// Package democlient simulates the IRMA client for the demo hosts of the wallet: a keyshare
// server checking a PIN, and disclosure and signing sessions over a fixed set of credentials.
// Like irmaclient, it reports results asynchronously through a handler.
package democlient

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/go-errors/errors"
	"golang.org/x/crypto/bcrypt"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/controller"
)

// Options configure the demo client. Zero values are replaced by the defaults.
type Options struct {
	// Pin is the initial keyshare PIN.
	Pin string
	// MaxAttempts is the number of incorrect PINs after which the keyshare server blocks.
	MaxAttempts   int
	BlockDuration time.Duration
	// Latency is the simulated duration of every round trip to a server.
	Latency    time.Duration
	BcryptCost int
}

const (
	DefaultPin           = "12345"
	DefaultMaxAttempts   = 3
	DefaultBlockDuration = 60 * time.Second
)

// Client is a simulated IRMA client. It implements controller.Client.
type Client struct {
	opts    Options
	handler controller.Handler
	manager irmamobile.SchemeManagerIdentifier

	conf  *irmamobile.Configuration
	creds irmamobile.CredentialInfoList

	ctx    context.Context
	cancel context.CancelFunc

	scheduler *gocron.Scheduler

	mu           sync.Mutex
	pinHash      []byte
	attempts     int // remaining
	blockedUntil time.Time
	sessions     map[int]*demoSession
	nextID       int
}

var _ controller.Client = (*Client)(nil)

// New returns a demo client. It does nothing until Start is called.
func New(opts Options) (*Client, error) {
	if opts.Pin == "" {
		opts.Pin = DefaultPin
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.BlockDuration <= 0 {
		opts.BlockDuration = DefaultBlockDuration
	}
	if opts.BcryptCost == 0 {
		opts.BcryptCost = bcrypt.DefaultCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(opts.Pin), opts.BcryptCost)
	if err != nil {
		return nil, errors.WrapPrefix(err, "failed to hash PIN", 0)
	}

	ctx, cancel := context.WithCancel(context.Background())
	c := &Client{
		opts:      opts,
		manager:   irmamobile.NewSchemeManagerIdentifier(DemoManager),
		conf:      DemoConfiguration(),
		creds:     DemoCredentials(time.Now()),
		ctx:       ctx,
		cancel:    cancel,
		scheduler: gocron.NewScheduler(time.UTC),
		pinHash:   hash,
		attempts:  opts.MaxAttempts,
		sessions:  map[int]*demoSession{},
	}

	gocron.SetPanicHandler(func(jobName string, recoverData interface{}) {
		irmamobile.Logger.Errorf("panic during gocron job '%s': %v", jobName, recoverData)
	})
	return c, nil
}

// Start reports the configuration, credentials and keyshare enrollment to handler, which
// receives all further callbacks.
func (c *Client) Start(handler controller.Handler) {
	c.mu.Lock()
	c.handler = handler
	c.mu.Unlock()

	c.scheduler.StartAsync()
	handler.UpdateConfiguration(c.conf)
	handler.UpdateCredentials(c.creds)
	handler.EnrollmentSuccess(c.manager)
}

// Close cancels running sessions and stops the unblock job.
func (c *Client) Close() error {
	c.cancel()
	c.scheduler.Stop()
	return nil
}

func (c *Client) sleep() bool {
	if c.opts.Latency <= 0 {
		return c.ctx.Err() == nil
	}
	select {
	case <-time.After(c.opts.Latency):
		return true
	case <-c.ctx.Done():
		return false
	}
}

// checkPin verifies pin like a keyshare server would. It returns the number of remaining
// attempts after an incorrect PIN, and the remaining blocking time when the server is blocked.
func (c *Client) checkPin(pin string) (ok bool, remaining int, blocked time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if wait := time.Until(c.blockedUntil); wait > 0 {
		return false, 0, wait
	}
	if c.attempts <= 0 {
		// the block expired before the unblock job ran
		c.attempts = c.opts.MaxAttempts
	}
	if bcrypt.CompareHashAndPassword(c.pinHash, []byte(pin)) == nil {
		c.attempts = c.opts.MaxAttempts
		return true, 0, 0
	}

	c.attempts--
	if c.attempts > 0 {
		return false, c.attempts, 0
	}
	c.block()
	return false, 0, c.opts.BlockDuration
}

// block must be called with c.mu held.
func (c *Client) block() {
	c.blockedUntil = time.Now().Add(c.opts.BlockDuration)
	irmamobile.Logger.WithField("duration", c.opts.BlockDuration).Info("keyshare PIN blocked")
	_, err := c.scheduler.Every(c.opts.BlockDuration).WaitForSchedule().LimitRunsTo(1).Do(c.unblock)
	if err != nil {
		irmamobile.Logger.Error("failed to schedule unblock: ", err)
	}
}

func (c *Client) unblock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.blockedUntil = time.Time{}
	c.attempts = c.opts.MaxAttempts
	irmamobile.Logger.Info("keyshare PIN unblocked")
}

// Blocked reports whether the keyshare server currently refuses PIN checks.
func (c *Client) Blocked() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.Now().Before(c.blockedUntil)
}

func seconds(d time.Duration) int {
	return int((d + time.Second - 1) / time.Second)
}

// KeyshareChangePin changes the PIN at the keyshare server of manager.
func (c *Client) KeyshareChangePin(manager irmamobile.SchemeManagerIdentifier, oldPin, newPin string) {
	go func() {
		if !c.sleep() {
			return
		}
		if manager != c.manager {
			c.handler.ChangePinFailure(manager, &irmamobile.SessionError{
				ErrorType: irmamobile.ErrorUnknownSchemeManager,
				Info:      manager.String(),
				Err:       errors.Errorf("unknown scheme manager %s", manager),
			})
			return
		}

		ok, remaining, blocked := c.checkPin(oldPin)
		switch {
		case blocked > 0:
			c.handler.ChangePinBlocked(manager, seconds(blocked))
		case !ok:
			c.handler.ChangePinIncorrect(manager, remaining)
		default:
			hash, err := bcrypt.GenerateFromPassword([]byte(newPin), c.opts.BcryptCost)
			if err != nil {
				c.handler.ChangePinFailure(manager, err)
				return
			}
			c.mu.Lock()
			c.pinHash = hash
			c.mu.Unlock()
			c.handler.ChangePinSuccess(manager)
		}
	}()
}

func (c *Client) session(id int) *demoSession {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessions[id]
}

func (c *Client) RespondPermission(sessionID int, proceed bool, disclosure []irmamobile.AttributeTypeIdentifier) {
	if s := c.session(sessionID); s != nil {
		s.respondPermission(permissionResponse{proceed: proceed, disclosure: disclosure})
	}
}

func (c *Client) RespondPin(sessionID int, proceed bool, pin string) {
	if s := c.session(sessionID); s != nil {
		s.respondPin(pinResponse{proceed: proceed, pin: pin})
	}
}

func (c *Client) DismissSession(sessionID int) {
	c.mu.Lock()
	s := c.sessions[sessionID]
	delete(c.sessions, sessionID)
	c.mu.Unlock()
	if s != nil {
		s.cancel()
	}
}

// NewSession starts a session for request and returns its ID. SessionStarted is reported
// before NewSession returns, so the caller can show the session right away; all later
// callbacks come from the goroutine of the session.
func (c *Client) NewSession(request Request) (int, error) {
	if err := request.Check(); err != nil {
		return 0, err
	}
	raw, err := json.Marshal(request)
	if err != nil {
		return 0, errors.WrapPrefix(err, "failed to marshal request", 0)
	}

	c.mu.Lock()
	if c.handler == nil {
		c.mu.Unlock()
		return 0, errors.New("client not started")
	}
	c.nextID++
	ctx, cancel := context.WithCancel(c.ctx)
	s := &demoSession{
		id:         c.nextID,
		request:    request,
		client:     c,
		ctx:        ctx,
		cancel:     cancel,
		permission: make(chan permissionResponse, 1),
		pin:        make(chan pinResponse, 1),
	}
	c.sessions[s.id] = s
	c.mu.Unlock()

	c.handler.SessionStarted(s.id, request.Action, raw)
	go s.run()
	return s.id, nil
}
