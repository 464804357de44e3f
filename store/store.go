package store

import (
	"reflect"
	"sync"
	"sync/atomic"

	"github.com/go-errors/errors"
	"github.com/sirupsen/logrus"

	irmamobile "github.com/privacybydesign/irmamobile"
	"github.com/privacybydesign/irmamobile/internal/concmap"
)

// Store holds the application state. Events are applied one at a time; readers always get a
// complete snapshot, never a partially updated state.
type Store struct {
	write sync.Mutex // serializes Dispatch

	mu    sync.RWMutex
	state State

	storage     *Storage
	subscribers concmap.ConcMap[int64, func(State)]
	nextID      atomic.Int64
}

// New returns a store in the initial state, with the preferences and enrollment read from
// storage. storage may be nil, in which case nothing is persisted.
func New(storage *Storage) (*Store, error) {
	s := &Store{
		state:       Initial(),
		storage:     storage,
		subscribers: concmap.New[int64, func(State)](),
	}
	if storage == nil {
		return s, nil
	}

	prefs, err := storage.LoadPreferences()
	if err != nil {
		return nil, err
	}
	enrollment, err := storage.LoadEnrollment()
	if err != nil {
		return nil, err
	}
	s.state = Reduce(Reduce(s.state, PreferencesLoaded{Preferences: prefs}), EnrollmentLoaded{Enrollment: enrollment})
	return s, nil
}

// State returns the current state. It must not be modified.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Dispatch applies event to the state, persists the slices that changed, and then calls the
// subscribers with the new state. Subscribers are called in the goroutine of Dispatch and must
// not dispatch events themselves.
func (s *Store) Dispatch(event irmamobile.Event) {
	s.write.Lock()
	defer s.write.Unlock()

	irmamobile.Logger.WithField("event", event.EventName()).Trace("dispatching event")

	s.mu.Lock()
	prev := s.state
	s.state = Reduce(prev, event)
	next := s.state
	s.mu.Unlock()

	if err := s.persist(prev, next); err != nil {
		irmamobile.Logger.WithFields(logrus.Fields{
			"event": event.EventName(),
			"error": err.Error(),
		}).Error("failed to persist state")
	}

	for _, f := range s.subscribers.Values() {
		f(next)
	}
}

// Subscribe registers f to be called with every new state. The returned function
// unsubscribes f.
func (s *Store) Subscribe(f func(State)) (cancel func()) {
	id := s.nextID.Add(1)
	s.subscribers.Set(id, f)
	return func() {
		s.subscribers.Delete(id)
	}
}

func (s *Store) persist(prev, next State) error {
	if s.storage == nil {
		return nil
	}
	if prev.Preferences != next.Preferences {
		if err := s.storage.StorePreferences(next.Preferences); err != nil {
			return errors.WrapPrefix(err, "failed to store preferences", 0)
		}
	}
	if !reflect.DeepEqual(prev.Enrollment.Enrolled, next.Enrollment.Enrolled) {
		if err := s.storage.StoreEnrollment(next.Enrollment); err != nil {
			return errors.WrapPrefix(err, "failed to store enrollment", 0)
		}
	}
	return nil
}
