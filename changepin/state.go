package changepin

import (
	"encoding/json"
	"time"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// State is the state of the PIN change flow. Only one PIN change can be active at a time.
type State struct {
	Status Status
	OldPin string
	NewPin string
	// ValidationForced makes the inputs show their validation errors immediately.
	ValidationForced bool
}

// Initial returns the state at the start of the flow.
func Initial() State {
	return State{Status: Started{}}
}

// RemainingAttempts returns the number of remaining attempts if the status is PinError.
func (s State) RemainingAttempts() (int, bool) {
	if pe, ok := s.Status.(PinError); ok {
		return pe.RemainingAttempts, true
	}
	return 0, false
}

type jsonState struct {
	Status            string                   `json:"status"`
	RemainingAttempts *int                     `json:"remainingAttempts,omitempty"`
	Timeout           *int64                   `json:"timeout,omitempty"` // seconds
	Error             *irmamobile.SessionError `json:"error,omitempty"`
	ValidationForced  bool                     `json:"validationForced"`
}

// MarshalJSON flattens the status into the fields that are meaningful for it. The PINs
// are never included.
func (s State) MarshalJSON() ([]byte, error) {
	out := jsonState{ValidationForced: s.ValidationForced}
	if s.Status == nil {
		out.Status = NameStarted
	} else {
		out.Status = s.Status.Name()
	}
	switch status := s.Status.(type) {
	case PinError:
		out.RemainingAttempts = &status.RemainingAttempts
	case KeyshareBlocked:
		seconds := int64(status.Timeout / time.Second)
		out.Timeout = &seconds
	case Failed:
		out.Error = status.Err
	}
	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *State) UnmarshalJSON(bts []byte) error {
	var in jsonState
	if err := json.Unmarshal(bts, &in); err != nil {
		return err
	}
	var attempts int
	if in.RemainingAttempts != nil {
		attempts = *in.RemainingAttempts
	}
	var timeout time.Duration
	if in.Timeout != nil {
		timeout = time.Duration(*in.Timeout) * time.Second
	}
	*s = State{
		Status:           ParseStatus(in.Status, attempts, timeout, in.Error),
		ValidationForced: in.ValidationForced,
	}
	return nil
}
