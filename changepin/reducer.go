package changepin

import (
	irmamobile "github.com/privacybydesign/irmamobile"
)

// Reduce returns the state that results from applying event to state. Events that do not
// apply in the current status, and events of other parts of the app, leave state unchanged.
//
// A request can only be made from Started or PinError, and the outcome of a request
// (Succeeded, Incorrect, Blocked, Failure) is only accepted while Changing.
func Reduce(state State, event irmamobile.Event) State {
	if state.Status == nil {
		state.Status = Started{}
	}

	switch e := event.(type) {
	case Begin, Reset:
		return Initial()

	case OldPinChanged:
		if !inputAllowed(state.Status) {
			return state
		}
		state.OldPin = e.Pin
	case NewPinChanged:
		if !inputAllowed(state.Status) {
			return state
		}
		state.NewPin = e.Pin
	case ValidationForced:
		if !inputAllowed(state.Status) {
			return state
		}
		state.ValidationForced = true

	case Requested:
		if !inputAllowed(state.Status) {
			return state
		}
		state.Status = Changing{}
		state.ValidationForced = false

	case Succeeded:
		if !changing(state.Status) {
			return state
		}
		state = State{Status: Success{}}
	case Incorrect:
		if !changing(state.Status) {
			return state
		}
		state.Status = PinError{RemainingAttempts: e.RemainingAttempts}
		// A rejected PIN must be entered again, never resubmitted.
		state.OldPin = ""
	case Blocked:
		if !changing(state.Status) {
			return state
		}
		state = State{Status: KeyshareBlocked{Timeout: e.Timeout}}
	case Failure:
		if !changing(state.Status) {
			return state
		}
		state = State{Status: Failed{Err: e.Err}}
	}

	return state
}

func inputAllowed(s Status) bool {
	switch s.(type) {
	case Started, PinError:
		return true
	default:
		return false
	}
}

func changing(s Status) bool {
	_, ok := s.(Changing)
	return ok
}
