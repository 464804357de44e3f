package session

import (
	irmamobile "github.com/privacybydesign/irmamobile"
)

// Reduce returns the sessions that result from applying event. The map and the sessions in it
// are never modified; changed sessions are copied. Events for unknown session IDs, and events
// other than Dismissed for finished sessions, leave sessions unchanged.
func Reduce(sessions Sessions, event irmamobile.Event) Sessions {
	switch e := event.(type) {
	case New:
		if _, exists := sessions[e.SessionID]; exists {
			return sessions
		}
		next := sessions.clone()
		next[e.SessionID] = &Session{
			ID:                e.SessionID,
			Action:            e.Action,
			Request:           e.Request,
			Status:            StatusInitialized,
			RemainingAttempts: -1,
		}
		return next

	case Dismissed:
		if _, exists := sessions[e.SessionID]; !exists {
			return sessions
		}
		next := sessions.clone()
		delete(next, e.SessionID)
		return next

	case StatusUpdated:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = e.Status
			return true
		})

	case PermissionRequested:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = StatusRequestPermission
			s.ServerName = e.ServerName
			s.Message = e.Message
			s.Disjunctions = e.Disjunctions
			s.Choice = make([]int, len(e.Disjunctions))
			return true
		})

	case ChoiceMade:
		return sessions.update(e.SessionID, func(s *Session) bool {
			if s.Status != StatusRequestPermission || e.Disjunction < 0 || e.Disjunction >= len(s.Disjunctions) {
				return false
			}
			if e.Candidate < 0 || e.Candidate >= len(s.Disjunctions[e.Disjunction].Candidates) {
				return false
			}
			choice := make([]int, len(s.Disjunctions))
			copy(choice, s.Choice)
			choice[e.Disjunction] = e.Candidate
			s.Choice = choice
			return true
		})

	case PinRequested:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = StatusRequestPin
			s.RemainingAttempts = e.RemainingAttempts
			return true
		})

	case PinSubmitted:
		return sessions.update(e.SessionID, func(s *Session) bool {
			if s.Status != StatusRequestPin {
				return false
			}
			s.Status = StatusCommunicating
			return true
		})

	case Unsatisfiable:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = StatusUnsatisfiableRequest
			s.ServerName = e.ServerName
			s.Missing = e.Missing
			return true
		})

	case EnrollmentMissing:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = StatusKeyshareEnrollmentMissing
			s.Manager = e.Manager
			return true
		})

	case Blocked:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = StatusKeyshareBlocked
			s.Manager = e.Manager
			s.BlockedDuration = e.Duration
			return true
		})

	case Succeeded:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = StatusSuccess
			return true
		})

	case Cancelled:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = StatusCancelled
			return true
		})

	case Failed:
		return sessions.update(e.SessionID, func(s *Session) bool {
			s.Status = StatusError
			s.Error = e.Err
			return true
		})
	}

	return sessions
}

func (sessions Sessions) clone() Sessions {
	next := make(Sessions, len(sessions)+1)
	for id, s := range sessions {
		next[id] = s
	}
	return next
}

// update applies f to a copy of the session, and returns a new map containing the copy if f
// reports a change.
func (sessions Sessions) update(id int, f func(s *Session) bool) Sessions {
	current, ok := sessions[id]
	if !ok || current.Status.Finished() {
		return sessions
	}
	s := *current
	if !f(&s) {
		return sessions
	}
	next := sessions.clone()
	next[id] = &s
	return next
}
