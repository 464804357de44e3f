package session

// Status is the status of a session. The set is open: statuses unknown to this version are
// kept as they are and rendered without heading, explanation or actions.
type Status string

// Session statuses
const (
	StatusInitialized               Status = "initialized"
	StatusCommunicating             Status = "communicating"
	StatusConnected                 Status = "connected"
	StatusRequestPermission         Status = "requestPermission"
	StatusRequestPin                Status = "requestPin"
	StatusUnsatisfiableRequest      Status = "unsatisfiableRequest"
	StatusKeyshareEnrollmentMissing Status = "keyshareEnrollmentMissing"
	StatusKeyshareBlocked           Status = "keyshareBlocked"
	StatusSuccess                   Status = "success"
	StatusCancelled                 Status = "cancelled"
	StatusError                     Status = "error"
)

// Known returns whether s is one of the statuses above.
func (s Status) Known() bool {
	switch s {
	case StatusInitialized, StatusCommunicating, StatusConnected, StatusRequestPermission,
		StatusRequestPin, StatusUnsatisfiableRequest, StatusKeyshareEnrollmentMissing,
		StatusKeyshareBlocked, StatusSuccess, StatusCancelled, StatusError:
		return true
	default:
		return false
	}
}

// Finished returns whether the session has ended, after which only dismissing it is possible.
func (s Status) Finished() bool {
	switch s {
	case StatusUnsatisfiableRequest, StatusKeyshareEnrollmentMissing, StatusKeyshareBlocked,
		StatusSuccess, StatusCancelled, StatusError:
		return true
	default:
		return false
	}
}
