package preview

import (
	"encoding/json"
	"net/http"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	irmamobile "github.com/privacybydesign/irmamobile"
)

// Error is an error returned by the preview server.
type Error struct {
	Type        ErrorType `json:"error"`
	Status      int       `json:"status"`
	Description string    `json:"description"`
}

type ErrorType string

var (
	ErrorInvalidRequest  Error = Error{Type: "INVALID_REQUEST", Status: 400, Description: "Invalid HTTP request"}
	ErrorMalformedInput  Error = Error{Type: "MALFORMED_INPUT", Status: 400, Description: "Input could not be parsed"}
	ErrorUnknownCommand  Error = Error{Type: "UNKNOWN_COMMAND", Status: 400, Description: "Unknown command"}
	ErrorSessionUnknown  Error = Error{Type: "SESSION_UNKNOWN", Status: 404, Description: "Unknown session"}
	ErrorUnsupported     Error = Error{Type: "UNSUPPORTED", Status: 501, Description: "Unsupported by this server"}
	ErrorSessionRejected Error = Error{Type: "SESSION_REJECTED", Status: 400, Description: "Session request was rejected"}
	ErrorUnknown         Error = Error{Type: "EXCEPTION", Status: 500, Description: "Encountered unexpected problem"}
)

// remoteError converts an error and an explaining message to an *irmamobile.RemoteError.
func remoteError(logger *logrus.Logger, err Error, message string) *irmamobile.RemoteError {
	stack := string(debug.Stack())
	logger.Debugf("Error: %d %s %s\n%s", err.Status, err.Type, message, stack)
	return &irmamobile.RemoteError{
		Status:      err.Status,
		Description: err.Description,
		ErrorName:   string(err.Type),
		Message:     message,
		Stacktrace:  stack,
	}
}

// jsonResponse JSON-marshals the specified object or error
// and returns it along with a suitable HTTP status code
func jsonResponse(logger *logrus.Logger, v interface{}, err *irmamobile.RemoteError) (int, []byte) {
	msg := v
	status := http.StatusOK
	if err != nil {
		msg = err
		status = err.Status
	}
	b, e := json.Marshal(msg)
	if e != nil {
		logger.Error("Failed to serialize response: ", e.Error())
		return http.StatusInternalServerError, nil
	}
	return status, b
}

func (s *Server) writeError(w http.ResponseWriter, err Error, msg string) {
	s.writeResponse(w, nil, remoteError(s.conf.Logger, err, msg))
}

func (s *Server) writeJson(w http.ResponseWriter, object interface{}) {
	s.writeResponse(w, object, nil)
}

func (s *Server) writeResponse(w http.ResponseWriter, object interface{}, rerr *irmamobile.RemoteError) {
	status, bts := jsonResponse(s.conf.Logger, object, rerr)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(bts)
}
