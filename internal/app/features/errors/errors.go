// internal/app/features/errors/errors.go
package errors

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

// envelope is the error body every endpoint returns on failure.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// ErrorLogger pairs a structured log entry with a JSON error response,
// so handlers never log and respond in two diverging ways. The userMsg
// goes to the client; the internal error only to the log.
type ErrorLogger struct {
	log *zap.Logger
}

// NewErrorLogger constructs an ErrorLogger.
func NewErrorLogger(logger *zap.Logger) *ErrorLogger {
	return &ErrorLogger{log: logger}
}

// LogBadRequest responds 400 for malformed input.
func (e *ErrorLogger) LogBadRequest(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.respond(w, r, http.StatusBadRequest, logMsg, err, userMsg)
}

// LogUnprocessable responds 422 for well-formed input that fails
// validation rules.
func (e *ErrorLogger) LogUnprocessable(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.respond(w, r, http.StatusUnprocessableEntity, logMsg, err, userMsg)
}

// LogNotFound responds 404.
func (e *ErrorLogger) LogNotFound(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.respond(w, r, http.StatusNotFound, logMsg, err, userMsg)
}

// LogForbidden responds 403.
func (e *ErrorLogger) LogForbidden(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.respond(w, r, http.StatusForbidden, logMsg, err, userMsg)
}

// LogConflict responds 409 for state conflicts such as lifecycle
// transitions the current status does not allow.
func (e *ErrorLogger) LogConflict(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.respond(w, r, http.StatusConflict, logMsg, err, userMsg)
}

// LogUnauthorized responds 401.
func (e *ErrorLogger) LogUnauthorized(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.respond(w, r, http.StatusUnauthorized, logMsg, err, userMsg)
}

// LogServerError responds 500 and logs at error level.
func (e *ErrorLogger) LogServerError(w http.ResponseWriter, r *http.Request, logMsg string, err error, userMsg string) {
	e.log.Error(logMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	writeJSONError(w, http.StatusInternalServerError, userMsg)
}

func (e *ErrorLogger) respond(w http.ResponseWriter, r *http.Request, status int, logMsg string, err error, userMsg string) {
	e.log.Warn(logMsg,
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	)
	writeJSONError(w, status, userMsg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{Success: false, Message: msg})
}
