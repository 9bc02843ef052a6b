package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

// RespondJSONAndLog is a convenience wrapper around RespondJSON that also logs any encoding errors.
func RespondJSONAndLog(w http.ResponseWriter, logger *slog.Logger, status int, payload any) {
	if err := RespondJSON(w, status, payload); err != nil {
		logger.Debug("failed to respond with JSON", "err", err)
	}
}

// RespondJSON sets the status code and Content-Type header and encodes
// payload as the response body.
//
// Returns an error only if JSON encoding fails. In most cases, this happens
// if the response writer is closed or the payload is not serializable.
func RespondJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(payload)
}

// MessageResponse is the body of delete and status-change endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// StatusResponse is the body of the admin session and health endpoints.
type StatusResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
	Username string `json:"username,omitempty"`
}

// DebugFailure is reported by the admin debug endpoint when the database is unreachable.
type DebugFailure struct {
	Status    string    `json:"status"`
	Database  string    `json:"database"`
	Error     string    `json:"error"`
	Timestamp time.Time `json:"timestamp"`
}
