package server

import (
	"encoding/json"
	"errors"
	"net/http"

	tserrors "github.com/yacobolo/themesync/pkg/errors"
)

// ProductionMessage is the fixed message of every request refused in production
const ProductionMessage = "Dev tools are disabled in production"

// Envelope wraps every JSON response
type Envelope struct {
	Success bool       `json:"success"`
	Message string     `json:"message,omitempty"`
	Data    any        `json:"data,omitempty"`
	Error   *ErrorBody `json:"error,omitempty"`
}

// ErrorBody describes a failed request
type ErrorBody struct {
	Kind        string `json:"kind"`
	Details     string `json:"details,omitempty"`
	Hint        string `json:"hint,omitempty"`
	ActiveTheme string `json:"activeTheme,omitempty"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error(err, "encode response")
	}
}

func (s *Server) ok(w http.ResponseWriter, message string, data any) {
	s.writeJSON(w, http.StatusOK, Envelope{Success: true, Message: message, Data: data})
}

// fail maps err onto a status code and an error envelope
func (s *Server) fail(w http.ResponseWriter, err error) {
	status, body := classify(err)
	message := err.Error()
	if body.Kind == "production" {
		message = ProductionMessage
		body.Details = ""
	}
	if status >= http.StatusInternalServerError {
		s.log.Error(err, "request failed", map[string]any{"kind": body.Kind})
	}
	s.writeJSON(w, status, Envelope{Success: false, Message: message, Error: &body})
}

// badRequest answers malformed requests that never reached the engine
func (s *Server) badRequest(w http.ResponseWriter, details string) {
	s.writeJSON(w, http.StatusBadRequest, Envelope{
		Success: false,
		Message: "malformed request",
		Error:   &ErrorBody{Kind: "invalid", Details: details},
	})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	for _, m := range allowed {
		w.Header().Add("Allow", m)
	}
	s.writeJSON(w, http.StatusMethodNotAllowed, Envelope{
		Success: false,
		Message: "method not allowed",
		Error:   &ErrorBody{Kind: "invalid"},
	})
}

func classify(err error) (int, ErrorBody) {
	kind := tserrors.Kind(err)
	body := ErrorBody{Kind: kind, Details: err.Error()}

	switch kind {
	case "production":
		return http.StatusForbidden, body
	case "write_locked":
		var locked *tserrors.WriteLockedError
		if errors.As(err, &locked) {
			body.ActiveTheme = locked.Active
			body.Hint = "switch to the theme before editing it"
		}
		return http.StatusLocked, body
	case "not_found":
		return http.StatusNotFound, body
	case "invalid":
		return http.StatusBadRequest, body
	case "io":
		var ioErr *tserrors.IOError
		if errors.As(err, &ioErr) {
			body.Hint = ioErr.Hint()
		}
		return http.StatusInternalServerError, body
	default:
		return http.StatusInternalServerError, body
	}
}
