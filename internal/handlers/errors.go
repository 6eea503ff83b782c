package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/monster-mashup/internal/apperr"
)

// ErrMessageInternal is the generic message for 500 responses. Do not expose internal details to clients.
const ErrMessageInternal = "internal server error"

// Client-facing messages.
const (
	msgInvalidJSON        = "invalid json"
	msgBodyTooLarge       = "request body too large"
	msgInvalidCredentials = "invalid username or password"
	msgUnauthenticated    = "unauthenticated"
	msgDuplicateUser      = "username already exists"
)

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// JSONError sends {"success":false,"message":message}.
func JSONError(w http.ResponseWriter, message string, status int) {
	JSON(w, status, map[string]any{"success": false, "message": message})
}

// JSONValidationError sends a JSON error response with "message" and optional "fields" for field-level details.
// status is typically http.StatusBadRequest (400).
func JSONValidationError(w http.ResponseWriter, message string, fields map[string]string, status int) {
	out := map[string]any{"success": false, "message": message}
	if len(fields) > 0 {
		out["fields"] = fields
	}
	JSON(w, status, out)
}

// writeError maps err onto a status and a client-safe message. notFound is
// the message used for apperr.ErrNotFound. Anything unrecognized is logged
// and answered with a bare 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	var verr *apperr.ValidationError
	switch {
	case errors.As(err, &verr):
		JSONValidationError(w, verr.Error(), verr.Fields, http.StatusBadRequest)
	case errors.Is(err, apperr.ErrValidation):
		JSONError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, apperr.ErrInvalidCredentials):
		JSONError(w, msgInvalidCredentials, http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrUnauthenticated):
		JSONError(w, msgUnauthenticated, http.StatusUnauthorized)
	case errors.Is(err, apperr.ErrDuplicateUser):
		JSONError(w, msgDuplicateUser, http.StatusBadRequest)
	case errors.Is(err, apperr.ErrNotFound):
		JSONError(w, notFound, http.StatusNotFound)
	default:
		slog.Error("request failed",
			"request_id", chimw.GetReqID(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		JSONError(w, ErrMessageInternal, http.StatusInternalServerError)
	}
}

// decodeJSON reads a JSON body into dst and answers 400/413 itself on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			JSONError(w, msgBodyTooLarge, http.StatusRequestEntityTooLarge)
			return false
		}
		JSONError(w, msgInvalidJSON, http.StatusBadRequest)
		return false
	}
	return true
}

// NotFound is the catch-all for unmatched routes.
func NotFound(w http.ResponseWriter, r *http.Request) {
	JSONError(w, "endpoint not found", http.StatusNotFound)
}

// MethodNotAllowed answers a known path hit with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	JSONError(w, "method not allowed", http.StatusMethodNotAllowed)
}
