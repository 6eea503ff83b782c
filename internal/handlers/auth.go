package handlers

import (
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/monster-mashup/internal/auth"
	"github.com/crucial707/monster-mashup/internal/middleware"
	"github.com/crucial707/monster-mashup/internal/session"
)

// ==========================
// Auth Handler
// ==========================
type AuthHandler struct {
	Auth     *auth.Service
	Sessions *session.Manager
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userView struct {
	Username string `json:"username"`
}

// ==========================
// Register
// ==========================
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input credentialsRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Auth.Register(r.Context(), input.Username, input.Password)
	if err != nil {
		writeError(w, r, err, ErrMessageInternal)
		return
	}
	slog.Info("user registered",
		"request_id", chimw.GetReqID(r.Context()),
		"user_id", user.ID)

	JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"message": "registration successful",
	})
}

// ==========================
// Login (binds a new session; any session the client carried is destroyed)
// ==========================
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input credentialsRequest
	if !decodeJSON(w, r, &input) {
		return
	}

	user, err := h.Auth.Authenticate(r.Context(), input.Username, input.Password)
	if err != nil {
		writeError(w, r, err, msgInvalidCredentials)
		return
	}

	if _, err := h.Sessions.Start(r.Context(), w, r, user); err != nil {
		writeError(w, r, err, ErrMessageInternal)
		return
	}

	JSON(w, http.StatusOK, map[string]any{
		"success": true,
		"user":    userView{Username: user.Username},
	})
}

// ==========================
// Check Session (never 401; reports whether the cookie is live)
// ==========================
func (h *AuthHandler) CheckSession(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSON(w, http.StatusOK, map[string]any{"authenticated": false})
		return
	}
	JSON(w, http.StatusOK, map[string]any{
		"authenticated": true,
		"user":          userView{Username: user.Username},
	})
}

// ==========================
// Logout (always clears the cookie; store failures are only logged)
// ==========================
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.End(r.Context(), w, r); err != nil {
		slog.Warn("logout: destroy session",
			"request_id", chimw.GetReqID(r.Context()),
			"error", err)
	}
	JSON(w, http.StatusOK, map[string]any{"success": true})
}

// ==========================
// Current User
// ==========================
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, msgUnauthenticated, http.StatusUnauthorized)
		return
	}
	JSON(w, http.StatusOK, userView{Username: user.Username})
}

// ==========================
// Update Password
// ==========================
func (h *AuthHandler) UpdatePassword(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, msgUnauthenticated, http.StatusUnauthorized)
		return
	}

	var input struct {
		NewPassword string `json:"newPassword"`
	}
	if !decodeJSON(w, r, &input) {
		return
	}

	if err := h.Auth.SetPassword(r.Context(), user.ID, input.NewPassword); err != nil {
		writeError(w, r, err, "user not found")
		return
	}
	slog.Info("password updated",
		"request_id", chimw.GetReqID(r.Context()),
		"user_id", user.ID)

	JSON(w, http.StatusOK, map[string]any{"success": true})
}
