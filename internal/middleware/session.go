package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/crucial707/monster-mashup/internal/models"
	"github.com/crucial707/monster-mashup/internal/session"
)

type key string

const identityKey key = "identity"

type identity struct {
	user    *models.User
	session *models.Session
	err     error
}

// SessionResolver is the part of session.Manager the middleware needs.
type SessionResolver interface {
	Resolve(ctx context.Context, r *http.Request) (*models.User, *models.Session, error)
}

var _ SessionResolver = (*session.Manager)(nil)

// LoadSession resolves the session cookie once per request and stores the
// outcome in the context. It never rejects; RequireSession does.
func LoadSession(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, s, err := resolver.Resolve(r.Context(), r)
			if err != nil && !errors.Is(err, apperr.ErrUnauthenticated) {
				slog.Error("resolve session",
					"request_id", chimw.GetReqID(r.Context()),
					"error", err)
			}
			if info, ok := r.Context().Value(requestInfoKey).(*requestInfo); ok && user != nil {
				info.userID = user.ID
			}
			ctx := context.WithValue(r.Context(), identityKey, &identity{user: user, session: s, err: err})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireSession rejects requests without a live session: 401 when there is
// no valid session, 500 when the session or user store failed.
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, _ := r.Context().Value(identityKey).(*identity)
		switch {
		case id == nil || errors.Is(id.err, apperr.ErrUnauthenticated):
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		case id.err != nil:
			writeError(w, http.StatusInternalServerError, "internal server error")
			return
		case id.user == nil:
			writeError(w, http.StatusUnauthorized, "unauthenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFrom returns the authenticated user, if any.
func UserFrom(ctx context.Context) (*models.User, bool) {
	id, _ := ctx.Value(identityKey).(*identity)
	if id == nil || id.err != nil || id.user == nil {
		return nil, false
	}
	return id.user, true
}

// SessionFrom returns the resolved session, if any.
func SessionFrom(ctx context.Context) (*models.Session, bool) {
	id, _ := ctx.Value(identityKey).(*identity)
	if id == nil || id.err != nil || id.session == nil {
		return nil, false
	}
	return id.session, true
}

// WithUser returns ctx carrying user as authenticated. Used by tests and by
// handlers that establish a session mid-request.
func WithUser(ctx context.Context, user *models.User, s *models.Session) context.Context {
	return context.WithValue(ctx, identityKey, &identity{user: user, session: s})
}
