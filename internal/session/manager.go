package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/crucial707/monster-mashup/internal/models"
	"github.com/google/uuid"
)

const (
	// CookieName is the session cookie carried by clients.
	CookieName = "mashup.sid"
	// TTL is the fixed session lifetime; it does not slide with activity.
	TTL = 24 * time.Hour
)

// UserLookup re-resolves the session owner on every request.
type UserLookup interface {
	GetByID(ctx context.Context, id int) (*models.User, error)
}

// Manager issues, resolves and ends sessions.
type Manager struct {
	Store  Store
	Users  UserLookup
	Secret []byte

	// Secure marks the cookie Secure and SameSite=None (cross-site deployment).
	// Otherwise the cookie is SameSite=Lax and sent over plain HTTP.
	Secure bool

	Now func() time.Time
}

// NewManager returns a Manager using the wall clock.
func NewManager(store Store, users UserLookup, secret string, secure bool) *Manager {
	return &Manager{
		Store:  store,
		Users:  users,
		Secret: []byte(secret),
		Secure: secure,
		Now:    time.Now,
	}
}

func (m *Manager) now() time.Time {
	if m.Now == nil {
		return time.Now()
	}
	return m.Now()
}

// Start creates a session for user and sets the cookie. A session the request
// already carries is destroyed first so ids are never reused across logins.
func (m *Manager) Start(ctx context.Context, w http.ResponseWriter, r *http.Request, user *models.User) (*models.Session, error) {
	if oldID, ok := m.cookieID(r); ok {
		if err := m.Store.Delete(ctx, oldID); err != nil {
			slog.WarnContext(ctx, "replace session: delete previous", "error", err)
		}
	}

	now := m.now()
	s := &models.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		CreatedAt: now,
		ExpiresAt: now.Add(TTL),
	}
	if err := m.Store.Create(ctx, s); err != nil {
		return nil, err
	}

	value, err := signID(m.Secret, s.ID, s.CreatedAt, s.ExpiresAt)
	if err != nil {
		return nil, err
	}
	http.SetCookie(w, m.cookie(value, int(TTL/time.Second)))
	return s, nil
}

// Resolve returns the user behind the request's session cookie, or
// apperr.ErrUnauthenticated. A session whose user no longer exists is
// destroyed on the spot.
func (m *Manager) Resolve(ctx context.Context, r *http.Request) (*models.User, *models.Session, error) {
	id, ok := m.cookieID(r)
	if !ok {
		return nil, nil, apperr.ErrUnauthenticated
	}

	s, err := m.Store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, nil, apperr.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("resolve session: %w", err)
	}
	if s.Expired(m.now()) {
		return nil, nil, apperr.ErrUnauthenticated
	}

	user, err := m.Users.GetByID(ctx, s.UserID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			if delErr := m.Store.Delete(ctx, s.ID); delErr != nil {
				slog.WarnContext(ctx, "drop orphaned session", "error", delErr)
			}
			return nil, nil, apperr.ErrUnauthenticated
		}
		return nil, nil, fmt.Errorf("resolve session user: %w", err)
	}
	return user, s, nil
}

// End clears the cookie unconditionally and destroys the server-side session.
// The returned error only reports store trouble; the client is logged out either way.
func (m *Manager) End(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	http.SetCookie(w, m.cookie("", -1))

	id, ok := m.cookieID(r)
	if !ok {
		return nil
	}
	return m.Store.Delete(ctx, id)
}

// Purge removes expired sessions from stores that do not expire them on their own.
func (m *Manager) Purge(ctx context.Context) (int64, error) {
	return m.Store.DeleteExpired(ctx, m.now())
}

func (m *Manager) cookieID(r *http.Request) (string, bool) {
	c, err := r.Cookie(CookieName)
	if err != nil || c.Value == "" {
		return "", false
	}
	id, err := parseID(m.Secret, c.Value, m.now)
	if err != nil {
		return "", false
	}
	return id, true
}

func (m *Manager) cookie(value string, maxAge int) *http.Cookie {
	c := &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   m.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	if m.Secure {
		c.SameSite = http.SameSiteNoneMode
	}
	if maxAge > 0 {
		c.Expires = m.now().Add(time.Duration(maxAge) * time.Second)
	}
	return c
}
