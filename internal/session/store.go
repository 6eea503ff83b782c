// Package session keeps authenticated state on the server. The browser only
// holds a signed cookie naming a session id; the id maps to a user in a Store.
package session

import (
	"context"
	"time"

	"github.com/crucial707/monster-mashup/internal/models"
)

// Store persists sessions. Get returns apperr.ErrNotFound for missing or
// expired sessions. Delete is idempotent.
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
