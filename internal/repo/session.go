package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/monster-mashup/internal/models"
)

// SessionRepo keeps server-side sessions in postgres.
type SessionRepo struct {
	DB *sql.DB
}

// NewSessionRepo returns a new SessionRepo.
func NewSessionRepo(db *sql.DB) *SessionRepo {
	return &SessionRepo{DB: db}
}

// Create inserts a session.
func (r *SessionRepo) Create(ctx context.Context, s *models.Session) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, created_at, expires_at) VALUES ($1, $2, $3, $4)`,
		s.ID, s.UserID, s.CreatedAt.UTC(), s.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Get returns a live session. Missing and expired sessions are apperr.ErrNotFound.
func (r *SessionRepo) Get(ctx context.Context, id string) (*models.Session, error) {
	s := &models.Session{}
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1 AND expires_at > $2`,
		id, time.Now().UTC(),
	).Scan(&s.ID, &s.UserID, &s.CreatedAt, &s.ExpiresAt)
	if err != nil {
		return nil, notFound(err, "get session")
	}
	return s, nil
}

// Delete removes a session. Deleting a missing session is not an error.
func (r *SessionRepo) Delete(ctx context.Context, id string) error {
	if _, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteExpired purges sessions that expired before now and returns how many were removed.
func (r *SessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= $1`, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("purge sessions: %w", err)
	}
	return result.RowsAffected()
}
