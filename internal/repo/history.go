package repo

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/crucial707/monster-mashup/internal/models"
)

// MaxHistoryEntries caps how many entries RecentFor returns.
const MaxHistoryEntries = 10

// HistoryRepo is the append-only search history ledger.
type HistoryRepo struct {
	db *sql.DB
}

// NewHistoryRepo returns a new HistoryRepo.
func NewHistoryRepo(db *sql.DB) *HistoryRepo {
	return &HistoryRepo{db: db}
}

// Record appends one entry. kind is pokemon|digimon; the other column stays NULL.
// An unknown userID is reported as apperr.ErrNotFound via the foreign key.
func (r *HistoryRepo) Record(ctx context.Context, userID int, kind, term string, at time.Time) (*models.SearchHistoryEntry, error) {
	var pokemon, digimon sql.NullString
	switch kind {
	case models.KindPokemon:
		pokemon = sql.NullString{String: term, Valid: true}
	case models.KindDigimon:
		digimon = sql.NullString{String: term, Valid: true}
	default:
		return nil, apperr.Invalid("kind", fmt.Sprintf("kind must be %s or %s", models.KindPokemon, models.KindDigimon))
	}

	e := &models.SearchHistoryEntry{UserID: userID}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO search_history (user_id, pokemon, digimon, searched_at) VALUES ($1, $2, $3, $4) RETURNING id, searched_at`,
		userID, pokemon, digimon, at.UTC(),
	).Scan(&e.ID, &e.Timestamp)
	if err != nil {
		if isForeignKeyViolation(err) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("record history: %w", err)
	}
	e.Pokemon = nullableString(pokemon)
	e.Digimon = nullableString(digimon)
	return e, nil
}

// RecentFor returns the user's newest entries first. limit outside 1..MaxHistoryEntries means MaxHistoryEntries.
func (r *HistoryRepo) RecentFor(ctx context.Context, userID, limit int) ([]models.SearchHistoryEntry, error) {
	if limit <= 0 || limit > MaxHistoryEntries {
		limit = MaxHistoryEntries
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, pokemon, digimon, searched_at FROM search_history WHERE user_id = $1 ORDER BY searched_at DESC, id DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	entries := make([]models.SearchHistoryEntry, 0, limit)
	for rows.Next() {
		var (
			e                models.SearchHistoryEntry
			pokemon, digimon sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.UserID, &pokemon, &digimon, &e.Timestamp); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		e.Pokemon = nullableString(pokemon)
		e.Digimon = nullableString(digimon)
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func nullableString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}
