package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/crucial707/monster-mashup/internal/middleware"
	"github.com/crucial707/monster-mashup/internal/models"
	"github.com/crucial707/monster-mashup/internal/repo"
)

// HistoryStore is the search history ledger.
type HistoryStore interface {
	Record(ctx context.Context, userID int, kind, term string, at time.Time) (*models.SearchHistoryEntry, error)
	RecentFor(ctx context.Context, userID, limit int) ([]models.SearchHistoryEntry, error)
}

var _ HistoryStore = (*repo.HistoryRepo)(nil)

// HistoryHandler serves the caller's own search history.
type HistoryHandler struct {
	Repo HistoryStore
}

// ListHistory returns the caller's most recent searches, newest first.
// Query: limit (1..10, default 10).
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, msgUnauthenticated, http.StatusUnauthorized)
		return
	}

	limit := repo.MaxHistoryEntries
	if l := r.URL.Query().Get("limit"); l != "" {
		if val, err := strconv.Atoi(l); err == nil && val > 0 && val <= repo.MaxHistoryEntries {
			limit = val
		}
	}

	entries, err := h.Repo.RecentFor(r.Context(), user.ID, limit)
	if err != nil {
		writeError(w, r, err, ErrMessageInternal)
		return
	}
	JSON(w, http.StatusOK, entries)
}
