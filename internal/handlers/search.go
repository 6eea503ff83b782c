package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/crucial707/monster-mashup/internal/metrics"
	"github.com/crucial707/monster-mashup/internal/middleware"
	"github.com/crucial707/monster-mashup/internal/models"
	"github.com/crucial707/monster-mashup/internal/species"
)

// SpeciesLookup fetches upstream species payloads.
type SpeciesLookup interface {
	LookupPokemon(ctx context.Context, name string) (json.RawMessage, error)
	LookupDigimon(ctx context.Context, name string) (json.RawMessage, error)
}

var _ SpeciesLookup = (*species.Client)(nil)

// ==========================
// Search Handler
// ==========================
type SearchHandler struct {
	Species SpeciesLookup
	History HistoryStore
	Now     func() time.Time
}

func (h *SearchHandler) now() time.Time {
	if h.Now == nil {
		return time.Now()
	}
	return h.Now()
}

// ==========================
// Search Pokémon
// ==========================
func (h *SearchHandler) Pokemon(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, models.KindPokemon, h.Species.LookupPokemon)
}

// ==========================
// Search Digimon
// ==========================
func (h *SearchHandler) Digimon(w http.ResponseWriter, r *http.Request) {
	h.search(w, r, models.KindDigimon, h.Species.LookupDigimon)
}

// search runs the lookup and, only once it succeeded, appends the raw term
// to the caller's history. A failed history write is logged and counted but
// the payload is still returned.
func (h *SearchHandler) search(w http.ResponseWriter, r *http.Request, kind string, lookup func(context.Context, string) (json.RawMessage, error)) {
	user, ok := middleware.UserFrom(r.Context())
	if !ok {
		JSONError(w, msgUnauthenticated, http.StatusUnauthorized)
		return
	}
	term := strings.TrimSpace(r.URL.Query().Get("name"))
	reqID := chimw.GetReqID(r.Context())

	start := time.Now()
	payload, err := lookup(r.Context(), term)
	metrics.RecordLookup(kind, lookupOutcome(err), time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, apperr.ErrUpstream):
			slog.Error("species lookup failed",
				"request_id", reqID,
				"kind", kind,
				"term", term,
				"error", err)
			JSONError(w, "failed to fetch "+kind+" data", http.StatusInternalServerError)
		default:
			writeError(w, r, err, kind+" not found")
		}
		return
	}

	if _, err := h.History.Record(r.Context(), user.ID, kind, term, h.now()); err != nil {
		metrics.IncHistoryWriteFailures()
		slog.Error("record search history",
			"request_id", reqID,
			"user_id", user.ID,
			"kind", kind,
			"error", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write(payload)
}

func lookupOutcome(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case species.IsTimeout(err):
		return metrics.OutcomeTimeout
	case errors.Is(err, apperr.ErrNotFound):
		return metrics.OutcomeNotFound
	default:
		return metrics.OutcomeError
	}
}
