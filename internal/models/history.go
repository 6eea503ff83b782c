package models

import "time"

// Search kinds recorded in the history ledger.
const (
	KindPokemon = "pokemon"
	KindDigimon = "digimon"
)

// SearchHistoryEntry is one successful lookup. Exactly one of Pokemon and Digimon is set.
type SearchHistoryEntry struct {
	ID        int64     `json:"id"`
	UserID    int       `json:"user_id"`
	Pokemon   *string   `json:"pokemon,omitempty"`
	Digimon   *string   `json:"digimon,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Kind returns "pokemon" or "digimon" depending on which term is set.
func (e SearchHistoryEntry) Kind() string {
	if e.Pokemon != nil {
		return KindPokemon
	}
	return KindDigimon
}

// Term returns whichever search term the entry holds.
func (e SearchHistoryEntry) Term() string {
	if e.Pokemon != nil {
		return *e.Pokemon
	}
	if e.Digimon != nil {
		return *e.Digimon
	}
	return ""
}
