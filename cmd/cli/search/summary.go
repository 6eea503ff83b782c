package search

import (
	"encoding/json"
	"strings"
)

// PokemonSummary is the part of a PokéAPI document the CLI displays.
type PokemonSummary struct {
	ID     int
	Name   string
	Types  []string
	Stats  map[string]int // hp, attack, defense, special-attack, special-defense, speed
	Height int            // decimetres
	Weight int            // hectograms
	Sprite string
}

// DigimonSummary is the part of a Digi-API document the CLI displays.
type DigimonSummary struct {
	ID         int
	Name       string
	Levels     []string
	Types      []string
	Attributes []string
	Image      string
}

// ParsePokemon extracts a summary from a PokéAPI /pokemon payload.
func ParsePokemon(data []byte) (PokemonSummary, error) {
	var doc struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Height int    `json:"height"`
		Weight int    `json:"weight"`
		Types  []struct {
			Type struct {
				Name string `json:"name"`
			} `json:"type"`
		} `json:"types"`
		Stats []struct {
			BaseStat int `json:"base_stat"`
			Stat     struct {
				Name string `json:"name"`
			} `json:"stat"`
		} `json:"stats"`
		Sprites struct {
			FrontDefault string `json:"front_default"`
		} `json:"sprites"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return PokemonSummary{}, err
	}

	s := PokemonSummary{
		ID:     doc.ID,
		Name:   doc.Name,
		Height: doc.Height,
		Weight: doc.Weight,
		Sprite: doc.Sprites.FrontDefault,
		Stats:  make(map[string]int, len(doc.Stats)),
	}
	for _, t := range doc.Types {
		s.Types = append(s.Types, t.Type.Name)
	}
	for _, st := range doc.Stats {
		s.Stats[st.Stat.Name] = st.BaseStat
	}
	return s, nil
}

// ParseDigimon extracts a summary from a Digi-API /digimon/{id} payload.
func ParseDigimon(data []byte) (DigimonSummary, error) {
	var doc struct {
		ID     int    `json:"id"`
		Name   string `json:"name"`
		Images []struct {
			Href string `json:"href"`
		} `json:"images"`
		Levels []struct {
			Level string `json:"level"`
		} `json:"levels"`
		Types []struct {
			Type string `json:"type"`
		} `json:"types"`
		Attributes []struct {
			Attribute string `json:"attribute"`
		} `json:"attributes"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return DigimonSummary{}, err
	}

	s := DigimonSummary{ID: doc.ID, Name: doc.Name}
	if len(doc.Images) > 0 {
		s.Image = doc.Images[0].Href
	}
	for _, l := range doc.Levels {
		s.Levels = append(s.Levels, l.Level)
	}
	for _, t := range doc.Types {
		s.Types = append(s.Types, t.Type)
	}
	for _, a := range doc.Attributes {
		s.Attributes = append(s.Attributes, a.Attribute)
	}
	return s, nil
}

func join(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ", ")
}
