package species

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/gosimple/slug"
)

// PokemonSlug turns user input into PokéAPI's resource name: lower case,
// with spaces and punctuation folded into hyphens ("Mr. Mime" -> "mr-mime").
func PokemonSlug(name string) string {
	return slug.Make(strings.TrimSpace(name))
}

// LookupPokemon fetches GET /pokemon/{name} once and returns the payload verbatim.
func (c *Client) LookupPokemon(ctx context.Context, name string) (json.RawMessage, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperr.Invalid("name", "name is required")
	}
	s := PokemonSlug(name)
	if s == "" {
		return nil, apperr.Invalid("name", "name must contain letters or digits")
	}

	body, ok, err := c.fetch(ctx, c.PokeAPIURL+"/pokemon/"+url.PathEscape(s))
	if err != nil {
		return nil, fmt.Errorf("lookup pokemon %q: %w", s, err)
	}
	if !ok {
		return nil, fmt.Errorf("pokemon %q: %w", s, apperr.ErrNotFound)
	}
	return json.RawMessage(body), nil
}
