package species

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/crucial707/monster-mashup/internal/apperr"
)

// digimonPage is the part of the Digi-API search response we read.
type digimonPage struct {
	Content []struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	} `json:"content"`
}

// LookupDigimon searches by name, takes the first hit and fetches its detail
// document. The two calls run in sequence and are not retried.
// When several digimon match, content[0] wins.
func (c *Client) LookupDigimon(ctx context.Context, name string) (json.RawMessage, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperr.Invalid("name", "name is required")
	}

	q := url.Values{"name": {name}}
	body, ok, err := c.fetch(ctx, c.DigiAPIURL+"/digimon?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("search digimon %q: %w", name, err)
	}
	if !ok {
		return nil, fmt.Errorf("digimon %q: %w", name, apperr.ErrNotFound)
	}

	var page digimonPage
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("search digimon %q: %w: decode: %v", name, apperr.ErrUpstream, err)
	}
	if len(page.Content) == 0 {
		return nil, fmt.Errorf("digimon %q: %w", name, apperr.ErrNotFound)
	}

	id := page.Content[0].ID
	detail, ok, err := c.fetch(ctx, c.DigiAPIURL+"/digimon/"+strconv.Itoa(id))
	if err != nil {
		return nil, fmt.Errorf("digimon %d details: %w", id, err)
	}
	if !ok {
		return nil, fmt.Errorf("digimon %d details: %w", id, apperr.ErrNotFound)
	}
	return json.RawMessage(detail), nil
}
