// Package species proxies the PokéAPI and Digi-API. Payloads are returned
// verbatim; only outcomes are normalized to apperr.ErrNotFound and
// apperr.ErrUpstream.
package species

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crucial707/monster-mashup/internal/apperr"
)

// Public endpoints used when no base URL is configured.
const (
	DefaultPokeAPIURL = "https://pokeapi.co/api/v2"
	DefaultDigiAPIURL = "https://digi-api.com/api/v1"

	DefaultTimeout = 5 * time.Second

	// Some PokéAPI documents (long move lists) run to several hundred KiB.
	maxPayloadBytes = 10 << 20
	userAgent       = "monster-mashup/1.0"
)

// Client looks up species data. It is safe for concurrent use.
type Client struct {
	HTTP       *http.Client
	PokeAPIURL string
	DigiAPIURL string
}

// NewClient returns a Client whose every upstream call is bounded by timeout.
func NewClient(pokeAPIURL, digiAPIURL string, timeout time.Duration) *Client {
	if pokeAPIURL == "" {
		pokeAPIURL = DefaultPokeAPIURL
	}
	if digiAPIURL == "" {
		digiAPIURL = DefaultDigiAPIURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		HTTP:       &http.Client{Timeout: timeout},
		PokeAPIURL: pokeAPIURL,
		DigiAPIURL: digiAPIURL,
	}
}

// fetch GETs url. A non-2xx status is returned as ok=false with no error;
// transport, read and JSON-shape failures are apperr.ErrUpstream.
func (c *Client) fetch(ctx context.Context, url string) (body []byte, ok bool, err error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, false, fmt.Errorf("%w: build request: %v", apperr.ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, false, fmt.Errorf("%w: %w", apperr.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, false, nil
	}

	body, err = io.ReadAll(io.LimitReader(resp.Body, maxPayloadBytes+1))
	if err != nil {
		return nil, false, fmt.Errorf("%w: read body: %v", apperr.ErrUpstream, err)
	}
	if len(body) > maxPayloadBytes {
		return nil, false, fmt.Errorf("%w: payload exceeds %d bytes", apperr.ErrUpstream, maxPayloadBytes)
	}
	if !json.Valid(body) {
		return nil, false, fmt.Errorf("%w: response from %s is not JSON", apperr.ErrUpstream, req.URL.Host)
	}
	return body, true, nil
}

// IsTimeout reports whether err came from an upstream deadline.
func IsTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &te) && te.Timeout())
}
