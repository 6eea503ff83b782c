// Package client talks to the mashup API on behalf of the CLI commands and
// carries the session cookie between invocations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/crucial707/monster-mashup/cmd/cli/config"
	"github.com/crucial707/monster-mashup/internal/session"
)

const maxResponseBytes = 16 << 20

// ErrNotLoggedIn is returned for 401 responses; the stored session is dropped.
var ErrNotLoggedIn = errors.New("not logged in (run `mashup login`)")

// SessionStore keeps the session cookie value.
type SessionStore interface {
	Load() (string, error)
	Save(value string) error
	Clear() error
}

// APIError is a non-2xx answer carrying the server's message.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.Status, e.Message)
}

// Client is a small JSON client for the mashup API.
type Client struct {
	BaseURL string
	HTTP    *http.Client
	Session SessionStore
}

// New returns a Client for config.APIURL() using the default session file.
func New() *Client {
	return &Client{
		BaseURL: config.APIURL(),
		HTTP:    &http.Client{Timeout: 30 * time.Second},
		Session: config.DefaultSessionFile(),
	}
}

// Do sends in (JSON-encoded when non-nil) and returns the raw response body.
func (c *Client) Do(ctx context.Context, method, path string, in any) ([]byte, error) {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if v, err := c.Session.Load(); err == nil && v != "" {
		req.AddCookie(&http.Cookie{Name: session.CookieName, Value: v})
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if err := c.keepCookie(resp); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		_ = c.Session.Clear()
		if msg := message(data); msg != "" && msg != "unauthenticated" {
			return nil, &APIError{Status: resp.StatusCode, Message: msg}
		}
		return nil, ErrNotLoggedIn
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg := message(data)
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{Status: resp.StatusCode, Message: msg}
	}
	return data, nil
}

// JSON is Do plus decoding the response into out (when non-nil).
func (c *Client) JSON(ctx context.Context, method, path string, in, out any) error {
	data, err := c.Do(ctx, method, path, in)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// keepCookie mirrors the server's Set-Cookie for the session into the store.
func (c *Client) keepCookie(resp *http.Response) error {
	for _, ck := range resp.Cookies() {
		if ck.Name != session.CookieName {
			continue
		}
		if ck.Value == "" || ck.MaxAge < 0 {
			return c.Session.Clear()
		}
		return c.Session.Save(ck.Value)
	}
	return nil
}

func message(data []byte) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(data, &body) != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}
