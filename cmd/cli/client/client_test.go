package client

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/crucial707/monster-mashup/cmd/cli/config"
	"github.com/crucial707/monster-mashup/internal/session"
)

func newTestClient(t *testing.T, h http.Handler) (*Client, config.SessionFile) {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	store := config.SessionFile{Path: filepath.Join(t.TempDir(), "session")}
	return &Client{BaseURL: srv.URL, HTTP: srv.Client(), Session: store}, store
}

func TestClient_KeepsAndSendsSessionCookie(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "signed-value", MaxAge: 60})
			w.Write([]byte(`{"success":true,"user":{"username":"alice"}}`))
		case "/api/user":
			ck, err := r.Cookie(session.CookieName)
			if err != nil || ck.Value != "signed-value" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`{"username":"alice"}`))
		case "/logout":
			http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "", MaxAge: -1})
			w.Write([]byte(`{"success":true}`))
		}
	}))
	ctx := context.Background()

	if err := c.JSON(ctx, http.MethodPost, "/login", map[string]string{"username": "alice"}, nil); err != nil {
		t.Fatalf("login: %v", err)
	}
	if v, _ := store.Load(); v != "signed-value" {
		t.Fatalf("cookie not stored, got %q", v)
	}

	var me struct {
		Username string `json:"username"`
	}
	if err := c.JSON(ctx, http.MethodGet, "/api/user", nil, &me); err != nil || me.Username != "alice" {
		t.Fatalf("api/user: %+v %v", me, err)
	}

	if err := c.JSON(ctx, http.MethodGet, "/logout", nil, nil); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if v, _ := store.Load(); v != "" {
		t.Errorf("cookie should be cleared after logout, got %q", v)
	}
}

func TestClient_UnauthorizedDropsSession(t *testing.T) {
	c, store := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"success":false,"message":"unauthenticated"}`))
	}))
	if err := store.Save("stale"); err != nil {
		t.Fatalf("save: %v", err)
	}

	_, err := c.Do(context.Background(), http.MethodGet, "/api/history", nil)
	if !errors.Is(err, ErrNotLoggedIn) {
		t.Fatalf("expected ErrNotLoggedIn, got %v", err)
	}
	if v, _ := store.Load(); v != "" {
		t.Errorf("stale session must be discarded, got %q", v)
	}
}

func TestClient_APIError(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"success":false,"message":"pokemon not found"}`))
	}))

	_, err := c.Do(context.Background(), http.MethodGet, "/api/search/pokemon?name=x", nil)
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusNotFound || apiErr.Message != "pokemon not found" {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}
