package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"

	"github.com/crucial707/monster-mashup/cmd/cli/config"
	"github.com/crucial707/monster-mashup/internal/session"
)

func stubPasswords(t *testing.T, answers ...string) {
	t.Helper()
	orig := readPassword
	t.Cleanup(func() { readPassword = orig })
	readPassword = func(string) (string, error) {
		if len(answers) == 0 {
			t.Fatal("unexpected password prompt")
		}
		a := answers[0]
		answers = answers[1:]
		return a, nil
	}
}

// fakeAuthAPI accepts alice/secret1 and records update-password bodies.
func fakeAuthAPI(t *testing.T) (*[]string, config.SessionFile) {
	t.Helper()
	var updates []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		switch r.URL.Path {
		case "/login":
			if in["username"] != "alice" || in["password"] != "secret1" {
				w.WriteHeader(http.StatusUnauthorized)
				w.Write([]byte(`{"success":false,"message":"invalid username or password"}`))
				return
			}
			http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "cookie-for-alice", MaxAge: 86400})
			w.Write([]byte(`{"success":true,"user":{"username":"alice"}}`))
		case "/check-session":
			if ck, err := r.Cookie(session.CookieName); err == nil && ck.Value == "cookie-for-alice" {
				w.Write([]byte(`{"authenticated":true,"user":{"username":"alice"}}`))
				return
			}
			w.Write([]byte(`{"authenticated":false}`))
		case "/api/update-password":
			updates = append(updates, in["newPassword"])
			w.Write([]byte(`{"success":true}`))
		case "/logout":
			http.SetCookie(w, &http.Cookie{Name: session.CookieName, MaxAge: -1})
			w.Write([]byte(`{"success":true}`))
		}
	}))
	t.Cleanup(srv.Close)

	store := config.SessionFile{Path: filepath.Join(t.TempDir(), "session")}
	t.Setenv("MASHUP_API_URL", srv.URL)
	t.Setenv("MASHUP_SESSION_FILE", store.Path)
	return &updates, store
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestLoginWhoamiLogout(t *testing.T) {
	_, store := fakeAuthAPI(t)
	stubPasswords(t, "secret1")

	out, err := run(t, loginCmd(), "--username", "alice")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if !strings.Contains(out, "Logged in as alice") {
		t.Errorf("unexpected output: %s", out)
	}
	if v, _ := store.Load(); v != "cookie-for-alice" {
		t.Fatalf("session not stored: %q", v)
	}

	out, err = run(t, whoamiCmd())
	if err != nil || strings.TrimSpace(out) != "alice" {
		t.Errorf("whoami: %q %v", out, err)
	}

	if _, err := run(t, logoutCmd()); err != nil {
		t.Fatalf("logout: %v", err)
	}
	if v, _ := store.Load(); v != "" {
		t.Errorf("session should be cleared, got %q", v)
	}

	out, _ = run(t, whoamiCmd())
	if !strings.Contains(out, "Not logged in") {
		t.Errorf("whoami after logout: %q", out)
	}
}

func TestLogin_WrongPassword(t *testing.T) {
	_, store := fakeAuthAPI(t)

	_, err := run(t, loginCmd(), "--username", "alice", "--password", "nope")
	if err == nil || !strings.Contains(err.Error(), "invalid username or password") {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if v, _ := store.Load(); v != "" {
		t.Errorf("no session expected, got %q", v)
	}
}

func TestPassword(t *testing.T) {
	updates, _ := fakeAuthAPI(t)

	stubPasswords(t, "newsecret", "different")
	if _, err := run(t, passwordCmd()); err == nil || !strings.Contains(err.Error(), "do not match") {
		t.Fatalf("expected mismatch error, got %v", err)
	}

	stubPasswords(t, "newsecret", "newsecret")
	if _, err := run(t, passwordCmd()); err != nil {
		t.Fatalf("password: %v", err)
	}
	if len(*updates) != 1 || (*updates)[0] != "newsecret" {
		t.Errorf("unexpected updates: %v", *updates)
	}
}
