package history

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
)

func TestHistoryCmd(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/history" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`[
			{"id":2,"user_id":1,"digimon":"Agumon","timestamp":"2026-06-01T12:05:00Z"},
			{"id":1,"user_id":1,"pokemon":"ditto","timestamp":"2026-06-01T12:00:00Z"}
		]`))
	}))
	defer srv.Close()
	t.Setenv("MASHUP_API_URL", srv.URL)
	t.Setenv("MASHUP_SESSION_FILE", filepath.Join(t.TempDir(), "session"))

	var out bytes.Buffer
	cmd := historyCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--limit", "5"})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}

	if gotQuery != "limit=5" {
		t.Errorf("query: got %q", gotQuery)
	}
	s := out.String()
	if !strings.Contains(s, "digimon") || !strings.Contains(s, "Agumon") || !strings.Contains(s, "ditto") {
		t.Fatalf("unexpected output:\n%s", s)
	}
	if strings.Index(s, "Agumon") > strings.Index(s, "ditto") {
		t.Errorf("entries must keep the server's newest-first order:\n%s", s)
	}
}

func TestHistoryCmd_Empty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()
	t.Setenv("MASHUP_API_URL", srv.URL)
	t.Setenv("MASHUP_SESSION_FILE", filepath.Join(t.TempDir(), "session"))

	var out bytes.Buffer
	cmd := historyCmd()
	cmd.SetOut(&out)
	cmd.SetArgs(nil)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !strings.Contains(out.String(), "No searches yet.") {
		t.Errorf("unexpected output: %s", out.String())
	}
}
