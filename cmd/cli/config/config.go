package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

const (
	defaultAPIURL      = "http://localhost:3000"
	sessionFileName    = ".mashup_session"
	sessionFileEnvName = "MASHUP_SESSION_FILE"
)

// APIURL returns the base URL for the mashup API.
// It can be overridden with the MASHUP_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("MASHUP_API_URL"); v != "" {
		return strings.TrimRight(v, "/")
	}
	return defaultAPIURL
}

// SessionFile persists the session cookie value between CLI invocations.
type SessionFile struct {
	Path string
}

// DefaultSessionFile is $MASHUP_SESSION_FILE or ~/.mashup_session.
func DefaultSessionFile() SessionFile {
	if v := os.Getenv(sessionFileEnvName); v != "" {
		return SessionFile{Path: v}
	}
	dir, err := os.UserHomeDir()
	if err != nil {
		dir = "."
	}
	return SessionFile{Path: filepath.Join(dir, sessionFileName)}
}

// Load returns the stored cookie value, or "" when nobody is logged in.
func (f SessionFile) Load() (string, error) {
	data, err := os.ReadFile(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// Save stores value readable by the current user only.
func (f SessionFile) Save(value string) error {
	if err := os.MkdirAll(filepath.Dir(f.Path), 0o700); err != nil {
		return err
	}
	return os.WriteFile(f.Path, []byte(value), 0o600)
}

// Clear forgets the stored session. A missing file is not an error.
func (f SessionFile) Clear() error {
	err := os.Remove(f.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
