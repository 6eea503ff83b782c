// Package apperr defines the sentinel errors shared by the stores, the
// species lookup and the HTTP layer. Callers match them with errors.Is.
package apperr

import (
	"errors"
	"sort"
	"strings"
)

var (
	// Input shape or length rejected; user-correctable.
	ErrValidation = errors.New("validation failed")

	// Auth errors. ErrInvalidCredentials never says which part was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")

	ErrDuplicateUser = errors.New("username already registered")
	ErrNotFound      = errors.New("not found")

	// Third-party API unreachable, timed out or returned garbage.
	ErrUpstream = errors.New("upstream service error")

	ErrInternal = errors.New("internal error")
)

// ValidationError carries field-level messages and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return ErrValidation.Error()
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, e.Fields[k])
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// Invalid builds a single-field ValidationError.
func Invalid(field, message string) error {
	return &ValidationError{Fields: map[string]string{field: message}}
}
