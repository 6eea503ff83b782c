package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/crucial707/monster-mashup/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Register validates and stores a new user. The username is trimmed first.
// Returns *apperr.ValidationError or apperr.ErrDuplicateUser on rejection.
func (s *Service) Register(ctx context.Context, username, password string) (*models.User, error) {
	in := credentialsInput{Username: strings.TrimSpace(username), Password: password}
	if err := check(s.validate, in); err != nil {
		return nil, err
	}

	hash, err := s.hash(in.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.Create(ctx, in.Username, hash)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// SetPassword re-hashes newPassword and replaces the user's hash.
// The same length rule as registration applies.
func (s *Service) SetPassword(ctx context.Context, userID int, newPassword string) error {
	if err := check(s.validate, passwordInput{Password: newPassword}); err != nil {
		return err
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	return s.Users.UpdatePasswordHash(ctx, userID, hash)
}

func (s *Service) hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), s.Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", apperr.Invalid("password", fmt.Sprintf("password must be at most %d bytes", MaxPasswordLen))
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}
