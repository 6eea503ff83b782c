package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/crucial707/monster-mashup/internal/models"
	"golang.org/x/crypto/bcrypt"
)

// Authenticate checks username and password. Unknown users and wrong
// passwords both return apperr.ErrInvalidCredentials, and both pay for one
// bcrypt comparison.
func (s *Service) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.Users.GetCredentials(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			_ = bcrypt.CompareHashAndPassword(s.dummy(), []byte(password))
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, apperr.ErrInvalidCredentials
	}

	user.PasswordHash = ""
	return user, nil
}

func (s *Service) dummy() []byte {
	s.dummyOnce.Do(func() {
		h, err := bcrypt.GenerateFromPassword([]byte("mashup-timing-equalizer"), s.Cost)
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}
