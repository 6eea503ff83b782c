// Package auth holds the credential rules (registration, password change) and
// username/password authentication on top of the user store.
package auth

import (
	"sync"

	"github.com/crucial707/monster-mashup/internal/repo"
	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
)

// Service registers users, changes passwords and checks credentials.
type Service struct {
	Users *repo.UserRepo
	Cost  int

	validate *validator.Validate

	dummyOnce sync.Once
	dummyHash []byte
}

// NewService returns a Service hashing with the given bcrypt cost.
// A cost outside bcrypt's range falls back to bcrypt.DefaultCost.
func NewService(users *repo.UserRepo, cost int) *Service {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Service{
		Users:    users,
		Cost:     cost,
		validate: newValidator(),
	}
}
