package auth

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/crucial707/monster-mashup/internal/repo"
	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// bcryptOf matches a driver argument that is a bcrypt hash of plain (and not plain itself).
type bcryptOf string

func (b bcryptOf) Match(v driver.Value) bool {
	s, ok := v.(string)
	if !ok || s == string(b) {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(s), []byte(b)) == nil
}

func newTestService(t *testing.T) (*Service, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	return NewService(repo.NewUserRepo(db), bcrypt.MinCost), mock, func() { db.Close() }
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(h)
}

func TestService_Register_HashesPassword(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO users \(username, password_hash\)`).
		WithArgs("alice", bcryptOf("secret1")).
		WillReturnRows(sqlmock.NewRows([]string{"id", "username", "created_at"}).AddRow(1, "alice", time.Now()))

	user, err := svc.Register(context.Background(), "  alice ", "secret1")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Username != "alice" {
		t.Errorf("username not trimmed: %q", user.Username)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestService_Register_Validation(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	tests := []struct {
		name     string
		username string
		password string
		field    string
	}{
		{"short username", "al", "secret1", "username"},
		{"blank username", "   ", "secret1", "username"},
		{"short password", "alice", "12345", "password"},
		{"missing password", "alice", "", "password"},
		{"long password", "alice", strings.Repeat("x", 73), "password"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tc.username, tc.password)
			if !errors.Is(err, apperr.ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *apperr.ValidationError
			if !errors.As(err, &verr) || verr.Fields[tc.field] == "" {
				t.Errorf("expected message for field %q, got %v", tc.field, err)
			}
		})
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("no query expected on validation failure: %v", err)
	}
}

func TestService_Register_Duplicate(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("alice", sqlmock.AnyArg()).
		WillReturnError(&pq.Error{Code: "23505"})

	_, err := svc.Register(context.Background(), "alice", "secret1")
	if !errors.Is(err, apperr.ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestService_Authenticate(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	hash := mustHash(t, "secret1")
	rows := func() *sqlmock.Rows {
		return sqlmock.NewRows([]string{"id", "username", "password_hash", "created_at"}).AddRow(1, "alice", hash, time.Now())
	}
	mock.ExpectQuery(`SELECT id, username, password_hash, created_at`).WithArgs("alice").WillReturnRows(rows())
	mock.ExpectQuery(`SELECT id, username, password_hash, created_at`).WithArgs("alice").WillReturnRows(rows())
	mock.ExpectQuery(`SELECT id, username, password_hash, created_at`).WithArgs("nobody").WillReturnError(sql.ErrNoRows)

	user, err := svc.Authenticate(context.Background(), "alice", "secret1")
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if user.ID != 1 || user.PasswordHash != "" {
		t.Errorf("unexpected user (hash must be cleared): %+v", user)
	}

	_, wrongPw := svc.Authenticate(context.Background(), "alice", "wrong")
	_, unknown := svc.Authenticate(context.Background(), "nobody", "secret1")
	if !errors.Is(wrongPw, apperr.ErrInvalidCredentials) || !errors.Is(unknown, apperr.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v / %v", wrongPw, unknown)
	}
	if wrongPw.Error() != unknown.Error() {
		t.Errorf("wrong password and unknown user must be indistinguishable: %q vs %q", wrongPw, unknown)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestService_Authenticate_StoreFailure(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectQuery(`SELECT id, username, password_hash`).WithArgs("alice").WillReturnError(errors.New("connection reset"))

	_, err := svc.Authenticate(context.Background(), "alice", "secret1")
	if err == nil || errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Fatalf("store failure must not look like bad credentials, got %v", err)
	}
}

func TestService_SetPassword(t *testing.T) {
	svc, mock, done := newTestService(t)
	defer done()

	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs(bcryptOf("newsecret"), 1).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE users SET password_hash`).
		WithArgs(sqlmock.AnyArg(), 2).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := svc.SetPassword(context.Background(), 1, "newsecret"); err != nil {
		t.Fatalf("SetPassword: %v", err)
	}
	if err := svc.SetPassword(context.Background(), 2, "newsecret"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if err := svc.SetPassword(context.Background(), 1, "short"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("expected ErrValidation for short password, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
