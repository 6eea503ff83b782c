package repo

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/crucial707/monster-mashup/internal/apperr"
	"github.com/crucial707/monster-mashup/internal/models"
)

const testSessionID = "3f1c2d9e-8a4b-4c1e-9f00-5b6a7c8d9e0f"

func TestSessionRepo_CreateGet(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	created := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	expires := created.Add(24 * time.Hour)

	mock.ExpectExec(`INSERT INTO sessions \(id, user_id, created_at, expires_at\)`).
		WithArgs(testSessionID, 3, created, expires).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = \$1 AND expires_at > \$2`).
		WithArgs(testSessionID, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "created_at", "expires_at"}).
			AddRow(testSessionID, 3, created, expires))

	repo := NewSessionRepo(db)
	s := &models.Session{ID: testSessionID, UserID: 3, CreatedAt: created, ExpiresAt: expires}
	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := repo.Get(context.Background(), testSessionID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.UserID != 3 || !got.ExpiresAt.Equal(expires) {
		t.Errorf("unexpected session: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSessionRepo_Get_Missing(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT id, user_id, created_at, expires_at FROM sessions`).
		WithArgs(testSessionID, sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	repo := NewSessionRepo(db)
	if _, err := repo.Get(context.Background(), testSessionID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestSessionRepo_DeleteAndPurge(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	defer db.Close()

	now := time.Date(2026, 5, 2, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(`DELETE FROM sessions WHERE id = \$1`).
		WithArgs(testSessionID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`DELETE FROM sessions WHERE expires_at <= \$1`).
		WithArgs(now).
		WillReturnResult(sqlmock.NewResult(0, 4))

	repo := NewSessionRepo(db)
	if err := repo.Delete(context.Background(), testSessionID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	n, err := repo.DeleteExpired(context.Background(), now)
	if err != nil {
		t.Fatalf("DeleteExpired: %v", err)
	}
	if n != 4 {
		t.Errorf("DeleteExpired: got %d, want 4", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}
