package session

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestSQLStoreLoadNoRows(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectQuery("SELECT server_url").WillReturnError(sql.ErrNoRows)

	if _, err := NewSQLStore(sqlDB).Load(t.Context()); !errors.Is(err, ErrNoSession) {
		t.Errorf("Load() error = %v, want %v", err, ErrNoSession)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestSQLStoreLoadNullAdmin(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer sqlDB.Close()

	rows := sqlmock.NewRows([]string{"server_url", "email", "access_token", "refresh_token", "token_type", "expiry", "is_admin"}).
		AddRow("http://localhost:8080", "ada@example.com", "a", "r", "Bearer", nil, nil)
	mock.ExpectQuery("SELECT server_url").WillReturnRows(rows)

	rec, err := NewSQLStore(sqlDB).Load(t.Context())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.IsAdmin != nil {
		t.Errorf("IsAdmin = %v, want nil", *rec.IsAdmin)
	}
	if !rec.Token.Expiry.IsZero() {
		t.Errorf("Expiry = %v, want zero", rec.Token.Expiry)
	}
}

func TestSQLStoreSaveAdminWithoutSession(t *testing.T) {
	t.Parallel()

	sqlDB, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error = %v", err)
	}
	defer sqlDB.Close()

	mock.ExpectExec("UPDATE session SET is_admin").WillReturnResult(sqlmock.NewResult(0, 0))

	if err := NewSQLStore(sqlDB).SaveAdmin(t.Context(), true); !errors.Is(err, ErrNoSession) {
		t.Errorf("SaveAdmin() error = %v, want %v", err, ErrNoSession)
	}
}
