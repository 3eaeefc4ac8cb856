package session_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	go_json "github.com/goccy/go-json"
	"github.com/golang-jwt/jwt/v5"

	"github.com/garrettladley/moyo/internal/db"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/session"
)

func signed(t *testing.T, exp time.Time) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "1",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test"))
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return s
}

type fakeServer struct {
	access       string
	refreshCalls atomic.Int32
	profileCalls atomic.Int32
	refreshCode  int
	logoutCode   int
	user         model.User
}

func (f *fakeServer) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	writeJSON := func(w http.ResponseWriter, code int, v any) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = go_json.NewEncoder(w).Encode(v)
	}
	mux.HandleFunc("POST /api/token", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"user": f.user, "access": f.access, "refresh": "r1"})
	})
	mux.HandleFunc("POST /api/token/refresh", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		if f.refreshCode != 0 {
			writeJSON(w, f.refreshCode, map[string]any{"message": "invalid refresh token"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"access": signed(t, time.Now().Add(time.Hour)), "refresh": "r2"})
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		if f.logoutCode != 0 {
			writeJSON(w, f.logoutCode, map[string]any{"message": "boom"})
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})
	mux.HandleFunc("GET /api/auth/profile", func(w http.ResponseWriter, r *http.Request) {
		f.profileCalls.Add(1)
		writeJSON(w, http.StatusOK, f.user)
	})
	return mux
}

func newSession(t *testing.T, f *fakeServer) (*session.Session, session.Store) {
	t.Helper()
	srv := httptest.NewServer(f.handler(t))
	t.Cleanup(srv.Close)

	sqlDB, err := db.Open(t.Context(), filepath.Join(t.TempDir(), "moyo.db"))
	if err != nil {
		t.Fatalf("db.Open() error = %v", err)
	}
	t.Cleanup(func() { _ = sqlDB.Close() })

	store := session.NewSQLStore(sqlDB)
	return session.New(srv.URL, store), store
}

func TestLoginPersistsToken(t *testing.T) {
	t.Parallel()

	f := &fakeServer{access: signed(t, time.Now().Add(time.Hour)), user: model.User{ID: 1, Email: "ada@example.com"}}
	s, store := newSession(t, f)

	if _, err := s.Login(t.Context(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	rec, err := store.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.Email != "ada@example.com" {
		t.Errorf("Email = %q, want %q", rec.Email, "ada@example.com")
	}
	if rec.Token.Expiry.IsZero() {
		t.Error("Expiry is zero, want the access token exp claim")
	}

	tok, err := s.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.AccessToken != f.access {
		t.Errorf("Token() = %q, want the login access token", tok.AccessToken)
	}
	if got := f.refreshCalls.Load(); got != 0 {
		t.Errorf("refresh calls = %d, want 0", got)
	}
}

func TestTokenRefreshesExpiredAccess(t *testing.T) {
	t.Parallel()

	f := &fakeServer{access: signed(t, time.Now().Add(-time.Minute)), user: model.User{ID: 1, Email: "ada@example.com"}}
	s, store := newSession(t, f)

	if _, err := s.Login(t.Context(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	tok, err := s.Token()
	if err != nil {
		t.Fatalf("Token() error = %v", err)
	}
	if tok.RefreshToken != "r2" {
		t.Errorf("RefreshToken = %q, want %q", tok.RefreshToken, "r2")
	}
	if _, err := s.Token(); err != nil {
		t.Fatalf("second Token() error = %v", err)
	}
	if got := f.refreshCalls.Load(); got != 1 {
		t.Errorf("refresh calls = %d, want 1", got)
	}

	rec, err := store.Load(t.Context())
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if rec.Token.RefreshToken != "r2" {
		t.Errorf("stored RefreshToken = %q, want %q", rec.Token.RefreshToken, "r2")
	}
}

func TestTokenRejectedRefresh(t *testing.T) {
	t.Parallel()

	f := &fakeServer{
		access:      signed(t, time.Now().Add(-time.Minute)),
		refreshCode: http.StatusUnauthorized,
		user:        model.User{ID: 1},
	}
	s, _ := newSession(t, f)

	if _, err := s.Login(t.Context(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if _, err := s.Token(); !errors.Is(err, session.ErrExpired) {
		t.Errorf("Token() error = %v, want %v", err, session.ErrExpired)
	}
}

func TestIsAdminCachedUntilRefresh(t *testing.T) {
	t.Parallel()

	f := &fakeServer{access: signed(t, time.Now().Add(time.Hour)), user: model.User{ID: 1, IsStaff: true}}
	s, _ := newSession(t, f)

	if _, err := s.Login(t.Context(), "ada@example.com", "pw"); err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	// login already carried the profile
	for range 3 {
		isAdmin, err := s.IsAdmin(t.Context())
		if err != nil {
			t.Fatalf("IsAdmin() error = %v", err)
		}
		if !isAdmin {
			t.Error("IsAdmin() = false, want true")
		}
	}
	if got := f.profileCalls.Load(); got != 0 {
		t.Errorf("profile calls = %d, want 0", got)
	}

	if _, err := s.Refresh(t.Context()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	for range 2 {
		if _, err := s.IsAdmin(t.Context()); err != nil {
			t.Fatalf("IsAdmin() error = %v", err)
		}
	}
	if got := f.profileCalls.Load(); got != 1 {
		t.Errorf("profile calls = %d, want 1", got)
	}
}

func TestInvalidateDeletesLocalSession(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		logoutCode int
		wantErr    bool
	}{
		{name: "server revokes", logoutCode: 0},
		{name: "server fails", logoutCode: http.StatusInternalServerError, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f := &fakeServer{access: signed(t, time.Now().Add(time.Hour)), logoutCode: tt.logoutCode, user: model.User{ID: 1}}
			s, store := newSession(t, f)

			if _, err := s.Login(t.Context(), "ada@example.com", "pw"); err != nil {
				t.Fatalf("Login() error = %v", err)
			}

			err := s.Invalidate(t.Context())
			if (err != nil) != tt.wantErr {
				t.Errorf("Invalidate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if _, err := store.Load(t.Context()); !errors.Is(err, session.ErrNoSession) {
				t.Errorf("Load() error = %v, want %v", err, session.ErrNoSession)
			}
			if _, err := s.Token(); !errors.Is(err, session.ErrNoSession) {
				t.Errorf("Token() error = %v, want %v", err, session.ErrNoSession)
			}
		})
	}
}
