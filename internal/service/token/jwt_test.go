package token

import (
	"errors"
	"testing"
	"time"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/storage"
)

func newTestJWT(t *testing.T, now *time.Time) *JWT {
	t.Helper()

	backend := storage.NewMemoryBackend(10, 10)
	t.Cleanup(func() { _ = backend.Close() })

	j := NewJWT(Config{Secret: "test-secret", AccessTTL: time.Hour, RefreshTTL: 24 * time.Hour}, backend)
	if now != nil {
		j.now = func() time.Time { return *now }
	}
	return j
}

func TestIssueAndParse(t *testing.T) {
	t.Parallel()

	j := newTestJWT(t, nil)
	ctx := t.Context()
	user := model.User{ID: 42, Email: "ada@example.com", IsStaff: true}

	pair, err := j.Issue(ctx, user)
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	claims, err := j.ParseAccess(ctx, pair.Access)
	if err != nil {
		t.Fatalf("ParseAccess() error = %v", err)
	}
	if claims.UserID != 42 || !claims.IsAdmin || claims.Email != user.Email {
		t.Errorf("ParseAccess() = %+v, want user 42 admin", claims)
	}

	if _, err := j.ParseAccess(ctx, pair.Refresh); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseAccess(refresh) error = %v, want %v", err, ErrInvalidToken)
	}
	if _, err := j.ParseRefresh(ctx, pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseRefresh(access) error = %v, want %v", err, ErrInvalidToken)
	}
	if _, err := j.ParseAccess(ctx, ""); !errors.Is(err, ErrMissingToken) {
		t.Errorf("ParseAccess(\"\") error = %v, want %v", err, ErrMissingToken)
	}
}

func TestParseRejectsForeignSignature(t *testing.T) {
	t.Parallel()

	ctx := t.Context()
	pair, err := newTestJWT(t, nil).Issue(ctx, model.User{ID: 1})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	backend := storage.NewMemoryBackend(1, 1)
	t.Cleanup(func() { _ = backend.Close() })
	other := NewJWT(Config{Secret: "another-secret", AccessTTL: time.Hour, RefreshTTL: time.Hour}, backend)

	if _, err := other.ParseAccess(ctx, pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseAccess() error = %v, want %v", err, ErrInvalidToken)
	}
}

func TestParseExpired(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	j := newTestJWT(t, &now)
	ctx := t.Context()

	pair, err := j.Issue(ctx, model.User{ID: 1})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}

	now = now.Add(2 * time.Hour)
	if _, err := j.ParseAccess(ctx, pair.Access); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("ParseAccess() after expiry error = %v, want %v", err, ErrInvalidToken)
	}
	if _, err := j.ParseRefresh(ctx, pair.Refresh); err != nil {
		t.Errorf("ParseRefresh() error = %v, want nil", err)
	}
}

func TestRevoke(t *testing.T) {
	t.Parallel()

	j := newTestJWT(t, nil)
	ctx := t.Context()

	pair, err := j.Issue(ctx, model.User{ID: 7})
	if err != nil {
		t.Fatalf("Issue() error = %v", err)
	}
	claims, err := j.ParseRefresh(ctx, pair.Refresh)
	if err != nil {
		t.Fatalf("ParseRefresh() error = %v", err)
	}

	if err := j.Revoke(ctx, claims); err != nil {
		t.Fatalf("Revoke() error = %v", err)
	}
	if _, err := j.ParseRefresh(ctx, pair.Refresh); !errors.Is(err, ErrRevokedToken) {
		t.Errorf("ParseRefresh() after revoke error = %v, want %v", err, ErrRevokedToken)
	}
}
