package token

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/garrettladley/moyo/internal/model"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid bearer token")
	ErrRevokedToken = errors.New("token has been revoked")
)

type Kind string

const (
	KindAccess  Kind = "access"
	KindRefresh Kind = "refresh"
)

type Claims struct {
	UserID  int64  `json:"user_id"`
	Email   string `json:"email"`
	IsAdmin bool   `json:"is_admin"`
	Kind    Kind   `json:"token_type"`
	jwt.RegisteredClaims
}

type Pair struct {
	Access          string    `json:"access"`
	Refresh         string    `json:"refresh"`
	AccessExpiresAt time.Time `json:"access_expires_at"`
}

type Service interface {
	// Issue signs a fresh access/refresh pair for u.
	Issue(ctx context.Context, u model.User) (*Pair, error)

	// ParseAccess validates an access token.
	// Returns ErrMissingToken for an empty token and ErrInvalidToken for a
	// malformed, expired or wrongly typed one.
	ParseAccess(ctx context.Context, raw string) (*Claims, error)

	// ParseRefresh validates a refresh token and checks the denylist.
	// Returns ErrRevokedToken if the token was rotated or logged out.
	ParseRefresh(ctx context.Context, raw string) (*Claims, error)

	// Revoke denylists a refresh token until it would have expired.
	Revoke(ctx context.Context, c *Claims) error
}
