package token

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/storage"
)

const issuer = "moyo"

type Config struct {
	Secret     string        `env:"SECRET,required,notEmpty"`
	AccessTTL  time.Duration `env:"ACCESS_TTL" envDefault:"1h"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"168h"`
}

type JWT struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	denylist   storage.TokenDenylist
	now        func() time.Time
}

var _ Service = (*JWT)(nil)

func NewJWT(cfg Config, denylist storage.TokenDenylist) *JWT {
	return &JWT{
		secret:     []byte(cfg.Secret),
		accessTTL:  cfg.AccessTTL,
		refreshTTL: cfg.RefreshTTL,
		denylist:   denylist,
		now:        time.Now,
	}
}

func (j *JWT) Issue(_ context.Context, u model.User) (*Pair, error) {
	now := j.now()

	access, accessExp, err := j.sign(u, KindAccess, now, j.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, _, err := j.sign(u, KindRefresh, now, j.refreshTTL)
	if err != nil {
		return nil, err
	}

	return &Pair{Access: access, Refresh: refresh, AccessExpiresAt: accessExp}, nil
}

func (j *JWT) sign(u model.User, kind Kind, now time.Time, ttl time.Duration) (string, time.Time, error) {
	exp := now.Add(ttl)
	claims := Claims{
		UserID:  u.ID,
		Email:   u.Email,
		IsAdmin: u.Admin(),
		Kind:    kind,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    issuer,
			Subject:   strconv.FormatInt(u.ID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("signing %s token: %w", kind, err)
	}
	return signed, exp, nil
}

func (j *JWT) parse(raw string, kind Kind) (*Claims, error) {
	if raw == "" {
		return nil, ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(raw, claims,
		func(t *jwt.Token) (any, error) { return j.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s token", ErrInvalidToken, kind)
	}
	return claims, nil
}

func (j *JWT) ParseAccess(_ context.Context, raw string) (*Claims, error) {
	return j.parse(raw, KindAccess)
}

func (j *JWT) ParseRefresh(ctx context.Context, raw string) (*Claims, error) {
	claims, err := j.parse(raw, KindRefresh)
	if err != nil {
		return nil, err
	}

	revoked, err := j.denylist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("checking denylist: %w", err)
	}
	if revoked {
		return nil, ErrRevokedToken
	}
	return claims, nil
}

func (j *JWT) Revoke(ctx context.Context, c *Claims) error {
	if c == nil || c.ExpiresAt == nil {
		return errors.New("revoke: claims without expiry")
	}
	if err := j.denylist.Revoke(ctx, c.ID, c.ExpiresAt.Sub(j.now())); err != nil {
		return fmt.Errorf("revoking token: %w", err)
	}
	return nil
}
