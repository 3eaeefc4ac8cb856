package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/service/token"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Password struct {
	users  repository.UserRepository
	tokens token.Service
	cost   int
}

var _ Service = (*Password)(nil)

func NewPassword(users repository.UserRepository, tokens token.Service) *Password {
	return &Password{users: users, tokens: tokens, cost: bcrypt.DefaultCost}
}

func (s *Password) Register(ctx context.Context, req RegisterRequest) (*Result, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u, err := s.users.Create(ctx, repository.CreateUserParams{
		Email:        req.Email,
		Username:     req.Username,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		PasswordHash: string(hash),
	})
	if errors.Is(err, repository.ErrConflict) {
		return nil, ErrEmailTaken
	}
	if err != nil {
		return nil, fmt.Errorf("creating user: %w", err)
	}

	xslog.FromContext(ctx).InfoContext(ctx, "user registered", xslog.UserID(u.ID))

	return s.signIn(ctx, u)
}

func (s *Password) Login(ctx context.Context, req LoginRequest) (*Result, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.signIn(ctx, u)
}

func (s *Password) signIn(ctx context.Context, u model.User) (*Result, error) {
	pair, err := s.tokens.Issue(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}
	return &Result{User: u, Access: pair.Access, Refresh: pair.Refresh}, nil
}

func (s *Password) Refresh(ctx context.Context, refresh string) (*token.Pair, error) {
	claims, err := s.tokens.ParseRefresh(ctx, refresh)
	if err != nil {
		return nil, refreshError(err)
	}

	// admin flags may have changed since the token was issued
	u, err := s.users.Get(ctx, claims.UserID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidRefreshToken
	}
	if err != nil {
		return nil, fmt.Errorf("getting user: %w", err)
	}

	if err := s.tokens.Revoke(ctx, claims); err != nil {
		return nil, err
	}

	pair, err := s.tokens.Issue(ctx, u)
	if err != nil {
		return nil, fmt.Errorf("issuing tokens: %w", err)
	}
	return pair, nil
}

func (s *Password) Logout(ctx context.Context, refresh string) error {
	claims, err := s.tokens.ParseRefresh(ctx, refresh)
	if err != nil {
		return refreshError(err)
	}
	return s.tokens.Revoke(ctx, claims)
}

func refreshError(err error) error {
	if errors.Is(err, token.ErrMissingToken) ||
		errors.Is(err, token.ErrInvalidToken) ||
		errors.Is(err, token.ErrRevokedToken) {
		return fmt.Errorf("%w: %w", ErrInvalidRefreshToken, err)
	}
	return err
}

func (s *Password) Profile(ctx context.Context, userID int64) (model.User, error) {
	u, err := s.users.Get(ctx, userID)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

func (s *Password) UpdateProfile(ctx context.Context, userID int64, req ProfileRequest) (model.User, error) {
	u, err := s.users.UpdateProfile(ctx, userID, repository.UpdateProfileParams{
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("updating user: %w", err)
	}
	return u, nil
}
