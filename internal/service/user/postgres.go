package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/xslog"
)

type PostgresService struct {
	users repository.UserRepository
}

var _ Service = (*PostgresService)(nil)

func NewPostgresService(users repository.UserRepository) *PostgresService {
	return &PostgresService{users: users}
}

func (s *PostgresService) List(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *PostgresService) Get(ctx context.Context, id int64) (model.User, error) {
	u, err := s.users.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return model.User{}, ErrUserNotFound
	}
	if err != nil {
		return model.User{}, fmt.Errorf("getting user: %w", err)
	}
	return u, nil
}

func (s *PostgresService) Delete(ctx context.Context, id int64) error {
	err := s.users.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrUserNotFound
	}
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}
	xslog.FromContext(ctx).InfoContext(ctx, "user deleted", xslog.UserID(id))
	return nil
}
