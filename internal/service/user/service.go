package user

import (
	"context"
	"errors"

	"github.com/garrettladley/moyo/internal/model"
)

var ErrUserNotFound = errors.New("user not found")

// Service is the admin view of accounts.
type Service interface {
	List(ctx context.Context) ([]model.User, error)

	// Get returns ErrUserNotFound for an unknown id.
	Get(ctx context.Context, id int64) (model.User, error)

	// Delete removes the user and everything they own.
	Delete(ctx context.Context, id int64) error
}
