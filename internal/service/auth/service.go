package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/service/token"
	"github.com/garrettladley/moyo/internal/validator"
)

var (
	ErrEmailTaken          = errors.New("a user with that email already exists")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidRefreshToken = errors.New("invalid or missing refresh token")
)

type RegisterRequest struct {
	Email     string `json:"email" validate:"email"`
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"min=8"`
	Password2 string `json:"password2"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r RegisterRequest) Validate() map[string]string {
	extra := make(map[string]string)
	if strings.TrimSpace(r.Username) == "" {
		extra["username"] = "this field is required"
	}
	if r.Password2 != "" && r.Password != r.Password2 {
		extra["password"] = "password fields didn't match"
	}
	return validator.Merge(validator.Fields(r), extra)
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (r LoginRequest) Validate() map[string]string {
	return validator.Fields(r)
}

type RefreshRequest struct {
	Refresh string `json:"refresh"`
}

type ProfileRequest struct {
	Username  string `json:"username" validate:"required"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (r ProfileRequest) Validate() map[string]string {
	if strings.TrimSpace(r.Username) == "" {
		return map[string]string{"username": "this field is required"}
	}
	return validator.Fields(r)
}

type Result struct {
	User    model.User `json:"user"`
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
}

type Service interface {
	// Register creates an account and signs the user in.
	// Returns ErrEmailTaken if the email is already registered.
	Register(ctx context.Context, req RegisterRequest) (*Result, error)

	// Login exchanges credentials for a token pair.
	// Returns ErrInvalidCredentials for an unknown email or wrong password.
	Login(ctx context.Context, req LoginRequest) (*Result, error)

	// Refresh rotates a refresh token. The presented token is denylisted.
	Refresh(ctx context.Context, refresh string) (*token.Pair, error)

	// Logout denylists the refresh token.
	Logout(ctx context.Context, refresh string) error

	Profile(ctx context.Context, userID int64) (model.User, error)
	UpdateProfile(ctx context.Context, userID int64, req ProfileRequest) (model.User, error)
}
