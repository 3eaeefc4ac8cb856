package moyo

import (
	"context"
	"net/http"

	"github.com/garrettladley/moyo/internal/model"
)

type RegisterRequest struct {
	Email     string `json:"email"`
	Username  string `json:"username"`
	Password  string `json:"password"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User    model.User `json:"user"`
	Access  string     `json:"access"`
	Refresh string     `json:"refresh"`
}

type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var res AuthResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/auth/register", body: req, public: true}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var res AuthResult
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/token", body: body, public: true}, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Refresh exchanges a refresh token for a new pair. The old refresh token is
// revoked by the server.
func (c *Client) Refresh(ctx context.Context, refresh string) (*TokenPair, error) {
	var pair TokenPair
	if err := c.do(ctx, request{method: http.MethodPost, path: "/api/token/refresh", body: map[string]string{"refresh": refresh}, public: true}, &pair); err != nil {
		return nil, err
	}
	return &pair, nil
}

func (c *Client) Logout(ctx context.Context, refresh string) error {
	return c.do(ctx, request{method: http.MethodPost, path: "/api/auth/logout", body: map[string]string{"refresh": refresh}, public: true}, nil)
}

func (c *Client) Profile(ctx context.Context) (model.User, error) {
	var u model.User
	err := c.do(ctx, request{method: http.MethodGet, path: "/api/auth/profile"}, &u)
	return u, err
}
