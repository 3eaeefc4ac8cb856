// Package session owns the CLI's login: it persists tokens locally, refreshes
// them against the server and caches what the server said about the user.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"github.com/garrettladley/moyo/internal/client/moyo"
	"github.com/garrettladley/moyo/internal/model"
)

const storeTimeout = 5 * time.Second

// ErrExpired is returned when the refresh token was rejected and the user
// must log in again.
var ErrExpired = errors.New("session expired - run `moyo login` again")

var _ oauth2.TokenSource = (*Session)(nil)

// Session is passed explicitly to every component that talks to the server.
// It is safe for concurrent use.
type Session struct {
	serverURL string
	store     Store
	api       *moyo.Client

	mu      sync.Mutex
	token   *oauth2.Token
	isAdmin *bool
}

func New(serverURL string, store Store, opts ...moyo.Option) *Session {
	return &Session{
		serverURL: serverURL,
		store:     store,
		api:       moyo.New(serverURL, nil, opts...),
	}
}

// Client returns an API client authenticated by s.
func (s *Session) Client(opts ...moyo.Option) *moyo.Client {
	return moyo.New(s.serverURL, s, opts...)
}

func (s *Session) Login(ctx context.Context, email, password string) (model.User, error) {
	res, err := s.api.Login(ctx, email, password)
	if err != nil {
		return model.User{}, err
	}
	return res.User, s.start(ctx, res)
}

func (s *Session) Register(ctx context.Context, req moyo.RegisterRequest) (model.User, error) {
	res, err := s.api.Register(ctx, req)
	if err != nil {
		return model.User{}, err
	}
	return res.User, s.start(ctx, res)
}

func (s *Session) start(ctx context.Context, res *moyo.AuthResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token := newToken(res.Access, res.Refresh)
	isAdmin := res.User.Admin()
	if err := s.store.Save(ctx, Record{ServerURL: s.serverURL, Email: res.User.Email, Token: token, IsAdmin: &isAdmin}); err != nil {
		return err
	}
	s.token = token
	s.isAdmin = &isAdmin
	return nil
}

// Token returns a valid access token, refreshing it when it has expired.
func (s *Session) Token() (*oauth2.Token, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.token != nil && s.token.Valid() {
		return s.token, nil
	}

	rec, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if rec.Token.Valid() {
		s.token = rec.Token
		return s.token, nil
	}
	if rec.Token.RefreshToken == "" {
		return nil, ErrExpired
	}
	return s.refreshLocked(ctx, rec.Token.RefreshToken)
}

// Refresh forces a refresh-token exchange and forgets the cached admin flag.
func (s *Session) Refresh(ctx context.Context) (*oauth2.Token, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	refresh := ""
	if s.token != nil {
		refresh = s.token.RefreshToken
	}
	if refresh == "" {
		rec, err := s.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		refresh = rec.Token.RefreshToken
	}
	return s.refreshLocked(ctx, refresh)
}

func (s *Session) refreshLocked(ctx context.Context, refresh string) (*oauth2.Token, error) {
	pair, err := s.api.Refresh(ctx, refresh)
	if err != nil {
		if moyo.StatusCode(err) == 401 {
			return nil, ErrExpired
		}
		return nil, fmt.Errorf("failed to refresh token: %w", err)
	}

	token := newToken(pair.Access, pair.Refresh)
	if err := s.store.SaveToken(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save refreshed token: %w", err)
	}
	s.token = token
	s.isAdmin = nil
	return token, nil
}

// Invalidate revokes the refresh token on the server and deletes the local
// session. The local session is deleted even when the server is unreachable.
func (s *Session) Invalidate(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, err := s.store.Load(ctx)
	if err != nil {
		return err
	}

	logoutErr := s.api.Logout(ctx, rec.Token.RefreshToken)

	s.token = nil
	s.isAdmin = nil
	if err := s.store.Delete(ctx); err != nil {
		return err
	}
	if logoutErr != nil {
		return fmt.Errorf("logged out locally, server revoke failed: %w", logoutErr)
	}
	return nil
}

// IsAdmin reports whether the logged in user may use the admin surface. The
// answer is fetched once and cached until Refresh or Invalidate.
func (s *Session) IsAdmin(ctx context.Context) (bool, error) {
	s.mu.Lock()
	if s.isAdmin != nil {
		defer s.mu.Unlock()
		return *s.isAdmin, nil
	}
	rec, err := s.store.Load(ctx)
	s.mu.Unlock()
	if err != nil {
		return false, err
	}
	if rec.IsAdmin != nil {
		s.mu.Lock()
		s.isAdmin = rec.IsAdmin
		s.mu.Unlock()
		return *rec.IsAdmin, nil
	}

	// Profile calls Token, which takes the lock.
	u, err := s.Client().Profile(ctx)
	if err != nil {
		return false, err
	}
	isAdmin := u.Admin()
	if err := s.store.SaveAdmin(ctx, isAdmin); err != nil {
		return false, err
	}

	s.mu.Lock()
	s.isAdmin = &isAdmin
	s.mu.Unlock()
	return isAdmin, nil
}

// Email returns the address the session was started with.
func (s *Session) Email(ctx context.Context) (string, error) {
	rec, err := s.store.Load(ctx)
	if err != nil {
		return "", err
	}
	return rec.Email, nil
}

// newToken builds an oauth2 token whose expiry is read from the access JWT.
// The signature is not checked here; the server does that.
func newToken(access, refresh string) *oauth2.Token {
	t := &oauth2.Token{AccessToken: access, RefreshToken: refresh, TokenType: "Bearer"}

	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(access, &claims); err == nil && claims.ExpiresAt != nil {
		t.Expiry = claims.ExpiresAt.Time
	}
	return t
}
