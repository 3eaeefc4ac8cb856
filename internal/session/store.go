package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/oauth2"
)

// ErrNoSession is returned when nobody is logged in.
var ErrNoSession = errors.New("not logged in - run `moyo login` first")

// Record is the persisted login.
type Record struct {
	ServerURL string
	Email     string
	Token     *oauth2.Token
	// IsAdmin is nil until the server has been asked.
	IsAdmin *bool
}

type Store interface {
	Load(ctx context.Context) (Record, error)
	Save(ctx context.Context, r Record) error
	// SaveToken replaces the tokens and forgets the cached admin flag.
	SaveToken(ctx context.Context, t *oauth2.Token) error
	SaveAdmin(ctx context.Context, isAdmin bool) error
	Delete(ctx context.Context) error
}

var _ Store = (*SQLStore)(nil)

// SQLStore keeps the single session row in the local sqlite database.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context) (Record, error) {
	var (
		r       Record
		t       oauth2.Token
		expiry  sql.NullTime
		isAdmin sql.NullBool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT server_url, email, access_token, refresh_token, token_type, expiry, is_admin
		FROM session WHERE id = 1`,
	).Scan(&r.ServerURL, &r.Email, &t.AccessToken, &t.RefreshToken, &t.TokenType, &expiry, &isAdmin)
	if errors.Is(err, sql.ErrNoRows) {
		return Record{}, ErrNoSession
	}
	if err != nil {
		return Record{}, fmt.Errorf("load session: %w", err)
	}

	if expiry.Valid {
		t.Expiry = expiry.Time
	}
	if isAdmin.Valid {
		r.IsAdmin = &isAdmin.Bool
	}
	r.Token = &t
	return r, nil
}

func (s *SQLStore) Save(ctx context.Context, r Record) error {
	if r.Token == nil {
		return errors.New("save session: token is required")
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO session (id, server_url, email, access_token, refresh_token, token_type, expiry, is_admin, updated_at)
		VALUES (1, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			server_url = excluded.server_url,
			email = excluded.email,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			token_type = excluded.token_type,
			expiry = excluded.expiry,
			is_admin = excluded.is_admin,
			updated_at = excluded.updated_at`,
		r.ServerURL, r.Email, r.Token.AccessToken, r.Token.RefreshToken, tokenType(r.Token),
		nullTime(r.Token.Expiry), nullBool(r.IsAdmin), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

func (s *SQLStore) SaveToken(ctx context.Context, t *oauth2.Token) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE session SET access_token = ?, refresh_token = ?, token_type = ?, expiry = ?, is_admin = NULL, updated_at = ?
		WHERE id = 1`,
		t.AccessToken, t.RefreshToken, tokenType(t), nullTime(t.Expiry), time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	return requireRow(res)
}

func (s *SQLStore) SaveAdmin(ctx context.Context, isAdmin bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE session SET is_admin = ?, updated_at = ? WHERE id = 1`, isAdmin, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save admin flag: %w", err)
	}
	return requireRow(res)
}

func (s *SQLStore) Delete(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM session WHERE id = 1`); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return ErrNoSession
	}
	return nil
}

func tokenType(t *oauth2.Token) string {
	if t.TokenType == "" {
		return "Bearer"
	}
	return t.TokenType
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}

func nullBool(b *bool) sql.NullBool {
	if b == nil {
		return sql.NullBool{}
	}
	return sql.NullBool{Bool: *b, Valid: true}
}
