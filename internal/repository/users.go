package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/garrettladley/moyo/internal/model"
)

type CreateUserParams struct {
	Email        string
	Username     string
	FirstName    string
	LastName     string
	PasswordHash string
	IsStaff      bool
	IsSuperuser  bool
}

type UpdateProfileParams struct {
	Username  string
	FirstName string
	LastName  string
}

type userRepo struct {
	db DBTX
}

const userColumns = `id, email, username, first_name, last_name, password_hash, is_staff, is_superuser, created_at`

func scanUser(row pgx.Row) (model.User, error) {
	var u model.User
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.Username,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.IsStaff,
		&u.IsSuperuser,
		&u.CreatedAt,
	)
	u.IsAdmin = u.Admin()
	return u, err
}

func (r *userRepo) Create(ctx context.Context, p CreateUserParams) (model.User, error) {
	row := r.db.QueryRow(ctx, `
		INSERT INTO users (email, username, first_name, last_name, password_hash, is_staff, is_superuser)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+userColumns,
		strings.ToLower(p.Email), p.Username, p.FirstName, p.LastName, p.PasswordHash, p.IsStaff, p.IsSuperuser,
	)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, fmt.Errorf("insert user: %w", mapError(err))
	}
	return u, nil
}

func (r *userRepo) Get(ctx context.Context, id int64) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
	if err != nil {
		return model.User{}, fmt.Errorf("get user: %w", mapError(err))
	}
	return u, nil
}

func (r *userRepo) GetByEmail(ctx context.Context, email string) (model.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email)))
	if err != nil {
		return model.User{}, fmt.Errorf("get user by email: %w", mapError(err))
	}
	return u, nil
}

func (r *userRepo) List(ctx context.Context) ([]model.User, error) {
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	users := make([]model.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *userRepo) UpdateProfile(ctx context.Context, id int64, p UpdateProfileParams) (model.User, error) {
	row := r.db.QueryRow(ctx, `
		UPDATE users SET username = $2, first_name = $3, last_name = $4
		WHERE id = $1
		RETURNING `+userColumns,
		id, p.Username, p.FirstName, p.LastName,
	)
	u, err := scanUser(row)
	if err != nil {
		return model.User{}, fmt.Errorf("update user: %w", mapError(err))
	}
	return u, nil
}

func (r *userRepo) Delete(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete user: %w", ErrNotFound)
	}
	return nil
}
