package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/garrettladley/moyo/internal/model"
)

type HealthFactorParams struct {
	UserID           int64
	Date             model.Date
	SleepQuality     *int
	StressLevel      *int
	ExerciseDuration *int
	Notes            string
}

type healthFactorRepo struct {
	db DBTX
}

const healthFactorSelect = `
	SELECT f.id, f.user_id, u.email, f.date, f.sleep_quality, f.stress_level,
		f.exercise_duration, f.notes, f.created_at, f.updated_at
	FROM health_factors f
	JOIN users u ON u.id = f.user_id`

func scanHealthFactor(row pgx.Row) (model.HealthFactor, error) {
	var (
		f    model.HealthFactor
		date pgtype.Date
	)
	err := row.Scan(
		&f.ID,
		&f.UserID,
		&f.UserEmail,
		&date,
		&f.SleepQuality,
		&f.StressLevel,
		&f.ExerciseDuration,
		&f.Notes,
		&f.CreatedAt,
		&f.UpdatedAt,
	)
	f.Date = fromPgDate(date)
	return f, err
}

func (r *healthFactorRepo) Create(ctx context.Context, p HealthFactorParams) (model.HealthFactor, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO health_factors (user_id, date, sleep_quality, stress_level, exercise_duration, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.UserID, toPgDate(p.Date), p.SleepQuality, p.StressLevel, p.ExerciseDuration, p.Notes,
	).Scan(&id)
	if err != nil {
		return model.HealthFactor{}, fmt.Errorf("insert health factor: %w", mapError(err))
	}
	return r.Get(ctx, UserScope(p.UserID), id)
}

func (r *healthFactorRepo) Get(ctx context.Context, scope Scope, id int64) (model.HealthFactor, error) {
	f, err := scanHealthFactor(r.db.QueryRow(ctx,
		healthFactorSelect+` WHERE f.id = $1 AND ($2::bigint IS NULL OR f.user_id = $2)`,
		id, scope.UserID,
	))
	if err != nil {
		return model.HealthFactor{}, fmt.Errorf("get health factor: %w", mapError(err))
	}
	return f, nil
}

func (r *healthFactorRepo) List(ctx context.Context, scope Scope, from, to *model.Date) ([]model.HealthFactor, error) {
	rows, err := r.db.Query(ctx, healthFactorSelect+`
		WHERE ($1::bigint IS NULL OR f.user_id = $1)
			AND ($2::date IS NULL OR f.date >= $2)
			AND ($3::date IS NULL OR f.date <= $3)
		ORDER BY f.date DESC, f.id`,
		scope.UserID, toPgDatePtr(from), toPgDatePtr(to),
	)
	if err != nil {
		return nil, fmt.Errorf("list health factors: %w", err)
	}
	defer rows.Close()

	factors := make([]model.HealthFactor, 0)
	for rows.Next() {
		f, err := scanHealthFactor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan health factor: %w", err)
		}
		factors = append(factors, f)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list health factors: %w", err)
	}
	return factors, nil
}

func (r *healthFactorRepo) Update(ctx context.Context, scope Scope, id int64, p HealthFactorParams) (model.HealthFactor, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE health_factors
		SET user_id = $3, date = $4, sleep_quality = $5, stress_level = $6, exercise_duration = $7, notes = $8, updated_at = NOW()
		WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID, p.UserID, toPgDate(p.Date), p.SleepQuality, p.StressLevel, p.ExerciseDuration, p.Notes,
	)
	if err != nil {
		return model.HealthFactor{}, fmt.Errorf("update health factor: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.HealthFactor{}, fmt.Errorf("update health factor: %w", ErrNotFound)
	}
	return r.Get(ctx, AllUsers(), id)
}

func (r *healthFactorRepo) Delete(ctx context.Context, scope Scope, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM health_factors WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID,
	)
	if err != nil {
		return fmt.Errorf("delete health factor: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete health factor: %w", ErrNotFound)
	}
	return nil
}
