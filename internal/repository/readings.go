package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/garrettladley/moyo/internal/model"
)

type ReadingParams struct {
	UserID     int64
	Systolic   int
	Diastolic  int
	HeartRate  *int
	RecordedAt time.Time
	Notes      string
}

type readingRepo struct {
	db DBTX
}

const readingSelect = `
	SELECT r.id, r.user_id, u.email, r.systolic, r.diastolic, r.heart_rate,
		r.recorded_at, r.notes, r.created_at, r.updated_at
	FROM bp_readings r
	JOIN users u ON u.id = r.user_id`

func scanReading(row pgx.Row) (model.Reading, error) {
	var r model.Reading
	err := row.Scan(
		&r.ID,
		&r.UserID,
		&r.UserEmail,
		&r.Systolic,
		&r.Diastolic,
		&r.HeartRate,
		&r.RecordedAt,
		&r.Notes,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

func (r *readingRepo) Create(ctx context.Context, p ReadingParams) (model.Reading, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO bp_readings (user_id, systolic, diastolic, heart_rate, recorded_at, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`,
		p.UserID, p.Systolic, p.Diastolic, p.HeartRate, p.RecordedAt, p.Notes,
	).Scan(&id)
	if err != nil {
		return model.Reading{}, fmt.Errorf("insert reading: %w", mapError(err))
	}
	return r.Get(ctx, UserScope(p.UserID), id)
}

func (r *readingRepo) Get(ctx context.Context, scope Scope, id int64) (model.Reading, error) {
	reading, err := scanReading(r.db.QueryRow(ctx,
		readingSelect+` WHERE r.id = $1 AND ($2::bigint IS NULL OR r.user_id = $2)`,
		id, scope.UserID,
	))
	if err != nil {
		return model.Reading{}, fmt.Errorf("get reading: %w", mapError(err))
	}
	return reading, nil
}

func (r *readingRepo) List(ctx context.Context, scope Scope, tr TimeRange) ([]model.Reading, error) {
	rows, err := r.db.Query(ctx, readingSelect+`
		WHERE ($1::bigint IS NULL OR r.user_id = $1)
			AND ($2::timestamptz IS NULL OR r.recorded_at >= $2)
			AND ($3::timestamptz IS NULL OR r.recorded_at <= $3)
		ORDER BY r.recorded_at DESC, r.id DESC`,
		scope.UserID, tr.Start, tr.End,
	)
	if err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	defer rows.Close()

	readings := make([]model.Reading, 0)
	for rows.Next() {
		reading, err := scanReading(rows)
		if err != nil {
			return nil, fmt.Errorf("scan reading: %w", err)
		}
		readings = append(readings, reading)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list readings: %w", err)
	}
	return readings, nil
}

func (r *readingRepo) Update(ctx context.Context, scope Scope, id int64, p ReadingParams) (model.Reading, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE bp_readings
		SET user_id = $3, systolic = $4, diastolic = $5, heart_rate = $6, recorded_at = $7, notes = $8, updated_at = NOW()
		WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID, p.UserID, p.Systolic, p.Diastolic, p.HeartRate, p.RecordedAt, p.Notes,
	)
	if err != nil {
		return model.Reading{}, fmt.Errorf("update reading: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.Reading{}, fmt.Errorf("update reading: %w", ErrNotFound)
	}
	return r.Get(ctx, AllUsers(), id)
}

func (r *readingRepo) Delete(ctx context.Context, scope Scope, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM bp_readings WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID,
	)
	if err != nil {
		return fmt.Errorf("delete reading: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete reading: %w", ErrNotFound)
	}
	return nil
}
