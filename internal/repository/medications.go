package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/garrettladley/moyo/internal/model"
)

type MedicationParams struct {
	UserID    int64
	Name      string
	Dosage    string
	Frequency model.Frequency
	StartDate model.Date
	EndDate   *model.Date
	IsActive  bool
	Notes     string
}

type MedicationLogParams struct {
	MedicationID int64
	TakenAt      time.Time
	Notes        string
}

type medicationRepo struct {
	db DBTX
}

const medicationSelect = `
	SELECT m.id, m.user_id, u.email, m.name, m.dosage, m.frequency, m.start_date,
		m.end_date, m.is_active, m.notes, m.created_at, m.updated_at
	FROM medications m
	JOIN users u ON u.id = m.user_id`

const medicationLogSelect = `
	SELECT l.id, l.medication_id, m.name, l.taken_at, l.notes, l.created_at
	FROM medication_logs l
	JOIN medications m ON m.id = l.medication_id`

func scanMedication(row pgx.Row) (model.Medication, error) {
	var (
		m          model.Medication
		start, end pgtype.Date
		frequency  string
	)
	err := row.Scan(
		&m.ID,
		&m.UserID,
		&m.UserEmail,
		&m.Name,
		&m.Dosage,
		&frequency,
		&start,
		&end,
		&m.IsActive,
		&m.Notes,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	m.Frequency = model.Frequency(frequency)
	m.StartDate = fromPgDate(start)
	m.EndDate = fromPgDatePtr(end)
	return m, err
}

func scanMedicationLog(row pgx.Row) (model.MedicationLog, error) {
	var l model.MedicationLog
	err := row.Scan(
		&l.ID,
		&l.MedicationID,
		&l.MedicationName,
		&l.TakenAt,
		&l.Notes,
		&l.CreatedAt,
	)
	return l, err
}

func (r *medicationRepo) Create(ctx context.Context, p MedicationParams) (model.Medication, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO medications (user_id, name, dosage, frequency, start_date, end_date, is_active, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`,
		p.UserID, p.Name, p.Dosage, string(p.Frequency), toPgDate(p.StartDate), toPgDatePtr(p.EndDate), p.IsActive, p.Notes,
	).Scan(&id)
	if err != nil {
		return model.Medication{}, fmt.Errorf("insert medication: %w", mapError(err))
	}
	return r.Get(ctx, UserScope(p.UserID), id)
}

func (r *medicationRepo) Get(ctx context.Context, scope Scope, id int64) (model.Medication, error) {
	m, err := scanMedication(r.db.QueryRow(ctx,
		medicationSelect+` WHERE m.id = $1 AND ($2::bigint IS NULL OR m.user_id = $2)`,
		id, scope.UserID,
	))
	if err != nil {
		return model.Medication{}, fmt.Errorf("get medication: %w", mapError(err))
	}
	return m, nil
}

func (r *medicationRepo) List(ctx context.Context, scope Scope, activeOnly bool) ([]model.Medication, error) {
	rows, err := r.db.Query(ctx, medicationSelect+`
		WHERE ($1::bigint IS NULL OR m.user_id = $1)
			AND (NOT $2 OR m.is_active)
		ORDER BY m.is_active DESC, m.start_date DESC, m.id DESC`,
		scope.UserID, activeOnly,
	)
	if err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	defer rows.Close()

	medications := make([]model.Medication, 0)
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication: %w", err)
		}
		medications = append(medications, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list medications: %w", err)
	}
	return medications, nil
}

func (r *medicationRepo) Update(ctx context.Context, scope Scope, id int64, p MedicationParams) (model.Medication, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE medications
		SET name = $3, dosage = $4, frequency = $5, start_date = $6, end_date = $7, is_active = $8, notes = $9, updated_at = NOW()
		WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID, p.Name, p.Dosage, string(p.Frequency), toPgDate(p.StartDate), toPgDatePtr(p.EndDate), p.IsActive, p.Notes,
	)
	if err != nil {
		return model.Medication{}, fmt.Errorf("update medication: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.Medication{}, fmt.Errorf("update medication: %w", ErrNotFound)
	}
	return r.Get(ctx, AllUsers(), id)
}

func (r *medicationRepo) Delete(ctx context.Context, scope Scope, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM medications WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID,
	)
	if err != nil {
		return fmt.Errorf("delete medication: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete medication: %w", ErrNotFound)
	}
	return nil
}

func (r *medicationRepo) CreateLog(ctx context.Context, p MedicationLogParams) (model.MedicationLog, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO medication_logs (medication_id, taken_at, notes)
		VALUES ($1, $2, $3)
		RETURNING id`,
		p.MedicationID, p.TakenAt, p.Notes,
	).Scan(&id)
	if err != nil {
		return model.MedicationLog{}, fmt.Errorf("insert medication log: %w", mapError(err))
	}

	l, err := scanMedicationLog(r.db.QueryRow(ctx, medicationLogSelect+` WHERE l.id = $1`, id))
	if err != nil {
		return model.MedicationLog{}, fmt.Errorf("get medication log: %w", mapError(err))
	}
	return l, nil
}

func (r *medicationRepo) ListLogs(ctx context.Context, scope Scope, medicationID *int64) ([]model.MedicationLog, error) {
	rows, err := r.db.Query(ctx, medicationLogSelect+`
		WHERE ($1::bigint IS NULL OR m.user_id = $1)
			AND ($2::bigint IS NULL OR l.medication_id = $2)
		ORDER BY l.taken_at DESC, l.id DESC`,
		scope.UserID, medicationID,
	)
	if err != nil {
		return nil, fmt.Errorf("list medication logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.MedicationLog, 0)
	for rows.Next() {
		l, err := scanMedicationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan medication log: %w", err)
		}
		logs = append(logs, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list medication logs: %w", err)
	}
	return logs, nil
}

func (r *medicationRepo) DeleteLog(ctx context.Context, scope Scope, id int64) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM medication_logs l
		USING medications m
		WHERE l.id = $1 AND m.id = l.medication_id AND ($2::bigint IS NULL OR m.user_id = $2)`,
		id, scope.UserID,
	)
	if err != nil {
		return fmt.Errorf("delete medication log: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete medication log: %w", ErrNotFound)
	}
	return nil
}

func (r *medicationRepo) CountLogsSince(ctx context.Context, medicationID int64, since time.Time) (int, error) {
	var n int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM medication_logs WHERE medication_id = $1 AND taken_at >= $2`,
		medicationID, since,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count medication logs: %w", err)
	}
	return n, nil
}
