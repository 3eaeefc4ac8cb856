package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/garrettladley/moyo/internal/model"
)

type InsightParams struct {
	UserID      int64
	InsightText string
	InsightType model.InsightType
	Severity    model.Severity
	IsRead      bool
}

type insightRepo struct {
	db DBTX
}

const insightSelect = `
	SELECT i.id, i.user_id, u.email, i.insight_text, i.insight_type, i.generated_at, i.is_read, i.severity
	FROM user_insights i
	JOIN users u ON u.id = i.user_id`

func scanInsight(row pgx.Row) (model.UserInsight, error) {
	var (
		i                  model.UserInsight
		insightType, level string
	)
	err := row.Scan(
		&i.ID,
		&i.UserID,
		&i.UserEmail,
		&i.InsightText,
		&insightType,
		&i.GeneratedAt,
		&i.IsRead,
		&level,
	)
	i.InsightType = model.InsightType(insightType)
	i.Severity = model.Severity(level)
	return i, err
}

func (r *insightRepo) Create(ctx context.Context, p InsightParams) (model.UserInsight, error) {
	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO user_insights (user_id, insight_text, insight_type, severity, is_read)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`,
		p.UserID, p.InsightText, string(p.InsightType), string(p.Severity), p.IsRead,
	).Scan(&id)
	if err != nil {
		return model.UserInsight{}, fmt.Errorf("insert insight: %w", mapError(err))
	}
	return r.Get(ctx, UserScope(p.UserID), id)
}

func (r *insightRepo) Get(ctx context.Context, scope Scope, id int64) (model.UserInsight, error) {
	i, err := scanInsight(r.db.QueryRow(ctx,
		insightSelect+` WHERE i.id = $1 AND ($2::bigint IS NULL OR i.user_id = $2)`,
		id, scope.UserID,
	))
	if err != nil {
		return model.UserInsight{}, fmt.Errorf("get insight: %w", mapError(err))
	}
	return i, nil
}

func (r *insightRepo) List(ctx context.Context, scope Scope) ([]model.UserInsight, error) {
	rows, err := r.db.Query(ctx, insightSelect+`
		WHERE ($1::bigint IS NULL OR i.user_id = $1)
		ORDER BY i.generated_at DESC, i.id DESC`,
		scope.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	defer rows.Close()

	insights := make([]model.UserInsight, 0)
	for rows.Next() {
		i, err := scanInsight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan insight: %w", err)
		}
		insights = append(insights, i)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list insights: %w", err)
	}
	return insights, nil
}

func (r *insightRepo) Update(ctx context.Context, scope Scope, id int64, p InsightParams) (model.UserInsight, error) {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_insights
		SET user_id = $3, insight_text = $4, insight_type = $5, severity = $6, is_read = $7
		WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID, p.UserID, p.InsightText, string(p.InsightType), string(p.Severity), p.IsRead,
	)
	if err != nil {
		return model.UserInsight{}, fmt.Errorf("update insight: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return model.UserInsight{}, fmt.Errorf("update insight: %w", ErrNotFound)
	}
	return r.Get(ctx, AllUsers(), id)
}

func (r *insightRepo) MarkRead(ctx context.Context, scope Scope, id int64) (model.UserInsight, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE user_insights SET is_read = TRUE WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID,
	)
	if err != nil {
		return model.UserInsight{}, fmt.Errorf("mark insight read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.UserInsight{}, fmt.Errorf("mark insight read: %w", ErrNotFound)
	}
	return r.Get(ctx, scope, id)
}

func (r *insightRepo) Delete(ctx context.Context, scope Scope, id int64) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM user_insights WHERE id = $1 AND ($2::bigint IS NULL OR user_id = $2)`,
		id, scope.UserID,
	)
	if err != nil {
		return fmt.Errorf("delete insight: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("delete insight: %w", ErrNotFound)
	}
	return nil
}
