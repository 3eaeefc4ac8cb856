package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/garrettladley/moyo/internal/model"
)

type notificationRepo struct {
	db DBTX
}

const preferencesColumns = `id, user_id, bp_reminder_enabled, bp_reminder_frequency, bp_reminder_time,
	medication_reminder_enabled, insight_notifications_enabled, created_at, updated_at`

func scanPreferences(row pgx.Row, extra ...any) (model.NotificationPreferences, error) {
	var (
		p         model.NotificationPreferences
		frequency string
		at        pgtype.Time
	)
	dest := append([]any{
		&p.ID,
		&p.UserID,
		&p.BPReminderEnabled,
		&frequency,
		&at,
		&p.MedicationReminderEnabled,
		&p.InsightNotificationsEnabled,
		&p.CreatedAt,
		&p.UpdatedAt,
	}, extra...)
	err := row.Scan(dest...)
	p.BPReminderFrequency = model.ReminderFrequency(frequency)
	p.BPReminderTime = fromPgTime(at)
	return p, err
}

func (r *notificationRepo) GetPreferences(ctx context.Context, userID int64) (model.NotificationPreferences, error) {
	p, err := scanPreferences(r.db.QueryRow(ctx,
		`SELECT `+preferencesColumns+` FROM notification_preferences WHERE user_id = $1`,
		userID,
	))
	if err != nil {
		return model.NotificationPreferences{}, fmt.Errorf("get notification preferences: %w", mapError(err))
	}
	return p, nil
}

func (r *notificationRepo) UpsertPreferences(ctx context.Context, p model.NotificationPreferences) (model.NotificationPreferences, error) {
	saved, err := scanPreferences(r.db.QueryRow(ctx, `
		INSERT INTO notification_preferences (
			user_id, bp_reminder_enabled, bp_reminder_frequency, bp_reminder_time,
			medication_reminder_enabled, insight_notifications_enabled
		)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id) DO UPDATE SET
			bp_reminder_enabled = EXCLUDED.bp_reminder_enabled,
			bp_reminder_frequency = EXCLUDED.bp_reminder_frequency,
			bp_reminder_time = EXCLUDED.bp_reminder_time,
			medication_reminder_enabled = EXCLUDED.medication_reminder_enabled,
			insight_notifications_enabled = EXCLUDED.insight_notifications_enabled,
			updated_at = NOW()
		RETURNING `+preferencesColumns,
		p.UserID,
		p.BPReminderEnabled,
		string(p.BPReminderFrequency),
		toPgTime(p.BPReminderTime),
		p.MedicationReminderEnabled,
		p.InsightNotificationsEnabled,
	))
	if err != nil {
		return model.NotificationPreferences{}, fmt.Errorf("upsert notification preferences: %w", mapError(err))
	}
	return saved, nil
}

func (r *notificationRepo) ListReminderCandidates(ctx context.Context) ([]ReminderCandidate, error) {
	rows, err := r.db.Query(ctx, `
		SELECT p.id, p.user_id, p.bp_reminder_enabled, p.bp_reminder_frequency, p.bp_reminder_time,
			p.medication_reminder_enabled, p.insight_notifications_enabled, p.created_at, p.updated_at,
			u.email, u.username, u.first_name,
			(
				SELECT MAX(l.sent_at) FROM notification_logs l
				WHERE l.user_id = p.user_id AND l.notification_type = $1 AND l.sent_successfully
			)
		FROM notification_preferences p
		JOIN users u ON u.id = p.user_id
		WHERE p.bp_reminder_enabled
		ORDER BY p.user_id`,
		string(model.NotificationBPReminder),
	)
	if err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	defer rows.Close()

	candidates := make([]ReminderCandidate, 0)
	for rows.Next() {
		var (
			c      ReminderCandidate
			lastAt *time.Time
		)
		p, err := scanPreferences(rows, &c.User.Email, &c.User.Username, &c.User.FirstName, &lastAt)
		if err != nil {
			return nil, fmt.Errorf("scan reminder candidate: %w", err)
		}
		c.Preferences = p
		c.User.ID = p.UserID
		c.LastSentAt = lastAt
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	return candidates, nil
}

const notificationLogSelect = `
	SELECT l.id, l.user_id, u.email, l.notification_type, l.subject, l.message,
		l.sent_at, l.sent_successfully, l.error_message
	FROM notification_logs l
	JOIN users u ON u.id = l.user_id`

func scanNotificationLog(row pgx.Row) (model.NotificationLog, error) {
	var (
		n     model.NotificationLog
		ntype string
	)
	err := row.Scan(
		&n.ID,
		&n.UserID,
		&n.UserEmail,
		&ntype,
		&n.Subject,
		&n.Message,
		&n.SentAt,
		&n.SentSuccessfully,
		&n.ErrorMessage,
	)
	n.NotificationType = model.NotificationType(ntype)
	return n, err
}

func (r *notificationRepo) CreateNotificationLog(ctx context.Context, n model.NotificationLog) (model.NotificationLog, error) {
	sentAt := n.SentAt
	if sentAt.IsZero() {
		sentAt = time.Now()
	}

	var id int64
	err := r.db.QueryRow(ctx, `
		INSERT INTO notification_logs (user_id, notification_type, subject, message, sent_at, sent_successfully, error_message)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`,
		n.UserID, string(n.NotificationType), n.Subject, n.Message, sentAt, n.SentSuccessfully, n.ErrorMessage,
	).Scan(&id)
	if err != nil {
		return model.NotificationLog{}, fmt.Errorf("insert notification log: %w", mapError(err))
	}

	saved, err := scanNotificationLog(r.db.QueryRow(ctx, notificationLogSelect+` WHERE l.id = $1`, id))
	if err != nil {
		return model.NotificationLog{}, fmt.Errorf("get notification log: %w", mapError(err))
	}
	return saved, nil
}

func (r *notificationRepo) ListLogs(ctx context.Context, scope Scope) ([]model.NotificationLog, error) {
	rows, err := r.db.Query(ctx, notificationLogSelect+`
		WHERE ($1::bigint IS NULL OR l.user_id = $1)
		ORDER BY l.sent_at DESC, l.id DESC`,
		scope.UserID,
	)
	if err != nil {
		return nil, fmt.Errorf("list notification logs: %w", err)
	}
	defer rows.Close()

	logs := make([]model.NotificationLog, 0)
	for rows.Next() {
		n, err := scanNotificationLog(rows)
		if err != nil {
			return nil, fmt.Errorf("scan notification log: %w", err)
		}
		logs = append(logs, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list notification logs: %w", err)
	}
	return logs, nil
}
