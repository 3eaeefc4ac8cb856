package notification

import (
	"context"
	"errors"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
)

var ErrNotificationsDisabled = errors.New("notifications of this type are disabled")

type PreferencesRequest struct {
	BPReminderEnabled           *bool                    `json:"bp_reminder_enabled"`
	BPReminderFrequency         *model.ReminderFrequency `json:"bp_reminder_frequency"`
	BPReminderTime              *model.ClockTime         `json:"bp_reminder_time"`
	MedicationReminderEnabled   *bool                    `json:"medication_reminder_enabled"`
	InsightNotificationsEnabled *bool                    `json:"insight_notifications_enabled"`
}

func (r PreferencesRequest) Validate() map[string]string {
	if r.BPReminderFrequency != nil && !r.BPReminderFrequency.Valid() {
		return map[string]string{"bp_reminder_frequency": "must be one of daily, twice_weekly, weekly, biweekly"}
	}
	return nil
}

func (r PreferencesRequest) apply(p model.NotificationPreferences) model.NotificationPreferences {
	if r.BPReminderEnabled != nil {
		p.BPReminderEnabled = *r.BPReminderEnabled
	}
	if r.BPReminderFrequency != nil {
		p.BPReminderFrequency = *r.BPReminderFrequency
	}
	if r.BPReminderTime != nil {
		p.BPReminderTime = *r.BPReminderTime
	}
	if r.MedicationReminderEnabled != nil {
		p.MedicationReminderEnabled = *r.MedicationReminderEnabled
	}
	if r.InsightNotificationsEnabled != nil {
		p.InsightNotificationsEnabled = *r.InsightNotificationsEnabled
	}
	return p
}

type Service interface {
	// Preferences returns the user's preferences, creating the defaults on
	// first access.
	Preferences(ctx context.Context, userID int64) (model.NotificationPreferences, error)

	// UpdatePreferences applies the non-nil fields of req.
	UpdatePreferences(ctx context.Context, userID int64, req PreferencesRequest) (model.NotificationPreferences, error)

	Logs(ctx context.Context, scope repository.Scope) ([]model.NotificationLog, error)

	// NotifyInsight records an insight notification for u.
	// Returns ErrNotificationsDisabled if u opted out.
	NotifyInsight(ctx context.Context, u model.User, insightText string) (model.NotificationLog, error)

	// Send records n and delivers it to live subscribers.
	Send(ctx context.Context, n model.NotificationLog) (model.NotificationLog, error)

	// Subscribe creates a subscription for live notifications.
	// Returns a channel that receives notifications and an unsubscribe function.
	Subscribe(ctx context.Context, userID int64) (<-chan model.NotificationLog, func(), error)
}
