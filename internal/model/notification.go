package model

import (
	"fmt"
	"time"
)

type ReminderFrequency string

const (
	ReminderDaily       ReminderFrequency = "daily"
	ReminderTwiceWeekly ReminderFrequency = "twice_weekly"
	ReminderWeekly      ReminderFrequency = "weekly"
	ReminderBiweekly    ReminderFrequency = "biweekly"
)

func (f ReminderFrequency) Valid() bool {
	switch f {
	case ReminderDaily, ReminderTwiceWeekly, ReminderWeekly, ReminderBiweekly:
		return true
	default:
		return false
	}
}

// Interval is the minimum spacing between two reminders.
func (f ReminderFrequency) Interval() time.Duration {
	const day = 24 * time.Hour
	switch f {
	case ReminderTwiceWeekly:
		return 84 * time.Hour
	case ReminderWeekly:
		return 7 * day
	case ReminderBiweekly:
		return 14 * day
	default:
		return day
	}
}

// ClockTime is a time of day in "15:04" form.
type ClockTime struct {
	Hour   int
	Minute int
}

var DefaultReminderTime = ClockTime{Hour: 9}

func ParseClockTime(s string) (ClockTime, error) {
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return ClockTime{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return ClockTime{}, fmt.Errorf("invalid time %q: expected HH:MM", s)
}

func (c ClockTime) String() string { return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute) }

// On returns the clock time on the calendar day of t, in t's location.
func (c ClockTime) On(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, c.Hour, c.Minute, 0, 0, t.Location())
}

func (c ClockTime) MarshalJSON() ([]byte, error) {
	return []byte(`"` + c.String() + `"`), nil
}

func (c *ClockTime) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("invalid time %s", s)
	}
	parsed, err := ParseClockTime(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

type NotificationPreferences struct {
	ID                          int64             `json:"id"`
	UserID                      int64             `json:"user"`
	BPReminderEnabled           bool              `json:"bp_reminder_enabled"`
	BPReminderFrequency         ReminderFrequency `json:"bp_reminder_frequency"`
	BPReminderTime              ClockTime         `json:"bp_reminder_time"`
	MedicationReminderEnabled   bool              `json:"medication_reminder_enabled"`
	InsightNotificationsEnabled bool              `json:"insight_notifications_enabled"`
	CreatedAt                   time.Time         `json:"created_at"`
	UpdatedAt                   time.Time         `json:"updated_at"`
}

// DefaultNotificationPreferences mirrors the column defaults.
func DefaultNotificationPreferences(userID int64) NotificationPreferences {
	return NotificationPreferences{
		UserID:                      userID,
		BPReminderEnabled:           true,
		BPReminderFrequency:         ReminderDaily,
		BPReminderTime:              DefaultReminderTime,
		MedicationReminderEnabled:   true,
		InsightNotificationsEnabled: true,
	}
}

type NotificationType string

const (
	NotificationBPReminder         NotificationType = "bp_reminder"
	NotificationMedicationReminder NotificationType = "medication_reminder"
	NotificationInsight            NotificationType = "insight"
	NotificationSystem             NotificationType = "system"
)

type NotificationLog struct {
	ID               int64            `json:"id"`
	UserID           int64            `json:"user"`
	UserEmail        string           `json:"user_email,omitempty"`
	NotificationType NotificationType `json:"notification_type"`
	Subject          string           `json:"subject"`
	Message          string           `json:"message"`
	SentAt           time.Time        `json:"sent_at"`
	SentSuccessfully bool             `json:"sent_successfully"`
	ErrorMessage     string           `json:"error_message"`
}
