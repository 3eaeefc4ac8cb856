package model

import "time"

const (
	MinRating = 1
	MaxRating = 5
)

// HealthFactor is one day's self-reported sleep, stress and exercise record.
// A user has at most one per date.
type HealthFactor struct {
	ID               int64     `json:"id"`
	UserID           int64     `json:"user"`
	UserEmail        string    `json:"user_email,omitempty"`
	Date             Date      `json:"date"`
	SleepQuality     *int      `json:"sleep_quality,omitempty"`
	StressLevel      *int      `json:"stress_level,omitempty"`
	ExerciseDuration *int      `json:"exercise_duration,omitempty"` // minutes
	Notes            string    `json:"notes"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
