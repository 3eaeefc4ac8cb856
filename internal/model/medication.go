package model

import "time"

type Frequency string

const (
	FrequencyOnceDaily       Frequency = "once_daily"
	FrequencyTwiceDaily      Frequency = "twice_daily"
	FrequencyThreeTimesDaily Frequency = "three_times_daily"
	FrequencyFourTimesDaily  Frequency = "four_times_daily"
	FrequencyAsNeeded        Frequency = "as_needed"
	FrequencyWeekly          Frequency = "weekly"
	FrequencyOther           Frequency = "other"
)

func (f Frequency) Valid() bool {
	switch f {
	case FrequencyOnceDaily, FrequencyTwiceDaily, FrequencyThreeTimesDaily,
		FrequencyFourTimesDaily, FrequencyAsNeeded, FrequencyWeekly, FrequencyOther:
		return true
	default:
		return false
	}
}

type Medication struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user"`
	UserEmail       string          `json:"user_email,omitempty"`
	Name            string          `json:"name"`
	Dosage          string          `json:"dosage"`
	Frequency       Frequency       `json:"frequency"`
	StartDate       Date            `json:"start_date"`
	EndDate         *Date           `json:"end_date,omitempty"`
	IsActive        bool            `json:"is_active"`
	Notes           string          `json:"notes"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
	Logs            []MedicationLog `json:"logs,omitempty"`
	RecentLogsCount *int            `json:"recent_logs_count,omitempty"`
}

type MedicationLog struct {
	ID             int64     `json:"id"`
	MedicationID   int64     `json:"medication"`
	MedicationName string    `json:"medication_name,omitempty"`
	TakenAt        time.Time `json:"taken_at"`
	Notes          string    `json:"notes"`
	CreatedAt      time.Time `json:"created_at"`
}
