package model

import "time"

// form bounds enforced on create/update
const (
	MinSystolic  = 50
	MaxSystolic  = 250
	MinDiastolic = 30
	MaxDiastolic = 200
	MinHeartRate = 30
	MaxHeartRate = 200
)

type Reading struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"user"`
	UserEmail  string    `json:"user_email,omitempty"`
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	HeartRate  *int      `json:"heart_rate,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes"`
	// Category is derived by the server. When present it is authoritative.
	Category  *Category `json:"category,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MeanPressure is the midpoint of systolic and diastolic, used by the
// correlation charts.
func (r Reading) MeanPressure() float64 {
	return float64(r.Systolic+r.Diastolic) / 2
}
