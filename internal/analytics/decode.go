package analytics

import (
	"math"
	"time"

	go_json "github.com/goccy/go-json"

	"github.com/garrettladley/moyo/internal/model"
)

// Only the fields commented as required can drop an element; the rest are
// typed as any so a malformed value is discarded instead of failing the
// whole element.
type rawReading struct {
	ID         any `json:"id"`
	UserID     any `json:"user"`
	UserEmail  any `json:"user_email"`
	Systolic   any `json:"systolic"`    // required
	Diastolic  any `json:"diastolic"`   // required
	RecordedAt any `json:"recorded_at"` // required
	HeartRate  any `json:"heart_rate"`
	Notes      any `json:"notes"`
	Category   any `json:"category"`
	CreatedAt  any `json:"created_at"`
	UpdatedAt  any `json:"updated_at"`
}

type rawHealthFactor struct {
	ID               any `json:"id"`
	UserID           any `json:"user"`
	UserEmail        any `json:"user_email"`
	Date             any `json:"date"` // required
	SleepQuality     any `json:"sleep_quality"`
	StressLevel      any `json:"stress_level"`
	ExerciseDuration any `json:"exercise_duration"`
	Notes            any `json:"notes"`
	CreatedAt        any `json:"created_at"`
	UpdatedAt        any `json:"updated_at"`
}

// DecodeReadings leniently decodes a JSON array of readings. Elements that
// fail to decode, have a non-numeric or non-positive systolic or diastolic,
// or have an unparseable recorded_at are dropped. A body that is not an
// array yields an empty slice.
func DecodeReadings(data []byte) []model.Reading {
	var elems []go_json.RawMessage
	if err := go_json.Unmarshal(data, &elems); err != nil {
		return []model.Reading{}
	}

	out := make([]model.Reading, 0, len(elems))
	for _, elem := range elems {
		var raw rawReading
		if err := go_json.Unmarshal(elem, &raw); err != nil {
			continue
		}
		systolic, ok := positiveInt(raw.Systolic)
		if !ok {
			continue
		}
		diastolic, ok := positiveInt(raw.Diastolic)
		if !ok {
			continue
		}
		recordedAt, err := parseTimestamp(stringValue(raw.RecordedAt))
		if err != nil {
			continue
		}

		r := model.Reading{
			ID:         int64Value(raw.ID),
			UserID:     int64Value(raw.UserID),
			UserEmail:  stringValue(raw.UserEmail),
			Systolic:   systolic,
			Diastolic:  diastolic,
			HeartRate:  optionalInt(raw.HeartRate),
			RecordedAt: recordedAt,
			Notes:      stringValue(raw.Notes),
			CreatedAt:  timeValue(raw.CreatedAt),
			UpdatedAt:  timeValue(raw.UpdatedAt),
		}
		if c := model.Category(stringValue(raw.Category)); c.Valid() {
			r.Category = &c
		}
		out = append(out, r)
	}
	return out
}

// DecodeHealthFactors leniently decodes a JSON array of health factors,
// dropping elements whose date is missing or unparseable.
func DecodeHealthFactors(data []byte) []model.HealthFactor {
	var elems []go_json.RawMessage
	if err := go_json.Unmarshal(data, &elems); err != nil {
		return []model.HealthFactor{}
	}

	out := make([]model.HealthFactor, 0, len(elems))
	for _, elem := range elems {
		var raw rawHealthFactor
		if err := go_json.Unmarshal(elem, &raw); err != nil {
			continue
		}
		date, err := model.ParseDate(stringValue(raw.Date))
		if err != nil {
			continue
		}

		out = append(out, model.HealthFactor{
			ID:               int64Value(raw.ID),
			UserID:           int64Value(raw.UserID),
			UserEmail:        stringValue(raw.UserEmail),
			Date:             date,
			SleepQuality:     optionalInt(raw.SleepQuality),
			StressLevel:      optionalInt(raw.StressLevel),
			ExerciseDuration: optionalInt(raw.ExerciseDuration),
			Notes:            stringValue(raw.Notes),
			CreatedAt:        timeValue(raw.CreatedAt),
			UpdatedAt:        timeValue(raw.UpdatedAt),
		})
	}
	return out
}

func positiveInt(v any) (int, bool) {
	f, ok := v.(float64)
	if !ok || f <= 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

func parseTimestamp(s string) (time.Time, error) {
	var err error
	for _, layout := range timestampLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, err
}

func wholeNumber(v any) (float64, bool) {
	f, ok := v.(float64)
	if !ok || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return f, true
}

func optionalInt(v any) *int {
	f, ok := wholeNumber(v)
	if !ok {
		return nil
	}
	n := int(f)
	return &n
}

func int64Value(v any) int64 {
	f, _ := wholeNumber(v)
	return int64(f)
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}

func timeValue(v any) time.Time {
	t, err := parseTimestamp(stringValue(v))
	if err != nil {
		return time.Time{}
	}
	return t
}
