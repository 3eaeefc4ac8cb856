package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/moyo/internal/model"
)

func TestDecodeReadings(t *testing.T) {
	t.Parallel()

	body := []byte(`[
		{"id": 1, "systolic": 130, "diastolic": 85, "recorded_at": "2024-01-01T09:00:00Z", "category": "high_stage1"},
		{"id": 2, "systolic": "abc", "diastolic": 85, "recorded_at": "2024-01-01T09:00:00Z"},
		{"id": 3, "systolic": 0, "diastolic": 85, "recorded_at": "2024-01-01T09:00:00Z"},
		{"id": 4, "systolic": 120, "diastolic": 80, "recorded_at": "yesterday"},
		{"id": 5, "systolic": 115, "diastolic": 70, "recorded_at": "2024-01-02T09:00:00Z", "notes": null, "category": "bogus"},
		"not an object"
	]`)

	got := DecodeReadings(body)
	stage1 := model.CategoryHighStage1
	want := []model.Reading{
		{ID: 1, Systolic: 130, Diastolic: 85, RecordedAt: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), Category: &stage1},
		{ID: 5, Systolic: 115, Diastolic: 70, RecordedAt: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeReadings() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeReadingsLenientOptionalFields(t *testing.T) {
	t.Parallel()

	body := []byte(`[
		{"id": 7, "systolic": 122, "diastolic": 81, "recorded_at": "2024-01-03T09:00:00Z",
		 "heart_rate": "fast", "created_at": "last week", "notes": 12, "category": 3},
		{"id": 8, "systolic": 119, "diastolic": 79, "recorded_at": "2024-01-04T09:00:00Z",
		 "heart_rate": 64, "created_at": "2024-01-04T09:01:00Z"}
	]`)

	got := DecodeReadings(body)
	want := []model.Reading{
		{ID: 7, Systolic: 122, Diastolic: 81, RecordedAt: time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)},
		{
			ID: 8, Systolic: 119, Diastolic: 79, HeartRate: ptr(64),
			RecordedAt: time.Date(2024, 1, 4, 9, 0, 0, 0, time.UTC),
			CreatedAt:  time.Date(2024, 1, 4, 9, 1, 0, 0, time.UTC),
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeReadings() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeNonArray(t *testing.T) {
	t.Parallel()

	for _, body := range []string{`{"results": []}`, `null`, ``, `42`} {
		if got := DecodeReadings([]byte(body)); len(got) != 0 {
			t.Errorf("DecodeReadings(%q) = %v, want empty", body, got)
		}
		if got := DecodeHealthFactors([]byte(body)); len(got) != 0 {
			t.Errorf("DecodeHealthFactors(%q) = %v, want empty", body, got)
		}
	}
}

func TestDecodeHealthFactors(t *testing.T) {
	t.Parallel()

	body := []byte(`[
		{"id": 1, "date": "2024-01-01", "sleep_quality": 4, "exercise_duration": 30},
		{"id": 2, "date": "01/02/2024"},
		{"id": 3}
	]`)

	got := DecodeHealthFactors(body)
	want := []model.HealthFactor{
		{ID: 1, Date: date(2024, time.January, 1), SleepQuality: ptr(4), ExerciseDuration: ptr(30)},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("DecodeHealthFactors() mismatch (-want +got):\n%s", diff)
	}
}
