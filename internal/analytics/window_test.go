package analytics

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/garrettladley/moyo/internal/model"
)

func reading(systolic, diastolic int, at time.Time) model.Reading {
	return model.Reading{Systolic: systolic, Diastolic: diastolic, RecordedAt: at}
}

func day(y int, m time.Month, d, hour int) time.Time {
	return time.Date(y, m, d, hour, 0, 0, 0, time.UTC)
}

func TestFilterByWindow(t *testing.T) {
	t.Parallel()

	now := day(2024, time.March, 15, 12)
	readings := []model.Reading{
		reading(120, 80, day(2024, time.March, 15, 23)),
		reading(121, 80, day(2023, time.March, 1, 8)),
		reading(122, 80, day(2024, time.March, 8, 0)),
		reading(123, 80, day(2024, time.March, 7, 23)),
		reading(124, 80, day(2024, time.February, 14, 9)),
		reading(125, 80, day(2024, time.March, 16, 0)),
		reading(126, 80, day(2023, time.March, 15, 0)),
	}

	tests := []struct {
		name      string
		window    Window
		systolics []int
	}{
		{
			name:      "7 days starts at start of day a week ago",
			window:    Window{Period: Period7Days},
			systolics: []int{122, 120},
		},
		{
			name:      "30 days",
			window:    Window{Period: Period30Days},
			systolics: []int{124, 123, 122, 120},
		},
		{
			name:      "1 year includes day a calendar year back",
			window:    Window{Period: Period1Year},
			systolics: []int{126, 124, 123, 122, 120},
		},
		{
			name:      "all is unbounded",
			window:    Window{Period: PeriodAll},
			systolics: []int{121, 126, 124, 123, 122, 120, 125},
		},
		{
			name: "custom with both bounds",
			window: Window{
				Period:      PeriodCustom,
				CustomStart: ptr(day(2024, time.February, 14, 18)),
				CustomEnd:   ptr(day(2024, time.March, 7, 1)),
			},
			systolics: []int{124, 123},
		},
		{
			name:      "custom without bounds ends today",
			window:    Window{Period: PeriodCustom},
			systolics: []int{121, 126, 124, 123, 122, 120},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := FilterByWindow(readings, tt.window, now)
			gotSystolics := make([]int, len(got))
			for i, r := range got {
				gotSystolics[i] = r.Systolic
			}
			if diff := cmp.Diff(tt.systolics, gotSystolics); diff != "" {
				t.Errorf("FilterByWindow() mismatch (-want +got):\n%s", diff)
			}

			start, end := tt.window.Bounds(now)
			for i, r := range got {
				if start != nil && r.RecordedAt.Before(*start) {
					t.Errorf("reading %d at %v before start %v", i, r.RecordedAt, *start)
				}
				if end != nil && r.RecordedAt.After(*end) {
					t.Errorf("reading %d at %v after end %v", i, r.RecordedAt, *end)
				}
				if i > 0 && r.RecordedAt.Before(got[i-1].RecordedAt) {
					t.Errorf("reading %d out of order", i)
				}
			}
		})
	}
}

func TestFilterByWindowEmpty(t *testing.T) {
	t.Parallel()

	for _, p := range Periods {
		got := FilterByWindow(nil, Window{Period: p}, time.Now())
		if got == nil || len(got) != 0 {
			t.Errorf("FilterByWindow(nil, %s) = %v, want empty slice", p, got)
		}
	}
}

func TestFilterByWindowDoesNotMutateInput(t *testing.T) {
	t.Parallel()

	readings := []model.Reading{
		reading(130, 85, day(2024, time.January, 2, 8)),
		reading(115, 70, day(2024, time.January, 1, 8)),
	}
	before := append([]model.Reading(nil), readings...)

	_ = FilterByWindow(readings, Window{Period: PeriodAll}, day(2024, time.January, 3, 0))

	if diff := cmp.Diff(before, readings); diff != "" {
		t.Errorf("FilterByWindow() mutated input (-before +after):\n%s", diff)
	}
}

func TestFilterByWindowStable(t *testing.T) {
	t.Parallel()

	at := day(2024, time.January, 2, 8)
	readings := []model.Reading{
		{ID: 1, Systolic: 120, Diastolic: 80, RecordedAt: at},
		{ID: 2, Systolic: 121, Diastolic: 80, RecordedAt: at},
		{ID: 3, Systolic: 122, Diastolic: 80, RecordedAt: at},
	}

	got := FilterByWindow(readings, Window{Period: PeriodAll}, at)
	for i, r := range got {
		if r.ID != int64(i+1) {
			t.Errorf("FilterByWindow()[%d].ID = %d, want %d", i, r.ID, i+1)
		}
	}
}

func TestFilterByWindowOrdersDistantTimes(t *testing.T) {
	t.Parallel()

	// Outside the range UnixNano can represent.
	far := time.Date(2300, time.January, 1, 0, 0, 0, 0, time.UTC)
	early := time.Date(1600, time.January, 1, 0, 0, 0, 0, time.UTC)
	readings := []model.Reading{
		{ID: 1, Systolic: 120, Diastolic: 80, RecordedAt: far},
		{ID: 2, Systolic: 120, Diastolic: 80, RecordedAt: early},
		{ID: 3, Systolic: 120, Diastolic: 80, RecordedAt: day(2024, time.January, 2, 8)},
	}

	got := FilterByWindow(readings, Window{Period: PeriodAll}, far)
	var ids []int64
	for _, r := range got {
		ids = append(ids, r.ID)
	}
	if diff := cmp.Diff([]int64{2, 3, 1}, ids); diff != "" {
		t.Errorf("FilterByWindow() order mismatch (-want +got):\n%s", diff)
	}
}

func TestYearWindowOnLeapDay(t *testing.T) {
	t.Parallel()

	now := day(2024, time.February, 29, 12)
	start, _ := Window{Period: Period1Year}.Bounds(now)
	if want := day(2023, time.February, 28, 0); !start.Equal(want) {
		t.Errorf("Bounds() start = %v, want %v", *start, want)
	}

	got := FilterByWindow([]model.Reading{reading(120, 80, day(2023, time.February, 28, 9))}, Window{Period: Period1Year}, now)
	if len(got) != 1 {
		t.Errorf("len(FilterByWindow()) = %d, want 1", len(got))
	}
}

func TestFilterByWindowDropsInvalid(t *testing.T) {
	t.Parallel()

	now := day(2024, time.January, 3, 0)
	readings := []model.Reading{
		reading(0, 80, day(2024, time.January, 2, 8)),
		reading(120, -1, day(2024, time.January, 2, 8)),
		reading(120, 80, time.Time{}),
		reading(120, 80, day(2024, time.January, 2, 8)),
	}

	if got := FilterByWindow(readings, Window{Period: PeriodAll}, now); len(got) != 1 {
		t.Errorf("len(FilterByWindow()) = %d, want 1", len(got))
	}
}

func TestFilterByWindowUsesNowLocation(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("UTC-5", -5*60*60)
	now := time.Date(2024, time.January, 10, 12, 0, 0, 0, loc)
	// 2024-01-03 02:00 UTC is 2024-01-02 21:00 in loc, one day before the window.
	early := reading(120, 80, time.Date(2024, time.January, 3, 2, 0, 0, 0, time.UTC))
	inside := reading(121, 80, time.Date(2024, time.January, 3, 6, 0, 0, 0, time.UTC))

	got := FilterByWindow([]model.Reading{early, inside}, Window{Period: Period7Days}, now)
	if len(got) != 1 || got[0].Systolic != 121 {
		t.Errorf("FilterByWindow() = %v, want only the reading inside the window", got)
	}
}

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Period
		wantErr  bool
	}{
		{input: "", expected: Period30Days},
		{input: "7d", expected: Period7Days},
		{input: "1y", expected: Period1Year},
		{input: "custom", expected: PeriodCustom},
		{input: "2w", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			got, err := ParsePeriod(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePeriod(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("ParsePeriod(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }
