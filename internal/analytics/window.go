package analytics

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/garrettladley/moyo/internal/model"
)

type Period string

const (
	Period7Days  Period = "7d"
	Period30Days Period = "30d"
	Period90Days Period = "90d"
	Period1Year  Period = "1y"
	PeriodAll    Period = "all"
	PeriodCustom Period = "custom"
)

const DefaultPeriod = Period30Days

var Periods = []Period{Period7Days, Period30Days, Period90Days, Period1Year, PeriodAll, PeriodCustom}

var ErrUnknownPeriod = errors.New("unknown window period")

// ParsePeriod validates a period name. The empty string selects DefaultPeriod.
func ParsePeriod(s string) (Period, error) {
	if s == "" {
		return DefaultPeriod, nil
	}
	p := Period(s)
	if !slices.Contains(Periods, p) {
		return "", fmt.Errorf("%w: %q", ErrUnknownPeriod, s)
	}
	return p, nil
}

// Window is a period plus the optional bounds used when Period is custom.
type Window struct {
	Period      Period
	CustomStart *time.Time
	CustomEnd   *time.Time
}

// Bounds returns the inclusive instants of w relative to now. A nil bound is
// unbounded. Calendar days are taken in now's location.
func (w Window) Bounds(now time.Time) (start, end *time.Time) {
	loc := now.Location()
	todayEnd := EndOfDay(now)

	fixed := func(from time.Time) (*time.Time, *time.Time) {
		s := StartOfDay(from)
		return &s, &todayEnd
	}

	switch w.Period {
	case Period7Days:
		return fixed(now.AddDate(0, 0, -7))
	case Period30Days:
		return fixed(now.AddDate(0, 0, -30))
	case Period90Days:
		return fixed(now.AddDate(0, 0, -90))
	case Period1Year:
		return fixed(subYears(now, 1))
	case PeriodCustom:
		if w.CustomStart != nil {
			s := StartOfDay(w.CustomStart.In(loc))
			start = &s
		}
		e := todayEnd
		if w.CustomEnd != nil {
			e = EndOfDay(w.CustomEnd.In(loc))
		}
		return start, &e
	default:
		return nil, nil
	}
}

// FilterByWindow keeps the readings recorded inside w and returns them in a
// fresh slice sorted ascending by recorded time. Readings without a positive
// systolic and diastolic or without a timestamp are dropped.
func FilterByWindow(readings []model.Reading, w Window, now time.Time) []model.Reading {
	start, end := w.Bounds(now)

	out := make([]model.Reading, 0, len(readings))
	for _, r := range readings {
		if !validPressure(r) || r.RecordedAt.IsZero() {
			continue
		}
		if start != nil && r.RecordedAt.Before(*start) {
			continue
		}
		if end != nil && r.RecordedAt.After(*end) {
			continue
		}
		out = append(out, r)
	}

	slices.SortStableFunc(out, func(a, b model.Reading) int {
		return a.RecordedAt.Compare(b.RecordedAt)
	})
	return out
}

// subYears moves t back n years, clamping Feb 29 to Feb 28 instead of
// rolling into March.
func subYears(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	if last := daysIn(y-n, m); d > last {
		d = last
	}
	return time.Date(y-n, m, d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, m time.Month) int {
	return time.Date(year, m+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}
