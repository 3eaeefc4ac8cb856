package analytics

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Postgres struct {
	readings repository.ReadingRepository
	factors  repository.HealthFactorRepository
	now      func() time.Time
}

var _ Service = (*Postgres)(nil)

// NewPostgres returns an analytics service. Calendar days are taken in the
// location of now.
func NewPostgres(readings repository.ReadingRepository, factors repository.HealthFactorRepository, now func() time.Time) *Postgres {
	if now == nil {
		now = time.Now
	}
	return &Postgres{readings: readings, factors: factors, now: now}
}

func (s *Postgres) windowReadings(ctx context.Context, userID int64, w analytics.Window, now time.Time) ([]model.Reading, error) {
	start, end := w.Bounds(now)
	readings, err := s.readings.List(ctx, repository.UserScope(userID), repository.TimeRange{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}
	filtered := analytics.FilterByWindow(readings, w, now)
	// Rows carry no stored category; the server classifies before serving.
	for i := range filtered {
		filtered[i] = analytics.Annotate(filtered[i])
	}
	return filtered, nil
}

func (s *Postgres) Trends(ctx context.Context, userID int64, w analytics.Window, mode analytics.CategoryMode) (*Trend, error) {
	now := s.now()
	filtered, err := s.windowReadings(ctx, userID, w, now)
	if err != nil {
		return nil, err
	}

	xslog.FromContext(ctx).DebugContext(ctx, "built trend",
		xslog.UserID(userID),
		xslog.Period(string(w.Period)),
		xslog.Count(len(filtered)),
	)

	return &Trend{
		Period: w.Period,
		Mode:   mode,
		Count:  len(filtered),
		Series: analytics.BuildSeries(filtered, w.Period, mode),
	}, nil
}

func (s *Postgres) Correlations(ctx context.Context, userID int64, w analytics.Window) (*analytics.Correlation, error) {
	now := s.now()

	var (
		readings []model.Reading
		factors  []model.HealthFactor
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		readings, err = s.windowReadings(gctx, userID, w, now)
		return err
	})
	g.Go(func() error {
		start, end := w.Bounds(now)
		var from, to *model.Date
		if start != nil {
			d := model.DateOf(start.In(now.Location()))
			from = &d
		}
		if end != nil {
			d := model.DateOf(end.In(now.Location()))
			to = &d
		}

		var err error
		factors, err = s.factors.List(gctx, repository.UserScope(userID), from, to)
		if err != nil {
			return fmt.Errorf("listing health factors: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := analytics.Correlate(readings, factors, now.Location())
	if c == nil {
		c = &analytics.Correlation{
			Matches:  []analytics.Match{},
			Sleep:    []analytics.Point{},
			Stress:   []analytics.Point{},
			Exercise: analytics.ExerciseBuckets(nil),
		}
	}
	return c, nil
}

func (s *Postgres) Summary(ctx context.Context, userID int64) (*Summary, error) {
	readings, err := s.readings.List(ctx, repository.UserScope(userID), repository.TimeRange{})
	if err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}

	summary := &Summary{
		Total:      len(readings),
		Categories: analytics.CountByCategory(readings, analytics.ModeComputeLocal),
	}
	if len(readings) > 0 {
		latest := analytics.Annotate(readings[0])
		summary.Latest = &latest
	}
	return summary, nil
}
