package reading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Postgres struct {
	readings repository.ReadingRepository
	alerter  Alerter
	now      func() time.Time
}

var _ Service = (*Postgres)(nil)

// NewPostgres returns a reading service. alerter may be nil.
func NewPostgres(readings repository.ReadingRepository, alerter Alerter) *Postgres {
	return &Postgres{readings: readings, alerter: alerter, now: time.Now}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrReference):
		return ErrUserNotFound
	default:
		return err
	}
}

func (s *Postgres) Create(ctx context.Context, ownerID int64, req Request) (model.Reading, error) {
	r, err := s.readings.Create(ctx, req.params(ownerID))
	if err != nil {
		return model.Reading{}, mapError(err)
	}
	r = analytics.Annotate(r)
	category := analytics.CategoryOf(r, analytics.ModeTrustServer)

	logger := xslog.FromContext(ctx)
	logger.InfoContext(ctx, "reading recorded",
		xslog.ReadingID(r.ID),
		xslog.UserID(ownerID),
		xslog.Category(category.String()),
	)

	if s.alerter != nil && category == model.CategoryHighStage2 {
		if _, err := s.alerter.Alert(ctx, r); err != nil {
			logger.ErrorContext(ctx, "failed to raise stage 2 alert", xslog.Error(err), xslog.ReadingID(r.ID))
		}
	}

	return r, nil
}

func (s *Postgres) Get(ctx context.Context, scope repository.Scope, id int64) (model.Reading, error) {
	r, err := s.readings.Get(ctx, scope, id)
	if err != nil {
		return model.Reading{}, mapError(err)
	}
	return analytics.Annotate(r), nil
}

func (s *Postgres) List(ctx context.Context, scope repository.Scope, w analytics.Window) ([]model.Reading, error) {
	start, end := w.Bounds(s.now())
	readings, err := s.readings.List(ctx, scope, repository.TimeRange{Start: start, End: end})
	if err != nil {
		return nil, fmt.Errorf("listing readings: %w", err)
	}
	for i := range readings {
		readings[i] = analytics.Annotate(readings[i])
	}
	return readings, nil
}

func (s *Postgres) Update(ctx context.Context, scope repository.Scope, id int64, req Request) (model.Reading, error) {
	existing, err := s.readings.Get(ctx, scope, id)
	if err != nil {
		return model.Reading{}, mapError(err)
	}

	owner := existing.UserID
	if req.UserID != nil && scope.UserID == nil {
		owner = *req.UserID
	}

	r, err := s.readings.Update(ctx, scope, id, req.params(owner))
	if err != nil {
		return model.Reading{}, mapError(err)
	}
	return analytics.Annotate(r), nil
}

func (s *Postgres) Delete(ctx context.Context, scope repository.Scope, id int64) error {
	if err := s.readings.Delete(ctx, scope, id); err != nil {
		return mapError(err)
	}
	return nil
}
