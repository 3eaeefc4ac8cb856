package healthfactor

import (
	"context"
	"errors"
	"fmt"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Postgres struct {
	factors repository.HealthFactorRepository
}

var _ Service = (*Postgres)(nil)

func NewPostgres(factors repository.HealthFactorRepository) *Postgres {
	return &Postgres{factors: factors}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrReference):
		return ErrUserNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrDateTaken
	default:
		return err
	}
}

func (s *Postgres) Create(ctx context.Context, ownerID int64, req Request) (model.HealthFactor, error) {
	f, err := s.factors.Create(ctx, req.params(ownerID))
	if err != nil {
		return model.HealthFactor{}, mapError(err)
	}
	xslog.FromContext(ctx).InfoContext(ctx, "health factor recorded", xslog.HealthFactorID(f.ID), xslog.UserID(ownerID))
	return f, nil
}

func (s *Postgres) Get(ctx context.Context, scope repository.Scope, id int64) (model.HealthFactor, error) {
	f, err := s.factors.Get(ctx, scope, id)
	if err != nil {
		return model.HealthFactor{}, mapError(err)
	}
	return f, nil
}

func (s *Postgres) List(ctx context.Context, scope repository.Scope, from, to *model.Date) ([]model.HealthFactor, error) {
	factors, err := s.factors.List(ctx, scope, from, to)
	if err != nil {
		return nil, fmt.Errorf("listing health factors: %w", err)
	}
	return factors, nil
}

func (s *Postgres) Update(ctx context.Context, scope repository.Scope, id int64, req Request) (model.HealthFactor, error) {
	existing, err := s.factors.Get(ctx, scope, id)
	if err != nil {
		return model.HealthFactor{}, mapError(err)
	}

	owner := existing.UserID
	if req.UserID != nil && scope.UserID == nil {
		owner = *req.UserID
	}

	f, err := s.factors.Update(ctx, scope, id, req.params(owner))
	if err != nil {
		return model.HealthFactor{}, mapError(err)
	}
	return f, nil
}

func (s *Postgres) Delete(ctx context.Context, scope repository.Scope, id int64) error {
	return mapError(s.factors.Delete(ctx, scope, id))
}
