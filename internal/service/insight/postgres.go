package insight

import (
	"context"
	"errors"
	"fmt"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/service/notification"
	"github.com/garrettladley/moyo/internal/xslog"
)

const stage2AlertText = "Your blood pressure reading is in the Stage 2 hypertension range. " +
	"Please consult with your healthcare provider as soon as possible."

type Postgres struct {
	insights      repository.InsightRepository
	users         repository.UserRepository
	notifications notification.Service
}

var _ Service = (*Postgres)(nil)

func NewPostgres(insights repository.InsightRepository, users repository.UserRepository, notifications notification.Service) *Postgres {
	return &Postgres{insights: insights, users: users, notifications: notifications}
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

func (s *Postgres) Create(ctx context.Context, ownerID int64, req Request) (model.UserInsight, error) {
	i, err := s.insights.Create(ctx, req.params(ownerID))
	if err != nil {
		return model.UserInsight{}, mapError(err)
	}
	xslog.FromContext(ctx).InfoContext(ctx, "insight created", xslog.InsightID(i.ID), xslog.UserID(ownerID))
	return i, nil
}

func (s *Postgres) Get(ctx context.Context, scope repository.Scope, id int64) (model.UserInsight, error) {
	i, err := s.insights.Get(ctx, scope, id)
	if err != nil {
		return model.UserInsight{}, mapError(err)
	}
	return i, nil
}

func (s *Postgres) List(ctx context.Context, scope repository.Scope) ([]model.UserInsight, error) {
	insights, err := s.insights.List(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing insights: %w", err)
	}
	return insights, nil
}

func (s *Postgres) Update(ctx context.Context, scope repository.Scope, id int64, req Request) (model.UserInsight, error) {
	existing, err := s.insights.Get(ctx, scope, id)
	if err != nil {
		return model.UserInsight{}, mapError(err)
	}

	owner := existing.UserID
	if req.UserID != nil && scope.UserID == nil {
		owner = *req.UserID
	}

	i, err := s.insights.Update(ctx, scope, id, req.params(owner))
	if err != nil {
		return model.UserInsight{}, mapError(err)
	}
	return i, nil
}

func (s *Postgres) MarkRead(ctx context.Context, scope repository.Scope, id int64) (model.UserInsight, error) {
	i, err := s.insights.MarkRead(ctx, scope, id)
	if err != nil {
		return model.UserInsight{}, mapError(err)
	}
	return i, nil
}

func (s *Postgres) Delete(ctx context.Context, scope repository.Scope, id int64) error {
	return mapError(s.insights.Delete(ctx, scope, id))
}

func (s *Postgres) Alert(ctx context.Context, r model.Reading) (model.UserInsight, error) {
	i, err := s.Create(ctx, r.UserID, Request{
		InsightText: stage2AlertText,
		InsightType: model.InsightTypeAlert,
		Severity:    model.SeverityHigh,
	})
	if err != nil {
		return model.UserInsight{}, err
	}

	u, err := s.users.Get(ctx, r.UserID)
	if err != nil {
		return i, fmt.Errorf("getting user: %w", mapError(err))
	}

	_, err = s.notifications.NotifyInsight(ctx, u, i.InsightText)
	if err != nil && !errors.Is(err, notification.ErrNotificationsDisabled) {
		return i, fmt.Errorf("notifying insight: %w", err)
	}
	return i, nil
}
