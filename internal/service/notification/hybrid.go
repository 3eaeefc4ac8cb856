package notification

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/storage"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Hybrid struct {
	repo  repository.NotificationRepository
	store *storage.HybridNotificationStore
	now   func() time.Time
}

var _ Service = (*Hybrid)(nil)

func NewHybrid(repo repository.NotificationRepository, broker storage.Broker) *Hybrid {
	return &Hybrid{
		repo:  repo,
		store: storage.NewHybridNotificationStore(repo, broker),
		now:   time.Now,
	}
}

func (s *Hybrid) Preferences(ctx context.Context, userID int64) (model.NotificationPreferences, error) {
	p, err := s.repo.GetPreferences(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return model.NotificationPreferences{}, fmt.Errorf("getting preferences: %w", err)
	}

	p, err = s.repo.UpsertPreferences(ctx, model.DefaultNotificationPreferences(userID))
	if err != nil {
		return model.NotificationPreferences{}, fmt.Errorf("creating default preferences: %w", err)
	}
	return p, nil
}

func (s *Hybrid) UpdatePreferences(ctx context.Context, userID int64, req PreferencesRequest) (model.NotificationPreferences, error) {
	current, err := s.Preferences(ctx, userID)
	if err != nil {
		return model.NotificationPreferences{}, err
	}

	p, err := s.repo.UpsertPreferences(ctx, req.apply(current))
	if err != nil {
		return model.NotificationPreferences{}, fmt.Errorf("updating preferences: %w", err)
	}
	return p, nil
}

func (s *Hybrid) Logs(ctx context.Context, scope repository.Scope) ([]model.NotificationLog, error) {
	logs, err := s.repo.ListLogs(ctx, scope)
	if err != nil {
		return nil, fmt.Errorf("listing notification logs: %w", err)
	}
	return logs, nil
}

func (s *Hybrid) NotifyInsight(ctx context.Context, u model.User, insightText string) (model.NotificationLog, error) {
	p, err := s.Preferences(ctx, u.ID)
	if err != nil {
		return model.NotificationLog{}, err
	}
	if !p.InsightNotificationsEnabled {
		return model.NotificationLog{}, ErrNotificationsDisabled
	}
	return s.Send(ctx, Insight(u, insightText))
}

func (s *Hybrid) Send(ctx context.Context, n model.NotificationLog) (model.NotificationLog, error) {
	if n.SentAt.IsZero() {
		n.SentAt = s.now()
	}
	n.SentSuccessfully = true

	saved, err := s.store.Record(ctx, n)
	if err != nil {
		if saved.ID == 0 {
			return model.NotificationLog{}, err
		}
		// persisted but nobody live heard it; the log still stands
		xslog.FromContext(ctx).WarnContext(ctx, "failed to publish notification",
			xslog.Error(err),
			xslog.UserID(n.UserID),
			xslog.NotificationType(string(n.NotificationType)),
		)
	}
	return saved, nil
}

func (s *Hybrid) Subscribe(ctx context.Context, userID int64) (<-chan model.NotificationLog, func(), error) {
	return s.store.Subscribe(ctx, userID)
}
