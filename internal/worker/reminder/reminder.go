// Package reminder periodically sends blood pressure reminders to users
// whose schedule is due.
package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/service/notification"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Worker struct {
	candidates    repository.NotificationRepository
	notifications notification.Service
	interval      time.Duration
	logger        *slog.Logger
	now           func() time.Time
}

func NewWorker(candidates repository.NotificationRepository, notifications notification.Service, interval time.Duration, logger *slog.Logger) *Worker {
	return &Worker{
		candidates:    candidates,
		notifications: notifications,
		interval:      interval,
		logger:        logger,
		now:           time.Now,
	}
}

// Run sends due reminders every interval and blocks until ctx is done.
func (w *Worker) Run(ctx context.Context) {
	w.logger.InfoContext(ctx, "reminder worker started", xslog.Duration(w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.InfoContext(ctx, "reminder worker stopped")
			return
		case <-ticker.C:
			sent, err := w.Tick(ctx)
			if err != nil {
				w.logger.ErrorContext(ctx, "reminder tick failed", xslog.Error(err))
				continue
			}
			if sent > 0 {
				w.logger.InfoContext(ctx, "sent bp reminders", xslog.Count(sent))
			}
		}
	}
}

// Tick sends one reminder to every due candidate and reports how many were
// sent. A failed send is logged and does not stop the rest.
func (w *Worker) Tick(ctx context.Context) (int, error) {
	candidates, err := w.candidates.ListReminderCandidates(ctx)
	if err != nil {
		return 0, fmt.Errorf("list reminder candidates: %w", err)
	}

	now := w.now().In(time.Local)
	sent := 0
	for _, c := range candidates {
		if !Due(c, now) {
			continue
		}
		if _, err := w.notifications.Send(ctx, notification.BPReminder(c.User)); err != nil {
			w.logger.WarnContext(ctx, "failed to send bp reminder",
				xslog.UserID(c.User.ID),
				xslog.Error(err))
			continue
		}
		sent++
	}
	return sent, nil
}

// Due reports whether c should get a reminder at now: reminders are enabled,
// the local clock has passed the reminder time, and at least one frequency
// interval has elapsed since the last successful reminder.
func Due(c repository.ReminderCandidate, now time.Time) bool {
	p := c.Preferences
	if !p.BPReminderEnabled {
		return false
	}
	if now.Before(p.BPReminderTime.On(now)) {
		return false
	}
	if c.LastSentAt == nil {
		return true
	}
	return now.Sub(*c.LastSentAt) >= p.BPReminderFrequency.Interval()
}
