package notification

import (
	"errors"
	"testing"
	"time"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/repository/repotest"
	"github.com/garrettladley/moyo/internal/storage"
)

func newTestService(t *testing.T) (*Hybrid, *repotest.Store) {
	t.Helper()

	repo, store := repotest.New()
	return NewHybrid(repo.Notifications, storage.NewMemoryBroker()), store
}

func TestPreferencesGetOrCreate(t *testing.T) {
	t.Parallel()

	s, store := newTestService(t)
	u := store.SeedUser(model.User{Username: "ada", Email: "ada@example.com"})

	p, err := s.Preferences(t.Context(), u.ID)
	if err != nil {
		t.Fatalf("Preferences() error = %v", err)
	}
	want := model.DefaultNotificationPreferences(u.ID)
	if p.BPReminderFrequency != want.BPReminderFrequency || p.BPReminderTime != want.BPReminderTime {
		t.Errorf("Preferences() = %+v, want defaults %+v", p, want)
	}

	off := false
	weekly := model.ReminderWeekly
	p, err = s.UpdatePreferences(t.Context(), u.ID, PreferencesRequest{
		InsightNotificationsEnabled: &off,
		BPReminderFrequency:         &weekly,
	})
	if err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}
	if p.InsightNotificationsEnabled {
		t.Error("UpdatePreferences() InsightNotificationsEnabled = true, want false")
	}
	if p.BPReminderFrequency != model.ReminderWeekly {
		t.Errorf("UpdatePreferences() BPReminderFrequency = %v, want %v", p.BPReminderFrequency, model.ReminderWeekly)
	}
	if !p.BPReminderEnabled {
		t.Error("UpdatePreferences() cleared an unset field")
	}
}

func TestPreferencesRequestValidate(t *testing.T) {
	t.Parallel()

	bad := model.ReminderFrequency("hourly")
	if errs := (PreferencesRequest{BPReminderFrequency: &bad}).Validate(); errs == nil {
		t.Error("Validate() = nil, want frequency error")
	}
	if errs := (PreferencesRequest{}).Validate(); errs != nil {
		t.Errorf("Validate() = %v, want nil", errs)
	}
}

func TestNotifyInsight(t *testing.T) {
	t.Parallel()

	s, store := newTestService(t)
	ctx := t.Context()

	u := store.SeedUser(model.User{Username: "ada", Email: "ada@example.com"})

	ch, unsubscribe, err := s.Subscribe(ctx, u.ID)
	if err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	defer unsubscribe()

	n, err := s.NotifyInsight(ctx, u, "Your readings are trending up.")
	if err != nil {
		t.Fatalf("NotifyInsight() error = %v", err)
	}
	if n.Subject != InsightSubject || !n.SentSuccessfully {
		t.Errorf("NotifyInsight() = %+v", n)
	}

	select {
	case got := <-ch:
		if got.ID != n.ID {
			t.Errorf("live notification id = %d, want %d", got.ID, n.ID)
		}
	case <-time.After(time.Second):
		t.Fatal("no live notification delivered")
	}

	off := false
	if _, err := s.UpdatePreferences(ctx, u.ID, PreferencesRequest{InsightNotificationsEnabled: &off}); err != nil {
		t.Fatalf("UpdatePreferences() error = %v", err)
	}
	if _, err := s.NotifyInsight(ctx, u, "again"); !errors.Is(err, ErrNotificationsDisabled) {
		t.Errorf("NotifyInsight() error = %v, want %v", err, ErrNotificationsDisabled)
	}
	if logs, _ := s.Logs(ctx, repository.AllUsers()); len(logs) != 1 {
		t.Errorf("Logs() len = %d, want 1", len(logs))
	}
}

func TestBPReminderGreeting(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		user model.User
		want string
	}{
		{name: "first name", user: model.User{FirstName: "Ada", Username: "ada"}, want: "Hello Ada,"},
		{name: "username", user: model.User{Username: "ada"}, want: "Hello ada,"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			n := BPReminder(tt.user)
			if n.NotificationType != model.NotificationBPReminder {
				t.Errorf("BPReminder() type = %v, want %v", n.NotificationType, model.NotificationBPReminder)
			}
			if got := n.Message[:len(tt.want)]; got != tt.want {
				t.Errorf("BPReminder() greeting = %q, want %q", got, tt.want)
			}
		})
	}
}
