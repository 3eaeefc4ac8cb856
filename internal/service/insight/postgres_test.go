package insight

import (
	"errors"
	"testing"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/repository/repotest"
	"github.com/garrettladley/moyo/internal/service/notification"
	"github.com/garrettladley/moyo/internal/storage"
)

func newTestService(t *testing.T) (*Postgres, *repository.Repository, *repotest.Store) {
	t.Helper()

	repo, store := repotest.New()
	notifications := notification.NewHybrid(repo.Notifications, storage.NewMemoryBroker())
	return NewPostgres(repo.Insights, repo.Users, notifications), repo, store
}

func TestCreateScopesAndMarkRead(t *testing.T) {
	t.Parallel()

	s, _, store := newTestService(t)
	ctx := t.Context()
	ada := store.SeedUser(model.User{Email: "ada@example.com", Username: "ada"})
	bo := store.SeedUser(model.User{Email: "bo@example.com", Username: "bo"})

	i, err := s.Create(ctx, ada.ID, Request{InsightText: "Trending up", InsightType: model.InsightTypeTrend})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if i.Severity != model.SeverityLow {
		t.Errorf("Create() severity = %v, want %v", i.Severity, model.SeverityLow)
	}

	if _, err := s.Get(ctx, repository.UserScope(bo.ID), i.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() other user error = %v, want %v", err, ErrNotFound)
	}

	read, err := s.MarkRead(ctx, repository.UserScope(ada.ID), i.ID)
	if err != nil {
		t.Fatalf("MarkRead() error = %v", err)
	}
	if !read.IsRead {
		t.Error("MarkRead() IsRead = false, want true")
	}

	if _, err := s.Create(ctx, 999, Request{InsightText: "x", InsightType: model.InsightTypeAlert}); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Create() unknown owner error = %v, want %v", err, ErrUserNotFound)
	}
}

func TestUpdateKeepsOwnerForUsers(t *testing.T) {
	t.Parallel()

	s, _, store := newTestService(t)
	ctx := t.Context()
	ada := store.SeedUser(model.User{Email: "ada@example.com", Username: "ada"})
	bo := store.SeedUser(model.User{Email: "bo@example.com", Username: "bo"})

	i, err := s.Create(ctx, ada.ID, Request{InsightText: "a", InsightType: model.InsightTypeTrend})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	updated, err := s.Update(ctx, repository.UserScope(ada.ID), i.ID, Request{
		UserID:      &bo.ID,
		InsightText: "b",
		InsightType: model.InsightTypeAnomaly,
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.UserID != ada.ID {
		t.Errorf("Update() owner = %d, want %d", updated.UserID, ada.ID)
	}

	moved, err := s.Update(ctx, repository.AllUsers(), i.ID, Request{
		UserID:      &bo.ID,
		InsightText: "c",
		InsightType: model.InsightTypeAnomaly,
	})
	if err != nil {
		t.Fatalf("Update() admin error = %v", err)
	}
	if moved.UserID != bo.ID {
		t.Errorf("Update() admin owner = %d, want %d", moved.UserID, bo.ID)
	}
}

func TestAlertNotifies(t *testing.T) {
	t.Parallel()

	s, repo, store := newTestService(t)
	ctx := t.Context()
	ada := store.SeedUser(model.User{Email: "ada@example.com", Username: "ada"})

	i, err := s.Alert(ctx, model.Reading{UserID: ada.ID, Systolic: 150, Diastolic: 95})
	if err != nil {
		t.Fatalf("Alert() error = %v", err)
	}
	if i.InsightType != model.InsightTypeAlert || i.Severity != model.SeverityHigh {
		t.Errorf("Alert() = %+v, want high alert", i)
	}

	logs, err := repo.Notifications.ListLogs(ctx, repository.UserScope(ada.ID))
	if err != nil {
		t.Fatalf("ListLogs() error = %v", err)
	}
	if len(logs) != 1 || logs[0].NotificationType != model.NotificationInsight {
		t.Errorf("ListLogs() = %+v, want one insight notification", logs)
	}
}

func TestRequestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		req     Request
		wantErr bool
	}{
		{name: "valid", req: Request{InsightText: "x", InsightType: model.InsightTypeTrend}},
		{name: "missing text", req: Request{InsightType: model.InsightTypeTrend}, wantErr: true},
		{name: "bad type", req: Request{InsightText: "x", InsightType: "guess"}, wantErr: true},
		{name: "bad severity", req: Request{InsightText: "x", InsightType: model.InsightTypeAlert, Severity: "extreme"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.req.Validate(); (got != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", got, tt.wantErr)
			}
		})
	}
}
