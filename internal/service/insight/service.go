package insight

import (
	"context"
	"errors"
	"strings"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/validator"
)

var (
	ErrNotFound     = errors.New("insight not found")
	ErrUserNotFound = errors.New("user not found")
)

type Request struct {
	UserID      *int64            `json:"user_id,omitempty"`
	InsightText string            `json:"insight_text" validate:"required"`
	InsightType model.InsightType `json:"insight_type" validate:"oneof=trend anomaly correlation alert"`
	Severity    model.Severity    `json:"severity" validate:"omitempty,oneof=low medium high"`
	IsRead      bool              `json:"is_read"`
}

func (r Request) Validate() map[string]string {
	var extra map[string]string
	if strings.TrimSpace(r.InsightText) == "" {
		extra = map[string]string{"insight_text": "this field is required"}
	}
	return validator.Merge(validator.Fields(r), extra)
}

func (r Request) params(ownerID int64) repository.InsightParams {
	severity := r.Severity
	if severity == "" {
		severity = model.SeverityLow
	}
	return repository.InsightParams{
		UserID:      ownerID,
		InsightText: r.InsightText,
		InsightType: r.InsightType,
		Severity:    severity,
		IsRead:      r.IsRead,
	}
}

type Service interface {
	// Create stores an insight for ownerID.
	// Returns ErrUserNotFound if the owner does not exist.
	Create(ctx context.Context, ownerID int64, req Request) (model.UserInsight, error)
	Get(ctx context.Context, scope repository.Scope, id int64) (model.UserInsight, error)
	List(ctx context.Context, scope repository.Scope) ([]model.UserInsight, error)
	Update(ctx context.Context, scope repository.Scope, id int64, req Request) (model.UserInsight, error)
	MarkRead(ctx context.Context, scope repository.Scope, id int64) (model.UserInsight, error)
	Delete(ctx context.Context, scope repository.Scope, id int64) error

	// Alert records a high severity alert for a reading in hypertension
	// stage 2 and notifies the owner if they opted in.
	Alert(ctx context.Context, r model.Reading) (model.UserInsight, error)
}
