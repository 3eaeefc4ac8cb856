package reading

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garrettladley/moyo/internal/analytics"
	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
)

var (
	ErrNotFound     = errors.New("reading not found")
	ErrUserNotFound = errors.New("user not found")
)

type Request struct {
	UserID     *int64    `json:"user_id,omitempty"`
	Systolic   int       `json:"systolic"`
	Diastolic  int       `json:"diastolic"`
	HeartRate  *int      `json:"heart_rate"`
	RecordedAt time.Time `json:"recorded_at"`
	Notes      string    `json:"notes"`
}

func (r Request) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Systolic < model.MinSystolic || r.Systolic > model.MaxSystolic {
		errs["systolic"] = fmt.Sprintf("systolic pressure must be between %d and %d", model.MinSystolic, model.MaxSystolic)
	}
	if r.Diastolic < model.MinDiastolic || r.Diastolic > model.MaxDiastolic {
		errs["diastolic"] = fmt.Sprintf("diastolic pressure must be between %d and %d", model.MinDiastolic, model.MaxDiastolic)
	}
	if r.HeartRate != nil && (*r.HeartRate < model.MinHeartRate || *r.HeartRate > model.MaxHeartRate) {
		errs["heart_rate"] = fmt.Sprintf("heart rate must be between %d and %d", model.MinHeartRate, model.MaxHeartRate)
	}
	if r.RecordedAt.IsZero() {
		errs["recorded_at"] = "this field is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r Request) params(ownerID int64) repository.ReadingParams {
	return repository.ReadingParams{
		UserID:     ownerID,
		Systolic:   r.Systolic,
		Diastolic:  r.Diastolic,
		HeartRate:  r.HeartRate,
		RecordedAt: r.RecordedAt,
		Notes:      r.Notes,
	}
}

// Alerter is told about every reading that lands in hypertension stage 2.
type Alerter interface {
	Alert(ctx context.Context, r model.Reading) (model.UserInsight, error)
}

type Service interface {
	// Create stores a reading for ownerID.
	// Returns ErrUserNotFound if the owner does not exist.
	Create(ctx context.Context, ownerID int64, req Request) (model.Reading, error)
	Get(ctx context.Context, scope repository.Scope, id int64) (model.Reading, error)

	// List returns the readings inside w, newest first.
	List(ctx context.Context, scope repository.Scope, w analytics.Window) ([]model.Reading, error)
	Update(ctx context.Context, scope repository.Scope, id int64, req Request) (model.Reading, error)
	Delete(ctx context.Context, scope repository.Scope, id int64) error
}
