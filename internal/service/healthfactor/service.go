package healthfactor

import (
	"context"
	"errors"
	"fmt"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
)

var (
	ErrNotFound     = errors.New("health factor not found")
	ErrUserNotFound = errors.New("user not found")
	// ErrDateTaken is returned when the owner already logged a factor for the date.
	ErrDateTaken = errors.New("a health factor already exists for this date")
)

type Request struct {
	UserID           *int64     `json:"user_id,omitempty"`
	Date             model.Date `json:"date"`
	SleepQuality     *int       `json:"sleep_quality"`
	StressLevel      *int       `json:"stress_level"`
	ExerciseDuration *int       `json:"exercise_duration"`
	Notes            string     `json:"notes"`
}

func validRating(v *int) bool {
	return v == nil || (*v >= model.MinRating && *v <= model.MaxRating)
}

func (r Request) Validate() map[string]string {
	errs := make(map[string]string)
	if r.Date.IsZero() {
		errs["date"] = "this field is required"
	}
	if !validRating(r.SleepQuality) {
		errs["sleep_quality"] = fmt.Sprintf("sleep quality must be between %d and %d", model.MinRating, model.MaxRating)
	}
	if !validRating(r.StressLevel) {
		errs["stress_level"] = fmt.Sprintf("stress level must be between %d and %d", model.MinRating, model.MaxRating)
	}
	if r.ExerciseDuration != nil && *r.ExerciseDuration < 0 {
		errs["exercise_duration"] = "exercise duration cannot be negative"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r Request) params(ownerID int64) repository.HealthFactorParams {
	return repository.HealthFactorParams{
		UserID:           ownerID,
		Date:             r.Date,
		SleepQuality:     r.SleepQuality,
		StressLevel:      r.StressLevel,
		ExerciseDuration: r.ExerciseDuration,
		Notes:            r.Notes,
	}
}

type Service interface {
	// Create stores a factor for ownerID.
	// Returns ErrDateTaken for a second factor on the same date.
	Create(ctx context.Context, ownerID int64, req Request) (model.HealthFactor, error)
	Get(ctx context.Context, scope repository.Scope, id int64) (model.HealthFactor, error)

	// List returns factors between the inclusive dates, newest first. Nil
	// bounds are open.
	List(ctx context.Context, scope repository.Scope, from, to *model.Date) ([]model.HealthFactor, error)
	Update(ctx context.Context, scope repository.Scope, id int64, req Request) (model.HealthFactor, error)
	Delete(ctx context.Context, scope repository.Scope, id int64) error
}
