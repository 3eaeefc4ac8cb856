package medication

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
)

var (
	ErrNotFound     = errors.New("medication not found")
	ErrLogNotFound  = errors.New("medication log not found")
	ErrUserNotFound = errors.New("user not found")
	// ErrForbidden is returned when logging a dose of someone else's medication.
	ErrForbidden = errors.New("you don't have permission to log this medication")
)

// RecentWindow is the span counted by Medication.RecentLogsCount.
const RecentWindow = 7 * 24 * time.Hour

type Request struct {
	UserID    *int64          `json:"user,omitempty"`
	Name      string          `json:"name"`
	Dosage    string          `json:"dosage"`
	Frequency model.Frequency `json:"frequency"`
	StartDate model.Date      `json:"start_date"`
	EndDate   *model.Date     `json:"end_date"`
	IsActive  *bool           `json:"is_active"`
	Notes     string          `json:"notes"`
}

func (r Request) Validate() map[string]string {
	errs := make(map[string]string)
	if strings.TrimSpace(r.Name) == "" {
		errs["name"] = "this field is required"
	}
	if strings.TrimSpace(r.Dosage) == "" {
		errs["dosage"] = "this field is required"
	}
	if !r.Frequency.Valid() {
		errs["frequency"] = "not a valid choice"
	}
	if r.StartDate.IsZero() {
		errs["start_date"] = "this field is required"
	}
	if r.EndDate != nil && !r.EndDate.IsZero() && r.EndDate.Before(r.StartDate) {
		errs["end_date"] = "end date cannot be before start date"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (r Request) params(ownerID int64) repository.MedicationParams {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	end := r.EndDate
	if end != nil && end.IsZero() {
		end = nil
	}
	return repository.MedicationParams{
		UserID:    ownerID,
		Name:      r.Name,
		Dosage:    r.Dosage,
		Frequency: r.Frequency,
		StartDate: r.StartDate,
		EndDate:   end,
		IsActive:  active,
		Notes:     r.Notes,
	}
}

type DoseRequest struct {
	MedicationID int64     `json:"medication"`
	TakenAt      time.Time `json:"taken_at"`
	Notes        string    `json:"notes"`
}

func (r DoseRequest) Validate() map[string]string {
	if r.MedicationID == 0 {
		return map[string]string{"medication": "this field is required"}
	}
	return nil
}

type Service interface {
	// Create stores a medication for ownerID.
	// Returns ErrUserNotFound if the owner does not exist.
	Create(ctx context.Context, ownerID int64, req Request) (model.Medication, error)

	// Get returns the medication with its dose logs and the count of doses
	// taken in the last RecentWindow.
	Get(ctx context.Context, scope repository.Scope, id int64) (model.Medication, error)
	List(ctx context.Context, scope repository.Scope, activeOnly bool) ([]model.Medication, error)
	Update(ctx context.Context, scope repository.Scope, id int64, req Request) (model.Medication, error)
	Delete(ctx context.Context, scope repository.Scope, id int64) error

	// LogDose records a dose of a medication visible in scope.
	// Returns ErrNotFound if the medication is not visible.
	LogDose(ctx context.Context, scope repository.Scope, req DoseRequest) (model.MedicationLog, error)

	// CreateLog records a dose by medication id.
	// Returns ErrForbidden if the medication belongs to somebody outside scope.
	CreateLog(ctx context.Context, scope repository.Scope, req DoseRequest) (model.MedicationLog, error)
	ListLogs(ctx context.Context, scope repository.Scope, medicationID *int64) ([]model.MedicationLog, error)
	DeleteLog(ctx context.Context, scope repository.Scope, id int64) error
}
