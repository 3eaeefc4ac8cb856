package medication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
	"github.com/garrettladley/moyo/internal/xslog"
)

type Postgres struct {
	medications repository.MedicationRepository
	now         func() time.Time
}

var _ Service = (*Postgres)(nil)

func NewPostgres(medications repository.MedicationRepository) *Postgres {
	return &Postgres{medications: medications, now: time.Now}
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

func (s *Postgres) Create(ctx context.Context, ownerID int64, req Request) (model.Medication, error) {
	m, err := s.medications.Create(ctx, req.params(ownerID))
	if err != nil {
		return model.Medication{}, mapError(err)
	}
	xslog.FromContext(ctx).InfoContext(ctx, "medication added", xslog.MedicationID(m.ID), xslog.UserID(ownerID))
	return m, nil
}

func (s *Postgres) Get(ctx context.Context, scope repository.Scope, id int64) (model.Medication, error) {
	m, err := s.medications.Get(ctx, scope, id)
	if err != nil {
		return model.Medication{}, mapError(err)
	}

	m.Logs, err = s.medications.ListLogs(ctx, scope, &m.ID)
	if err != nil {
		return model.Medication{}, fmt.Errorf("listing medication logs: %w", err)
	}

	recent, err := s.medications.CountLogsSince(ctx, m.ID, s.now().Add(-RecentWindow))
	if err != nil {
		return model.Medication{}, err
	}
	m.RecentLogsCount = &recent

	return m, nil
}

func (s *Postgres) List(ctx context.Context, scope repository.Scope, activeOnly bool) ([]model.Medication, error) {
	meds, err := s.medications.List(ctx, scope, activeOnly)
	if err != nil {
		return nil, fmt.Errorf("listing medications: %w", err)
	}
	return meds, nil
}

func (s *Postgres) Update(ctx context.Context, scope repository.Scope, id int64, req Request) (model.Medication, error) {
	m, err := s.medications.Update(ctx, scope, id, req.params(0))
	if err != nil {
		return model.Medication{}, mapError(err)
	}
	return m, nil
}

func (s *Postgres) Delete(ctx context.Context, scope repository.Scope, id int64) error {
	return mapError(s.medications.Delete(ctx, scope, id))
}

func (s *Postgres) LogDose(ctx context.Context, scope repository.Scope, req DoseRequest) (model.MedicationLog, error) {
	if _, err := s.medications.Get(ctx, scope, req.MedicationID); err != nil {
		return model.MedicationLog{}, mapError(err)
	}
	return s.createLog(ctx, req)
}

func (s *Postgres) CreateLog(ctx context.Context, scope repository.Scope, req DoseRequest) (model.MedicationLog, error) {
	m, err := s.medications.Get(ctx, repository.AllUsers(), req.MedicationID)
	if err != nil {
		return model.MedicationLog{}, mapError(err)
	}
	if scope.UserID != nil && *scope.UserID != m.UserID {
		return model.MedicationLog{}, ErrForbidden
	}
	return s.createLog(ctx, req)
}

func (s *Postgres) createLog(ctx context.Context, req DoseRequest) (model.MedicationLog, error) {
	takenAt := req.TakenAt
	if takenAt.IsZero() {
		takenAt = s.now()
	}

	l, err := s.medications.CreateLog(ctx, repository.MedicationLogParams{
		MedicationID: req.MedicationID,
		TakenAt:      takenAt,
		Notes:        req.Notes,
	})
	if err != nil {
		return model.MedicationLog{}, mapError(err)
	}
	xslog.FromContext(ctx).InfoContext(ctx, "dose logged", xslog.MedicationID(req.MedicationID))
	return l, nil
}

func (s *Postgres) ListLogs(ctx context.Context, scope repository.Scope, medicationID *int64) ([]model.MedicationLog, error) {
	logs, err := s.medications.ListLogs(ctx, scope, medicationID)
	if err != nil {
		return nil, fmt.Errorf("listing medication logs: %w", err)
	}
	return logs, nil
}

func (s *Postgres) DeleteLog(ctx context.Context, scope repository.Scope, id int64) error {
	err := s.medications.DeleteLog(ctx, scope, id)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrLogNotFound
	}
	return err
}
