package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/garrettladley/moyo/internal/model"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrConflict is returned when a unique constraint rejects a write.
	ErrConflict = errors.New("record already exists")
	// ErrReference is returned when a write points at a missing row.
	ErrReference = errors.New("referenced record does not exist")
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Repository struct {
	Users         UserRepository
	Readings      ReadingRepository
	HealthFactors HealthFactorRepository
	Medications   MedicationRepository
	Insights      InsightRepository
	Notifications NotificationRepository
}

func New(db DBTX) *Repository {
	return &Repository{
		Users:         &userRepo{db: db},
		Readings:      &readingRepo{db: db},
		HealthFactors: &healthFactorRepo{db: db},
		Medications:   &medicationRepo{db: db},
		Insights:      &insightRepo{db: db},
		Notifications: &notificationRepo{db: db},
	}
}

// Scope restricts a query to one user. A nil UserID spans every user and is
// only used by the admin surface.
type Scope struct {
	UserID *int64
}

func UserScope(userID int64) Scope { return Scope{UserID: &userID} }

func AllUsers() Scope { return Scope{} }

// TimeRange bounds a query by an inclusive instant range. Nil is unbounded.
type TimeRange struct {
	Start *time.Time
	End   *time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u CreateUserParams) (model.User, error)
	Get(ctx context.Context, id int64) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	List(ctx context.Context) ([]model.User, error)
	UpdateProfile(ctx context.Context, id int64, p UpdateProfileParams) (model.User, error)
	Delete(ctx context.Context, id int64) error
}

type ReadingRepository interface {
	Create(ctx context.Context, p ReadingParams) (model.Reading, error)
	Get(ctx context.Context, scope Scope, id int64) (model.Reading, error)
	// List returns readings newest first.
	List(ctx context.Context, scope Scope, r TimeRange) ([]model.Reading, error)
	Update(ctx context.Context, scope Scope, id int64, p ReadingParams) (model.Reading, error)
	Delete(ctx context.Context, scope Scope, id int64) error
}

type HealthFactorRepository interface {
	Create(ctx context.Context, p HealthFactorParams) (model.HealthFactor, error)
	Get(ctx context.Context, scope Scope, id int64) (model.HealthFactor, error)
	// List returns factors newest date first.
	List(ctx context.Context, scope Scope, from, to *model.Date) ([]model.HealthFactor, error)
	Update(ctx context.Context, scope Scope, id int64, p HealthFactorParams) (model.HealthFactor, error)
	Delete(ctx context.Context, scope Scope, id int64) error
}

type MedicationRepository interface {
	Create(ctx context.Context, p MedicationParams) (model.Medication, error)
	Get(ctx context.Context, scope Scope, id int64) (model.Medication, error)
	List(ctx context.Context, scope Scope, activeOnly bool) ([]model.Medication, error)
	Update(ctx context.Context, scope Scope, id int64, p MedicationParams) (model.Medication, error)
	Delete(ctx context.Context, scope Scope, id int64) error

	CreateLog(ctx context.Context, p MedicationLogParams) (model.MedicationLog, error)
	// ListLogs returns logs newest first. A nil medicationID spans every
	// medication in scope.
	ListLogs(ctx context.Context, scope Scope, medicationID *int64) ([]model.MedicationLog, error)
	DeleteLog(ctx context.Context, scope Scope, id int64) error
	CountLogsSince(ctx context.Context, medicationID int64, since time.Time) (int, error)
}

type InsightRepository interface {
	Create(ctx context.Context, p InsightParams) (model.UserInsight, error)
	Get(ctx context.Context, scope Scope, id int64) (model.UserInsight, error)
	List(ctx context.Context, scope Scope) ([]model.UserInsight, error)
	Update(ctx context.Context, scope Scope, id int64, p InsightParams) (model.UserInsight, error)
	MarkRead(ctx context.Context, scope Scope, id int64) (model.UserInsight, error)
	Delete(ctx context.Context, scope Scope, id int64) error
}

type NotificationRepository interface {
	// GetPreferences returns ErrNotFound when the user has none yet.
	GetPreferences(ctx context.Context, userID int64) (model.NotificationPreferences, error)
	UpsertPreferences(ctx context.Context, p model.NotificationPreferences) (model.NotificationPreferences, error)
	// ListReminderCandidates returns the preferences of every user with BP
	// reminders enabled, joined with the time of their last sent reminder.
	ListReminderCandidates(ctx context.Context) ([]ReminderCandidate, error)

	CreateNotificationLog(ctx context.Context, n model.NotificationLog) (model.NotificationLog, error)
	ListLogs(ctx context.Context, scope Scope) ([]model.NotificationLog, error)
}

type ReminderCandidate struct {
	Preferences model.NotificationPreferences
	// User carries the identity fields a reminder greets with.
	User model.User
	// LastSentAt is the latest successful bp_reminder, nil if none.
	LastSentAt *time.Time
}

// mapError translates driver errors into repository sentinels.
func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			return ErrConflict
		case "23503":
			return ErrReference
		}
	}
	return err
}
