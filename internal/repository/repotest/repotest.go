// Package repotest provides an in-memory repository.Repository for tests.
package repotest

import (
	"cmp"
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/garrettladley/moyo/internal/model"
	"github.com/garrettladley/moyo/internal/repository"
)

type Store struct {
	mu  sync.Mutex
	seq int64
	now func() time.Time

	users       map[int64]model.User
	readings    map[int64]model.Reading
	factors     map[int64]model.HealthFactor
	medications map[int64]model.Medication
	doseLogs    map[int64]model.MedicationLog
	insights    map[int64]model.UserInsight
	prefs       map[int64]model.NotificationPreferences
	notifyLogs  []model.NotificationLog
}

func NewStore() *Store {
	return &Store{
		now:         time.Now,
		users:       make(map[int64]model.User),
		readings:    make(map[int64]model.Reading),
		factors:     make(map[int64]model.HealthFactor),
		medications: make(map[int64]model.Medication),
		doseLogs:    make(map[int64]model.MedicationLog),
		insights:    make(map[int64]model.UserInsight),
		prefs:       make(map[int64]model.NotificationPreferences),
	}
}

// New returns a repository backed by a fresh Store.
func New() (*repository.Repository, *Store) {
	s := NewStore()
	return s.Repository(), s
}

func (s *Store) Repository() *repository.Repository {
	return &repository.Repository{
		Users:         (*users)(s),
		Readings:      (*readings)(s),
		HealthFactors: (*factors)(s),
		Medications:   (*medications)(s),
		Insights:      (*insights)(s),
		Notifications: (*notifications)(s),
	}
}

// SeedUser inserts u directly, assigning an id when it has none.
func (s *Store) SeedUser(u model.User) model.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.next()
	}
	u.Email = strings.ToLower(u.Email)
	u.IsAdmin = u.Admin()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = s.now()
	}
	s.users[u.ID] = u
	return u
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

func inScope(scope repository.Scope, userID int64) bool {
	return scope.UserID == nil || *scope.UserID == userID
}

func (s *Store) email(userID int64) string {
	return s.users[userID].Email
}

func sortedValues[T any](m map[int64]T, keep func(T) bool, less func(a, b T) int) []T {
	out := make([]T, 0, len(m))
	for _, v := range m {
		if keep(v) {
			out = append(out, v)
		}
	}
	slices.SortFunc(out, less)
	return out
}

type users Store

var _ repository.UserRepository = (*users)(nil)

func (r *users) Create(_ context.Context, p repository.CreateUserParams) (model.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	email := strings.ToLower(p.Email)
	for _, u := range s.users {
		if u.Email == email {
			return model.User{}, repository.ErrConflict
		}
	}
	u := model.User{
		ID:           s.next(),
		Email:        email,
		Username:     p.Username,
		FirstName:    p.FirstName,
		LastName:     p.LastName,
		PasswordHash: p.PasswordHash,
		IsStaff:      p.IsStaff,
		IsSuperuser:  p.IsSuperuser,
		CreatedAt:    s.now(),
	}
	u.IsAdmin = u.Admin()
	s.users[u.ID] = u
	return u, nil
}

func (r *users) Get(_ context.Context, id int64) (model.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	return u, nil
}

func (r *users) GetByEmail(_ context.Context, email string) (model.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == strings.ToLower(email) {
			return u, nil
		}
	}
	return model.User{}, repository.ErrNotFound
}

func (r *users) List(context.Context) ([]model.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.users,
		func(model.User) bool { return true },
		func(a, b model.User) int { return cmp.Compare(a.ID, b.ID) },
	), nil
}

func (r *users) UpdateProfile(_ context.Context, id int64, p repository.UpdateProfileParams) (model.User, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return model.User{}, repository.ErrNotFound
	}
	u.Username, u.FirstName, u.LastName = p.Username, p.FirstName, p.LastName
	s.users[id] = u
	return u, nil
}

func (r *users) Delete(_ context.Context, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.users, id)
	for k, v := range s.readings {
		if v.UserID == id {
			delete(s.readings, k)
		}
	}
	for k, v := range s.factors {
		if v.UserID == id {
			delete(s.factors, k)
		}
	}
	for k, v := range s.medications {
		if v.UserID == id {
			delete(s.medications, k)
		}
	}
	for k, v := range s.insights {
		if v.UserID == id {
			delete(s.insights, k)
		}
	}
	delete(s.prefs, id)
	return nil
}

type readings Store

var _ repository.ReadingRepository = (*readings)(nil)

func (r *readings) Create(_ context.Context, p repository.ReadingParams) (model.Reading, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		return model.Reading{}, repository.ErrReference
	}
	now := s.now()
	reading := model.Reading{
		ID:         s.next(),
		UserID:     p.UserID,
		UserEmail:  s.email(p.UserID),
		Systolic:   p.Systolic,
		Diastolic:  p.Diastolic,
		HeartRate:  p.HeartRate,
		RecordedAt: p.RecordedAt,
		Notes:      p.Notes,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	s.readings[reading.ID] = reading
	return reading, nil
}

func (r *readings) Get(_ context.Context, scope repository.Scope, id int64) (model.Reading, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	reading, ok := s.readings[id]
	if !ok || !inScope(scope, reading.UserID) {
		return model.Reading{}, repository.ErrNotFound
	}
	return reading, nil
}

func (r *readings) List(_ context.Context, scope repository.Scope, tr repository.TimeRange) ([]model.Reading, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.readings,
		func(v model.Reading) bool {
			if !inScope(scope, v.UserID) {
				return false
			}
			if tr.Start != nil && v.RecordedAt.Before(*tr.Start) {
				return false
			}
			return tr.End == nil || !v.RecordedAt.After(*tr.End)
		},
		func(a, b model.Reading) int {
			return cmp.Or(b.RecordedAt.Compare(a.RecordedAt), cmp.Compare(b.ID, a.ID))
		},
	), nil
}

func (r *readings) Update(_ context.Context, scope repository.Scope, id int64, p repository.ReadingParams) (model.Reading, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	reading, ok := s.readings[id]
	if !ok || !inScope(scope, reading.UserID) {
		return model.Reading{}, repository.ErrNotFound
	}
	if _, ok := s.users[p.UserID]; !ok {
		return model.Reading{}, repository.ErrReference
	}
	reading.UserID = p.UserID
	reading.UserEmail = s.email(p.UserID)
	reading.Systolic, reading.Diastolic, reading.HeartRate = p.Systolic, p.Diastolic, p.HeartRate
	reading.RecordedAt, reading.Notes = p.RecordedAt, p.Notes
	reading.UpdatedAt = s.now()
	s.readings[id] = reading
	return reading, nil
}

func (r *readings) Delete(_ context.Context, scope repository.Scope, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	reading, ok := s.readings[id]
	if !ok || !inScope(scope, reading.UserID) {
		return repository.ErrNotFound
	}
	delete(s.readings, id)
	return nil
}

type factors Store

var _ repository.HealthFactorRepository = (*factors)(nil)

func (r *factors) conflicts(userID int64, date model.Date, except int64) bool {
	for _, f := range r.factors {
		if f.ID != except && f.UserID == userID && f.Date == date {
			return true
		}
	}
	return false
}

func (r *factors) Create(_ context.Context, p repository.HealthFactorParams) (model.HealthFactor, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		return model.HealthFactor{}, repository.ErrReference
	}
	if r.conflicts(p.UserID, p.Date, 0) {
		return model.HealthFactor{}, repository.ErrConflict
	}
	now := s.now()
	f := model.HealthFactor{
		ID:               s.next(),
		UserID:           p.UserID,
		UserEmail:        s.email(p.UserID),
		Date:             p.Date,
		SleepQuality:     p.SleepQuality,
		StressLevel:      p.StressLevel,
		ExerciseDuration: p.ExerciseDuration,
		Notes:            p.Notes,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	s.factors[f.ID] = f
	return f, nil
}

func (r *factors) Get(_ context.Context, scope repository.Scope, id int64) (model.HealthFactor, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.factors[id]
	if !ok || !inScope(scope, f.UserID) {
		return model.HealthFactor{}, repository.ErrNotFound
	}
	return f, nil
}

func (r *factors) List(_ context.Context, scope repository.Scope, from, to *model.Date) ([]model.HealthFactor, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.factors,
		func(f model.HealthFactor) bool {
			if !inScope(scope, f.UserID) {
				return false
			}
			if from != nil && f.Date.Before(*from) {
				return false
			}
			return to == nil || !to.Before(f.Date)
		},
		func(a, b model.HealthFactor) int {
			switch {
			case a.Date.Before(b.Date):
				return 1
			case b.Date.Before(a.Date):
				return -1
			default:
				return cmp.Compare(b.ID, a.ID)
			}
		},
	), nil
}

func (r *factors) Update(_ context.Context, scope repository.Scope, id int64, p repository.HealthFactorParams) (model.HealthFactor, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.factors[id]
	if !ok || !inScope(scope, f.UserID) {
		return model.HealthFactor{}, repository.ErrNotFound
	}
	if _, ok := s.users[p.UserID]; !ok {
		return model.HealthFactor{}, repository.ErrReference
	}
	if r.conflicts(p.UserID, p.Date, id) {
		return model.HealthFactor{}, repository.ErrConflict
	}
	f.UserID, f.UserEmail, f.Date = p.UserID, s.email(p.UserID), p.Date
	f.SleepQuality, f.StressLevel, f.ExerciseDuration = p.SleepQuality, p.StressLevel, p.ExerciseDuration
	f.Notes = p.Notes
	f.UpdatedAt = s.now()
	s.factors[id] = f
	return f, nil
}

func (r *factors) Delete(_ context.Context, scope repository.Scope, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.factors[id]
	if !ok || !inScope(scope, f.UserID) {
		return repository.ErrNotFound
	}
	delete(s.factors, id)
	return nil
}

type medications Store

var _ repository.MedicationRepository = (*medications)(nil)

func (r *medications) Create(_ context.Context, p repository.MedicationParams) (model.Medication, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		return model.Medication{}, repository.ErrReference
	}
	now := s.now()
	m := model.Medication{
		ID:        s.next(),
		UserID:    p.UserID,
		UserEmail: s.email(p.UserID),
		Name:      p.Name,
		Dosage:    p.Dosage,
		Frequency: p.Frequency,
		StartDate: p.StartDate,
		EndDate:   p.EndDate,
		IsActive:  p.IsActive,
		Notes:     p.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	s.medications[m.ID] = m
	return m, nil
}

func (r *medications) Get(_ context.Context, scope repository.Scope, id int64) (model.Medication, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[id]
	if !ok || !inScope(scope, m.UserID) {
		return model.Medication{}, repository.ErrNotFound
	}
	return m, nil
}

func (r *medications) List(_ context.Context, scope repository.Scope, activeOnly bool) ([]model.Medication, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.medications,
		func(m model.Medication) bool { return inScope(scope, m.UserID) && (!activeOnly || m.IsActive) },
		func(a, b model.Medication) int { return cmp.Compare(b.ID, a.ID) },
	), nil
}

func (r *medications) Update(_ context.Context, scope repository.Scope, id int64, p repository.MedicationParams) (model.Medication, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[id]
	if !ok || !inScope(scope, m.UserID) {
		return model.Medication{}, repository.ErrNotFound
	}
	m.Name, m.Dosage, m.Frequency = p.Name, p.Dosage, p.Frequency
	m.StartDate, m.EndDate, m.IsActive, m.Notes = p.StartDate, p.EndDate, p.IsActive, p.Notes
	m.UpdatedAt = s.now()
	s.medications[id] = m
	return m, nil
}

func (r *medications) Delete(_ context.Context, scope repository.Scope, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[id]
	if !ok || !inScope(scope, m.UserID) {
		return repository.ErrNotFound
	}
	delete(s.medications, id)
	for k, l := range s.doseLogs {
		if l.MedicationID == id {
			delete(s.doseLogs, k)
		}
	}
	return nil
}

func (r *medications) CreateLog(_ context.Context, p repository.MedicationLogParams) (model.MedicationLog, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[p.MedicationID]
	if !ok {
		return model.MedicationLog{}, repository.ErrReference
	}
	l := model.MedicationLog{
		ID:             s.next(),
		MedicationID:   m.ID,
		MedicationName: m.Name,
		TakenAt:        p.TakenAt,
		Notes:          p.Notes,
		CreatedAt:      s.now(),
	}
	s.doseLogs[l.ID] = l
	return l, nil
}

func (r *medications) ListLogs(_ context.Context, scope repository.Scope, medicationID *int64) ([]model.MedicationLog, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.doseLogs,
		func(l model.MedicationLog) bool {
			m, ok := s.medications[l.MedicationID]
			if !ok || !inScope(scope, m.UserID) {
				return false
			}
			return medicationID == nil || *medicationID == l.MedicationID
		},
		func(a, b model.MedicationLog) int {
			return cmp.Or(b.TakenAt.Compare(a.TakenAt), cmp.Compare(b.ID, a.ID))
		},
	), nil
}

func (r *medications) DeleteLog(_ context.Context, scope repository.Scope, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.doseLogs[id]
	if !ok || !inScope(scope, s.medications[l.MedicationID].UserID) {
		return repository.ErrNotFound
	}
	delete(s.doseLogs, id)
	return nil
}

func (r *medications) CountLogsSince(_ context.Context, medicationID int64, since time.Time) (int, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int
	for _, l := range s.doseLogs {
		if l.MedicationID == medicationID && !l.TakenAt.Before(since) {
			n++
		}
	}
	return n, nil
}

type insights Store

var _ repository.InsightRepository = (*insights)(nil)

func (r *insights) Create(_ context.Context, p repository.InsightParams) (model.UserInsight, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		return model.UserInsight{}, repository.ErrReference
	}
	i := model.UserInsight{
		ID:          s.next(),
		UserID:      p.UserID,
		UserEmail:   s.email(p.UserID),
		InsightText: p.InsightText,
		InsightType: p.InsightType,
		Severity:    p.Severity,
		IsRead:      p.IsRead,
		GeneratedAt: s.now(),
	}
	s.insights[i.ID] = i
	return i, nil
}

func (r *insights) Get(_ context.Context, scope repository.Scope, id int64) (model.UserInsight, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.insights[id]
	if !ok || !inScope(scope, i.UserID) {
		return model.UserInsight{}, repository.ErrNotFound
	}
	return i, nil
}

func (r *insights) List(_ context.Context, scope repository.Scope) ([]model.UserInsight, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedValues(s.insights,
		func(i model.UserInsight) bool { return inScope(scope, i.UserID) },
		func(a, b model.UserInsight) int {
			return cmp.Or(b.GeneratedAt.Compare(a.GeneratedAt), cmp.Compare(b.ID, a.ID))
		},
	), nil
}

func (r *insights) Update(_ context.Context, scope repository.Scope, id int64, p repository.InsightParams) (model.UserInsight, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.insights[id]
	if !ok || !inScope(scope, i.UserID) {
		return model.UserInsight{}, repository.ErrNotFound
	}
	if _, ok := s.users[p.UserID]; !ok {
		return model.UserInsight{}, repository.ErrReference
	}
	i.UserID, i.UserEmail = p.UserID, s.email(p.UserID)
	i.InsightText, i.InsightType, i.Severity, i.IsRead = p.InsightText, p.InsightType, p.Severity, p.IsRead
	s.insights[id] = i
	return i, nil
}

func (r *insights) MarkRead(_ context.Context, scope repository.Scope, id int64) (model.UserInsight, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.insights[id]
	if !ok || !inScope(scope, i.UserID) {
		return model.UserInsight{}, repository.ErrNotFound
	}
	i.IsRead = true
	s.insights[id] = i
	return i, nil
}

func (r *insights) Delete(_ context.Context, scope repository.Scope, id int64) error {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.insights[id]
	if !ok || !inScope(scope, i.UserID) {
		return repository.ErrNotFound
	}
	delete(s.insights, id)
	return nil
}

type notifications Store

var _ repository.NotificationRepository = (*notifications)(nil)

func (r *notifications) GetPreferences(_ context.Context, userID int64) (model.NotificationPreferences, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prefs[userID]
	if !ok {
		return model.NotificationPreferences{}, repository.ErrNotFound
	}
	return p, nil
}

func (r *notifications) UpsertPreferences(_ context.Context, p model.NotificationPreferences) (model.NotificationPreferences, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[p.UserID]; !ok {
		return model.NotificationPreferences{}, repository.ErrReference
	}
	now := s.now()
	if existing, ok := s.prefs[p.UserID]; ok {
		p.ID, p.CreatedAt = existing.ID, existing.CreatedAt
	} else {
		p.ID, p.CreatedAt = s.next(), now
	}
	p.UpdatedAt = now
	s.prefs[p.UserID] = p
	return p, nil
}

func (r *notifications) ListReminderCandidates(context.Context) ([]repository.ReminderCandidate, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	candidates := make([]repository.ReminderCandidate, 0)
	for _, p := range s.prefs {
		if !p.BPReminderEnabled {
			continue
		}
		c := repository.ReminderCandidate{Preferences: p, User: s.users[p.UserID]}
		for _, n := range s.notifyLogs {
			if n.UserID != p.UserID || n.NotificationType != model.NotificationBPReminder || !n.SentSuccessfully {
				continue
			}
			if c.LastSentAt == nil || n.SentAt.After(*c.LastSentAt) {
				sentAt := n.SentAt
				c.LastSentAt = &sentAt
			}
		}
		candidates = append(candidates, c)
	}
	slices.SortFunc(candidates, func(a, b repository.ReminderCandidate) int {
		return cmp.Compare(a.Preferences.UserID, b.Preferences.UserID)
	})
	return candidates, nil
}

func (r *notifications) CreateNotificationLog(_ context.Context, n model.NotificationLog) (model.NotificationLog, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[n.UserID]; !ok {
		return model.NotificationLog{}, repository.ErrReference
	}
	n.ID = s.next()
	n.UserEmail = s.email(n.UserID)
	if n.SentAt.IsZero() {
		n.SentAt = s.now()
	}
	s.notifyLogs = append(s.notifyLogs, n)
	return n, nil
}

func (r *notifications) ListLogs(_ context.Context, scope repository.Scope) ([]model.NotificationLog, error) {
	s := (*Store)(r)
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.NotificationLog, 0, len(s.notifyLogs))
	for _, n := range s.notifyLogs {
		if inScope(scope, n.UserID) {
			out = append(out, n)
		}
	}
	slices.SortFunc(out, func(a, b model.NotificationLog) int {
		return cmp.Or(b.SentAt.Compare(a.SentAt), cmp.Compare(b.ID, a.ID))
	})
	return out, nil
}
