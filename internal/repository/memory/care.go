package memory

import (
	"context"
	"errors"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"
	"alcyxob/plants-manager/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type careScheduleRepository struct{ *db }

func (r *careScheduleRepository) Create(_ context.Context, s *domain.CareSchedule) (primitive.ObjectID, error) {
	if s.PlantID == primitive.NilObjectID || !s.Kind.Valid() {
		return primitive.NilObjectID, errors.New("schedule requires plantId and a valid kind")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	s.ID = primitive.NewObjectID()
	s.CreatedAt = r.now()
	s.UpdatedAt = s.CreatedAt
	r.schedules.put(s.ID, *s)
	return s.ID, nil
}

func (r *careScheduleRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CareSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schedules.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &s, nil
}

func (r *careScheduleRepository) ListByPlant(_ context.Context, plantID primitive.ObjectID, kind domain.CareKind, activeOnly bool) ([]domain.CareSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.schedules.filter(func(s domain.CareSchedule) bool {
		return s.PlantID == plantID && s.Kind == kind && (!activeOnly || s.IsActive)
	})
	sortStable(out, func(a, b domain.CareSchedule) bool { return a.StartDate.Before(b.StartDate) })
	return out, nil
}

func (r *careScheduleRepository) ListActive(_ context.Context, kind domain.CareKind, today time.Time) ([]domain.CareSchedule, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.schedules.filter(func(s domain.CareSchedule) bool {
		return s.Kind == kind && schedule.InEffect(s, today)
	}), nil
}

func (r *careScheduleRepository) Update(_ context.Context, s *domain.CareSchedule) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.schedules.get(s.ID); !ok {
		return repository.ErrNotFound
	}
	s.UpdatedAt = r.now()
	r.schedules.put(s.ID, *s)
	return nil
}

func (r *careScheduleRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.schedules.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *careScheduleRepository) DeleteByPlant(_ context.Context, plantID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.schedules.removeWhere(func(s domain.CareSchedule) bool { return s.PlantID == plantID })
	return nil
}

type careLogRepository struct{ *db }

func (r *careLogRepository) Create(_ context.Context, l *domain.CareLog) (primitive.ObjectID, error) {
	if l.PlantID == primitive.NilObjectID || !l.Kind.Valid() {
		return primitive.NilObjectID, errors.New("care log requires plantId and a valid kind")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	l.ID = primitive.NewObjectID()
	l.CreatedAt = r.now()
	if l.OccurredAt.IsZero() {
		l.OccurredAt = l.CreatedAt
	}
	r.careLogs.put(l.ID, *l)
	return l.ID, nil
}

func (r *careLogRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.CareLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.careLogs.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func newestLogFirst(a, b domain.CareLog) bool { return a.OccurredAt.After(b.OccurredAt) }

func (r *careLogRepository) ListByPlant(_ context.Context, plantID primitive.ObjectID, kind domain.CareKind, limit int64) ([]domain.CareLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.careLogs.filter(func(l domain.CareLog) bool {
		return l.PlantID == plantID && (kind == "" || l.Kind == kind)
	})
	sortStable(out, newestLogFirst)
	return page(out, 0, limit), nil
}

func (r *careLogRepository) GetLatest(_ context.Context, plantID primitive.ObjectID, kind domain.CareKind) (*domain.CareLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *domain.CareLog
	for _, l := range r.careLogs.filter(func(l domain.CareLog) bool { return l.PlantID == plantID && l.Kind == kind }) {
		if latest == nil || l.OccurredAt.After(latest.OccurredAt) {
			l := l
			latest = &l
		}
	}
	if latest == nil {
		return nil, repository.ErrNotFound
	}
	return latest, nil
}

func (r *careLogRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.careLogs.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *careLogRepository) DeleteByPlant(_ context.Context, plantID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.careLogs.removeWhere(func(l domain.CareLog) bool { return l.PlantID == plantID })
	return nil
}

func (r *careLogRepository) DetachSchedule(_ context.Context, scheduleID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, l := range r.careLogs.rows {
		if l.ScheduleID != nil && *l.ScheduleID == scheduleID {
			l.ScheduleID = nil
			r.careLogs.rows[id] = l
		}
	}
	return nil
}
