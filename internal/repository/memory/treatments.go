package memory

import (
	"context"
	"errors"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type treatmentRepository struct{ *db }

func (r *treatmentRepository) Create(_ context.Context, t *domain.Treatment) (primitive.ObjectID, error) {
	if t.PlantID == primitive.NilObjectID || t.IssueName == "" {
		return primitive.NilObjectID, errors.New("treatment requires plantId and issueName")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	t.ID = primitive.NewObjectID()
	t.CreatedAt = r.now()
	t.UpdatedAt = t.CreatedAt
	r.treatments.put(t.ID, *t)
	return t.ID, nil
}

func (r *treatmentRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.treatments.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func latestStartFirst(a, b domain.Treatment) bool { return a.StartDate.After(b.StartDate) }

func (r *treatmentRepository) ListByPlant(_ context.Context, plantID primitive.ObjectID, status domain.TreatmentStatus) ([]domain.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.treatments.filter(func(t domain.Treatment) bool {
		return t.PlantID == plantID && (status == "" || t.Status == status)
	})
	sortStable(out, latestStartFirst)
	return out, nil
}

func (r *treatmentRepository) ListByStatus(_ context.Context, status domain.TreatmentStatus) ([]domain.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.treatments.filter(func(t domain.Treatment) bool { return t.Status == status })
	sortStable(out, latestStartFirst)
	return out, nil
}

func (r *treatmentRepository) CountByStatus(ctx context.Context, status domain.TreatmentStatus) (int64, error) {
	out, err := r.ListByStatus(ctx, status)
	return int64(len(out)), err
}

func (r *treatmentRepository) ListOverlapping(_ context.Context, start, end time.Time) ([]domain.Treatment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.treatments.filter(func(t domain.Treatment) bool { return t.Overlaps(start, end) })
	sortStable(out, func(a, b domain.Treatment) bool { return a.StartDate.Before(b.StartDate) })
	return out, nil
}

func (r *treatmentRepository) Update(_ context.Context, t *domain.Treatment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.treatments.get(t.ID); !ok {
		return repository.ErrNotFound
	}
	t.UpdatedAt = r.now()
	r.treatments.put(t.ID, *t)
	return nil
}

func (r *treatmentRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.treatments.remove(id) {
		return repository.ErrNotFound
	}
	r.applications.removeWhere(func(a domain.TreatmentApplication) bool { return a.TreatmentID == id })
	return nil
}

func (r *treatmentRepository) DeleteByPlant(_ context.Context, plantID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applications.removeWhere(func(a domain.TreatmentApplication) bool { return a.PlantID == plantID })
	r.treatments.removeWhere(func(t domain.Treatment) bool { return t.PlantID == plantID })
	return nil
}

func (r *treatmentRepository) CreateApplication(_ context.Context, a *domain.TreatmentApplication) (primitive.ObjectID, error) {
	if a.TreatmentID == primitive.NilObjectID || a.PlantID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("application requires treatmentId and plantId")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	a.ID = primitive.NewObjectID()
	a.CreatedAt = r.now()
	if a.AppliedAt.IsZero() {
		a.AppliedAt = a.CreatedAt
	}
	r.applications.put(a.ID, *a)
	return a.ID, nil
}

func newestApplicationFirst(a, b domain.TreatmentApplication) bool { return a.AppliedAt.After(b.AppliedAt) }

func (r *treatmentRepository) ListApplications(_ context.Context, treatmentID primitive.ObjectID) ([]domain.TreatmentApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.applications.filter(func(a domain.TreatmentApplication) bool { return a.TreatmentID == treatmentID })
	sortStable(out, newestApplicationFirst)
	return out, nil
}

func (r *treatmentRepository) ListApplicationsByPlant(_ context.Context, plantID primitive.ObjectID) ([]domain.TreatmentApplication, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.applications.filter(func(a domain.TreatmentApplication) bool { return a.PlantID == plantID })
	sortStable(out, newestApplicationFirst)
	return out, nil
}
