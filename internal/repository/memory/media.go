package memory

import (
	"context"
	"errors"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type photoRepository struct{ *db }

func (r *photoRepository) Create(_ context.Context, p *domain.Photo) (primitive.ObjectID, error) {
	if p.PlantID == primitive.NilObjectID || p.FilePath == "" {
		return primitive.NilObjectID, errors.New("photo requires plantId and filePath")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = r.now()
	r.photos.put(p.ID, *p)
	return p.ID, nil
}

func (r *photoRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.photos.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func (r *photoRepository) ListByPlant(_ context.Context, plantID primitive.ObjectID) ([]domain.Photo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.photos.filter(func(p domain.Photo) bool { return p.PlantID == plantID })
	sortStable(out, func(a, b domain.Photo) bool { return a.CreatedAt.After(b.CreatedAt) })
	return out, nil
}

func (r *photoRepository) Update(_ context.Context, p *domain.Photo) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.photos.get(p.ID); !ok {
		return repository.ErrNotFound
	}
	r.photos.put(p.ID, *p)
	return nil
}

func (r *photoRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.photos.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

type growthLogRepository struct{ *db }

func (r *growthLogRepository) Create(_ context.Context, g *domain.GrowthLog) (primitive.ObjectID, error) {
	if g.PlantID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("growth log requires plantId")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	g.ID = primitive.NewObjectID()
	g.CreatedAt = r.now()
	if g.MeasuredAt.IsZero() {
		g.MeasuredAt = g.CreatedAt
	}
	r.growthLogs.put(g.ID, *g)
	return g.ID, nil
}

func (r *growthLogRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.GrowthLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	g, ok := r.growthLogs.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &g, nil
}

func (r *growthLogRepository) ListByPlant(_ context.Context, plantID primitive.ObjectID) ([]domain.GrowthLog, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.growthLogs.filter(func(g domain.GrowthLog) bool { return g.PlantID == plantID })
	sortStable(out, func(a, b domain.GrowthLog) bool { return a.MeasuredAt.After(b.MeasuredAt) })
	return out, nil
}

func (r *growthLogRepository) Update(_ context.Context, g *domain.GrowthLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.growthLogs.get(g.ID); !ok {
		return repository.ErrNotFound
	}
	r.growthLogs.put(g.ID, *g)
	return nil
}

func (r *growthLogRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.growthLogs.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *growthLogRepository) DeleteByPlant(_ context.Context, plantID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.growthLogs.removeWhere(func(g domain.GrowthLog) bool { return g.PlantID == plantID })
	return nil
}

func (r *growthLogRepository) ClearPhoto(_ context.Context, photoID primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, g := range r.growthLogs.rows {
		if g.PhotoID != nil && *g.PhotoID == photoID {
			g.PhotoID = nil
			r.growthLogs.rows[id] = g
		}
	}
	return nil
}
