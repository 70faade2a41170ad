package memory

import (
	"context"
	"errors"
	"strings"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type locationRepository struct{ *db }

func (r *locationRepository) Create(_ context.Context, location *domain.Location) (primitive.ObjectID, error) {
	if location.Name == "" || location.Type == "" {
		return primitive.NilObjectID, errors.New("location requires name and type")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	location.ID = primitive.NewObjectID()
	location.CreatedAt = r.now()
	r.locations.put(location.ID, *location)
	return location.ID, nil
}

func (r *locationRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.locations.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &l, nil
}

func (r *locationRepository) List(_ context.Context) ([]domain.Location, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.locations.filter(all[domain.Location])
	sortStable(out, func(a, b domain.Location) bool { return a.Name < b.Name })
	return out, nil
}

func (r *locationRepository) Update(_ context.Context, location *domain.Location) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.locations.get(location.ID); !ok {
		return repository.ErrNotFound
	}
	r.locations.put(location.ID, *location)
	return nil
}

func (r *locationRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.locations.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

type plantRepository struct{ *db }

func (r *plantRepository) Create(_ context.Context, plant *domain.Plant) (primitive.ObjectID, error) {
	if plant.Name == "" || plant.Type == "" || plant.Category == "" {
		return primitive.NilObjectID, errors.New("plant name, type, and category are required")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	plant.ID = primitive.NewObjectID()
	plant.CreatedAt = r.now()
	plant.UpdatedAt = plant.CreatedAt
	r.plants.put(plant.ID, *plant)
	return plant.ID, nil
}

func (r *plantRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.plants.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &p, nil
}

func byName(a, b domain.Plant) bool { return a.Name < b.Name }

func (r *plantRepository) List(_ context.Context, filter domain.PlantFilter) ([]domain.Plant, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.plants.filter(func(p domain.Plant) bool {
		if filter.Type != "" && p.Type != filter.Type {
			return false
		}
		if filter.Category != "" && p.Category != filter.Category {
			return false
		}
		if filter.LocationID != nil && (p.LocationID == nil || *p.LocationID != *filter.LocationID) {
			return false
		}
		return true
	})
	sortStable(out, byName)
	return page(out, filter.Skip, filter.Limit), nil
}

func (r *plantRepository) Search(_ context.Context, query string, limit int64) ([]domain.Plant, error) {
	q := strings.ToLower(query)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.plants.filter(func(p domain.Plant) bool {
		return strings.Contains(strings.ToLower(p.Name), q) ||
			strings.Contains(strings.ToLower(p.ScientificName), q)
	})
	sortStable(out, byName)
	return page(out, 0, limit), nil
}

func (r *plantRepository) ListByAcquisitionDate(_ context.Context, start, end time.Time) ([]domain.Plant, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.plants.filter(func(p domain.Plant) bool {
		if p.AcquisitionDate == nil {
			return false
		}
		d := domain.DateOf(*p.AcquisitionDate)
		return !d.Before(start) && !d.After(end)
	})
	sortStable(out, func(a, b domain.Plant) bool { return a.AcquisitionDate.Before(*b.AcquisitionDate) })
	return out, nil
}

func (r *plantRepository) Update(_ context.Context, plant *domain.Plant) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.plants.get(plant.ID); !ok {
		return repository.ErrNotFound
	}
	plant.UpdatedAt = r.now()
	r.plants.put(plant.ID, *plant)
	return nil
}

func (r *plantRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.plants.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *plantRepository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.plants.rows)), nil
}

func (r *plantRepository) CountByLocation(_ context.Context, locationID primitive.ObjectID) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var n int64
	for _, p := range r.plants.rows {
		if p.LocationID != nil && *p.LocationID == locationID {
			n++
		}
	}
	return n, nil
}

func (r *plantRepository) CountByType(_ context.Context) (map[domain.PlantType]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[domain.PlantType]int64)
	for _, p := range r.plants.rows {
		counts[p.Type]++
	}
	return counts, nil
}

func (r *plantRepository) CountPerLocation(_ context.Context) (map[primitive.ObjectID]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	counts := make(map[primitive.ObjectID]int64)
	for _, p := range r.plants.rows {
		if p.LocationID != nil {
			counts[*p.LocationID]++
		}
	}
	return counts, nil
}
