package memory

import (
	"context"
	"errors"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type notificationRepository struct{ *db }

func sameSlot(n domain.Notification, plantID primitive.ObjectID, kind domain.NotificationType, day string) bool {
	return n.PlantID != nil && *n.PlantID == plantID && n.Type == kind && n.Day == day
}

// Create enforces the same (plantId, type, day) uniqueness as the MongoDB
// index.
// Create rejects a second notification for the same plant, type and day
// with ErrDuplicate, scanning like Exists.
func (r *notificationRepository) Create(_ context.Context, n *domain.Notification) (primitive.ObjectID, error) {
	if n.Type == "" || n.Day == "" {
		return primitive.NilObjectID, errors.New("notification requires type and day")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if n.PlantID != nil {
		for _, existing := range r.notifications.rows {
			if sameSlot(existing, *n.PlantID, n.Type, n.Day) {
				return primitive.NilObjectID, repository.ErrDuplicate
			}
		}
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = r.now()
	r.notifications.put(n.ID, *n)
	return n.ID, nil
}

func (r *notificationRepository) GetByID(_ context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.notifications.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &n, nil
}

func (r *notificationRepository) List(_ context.Context, skip, limit int64, unreadOnly bool) ([]domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := r.notifications.filter(func(n domain.Notification) bool { return !unreadOnly || !n.IsRead })
	// Newest first; reversing insertion order keeps ties newest first too.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sortStable(out, func(a, b domain.Notification) bool { return a.CreatedAt.After(b.CreatedAt) })
	return page(out, skip, limit), nil
}

// Exists scans every row; the memory store only backs tests and local runs.
// The mongo store answers this from its (plantId, type, day) index.
func (r *notificationRepository) Exists(_ context.Context, plantID primitive.ObjectID, kind domain.NotificationType, day string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, n := range r.notifications.rows {
		if sameSlot(n, plantID, kind, day) {
			return true, nil
		}
	}
	return false, nil
}

func (r *notificationRepository) Stats(_ context.Context) (domain.NotificationStats, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stats := domain.NotificationStats{Total: int64(len(r.notifications.rows))}
	for _, n := range r.notifications.rows {
		if !n.IsRead {
			stats.Unread++
		}
	}
	return stats, nil
}

func (r *notificationRepository) MarkRead(_ context.Context, id primitive.ObjectID, at time.Time) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n, ok := r.notifications.get(id)
	if !ok {
		return nil, repository.ErrNotFound
	}
	at = at.UTC()
	n.IsRead = true
	n.ReadAt = &at
	r.notifications.put(id, n)
	return &n, nil
}

func (r *notificationRepository) MarkAllRead(_ context.Context, at time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	at = at.UTC()
	var count int64
	for id, n := range r.notifications.rows {
		if n.IsRead {
			continue
		}
		readAt := at
		n.IsRead = true
		n.ReadAt = &readAt
		r.notifications.rows[id] = n
		count++
	}
	return count, nil
}

func (r *notificationRepository) Delete(_ context.Context, id primitive.ObjectID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.notifications.remove(id) {
		return repository.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteReadBefore(_ context.Context, cutoff time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notifications.removeWhere(func(n domain.Notification) bool {
		return n.IsRead && n.ReadAt != nil && n.ReadAt.Before(cutoff)
	}), nil
}
