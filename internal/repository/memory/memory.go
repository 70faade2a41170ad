// Package memory is an in-process implementation of the repository
// interfaces. It backs the "memory" database driver and the service and API
// tests.
package memory

import (
	"sort"
	"sync"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// table keeps records by id plus their insertion order.
type table[T any] struct {
	rows  map[primitive.ObjectID]T
	order []primitive.ObjectID
}

func newTable[T any]() *table[T] {
	return &table[T]{rows: make(map[primitive.ObjectID]T)}
}

func (t *table[T]) put(id primitive.ObjectID, v T) {
	if _, ok := t.rows[id]; !ok {
		t.order = append(t.order, id)
	}
	t.rows[id] = v
}

func (t *table[T]) get(id primitive.ObjectID) (T, bool) {
	v, ok := t.rows[id]
	return v, ok
}

func (t *table[T]) remove(id primitive.ObjectID) bool {
	if _, ok := t.rows[id]; !ok {
		return false
	}
	delete(t.rows, id)
	for i, o := range t.order {
		if o == id {
			t.order = append(t.order[:i], t.order[i+1:]...)
			break
		}
	}
	return true
}

// filter returns matching rows in insertion order, never nil.
func (t *table[T]) filter(keep func(T) bool) []T {
	out := []T{}
	for _, id := range t.order {
		if v := t.rows[id]; keep(v) {
			out = append(out, v)
		}
	}
	return out
}

func (t *table[T]) removeWhere(match func(T) bool) int64 {
	var n int64
	for _, id := range append([]primitive.ObjectID(nil), t.order...) {
		if match(t.rows[id]) {
			t.remove(id)
			n++
		}
	}
	return n
}

func all[T any](T) bool { return true }

// sortStable orders rows with less, keeping insertion order on ties.
func sortStable[T any](rows []T, less func(a, b T) bool) {
	sort.SliceStable(rows, func(i, j int) bool { return less(rows[i], rows[j]) })
}

func page[T any](rows []T, skip, limit int64) []T {
	if skip > 0 {
		if skip >= int64(len(rows)) {
			return []T{}
		}
		rows = rows[skip:]
	}
	if limit > 0 && limit < int64(len(rows)) {
		rows = rows[:limit]
	}
	return rows
}

// db is the shared state behind every repository of one Store.
type db struct {
	mu            sync.RWMutex
	now           func() time.Time
	locations     *table[domain.Location]
	plants        *table[domain.Plant]
	schedules     *table[domain.CareSchedule]
	careLogs      *table[domain.CareLog]
	treatments    *table[domain.Treatment]
	applications  *table[domain.TreatmentApplication]
	photos        *table[domain.Photo]
	growthLogs    *table[domain.GrowthLog]
	notifications *table[domain.Notification]
}

// NewStore returns an empty in-memory store.
func NewStore() repository.Store {
	return NewStoreWithClock(func() time.Time { return time.Now().UTC() })
}

// NewStoreWithClock is NewStore with the clock used for createdAt/updatedAt
// stamps.
func NewStoreWithClock(now func() time.Time) repository.Store {
	d := &db{
		now:           now,
		locations:     newTable[domain.Location](),
		plants:        newTable[domain.Plant](),
		schedules:     newTable[domain.CareSchedule](),
		careLogs:      newTable[domain.CareLog](),
		treatments:    newTable[domain.Treatment](),
		applications:  newTable[domain.TreatmentApplication](),
		photos:        newTable[domain.Photo](),
		growthLogs:    newTable[domain.GrowthLog](),
		notifications: newTable[domain.Notification](),
	}
	return repository.Store{
		Locations:     &locationRepository{d},
		Plants:        &plantRepository{d},
		CareSchedules: &careScheduleRepository{d},
		CareLogs:      &careLogRepository{d},
		Treatments:    &treatmentRepository{d},
		Photos:        &photoRepository{d},
		GrowthLogs:    &growthLogRepository{d},
		Notifications: &notificationRepository{d},
	}
}
