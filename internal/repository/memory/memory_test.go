package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestNotificationUniquePerPlantTypeDay(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	plantID := primitive.NewObjectID()

	first := &domain.Notification{Type: domain.NotificationWateringDue, PlantID: &plantID, Day: "2024-01-08"}
	if _, err := store.Notifications.Create(ctx, first); err != nil {
		t.Fatalf("create: %v", err)
	}

	dup := &domain.Notification{Type: domain.NotificationWateringDue, PlantID: &plantID, Day: "2024-01-08"}
	if _, err := store.Notifications.Create(ctx, dup); !errors.Is(err, repository.ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate, got %v", err)
	}

	otherTier := &domain.Notification{Type: domain.NotificationWateringOverdue, PlantID: &plantID, Day: "2024-01-08"}
	nextDay := &domain.Notification{Type: domain.NotificationWateringDue, PlantID: &plantID, Day: "2024-01-09"}
	for _, n := range []*domain.Notification{otherTier, nextDay} {
		if _, err := store.Notifications.Create(ctx, n); err != nil {
			t.Fatalf("create %s/%s: %v", n.Type, n.Day, err)
		}
	}

	ok, err := store.Notifications.Exists(ctx, plantID, domain.NotificationWateringDue, "2024-01-08")
	if err != nil || !ok {
		t.Fatalf("expected existing notification, got %v (%v)", ok, err)
	}
	stats, _ := store.Notifications.Stats(ctx)
	if stats.Total != 3 || stats.Unread != 3 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

func TestDeleteReadBeforeKeepsUnreadAndRecent(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	old := &domain.Notification{Type: domain.NotificationWateringDue, Day: "2024-04-01"}
	recent := &domain.Notification{Type: domain.NotificationWateringDue, Day: "2024-05-20"}
	unread := &domain.Notification{Type: domain.NotificationWateringDue, Day: "2024-03-01"}
	for _, n := range []*domain.Notification{old, recent, unread} {
		if _, err := store.Notifications.Create(ctx, n); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := store.Notifications.MarkRead(ctx, old.ID, now.AddDate(0, 0, -45)); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if _, err := store.Notifications.MarkRead(ctx, recent.ID, now.AddDate(0, 0, -5)); err != nil {
		t.Fatalf("mark read: %v", err)
	}

	deleted, err := store.Notifications.DeleteReadBefore(ctx, now.AddDate(0, 0, -30))
	if err != nil {
		t.Fatalf("cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted, got %d", deleted)
	}
	if _, err := store.Notifications.GetByID(ctx, old.ID); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected old notification gone, got %v", err)
	}
	for _, id := range []primitive.ObjectID{recent.ID, unread.ID} {
		if _, err := store.Notifications.GetByID(ctx, id); err != nil {
			t.Fatalf("expected %s to survive: %v", id.Hex(), err)
		}
	}
}

func TestListActiveHonorsDateBounds(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	ended := today.AddDate(0, 0, -1)

	mk := func(start time.Time, end *time.Time, active bool, kind domain.CareKind) primitive.ObjectID {
		s := &domain.CareSchedule{PlantID: primitive.NewObjectID(), Kind: kind, FrequencyDays: 3, StartDate: start, EndDate: end, IsActive: active}
		if _, err := store.CareSchedules.Create(ctx, s); err != nil {
			t.Fatalf("create schedule: %v", err)
		}
		return s.ID
	}
	inEffect := mk(today.AddDate(0, 0, -10), nil, true, domain.CareWatering)
	mk(today.AddDate(0, 0, 1), nil, true, domain.CareWatering)
	mk(today.AddDate(0, 0, -10), &ended, true, domain.CareWatering)
	mk(today.AddDate(0, 0, -10), nil, false, domain.CareWatering)
	mk(today.AddDate(0, 0, -10), nil, true, domain.CareFertilization)

	got, err := store.CareSchedules.ListActive(ctx, domain.CareWatering, today)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(got) != 1 || got[0].ID != inEffect {
		t.Fatalf("expected only the in-effect watering schedule, got %+v", got)
	}
}

func TestLatestLogAcrossSchedules(t *testing.T) {
	ctx := context.Background()
	store := NewStore()
	plantID := primitive.NewObjectID()
	scheduleA, scheduleB := primitive.NewObjectID(), primitive.NewObjectID()

	for _, l := range []*domain.CareLog{
		{PlantID: plantID, ScheduleID: &scheduleA, Kind: domain.CareWatering, OccurredAt: time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)},
		{PlantID: plantID, ScheduleID: &scheduleB, Kind: domain.CareWatering, OccurredAt: time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC)},
		{PlantID: plantID, Kind: domain.CareFertilization, OccurredAt: time.Date(2024, 1, 9, 0, 0, 0, 0, time.UTC)},
	} {
		if _, err := store.CareLogs.Create(ctx, l); err != nil {
			t.Fatalf("create log: %v", err)
		}
	}

	latest, err := store.CareLogs.GetLatest(ctx, plantID, domain.CareWatering)
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.OccurredAt.Day() != 5 {
		t.Fatalf("expected the 5th, got %s", latest.OccurredAt)
	}

	if err := store.CareLogs.DetachSchedule(ctx, scheduleB); err != nil {
		t.Fatalf("detach: %v", err)
	}
	latest, _ = store.CareLogs.GetLatest(ctx, plantID, domain.CareWatering)
	if latest.ScheduleID != nil {
		t.Fatal("expected schedule reference to be cleared")
	}
}
