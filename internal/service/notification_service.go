package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"
	"alcyxob/plants-manager/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultNotificationLimit = 100
	DefaultRetentionDays     = 30
)

// sweepTier is one (care kind, severity) combination checked by a sweep.
// Overdue tiers keep only schedules more than threshold days overdue.
type sweepTier struct {
	kind      domain.CareKind
	ntype     domain.NotificationType
	daysAhead int
	threshold int
	overdue   bool
}

// The thresholds are fixed.
var sweepTiers = []sweepTier{
	{kind: domain.CareWatering, ntype: domain.NotificationWateringDue, daysAhead: 0},
	{kind: domain.CareWatering, ntype: domain.NotificationWateringOverdue, daysAhead: -1, threshold: 1, overdue: true},
	{kind: domain.CareFertilization, ntype: domain.NotificationFertilizationDue, daysAhead: 0},
	{kind: domain.CareFertilization, ntype: domain.NotificationFertilizationOverdue, daysAhead: -3, threshold: 3, overdue: true},
}

type NotificationService interface {
	ListNotifications(ctx context.Context, skip, limit int64, unreadOnly bool) ([]domain.Notification, error)
	GetNotification(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error)
	Stats(ctx context.Context) (domain.NotificationStats, error)
	MarkRead(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error)
	MarkAllRead(ctx context.Context) (int64, error)
	DeleteNotification(ctx context.Context, id primitive.ObjectID) error

	// RunSweep raises due and overdue notifications for today and returns
	// how many were created. At most one notification per plant, type and
	// day is ever created, so running it again the same day is a no-op.
	// The day is today's date while CreatedAt is the wall clock, so a
	// backfilled sweep has a CreatedAt later than its day.
	RunSweep(ctx context.Context, today time.Time) (int, error)
	// RunCleanup deletes read notifications read more than retentionDays ago
	// and returns how many were removed.
	RunCleanup(ctx context.Context, retentionDays int) (int64, error)
}

type notificationService struct {
	care             CareService
	plantRepo        repository.PlantRepository
	notificationRepo repository.NotificationRepository
	now              Clock

	sweepMu sync.Mutex // One sweep at a time
}

func NewNotificationService(care CareService, plantRepo repository.PlantRepository, notificationRepo repository.NotificationRepository, now Clock) NotificationService {
	if now == nil {
		now = SystemClock
	}
	return &notificationService{care: care, plantRepo: plantRepo, notificationRepo: notificationRepo, now: now}
}

func (s *notificationService) ListNotifications(ctx context.Context, skip, limit int64, unreadOnly bool) ([]domain.Notification, error) {
	if skip < 0 {
		return nil, invalid("skip must not be negative")
	}
	if limit <= 0 {
		limit = DefaultNotificationLimit
	}
	return s.notificationRepo.List(ctx, skip, limit, unreadOnly)
}

func (s *notificationService) GetNotification(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	n, err := s.notificationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrNotificationNotFound)
	}
	return n, nil
}

func (s *notificationService) Stats(ctx context.Context) (domain.NotificationStats, error) {
	return s.notificationRepo.Stats(ctx)
}

func (s *notificationService) MarkRead(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	n, err := s.notificationRepo.MarkRead(ctx, id, s.now())
	if err != nil {
		return nil, notFoundAs(err, ErrNotificationNotFound)
	}
	return n, nil
}

func (s *notificationService) MarkAllRead(ctx context.Context) (int64, error) {
	return s.notificationRepo.MarkAllRead(ctx, s.now())
}

func (s *notificationService) DeleteNotification(ctx context.Context, id primitive.ObjectID) error {
	return notFoundAs(s.notificationRepo.Delete(ctx, id), ErrNotificationNotFound)
}

func (s *notificationService) RunSweep(ctx context.Context, today time.Time) (int, error) {
	s.sweepMu.Lock()
	defer s.sweepMu.Unlock()

	today = domain.DateOf(today)
	created := 0
	for _, tier := range sweepTiers {
		due, err := s.care.ComputeDueSet(ctx, tier.kind, tier.daysAhead, today)
		if err != nil {
			return created, fmt.Errorf("computing %s set: %w", tier.ntype, err)
		}
		for _, d := range due {
			ok, err := s.notify(ctx, tier, d, today)
			if err != nil {
				return created, err
			}
			if ok {
				created++
			}
		}
	}
	log.Printf("INFO: Notification sweep for %s created %d notifications", domain.FormatDate(today), created)
	return created, nil
}

// notify creates the tier's notification for one due schedule unless the
// plant is gone, the schedule is not overdue enough, or the plant was
// already notified today.
func (s *notificationService) notify(ctx context.Context, tier sweepTier, d schedule.Due, today time.Time) (bool, error) {
	daysOverdue := d.DaysOverdue(today)
	if tier.overdue && daysOverdue <= tier.threshold {
		return false, nil
	}

	plant, err := s.plantRepo.GetByID(ctx, d.Schedule.PlantID)
	if errors.Is(err, repository.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	day := domain.FormatDate(today)
	exists, err := s.notificationRepo.Exists(ctx, plant.ID, tier.ntype, day)
	if err != nil {
		return false, err
	}
	if exists {
		return false, nil
	}

	plantID := plant.ID
	n := &domain.Notification{
		Type:      tier.ntype,
		PlantID:   &plantID,
		PlantName: plant.Name,
		Day:       day,
	}
	n.Title, n.Message = notificationText(tier, plant.Name, d.Schedule.FrequencyDays, daysOverdue)

	if _, err := s.notificationRepo.Create(ctx, n); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func notificationText(tier sweepTier, plantName string, frequencyDays, daysOverdue int) (title, message string) {
	action, verb := "Watering", "watering"
	if tier.kind == domain.CareFertilization {
		action, verb = "Fertilization", "fertilization"
	}
	if tier.overdue {
		return fmt.Sprintf("⚠️ %s Overdue: %s", action, plantName),
			fmt.Sprintf("%s is %d days overdue for %s!", plantName, daysOverdue, verb)
	}
	return fmt.Sprintf("%s Due: %s", action, plantName),
		fmt.Sprintf("%s needs %s today (every %d days)", plantName, verb, frequencyDays)
}

func (s *notificationService) RunCleanup(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays < 0 {
		return 0, invalid("retention_days must not be negative")
	}
	cutoff := s.now().AddDate(0, 0, -retentionDays)
	deleted, err := s.notificationRepo.DeleteReadBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	log.Printf("INFO: Notification cleanup removed %d read notifications older than %d days", deleted, retentionDays)
	return deleted, nil
}
