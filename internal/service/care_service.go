package service

import (
	"context"
	"errors"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"
	"alcyxob/plants-manager/internal/schedule"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const DefaultCareLogLimit = 50

type ScheduleInput struct {
	FrequencyDays  int
	Amount         string
	TimeOfDay      string
	FertilizerType string
	StartDate      time.Time // Zero means today
	EndDate        *time.Time
	IsActive       *bool // Nil means active
	Notes          string
}

// ScheduleUpdate carries a partial update; nil fields are left unchanged.
type ScheduleUpdate struct {
	FrequencyDays  *int
	Amount         *string
	TimeOfDay      *string
	FertilizerType *string
	StartDate      *time.Time
	EndDate        *time.Time
	ClearEndDate   bool
	IsActive       *bool
	Notes          *string
}

type LogInput struct {
	ScheduleID     *primitive.ObjectID
	OccurredAt     time.Time // Zero means now
	Amount         string
	FertilizerType string
	Notes          string
}

// ScheduleWithNext is a schedule and its projected next occurrence, if any.
type ScheduleWithNext struct {
	domain.CareSchedule
	NextDate *time.Time
}

// CareService manages watering and fertilization. Every method takes the
// care kind it operates on; a record of the other kind is reported as not
// found.
type CareService interface {
	GetSchedule(ctx context.Context, kind domain.CareKind, id primitive.ObjectID) (*ScheduleWithNext, error)
	ListPlantSchedules(ctx context.Context, kind domain.CareKind, plantID primitive.ObjectID, activeOnly bool) ([]domain.CareSchedule, error)
	CreateSchedule(ctx context.Context, kind domain.CareKind, plantID primitive.ObjectID, in ScheduleInput) (*domain.CareSchedule, error)
	UpdateSchedule(ctx context.Context, kind domain.CareKind, id primitive.ObjectID, in ScheduleUpdate) (*domain.CareSchedule, error)
	// DeleteSchedule keeps the schedule's logs and clears their reference.
	DeleteSchedule(ctx context.Context, kind domain.CareKind, id primitive.ObjectID) error

	ListPlantLogs(ctx context.Context, kind domain.CareKind, plantID primitive.ObjectID, limit int64) ([]domain.CareLog, error)
	CreateLog(ctx context.Context, kind domain.CareKind, plantID primitive.ObjectID, in LogInput) (*domain.CareLog, error)
	DeleteLog(ctx context.Context, kind domain.CareKind, id primitive.ObjectID) error

	// ComputeDueSet returns the in-effect schedules of kind whose next
	// occurrence is on or before today+daysAhead, earliest first. A negative
	// daysAhead selects schedules at least that many days overdue.
	ComputeDueSet(ctx context.Context, kind domain.CareKind, daysAhead int, today time.Time) ([]schedule.Due, error)
	// DueToday is ComputeDueSet against the service clock.
	DueToday(ctx context.Context, kind domain.CareKind, daysAhead int) ([]schedule.Due, error)
	// Projections returns the next occurrence of every in-effect schedule of kind.
	Projections(ctx context.Context, kind domain.CareKind, today time.Time) ([]schedule.Due, error)
}

type careService struct {
	plantRepo    repository.PlantRepository
	scheduleRepo repository.CareScheduleRepository
	logRepo      repository.CareLogRepository
	now          Clock
}

func NewCareService(plantRepo repository.PlantRepository, scheduleRepo repository.CareScheduleRepository, logRepo repository.CareLogRepository, now Clock) CareService {
	if now == nil {
		now = SystemClock
	}
	return &careService{plantRepo: plantRepo, scheduleRepo: scheduleRepo, logRepo: logRepo, now: now}
}

func checkKind(kind domain.CareKind) error {
	if !kind.Valid() {
		return invalid("invalid care kind %q", kind)
	}
	return nil
}

func (s *careService) requirePlant(ctx context.Context, id primitive.ObjectID) error {
	_, err := s.plantRepo.GetByID(ctx, id)
	return notFoundAs(err, ErrPlantNotFound)
}

func (s *careService) getSchedule(ctx context.Context, kind domain.CareKind, id primitive.ObjectID) (*domain.CareSchedule, error) {
	sc, err := s.scheduleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrScheduleNotFound)
	}
	if sc.Kind != kind {
		return nil, ErrScheduleNotFound
	}
	return sc, nil
}

// latest adapts the log store to the selector, treating "no log" as nil.
func (s *careService) latest(ctx context.Context, kind domain.CareKind) schedule.LatestLogFunc {
	return func(plantID primitive.ObjectID) (*domain.CareLog, error) {
		l, err := s.logRepo.GetLatest(ctx, plantID, kind)
		if errors.Is(err, repository.ErrNotFound) {
			return nil, nil
		}
		return l, err
	}
}

func validateSchedule(sc *domain.CareSchedule) error {
	if sc.FrequencyDays <= 0 {
		return invalid("frequency_days must be a positive number of days")
	}
	return checkDateRange(sc.StartDate, sc.EndDate)
}

func (s *careService) GetSchedule(ctx context.Context, kind domain.CareKind, id primitive.ObjectID) (*ScheduleWithNext, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	sc, err := s.getSchedule(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	latest, err := s.latest(ctx, kind)(sc.PlantID)
	if err != nil {
		return nil, err
	}
	return &ScheduleWithNext{CareSchedule: *sc, NextDate: schedule.NextOccurrence(*sc, latest)}, nil
}

func (s *careService) ListPlantSchedules(ctx context.Context, kind domain.CareKind, plantID primitive.ObjectID, activeOnly bool) ([]domain.CareSchedule, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	return s.scheduleRepo.ListByPlant(ctx, plantID, kind, activeOnly)
}

func (s *careService) CreateSchedule(ctx context.Context, kind domain.CareKind, plantID primitive.ObjectID, in ScheduleInput) (*domain.CareSchedule, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}

	sc := &domain.CareSchedule{
		PlantID:       plantID,
		Kind:          kind,
		FrequencyDays: in.FrequencyDays,
		Amount:        in.Amount,
		StartDate:     domain.DateOf(in.StartDate),
		IsActive:      in.IsActive == nil || *in.IsActive,
		Notes:         in.Notes,
	}
	if in.StartDate.IsZero() {
		sc.StartDate = domain.DateOf(s.now())
	}
	if in.EndDate != nil {
		end := domain.DateOf(*in.EndDate)
		sc.EndDate = &end
	}
	switch kind {
	case domain.CareWatering:
		sc.TimeOfDay = in.TimeOfDay
	case domain.CareFertilization:
		sc.FertilizerType = in.FertilizerType
	}
	if err := validateSchedule(sc); err != nil {
		return nil, err
	}
	if err := s.requirePlant(ctx, plantID); err != nil {
		return nil, err
	}

	if _, err := s.scheduleRepo.Create(ctx, sc); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *careService) UpdateSchedule(ctx context.Context, kind domain.CareKind, id primitive.ObjectID, in ScheduleUpdate) (*domain.CareSchedule, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	sc, err := s.getSchedule(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if in.FrequencyDays != nil {
		sc.FrequencyDays = *in.FrequencyDays
	}
	if in.Amount != nil {
		sc.Amount = *in.Amount
	}
	if in.TimeOfDay != nil && kind == domain.CareWatering {
		sc.TimeOfDay = *in.TimeOfDay
	}
	if in.FertilizerType != nil && kind == domain.CareFertilization {
		sc.FertilizerType = *in.FertilizerType
	}
	if in.StartDate != nil {
		sc.StartDate = domain.DateOf(*in.StartDate)
	}
	switch {
	case in.ClearEndDate:
		sc.EndDate = nil
	case in.EndDate != nil:
		end := domain.DateOf(*in.EndDate)
		sc.EndDate = &end
	}
	if in.IsActive != nil {
		sc.IsActive = *in.IsActive
	}
	if in.Notes != nil {
		sc.Notes = *in.Notes
	}
	if err := validateSchedule(sc); err != nil {
		return nil, err
	}

	if err := s.scheduleRepo.Update(ctx, sc); err != nil {
		return nil, notFoundAs(err, ErrScheduleNotFound)
	}
	return sc, nil
}

func (s *careService) DeleteSchedule(ctx context.Context, kind domain.CareKind, id primitive.ObjectID) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	if _, err := s.getSchedule(ctx, kind, id); err != nil {
		return err
	}
	if err := s.logRepo.DetachSchedule(ctx, id); err != nil {
		return err
	}
	return notFoundAs(s.scheduleRepo.Delete(ctx, id), ErrScheduleNotFound)
}

func (s *careService) ListPlantLogs(ctx context.Context, kind domain.CareKind, plantID primitive.ObjectID, limit int64) ([]domain.CareLog, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if limit < 0 {
		return nil, invalid("limit must not be negative")
	}
	if limit == 0 {
		limit = DefaultCareLogLimit
	}
	return s.logRepo.ListByPlant(ctx, plantID, kind, limit)
}

func (s *careService) CreateLog(ctx context.Context, kind domain.CareKind, plantID primitive.ObjectID, in LogInput) (*domain.CareLog, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	if err := s.requirePlant(ctx, plantID); err != nil {
		return nil, err
	}
	if in.ScheduleID != nil {
		sc, err := s.getSchedule(ctx, kind, *in.ScheduleID)
		if err != nil {
			return nil, err
		}
		if sc.PlantID != plantID {
			return nil, invalid("schedule %s belongs to another plant", sc.ID.Hex())
		}
	}

	l := &domain.CareLog{
		PlantID:    plantID,
		ScheduleID: in.ScheduleID,
		Kind:       kind,
		OccurredAt: in.OccurredAt.UTC(),
		Amount:     in.Amount,
		Notes:      in.Notes,
	}
	if l.OccurredAt.IsZero() {
		l.OccurredAt = s.now()
	}
	if kind == domain.CareFertilization {
		l.FertilizerType = in.FertilizerType
	}

	if _, err := s.logRepo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *careService) DeleteLog(ctx context.Context, kind domain.CareKind, id primitive.ObjectID) error {
	if err := checkKind(kind); err != nil {
		return err
	}
	l, err := s.logRepo.GetByID(ctx, id)
	if err != nil {
		return notFoundAs(err, ErrLogNotFound)
	}
	if l.Kind != kind {
		return ErrLogNotFound
	}
	return notFoundAs(s.logRepo.Delete(ctx, id), ErrLogNotFound)
}

func (s *careService) ComputeDueSet(ctx context.Context, kind domain.CareKind, daysAhead int, today time.Time) ([]schedule.Due, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.ListActive(ctx, kind, today)
	if err != nil {
		return nil, err
	}
	return schedule.SelectDue(schedules, s.latest(ctx, kind), daysAhead, today)
}

func (s *careService) DueToday(ctx context.Context, kind domain.CareKind, daysAhead int) ([]schedule.Due, error) {
	return s.ComputeDueSet(ctx, kind, daysAhead, domain.DateOf(s.now()))
}

func (s *careService) Projections(ctx context.Context, kind domain.CareKind, today time.Time) ([]schedule.Due, error) {
	if err := checkKind(kind); err != nil {
		return nil, err
	}
	schedules, err := s.scheduleRepo.ListActive(ctx, kind, today)
	if err != nil {
		return nil, err
	}
	return schedule.Project(schedules, s.latest(ctx, kind), today)
}
