package service

import (
	"context"
	"sort"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/events"
	"alcyxob/plants-manager/internal/repository"
	"alcyxob/plants-manager/internal/schedule"
)

const DefaultActivityLimit = 10

type Overview struct {
	TotalPlants      int64                      `json:"totalPlants"`
	PlantsByType     map[domain.PlantType]int64 `json:"plantsByType"`
	PlantsByLocation map[string]int64           `json:"plantsByLocation"` // Keyed by location id
	ActiveTreatments int64                      `json:"activeTreatments"`
}

type DueTask struct {
	ID            string `json:"id"`
	PlantID       string `json:"plantId"`
	NextDate      string `json:"nextDate"`
	FrequencyDays int    `json:"frequencyDays"`
}

type DueTasks struct {
	DueWatering      []DueTask `json:"dueWatering"`
	DueFertilization []DueTask `json:"dueFertilization"`
}

type Activity struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	PlantID     string    `json:"plantId"`
	Description string    `json:"description"`
	Date        time.Time `json:"date"`
}

// DashboardService serves the cross-plant aggregate views.
type DashboardService interface {
	Overview(ctx context.Context) (*Overview, error)
	// DueTasks lists the watering and fertilization due today or earlier.
	DueTasks(ctx context.Context) (*DueTasks, error)
	ActiveTreatments(ctx context.Context) ([]domain.Treatment, error)
	// RecentActivities lists active treatments, most recently started first.
	RecentActivities(ctx context.Context, limit int) ([]Activity, error)
	// Calendar merges projected care and treatment start/end dates within
	// [start, end], earliest first.
	Calendar(ctx context.Context, start, end time.Time) ([]events.CalendarEvent, error)
}

type dashboardService struct {
	care          CareService
	plantRepo     repository.PlantRepository
	treatmentRepo repository.TreatmentRepository
	now           Clock
}

func NewDashboardService(care CareService, plantRepo repository.PlantRepository, treatmentRepo repository.TreatmentRepository, now Clock) DashboardService {
	if now == nil {
		now = SystemClock
	}
	return &dashboardService{care: care, plantRepo: plantRepo, treatmentRepo: treatmentRepo, now: now}
}

func (s *dashboardService) Overview(ctx context.Context) (*Overview, error) {
	total, err := s.plantRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byType, err := s.plantRepo.CountByType(ctx)
	if err != nil {
		return nil, err
	}
	perLocation, err := s.plantRepo.CountPerLocation(ctx)
	if err != nil {
		return nil, err
	}
	active, err := s.treatmentRepo.CountByStatus(ctx, domain.TreatmentActive)
	if err != nil {
		return nil, err
	}

	byLocation := make(map[string]int64, len(perLocation))
	for id, n := range perLocation {
		byLocation[id.Hex()] = n
	}
	return &Overview{
		TotalPlants:      total,
		PlantsByType:     byType,
		PlantsByLocation: byLocation,
		ActiveTreatments: active,
	}, nil
}

func dueTasks(due []schedule.Due) []DueTask {
	out := make([]DueTask, 0, len(due))
	for _, d := range due {
		out = append(out, DueTask{
			ID:            d.Schedule.ID.Hex(),
			PlantID:       d.Schedule.PlantID.Hex(),
			NextDate:      domain.FormatDate(d.NextDate),
			FrequencyDays: d.Schedule.FrequencyDays,
		})
	}
	return out
}

func (s *dashboardService) DueTasks(ctx context.Context) (*DueTasks, error) {
	watering, err := s.care.DueToday(ctx, domain.CareWatering, 0)
	if err != nil {
		return nil, err
	}
	fertilization, err := s.care.DueToday(ctx, domain.CareFertilization, 0)
	if err != nil {
		return nil, err
	}
	return &DueTasks{DueWatering: dueTasks(watering), DueFertilization: dueTasks(fertilization)}, nil
}

func (s *dashboardService) ActiveTreatments(ctx context.Context) ([]domain.Treatment, error) {
	return s.treatmentRepo.ListByStatus(ctx, domain.TreatmentActive)
}

func (s *dashboardService) RecentActivities(ctx context.Context, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = DefaultActivityLimit
	}
	treatments, err := s.treatmentRepo.ListByStatus(ctx, domain.TreatmentActive)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(treatments, func(i, j int) bool {
		return treatments[i].StartDate.After(treatments[j].StartDate)
	})
	if len(treatments) > limit {
		treatments = treatments[:limit]
	}

	out := make([]Activity, 0, len(treatments))
	for _, t := range treatments {
		description := string(t.IssueType) + ": " + t.IssueName
		if t.ProductName != "" {
			description += " - " + t.ProductName
		}
		out = append(out, Activity{
			ID:          t.ID.Hex(),
			Type:        "treatment",
			PlantID:     t.PlantID.Hex(),
			Description: description,
			Date:        t.StartDate,
		})
	}
	return out, nil
}

func (s *dashboardService) Calendar(ctx context.Context, start, end time.Time) ([]events.CalendarEvent, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	if end.Before(start) {
		return nil, invalid("start date must be on or before end date")
	}

	today := domain.DateOf(s.now())
	var projected []schedule.Due
	for _, kind := range domain.CareKinds {
		p, err := s.care.Projections(ctx, kind, today)
		if err != nil {
			return nil, err
		}
		projected = append(projected, p...)
	}

	treatments, err := s.treatmentRepo.ListOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return events.BuildCalendar(start, end, projected, treatments), nil
}
