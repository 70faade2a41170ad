package service

import (
	"context"

	"alcyxob/plants-manager/internal/events"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TimelineService assembles a plant's full history.
type TimelineService interface {
	PlantTimeline(ctx context.Context, plantID primitive.ObjectID) ([]events.TimelineEvent, error)
}

type timelineService struct {
	store repository.Store
}

func NewTimelineService(store repository.Store) TimelineService {
	return &timelineService{store: store}
}

func (s *timelineService) PlantTimeline(ctx context.Context, plantID primitive.ObjectID) ([]events.TimelineEvent, error) {
	if _, err := s.store.Plants.GetByID(ctx, plantID); err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}

	var (
		src events.TimelineSources
		err error
	)
	if src.CareLogs, err = s.store.CareLogs.ListByPlant(ctx, plantID, "", 0); err != nil {
		return nil, err
	}
	if src.Treatments, err = s.store.Treatments.ListByPlant(ctx, plantID, ""); err != nil {
		return nil, err
	}
	apps, err := s.store.Treatments.ListApplicationsByPlant(ctx, plantID)
	if err != nil {
		return nil, err
	}
	if src.GrowthLogs, err = s.store.GrowthLogs.ListByPlant(ctx, plantID); err != nil {
		return nil, err
	}
	if src.Photos, err = s.store.Photos.ListByPlant(ctx, plantID); err != nil {
		return nil, err
	}

	byID := make(map[primitive.ObjectID]int, len(src.Treatments))
	for i, t := range src.Treatments {
		byID[t.ID] = i
	}
	for _, a := range apps {
		i, ok := byID[a.TreatmentID]
		if !ok {
			continue
		}
		src.Applications = append(src.Applications, events.AppliedTreatment{Application: a, Treatment: src.Treatments[i]})
	}

	return events.BuildTimeline(src), nil
}
