package service

import (
	"context"
	"strings"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// LocationSummary is a location with the number of plants placed in it.
type LocationSummary struct {
	domain.Location
	PlantsCount int64
}

type LocationInput struct {
	Name        string
	Type        domain.LocationType
	Description string
	Zone        string
	ExtraData   map[string]interface{}
}

// LocationUpdate carries a partial update; nil fields are left unchanged.
type LocationUpdate struct {
	Name        *string
	Type        *domain.LocationType
	Description *string
	Zone        *string
	ExtraData   map[string]interface{}
}

type LocationService interface {
	ListLocations(ctx context.Context) ([]LocationSummary, error)
	GetLocation(ctx context.Context, id primitive.ObjectID) (*LocationSummary, error)
	CreateLocation(ctx context.Context, in LocationInput) (*domain.Location, error)
	UpdateLocation(ctx context.Context, id primitive.ObjectID, in LocationUpdate) (*domain.Location, error)
	// DeleteLocation fails with ErrLocationInUse while plants reference it.
	DeleteLocation(ctx context.Context, id primitive.ObjectID) error
}

type locationService struct {
	locationRepo repository.LocationRepository
	plantRepo    repository.PlantRepository
}

func NewLocationService(locationRepo repository.LocationRepository, plantRepo repository.PlantRepository) LocationService {
	return &locationService{locationRepo: locationRepo, plantRepo: plantRepo}
}

func validateLocation(name string, t domain.LocationType) error {
	if strings.TrimSpace(name) == "" {
		return invalid("location name is required")
	}
	if !t.Valid() {
		return invalid("invalid location type %q, must be indoor or outdoor", t)
	}
	return nil
}

func (s *locationService) ListLocations(ctx context.Context) ([]LocationSummary, error) {
	locations, err := s.locationRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := s.plantRepo.CountPerLocation(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]LocationSummary, 0, len(locations))
	for _, l := range locations {
		out = append(out, LocationSummary{Location: l, PlantsCount: counts[l.ID]})
	}
	return out, nil
}

func (s *locationService) GetLocation(ctx context.Context, id primitive.ObjectID) (*LocationSummary, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrLocationNotFound)
	}
	count, err := s.plantRepo.CountByLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	return &LocationSummary{Location: *location, PlantsCount: count}, nil
}

func (s *locationService) CreateLocation(ctx context.Context, in LocationInput) (*domain.Location, error) {
	if err := validateLocation(in.Name, in.Type); err != nil {
		return nil, err
	}
	location := &domain.Location{
		Name:        strings.TrimSpace(in.Name),
		Type:        in.Type,
		Description: in.Description,
		Zone:        in.Zone,
		ExtraData:   in.ExtraData,
	}
	if _, err := s.locationRepo.Create(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

func (s *locationService) UpdateLocation(ctx context.Context, id primitive.ObjectID, in LocationUpdate) (*domain.Location, error) {
	location, err := s.locationRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrLocationNotFound)
	}

	if in.Name != nil {
		location.Name = strings.TrimSpace(*in.Name)
	}
	if in.Type != nil {
		location.Type = *in.Type
	}
	if in.Description != nil {
		location.Description = *in.Description
	}
	if in.Zone != nil {
		location.Zone = *in.Zone
	}
	if in.ExtraData != nil {
		location.ExtraData = in.ExtraData
	}
	if err := validateLocation(location.Name, location.Type); err != nil {
		return nil, err
	}

	if err := s.locationRepo.Update(ctx, location); err != nil {
		return nil, notFoundAs(err, ErrLocationNotFound)
	}
	return location, nil
}

func (s *locationService) DeleteLocation(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.locationRepo.GetByID(ctx, id); err != nil {
		return notFoundAs(err, ErrLocationNotFound)
	}
	count, err := s.plantRepo.CountByLocation(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrLocationInUse
	}
	return notFoundAs(s.locationRepo.Delete(ctx, id), ErrLocationNotFound)
}
