package service

import (
	"context"
	"log"
	"strings"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"
	"alcyxob/plants-manager/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	DefaultPlantListLimit = 100
	MaxPlantListLimit     = 1000
	PlantSearchLimit      = 50
	MinSearchLength       = 2
)

// PlantDetails is a plant with its location's display fields resolved.
type PlantDetails struct {
	domain.Plant
	LocationName string
	LocationType domain.LocationType
}

type PlantInput struct {
	Name            string
	ScientificName  string
	Type            domain.PlantType
	Category        domain.PlantCategory
	Species         string
	LocationID      *primitive.ObjectID
	AcquisitionDate *time.Time
	Notes           string
	ExtraData       map[string]interface{}
}

// PlantUpdate carries a partial update; nil fields are left unchanged.
// ClearLocation detaches the plant from its location.
type PlantUpdate struct {
	Name            *string
	ScientificName  *string
	Type            *domain.PlantType
	Category        *domain.PlantCategory
	Species         *string
	LocationID      *primitive.ObjectID
	ClearLocation   bool
	AcquisitionDate *time.Time
	Notes           *string
	ExtraData       map[string]interface{}
}

type PlantService interface {
	ListPlants(ctx context.Context, filter domain.PlantFilter) ([]PlantDetails, error)
	SearchPlants(ctx context.Context, query string) ([]PlantDetails, error)
	PlantsByAcquisitionDate(ctx context.Context, start, end time.Time) ([]PlantDetails, error)
	PlantsByLocation(ctx context.Context, locationID primitive.ObjectID) ([]PlantDetails, error)
	GetPlant(ctx context.Context, id primitive.ObjectID) (*PlantDetails, error)
	CreatePlant(ctx context.Context, in PlantInput) (*domain.Plant, error)
	UpdatePlant(ctx context.Context, id primitive.ObjectID, in PlantUpdate) (*domain.Plant, error)
	// DeletePlant removes the plant and everything it owns. Stored photo
	// objects are removed best-effort.
	DeletePlant(ctx context.Context, id primitive.ObjectID) error
}

type plantService struct {
	store repository.Store
	files storage.FileStorage
}

func NewPlantService(store repository.Store, files storage.FileStorage) PlantService {
	return &plantService{store: store, files: files}
}

func validatePlant(name string, t domain.PlantType, c domain.PlantCategory) error {
	if strings.TrimSpace(name) == "" {
		return invalid("plant name is required")
	}
	if !t.Valid() {
		return invalid("invalid plant type %q, must be indoor or outdoor", t)
	}
	if !c.Valid() {
		return invalid("invalid category %q, must be flower, tree, grass, or other", c)
	}
	return nil
}

func (s *plantService) withLocations(ctx context.Context, plants []domain.Plant) ([]PlantDetails, error) {
	locations, err := s.store.Locations.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[primitive.ObjectID]domain.Location, len(locations))
	for _, l := range locations {
		byID[l.ID] = l
	}

	out := make([]PlantDetails, 0, len(plants))
	for _, p := range plants {
		d := PlantDetails{Plant: p}
		if p.LocationID != nil {
			if l, ok := byID[*p.LocationID]; ok {
				d.LocationName, d.LocationType = l.Name, l.Type
			}
		}
		out = append(out, d)
	}
	return out, nil
}

func (s *plantService) ListPlants(ctx context.Context, filter domain.PlantFilter) ([]PlantDetails, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, invalid("invalid plant type %q, must be indoor or outdoor", filter.Type)
	}
	if filter.Category != "" && !filter.Category.Valid() {
		return nil, invalid("invalid category %q, must be flower, tree, grass, or other", filter.Category)
	}
	if filter.Skip < 0 {
		return nil, invalid("skip must not be negative")
	}
	switch {
	case filter.Limit == 0:
		filter.Limit = DefaultPlantListLimit
	case filter.Limit < 0 || filter.Limit > MaxPlantListLimit:
		return nil, invalid("limit must be between 1 and %d", MaxPlantListLimit)
	}

	plants, err := s.store.Plants.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.withLocations(ctx, plants)
}

func (s *plantService) SearchPlants(ctx context.Context, query string) ([]PlantDetails, error) {
	query = strings.TrimSpace(query)
	if len([]rune(query)) < MinSearchLength {
		return nil, invalid("search query must be at least %d characters", MinSearchLength)
	}
	plants, err := s.store.Plants.Search(ctx, query, PlantSearchLimit)
	if err != nil {
		return nil, err
	}
	return s.withLocations(ctx, plants)
}

func (s *plantService) PlantsByAcquisitionDate(ctx context.Context, start, end time.Time) ([]PlantDetails, error) {
	if end.Before(start) {
		return nil, invalid("start date must be before or equal to end date")
	}
	plants, err := s.store.Plants.ListByAcquisitionDate(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return s.withLocations(ctx, plants)
}

func (s *plantService) PlantsByLocation(ctx context.Context, locationID primitive.ObjectID) ([]PlantDetails, error) {
	plants, err := s.store.Plants.List(ctx, domain.PlantFilter{LocationID: &locationID})
	if err != nil {
		return nil, err
	}
	return s.withLocations(ctx, plants)
}

func (s *plantService) GetPlant(ctx context.Context, id primitive.ObjectID) (*PlantDetails, error) {
	plant, err := s.store.Plants.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}
	details, err := s.withLocations(ctx, []domain.Plant{*plant})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *plantService) checkLocation(ctx context.Context, id *primitive.ObjectID) error {
	if id == nil {
		return nil
	}
	_, err := s.store.Locations.GetByID(ctx, *id)
	return notFoundAs(err, ErrLocationNotFound)
}

func (s *plantService) CreatePlant(ctx context.Context, in PlantInput) (*domain.Plant, error) {
	if err := validatePlant(in.Name, in.Type, in.Category); err != nil {
		return nil, err
	}
	if err := s.checkLocation(ctx, in.LocationID); err != nil {
		return nil, err
	}

	plant := &domain.Plant{
		Name:           strings.TrimSpace(in.Name),
		ScientificName: in.ScientificName,
		Type:           in.Type,
		Category:       in.Category,
		Species:        in.Species,
		LocationID:     in.LocationID,
		Notes:          in.Notes,
		ExtraData:      in.ExtraData,
	}
	if in.AcquisitionDate != nil {
		d := domain.DateOf(*in.AcquisitionDate)
		plant.AcquisitionDate = &d
	}

	if _, err := s.store.Plants.Create(ctx, plant); err != nil {
		return nil, err
	}
	return plant, nil
}

func (s *plantService) UpdatePlant(ctx context.Context, id primitive.ObjectID, in PlantUpdate) (*domain.Plant, error) {
	plant, err := s.store.Plants.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}

	if in.Name != nil {
		plant.Name = strings.TrimSpace(*in.Name)
	}
	if in.ScientificName != nil {
		plant.ScientificName = *in.ScientificName
	}
	if in.Type != nil {
		plant.Type = *in.Type
	}
	if in.Category != nil {
		plant.Category = *in.Category
	}
	if in.Species != nil {
		plant.Species = *in.Species
	}
	if in.Notes != nil {
		plant.Notes = *in.Notes
	}
	if in.ExtraData != nil {
		plant.ExtraData = in.ExtraData
	}
	if in.AcquisitionDate != nil {
		d := domain.DateOf(*in.AcquisitionDate)
		plant.AcquisitionDate = &d
	}
	switch {
	case in.ClearLocation:
		plant.LocationID = nil
	case in.LocationID != nil:
		if err := s.checkLocation(ctx, in.LocationID); err != nil {
			return nil, err
		}
		plant.LocationID = in.LocationID
	}
	if err := validatePlant(plant.Name, plant.Type, plant.Category); err != nil {
		return nil, err
	}

	if err := s.store.Plants.Update(ctx, plant); err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}
	return plant, nil
}

func (s *plantService) DeletePlant(ctx context.Context, id primitive.ObjectID) error {
	if _, err := s.store.Plants.GetByID(ctx, id); err != nil {
		return notFoundAs(err, ErrPlantNotFound)
	}

	photos, err := s.store.Photos.ListByPlant(ctx, id)
	if err != nil {
		return err
	}
	removePhotoObjects(ctx, s.files, photos...)
	for _, p := range photos {
		if err := s.store.Photos.Delete(ctx, p.ID); err != nil {
			return err
		}
	}
	if err := s.store.GrowthLogs.DeleteByPlant(ctx, id); err != nil {
		return err
	}
	if err := s.store.Treatments.DeleteByPlant(ctx, id); err != nil {
		return err
	}
	if err := s.store.CareLogs.DeleteByPlant(ctx, id); err != nil {
		return err
	}
	if err := s.store.CareSchedules.DeleteByPlant(ctx, id); err != nil {
		return err
	}
	return notFoundAs(s.store.Plants.Delete(ctx, id), ErrPlantNotFound)
}

// removePhotoObjects deletes the originals and thumbnails of photos from
// storage, logging a failure instead of returning it.
func removePhotoObjects(ctx context.Context, files storage.FileStorage, photos ...domain.Photo) {
	keys := make([]string, 0, 2*len(photos))
	for _, p := range photos {
		keys = append(keys, p.FilePath, p.ThumbnailPath)
	}
	if err := files.DeleteObjects(ctx, keys...); err != nil {
		log.Printf("WARN: Failed to delete stored objects of %d photos: %v", len(photos), err)
	}
}
