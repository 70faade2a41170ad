package service

import (
	"context"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GrowthLogInput struct {
	PhotoID      *primitive.ObjectID
	MeasuredAt   time.Time // Zero means now
	HeightCm     *float64
	WidthCm      *float64
	HealthStatus domain.HealthStatus
	Notes        string
}

// GrowthLogUpdate carries a partial update; nil fields are left unchanged.
type GrowthLogUpdate struct {
	PhotoID      *primitive.ObjectID
	ClearPhoto   bool
	MeasuredAt   *time.Time
	HeightCm     *float64
	WidthCm      *float64
	HealthStatus *domain.HealthStatus
	Notes        *string
}

type GrowthLogService interface {
	GetGrowthLog(ctx context.Context, id primitive.ObjectID) (*domain.GrowthLog, error)
	ListPlantGrowthLogs(ctx context.Context, plantID primitive.ObjectID) ([]domain.GrowthLog, error)
	// CreateGrowthLog requires the referenced photo, if any, to belong to
	// the same plant.
	CreateGrowthLog(ctx context.Context, plantID primitive.ObjectID, in GrowthLogInput) (*domain.GrowthLog, error)
	UpdateGrowthLog(ctx context.Context, id primitive.ObjectID, in GrowthLogUpdate) (*domain.GrowthLog, error)
	DeleteGrowthLog(ctx context.Context, id primitive.ObjectID) error
}

type growthLogService struct {
	plantRepo  repository.PlantRepository
	photoRepo  repository.PhotoRepository
	growthRepo repository.GrowthLogRepository
	now        Clock
}

func NewGrowthLogService(plantRepo repository.PlantRepository, photoRepo repository.PhotoRepository, growthRepo repository.GrowthLogRepository, now Clock) GrowthLogService {
	if now == nil {
		now = SystemClock
	}
	return &growthLogService{plantRepo: plantRepo, photoRepo: photoRepo, growthRepo: growthRepo, now: now}
}

func validateGrowthLog(g *domain.GrowthLog) error {
	if g.HealthStatus != "" && !g.HealthStatus.Valid() {
		return invalid("invalid health status %q, must be excellent, good, fair, or poor", g.HealthStatus)
	}
	if g.HeightCm != nil && *g.HeightCm < 0 {
		return invalid("height must not be negative")
	}
	if g.WidthCm != nil && *g.WidthCm < 0 {
		return invalid("width must not be negative")
	}
	return nil
}

func (s *growthLogService) checkPhoto(ctx context.Context, plantID primitive.ObjectID, photoID *primitive.ObjectID) error {
	if photoID == nil {
		return nil
	}
	photo, err := s.photoRepo.GetByID(ctx, *photoID)
	if err != nil {
		return notFoundAs(err, ErrPhotoNotFound)
	}
	if photo.PlantID != plantID {
		return invalid("photo does not belong to this plant")
	}
	return nil
}

func (s *growthLogService) GetGrowthLog(ctx context.Context, id primitive.ObjectID) (*domain.GrowthLog, error) {
	g, err := s.growthRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrGrowthLogNotFound)
	}
	return g, nil
}

func (s *growthLogService) ListPlantGrowthLogs(ctx context.Context, plantID primitive.ObjectID) ([]domain.GrowthLog, error) {
	if _, err := s.plantRepo.GetByID(ctx, plantID); err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}
	return s.growthRepo.ListByPlant(ctx, plantID)
}

func (s *growthLogService) CreateGrowthLog(ctx context.Context, plantID primitive.ObjectID, in GrowthLogInput) (*domain.GrowthLog, error) {
	g := &domain.GrowthLog{
		PlantID:      plantID,
		PhotoID:      in.PhotoID,
		MeasuredAt:   in.MeasuredAt.UTC(),
		HeightCm:     in.HeightCm,
		WidthCm:      in.WidthCm,
		HealthStatus: in.HealthStatus,
		Notes:        in.Notes,
	}
	if g.MeasuredAt.IsZero() {
		g.MeasuredAt = s.now()
	}
	if err := validateGrowthLog(g); err != nil {
		return nil, err
	}
	if _, err := s.plantRepo.GetByID(ctx, plantID); err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}
	if err := s.checkPhoto(ctx, plantID, in.PhotoID); err != nil {
		return nil, err
	}

	if _, err := s.growthRepo.Create(ctx, g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *growthLogService) UpdateGrowthLog(ctx context.Context, id primitive.ObjectID, in GrowthLogUpdate) (*domain.GrowthLog, error) {
	g, err := s.GetGrowthLog(ctx, id)
	if err != nil {
		return nil, err
	}

	switch {
	case in.ClearPhoto:
		g.PhotoID = nil
	case in.PhotoID != nil:
		if err := s.checkPhoto(ctx, g.PlantID, in.PhotoID); err != nil {
			return nil, err
		}
		g.PhotoID = in.PhotoID
	}
	if in.MeasuredAt != nil {
		g.MeasuredAt = in.MeasuredAt.UTC()
	}
	if in.HeightCm != nil {
		g.HeightCm = in.HeightCm
	}
	if in.WidthCm != nil {
		g.WidthCm = in.WidthCm
	}
	if in.HealthStatus != nil {
		g.HealthStatus = *in.HealthStatus
	}
	if in.Notes != nil {
		g.Notes = *in.Notes
	}
	if err := validateGrowthLog(g); err != nil {
		return nil, err
	}

	if err := s.growthRepo.Update(ctx, g); err != nil {
		return nil, notFoundAs(err, ErrGrowthLogNotFound)
	}
	return g, nil
}

func (s *growthLogService) DeleteGrowthLog(ctx context.Context, id primitive.ObjectID) error {
	return notFoundAs(s.growthRepo.Delete(ctx, id), ErrGrowthLogNotFound)
}
