package service

import (
	"context"
	"strings"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type TreatmentInput struct {
	IssueType     domain.IssueType
	IssueName     string
	TreatmentType domain.TreatmentType
	ProductName   string
	StartDate     time.Time // Zero means today
	EndDate       *time.Time
	Status        domain.TreatmentStatus // Empty means active
	Notes         string
}

// TreatmentUpdate carries a partial update; nil fields are left unchanged.
type TreatmentUpdate struct {
	IssueType     *domain.IssueType
	IssueName     *string
	TreatmentType *domain.TreatmentType
	ProductName   *string
	StartDate     *time.Time
	EndDate       *time.Time
	ClearEndDate  bool
	Status        *domain.TreatmentStatus
	Notes         *string
}

type ApplicationInput struct {
	AppliedAt time.Time // Zero means now
	Amount    string
	Notes     string
}

// TreatmentWithApplications is a treatment and its applications, newest first.
type TreatmentWithApplications struct {
	domain.Treatment
	Applications []domain.TreatmentApplication
}

type TreatmentService interface {
	GetTreatment(ctx context.Context, id primitive.ObjectID) (*TreatmentWithApplications, error)
	ListPlantTreatments(ctx context.Context, plantID primitive.ObjectID, status domain.TreatmentStatus) ([]domain.Treatment, error)
	ListActiveTreatments(ctx context.Context) ([]domain.Treatment, error)
	CreateTreatment(ctx context.Context, plantID primitive.ObjectID, in TreatmentInput) (*domain.Treatment, error)
	UpdateTreatment(ctx context.Context, id primitive.ObjectID, in TreatmentUpdate) (*domain.Treatment, error)
	// DeleteTreatment also removes the treatment's applications.
	DeleteTreatment(ctx context.Context, id primitive.ObjectID) error
	ListApplications(ctx context.Context, treatmentID primitive.ObjectID) ([]domain.TreatmentApplication, error)
	CreateApplication(ctx context.Context, treatmentID primitive.ObjectID, in ApplicationInput) (*domain.TreatmentApplication, error)
}

type treatmentService struct {
	plantRepo     repository.PlantRepository
	treatmentRepo repository.TreatmentRepository
	now           Clock
}

func NewTreatmentService(plantRepo repository.PlantRepository, treatmentRepo repository.TreatmentRepository, now Clock) TreatmentService {
	if now == nil {
		now = SystemClock
	}
	return &treatmentService{plantRepo: plantRepo, treatmentRepo: treatmentRepo, now: now}
}

func validateTreatment(t *domain.Treatment) error {
	if strings.TrimSpace(t.IssueName) == "" {
		return invalid("issue name is required")
	}
	if !t.IssueType.Valid() {
		return invalid("invalid issue type %q, must be pest or disease", t.IssueType)
	}
	if !t.TreatmentType.Valid() {
		return invalid("invalid treatment type %q, must be chemical, organic, manual, or biological", t.TreatmentType)
	}
	if !t.Status.Valid() {
		return invalid("invalid status %q, must be active, completed, or cancelled", t.Status)
	}
	return checkDateRange(t.StartDate, t.EndDate)
}

func (s *treatmentService) GetTreatment(ctx context.Context, id primitive.ObjectID) (*TreatmentWithApplications, error) {
	t, err := s.treatmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTreatmentNotFound)
	}
	apps, err := s.treatmentRepo.ListApplications(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TreatmentWithApplications{Treatment: *t, Applications: apps}, nil
}

func (s *treatmentService) ListPlantTreatments(ctx context.Context, plantID primitive.ObjectID, status domain.TreatmentStatus) ([]domain.Treatment, error) {
	if status != "" && !status.Valid() {
		return nil, invalid("invalid status %q, must be active, completed, or cancelled", status)
	}
	if _, err := s.plantRepo.GetByID(ctx, plantID); err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}
	return s.treatmentRepo.ListByPlant(ctx, plantID, status)
}

func (s *treatmentService) ListActiveTreatments(ctx context.Context) ([]domain.Treatment, error) {
	return s.treatmentRepo.ListByStatus(ctx, domain.TreatmentActive)
}

func (s *treatmentService) CreateTreatment(ctx context.Context, plantID primitive.ObjectID, in TreatmentInput) (*domain.Treatment, error) {
	t := &domain.Treatment{
		PlantID:       plantID,
		IssueType:     in.IssueType,
		IssueName:     strings.TrimSpace(in.IssueName),
		TreatmentType: in.TreatmentType,
		ProductName:   in.ProductName,
		StartDate:     domain.DateOf(in.StartDate),
		Status:        in.Status,
		Notes:         in.Notes,
	}
	if in.StartDate.IsZero() {
		t.StartDate = domain.DateOf(s.now())
	}
	if in.EndDate != nil {
		end := domain.DateOf(*in.EndDate)
		t.EndDate = &end
	}
	if t.Status == "" {
		t.Status = domain.TreatmentActive
	}
	if err := validateTreatment(t); err != nil {
		return nil, err
	}
	if _, err := s.plantRepo.GetByID(ctx, plantID); err != nil {
		return nil, notFoundAs(err, ErrPlantNotFound)
	}

	if _, err := s.treatmentRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

func (s *treatmentService) UpdateTreatment(ctx context.Context, id primitive.ObjectID, in TreatmentUpdate) (*domain.Treatment, error) {
	t, err := s.treatmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundAs(err, ErrTreatmentNotFound)
	}

	if in.IssueType != nil {
		t.IssueType = *in.IssueType
	}
	if in.IssueName != nil {
		t.IssueName = strings.TrimSpace(*in.IssueName)
	}
	if in.TreatmentType != nil {
		t.TreatmentType = *in.TreatmentType
	}
	if in.ProductName != nil {
		t.ProductName = *in.ProductName
	}
	if in.StartDate != nil {
		t.StartDate = domain.DateOf(*in.StartDate)
	}
	switch {
	case in.ClearEndDate:
		t.EndDate = nil
	case in.EndDate != nil:
		end := domain.DateOf(*in.EndDate)
		t.EndDate = &end
	}
	if in.Status != nil {
		t.Status = *in.Status
	}
	if in.Notes != nil {
		t.Notes = *in.Notes
	}
	if err := validateTreatment(t); err != nil {
		return nil, err
	}

	if err := s.treatmentRepo.Update(ctx, t); err != nil {
		return nil, notFoundAs(err, ErrTreatmentNotFound)
	}
	return t, nil
}

func (s *treatmentService) DeleteTreatment(ctx context.Context, id primitive.ObjectID) error {
	return notFoundAs(s.treatmentRepo.Delete(ctx, id), ErrTreatmentNotFound)
}

func (s *treatmentService) ListApplications(ctx context.Context, treatmentID primitive.ObjectID) ([]domain.TreatmentApplication, error) {
	if _, err := s.treatmentRepo.GetByID(ctx, treatmentID); err != nil {
		return nil, notFoundAs(err, ErrTreatmentNotFound)
	}
	return s.treatmentRepo.ListApplications(ctx, treatmentID)
}

func (s *treatmentService) CreateApplication(ctx context.Context, treatmentID primitive.ObjectID, in ApplicationInput) (*domain.TreatmentApplication, error) {
	t, err := s.treatmentRepo.GetByID(ctx, treatmentID)
	if err != nil {
		return nil, notFoundAs(err, ErrTreatmentNotFound)
	}

	app := &domain.TreatmentApplication{
		TreatmentID: t.ID,
		PlantID:     t.PlantID,
		AppliedAt:   in.AppliedAt.UTC(),
		Amount:      in.Amount,
		Notes:       in.Notes,
	}
	if app.AppliedAt.IsZero() {
		app.AppliedAt = s.now()
	}
	if _, err := s.treatmentRepo.CreateApplication(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}
