package repository

import (
	"context"
	"time"

	"alcyxob/plants-manager/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound  = RepositoryError("not found")
	ErrDuplicate = RepositoryError("duplicate key")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// LocationRepository stores plant locations.
type LocationRepository interface {
	Create(ctx context.Context, location *domain.Location) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Location, error)
	List(ctx context.Context) ([]domain.Location, error) // Sorted by name
	Update(ctx context.Context, location *domain.Location) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// PlantRepository stores plants. Deleting a plant does not touch its
// children; the service removes those first.
type PlantRepository interface {
	Create(ctx context.Context, plant *domain.Plant) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plant, error)
	List(ctx context.Context, filter domain.PlantFilter) ([]domain.Plant, error)
	// Search matches name or scientific name, case-insensitively.
	Search(ctx context.Context, query string, limit int64) ([]domain.Plant, error)
	ListByAcquisitionDate(ctx context.Context, start, end time.Time) ([]domain.Plant, error)
	Update(ctx context.Context, plant *domain.Plant) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	Count(ctx context.Context) (int64, error)
	CountByLocation(ctx context.Context, locationID primitive.ObjectID) (int64, error)
	CountByType(ctx context.Context) (map[domain.PlantType]int64, error)
	// CountPerLocation groups plants by location; plants without one are left out.
	CountPerLocation(ctx context.Context) (map[primitive.ObjectID]int64, error)
}

// CareScheduleRepository stores watering and fertilization schedules.
type CareScheduleRepository interface {
	Create(ctx context.Context, schedule *domain.CareSchedule) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CareSchedule, error)
	ListByPlant(ctx context.Context, plantID primitive.ObjectID, kind domain.CareKind, activeOnly bool) ([]domain.CareSchedule, error)
	// ListActive returns the schedules of a kind that are active and whose
	// date bounds contain today.
	ListActive(ctx context.Context, kind domain.CareKind, today time.Time) ([]domain.CareSchedule, error)
	Update(ctx context.Context, schedule *domain.CareSchedule) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlant(ctx context.Context, plantID primitive.ObjectID) error
}

// CareLogRepository stores completed care actions.
type CareLogRepository interface {
	Create(ctx context.Context, log *domain.CareLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CareLog, error)
	// ListByPlant returns newest first. An empty kind means every kind; a
	// limit of 0 means no limit.
	ListByPlant(ctx context.Context, plantID primitive.ObjectID, kind domain.CareKind, limit int64) ([]domain.CareLog, error)
	// GetLatest returns the most recent log of a kind for a plant, whatever
	// schedule it was recorded against, or ErrNotFound.
	GetLatest(ctx context.Context, plantID primitive.ObjectID, kind domain.CareKind) (*domain.CareLog, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlant(ctx context.Context, plantID primitive.ObjectID) error
	// DetachSchedule clears the weak schedule reference of its logs.
	DetachSchedule(ctx context.Context, scheduleID primitive.ObjectID) error
}

// TreatmentRepository stores treatments and their applications.
type TreatmentRepository interface {
	Create(ctx context.Context, treatment *domain.Treatment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Treatment, error)
	// ListByPlant returns treatments by start date, newest first. An empty
	// status means any status.
	ListByPlant(ctx context.Context, plantID primitive.ObjectID, status domain.TreatmentStatus) ([]domain.Treatment, error)
	ListByStatus(ctx context.Context, status domain.TreatmentStatus) ([]domain.Treatment, error)
	CountByStatus(ctx context.Context, status domain.TreatmentStatus) (int64, error)
	// ListOverlapping returns treatments whose start or end date lies in
	// [start, end], or which began before the range and end after it or not at all.
	ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Treatment, error)
	Update(ctx context.Context, treatment *domain.Treatment) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlant(ctx context.Context, plantID primitive.ObjectID) error

	CreateApplication(ctx context.Context, app *domain.TreatmentApplication) (primitive.ObjectID, error)
	ListApplications(ctx context.Context, treatmentID primitive.ObjectID) ([]domain.TreatmentApplication, error)
	ListApplicationsByPlant(ctx context.Context, plantID primitive.ObjectID) ([]domain.TreatmentApplication, error)
}

// PhotoRepository stores photo metadata.
type PhotoRepository interface {
	Create(ctx context.Context, photo *domain.Photo) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Photo, error)
	ListByPlant(ctx context.Context, plantID primitive.ObjectID) ([]domain.Photo, error) // Newest first
	Update(ctx context.Context, photo *domain.Photo) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// GrowthLogRepository stores growth measurements.
type GrowthLogRepository interface {
	Create(ctx context.Context, log *domain.GrowthLog) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GrowthLog, error)
	ListByPlant(ctx context.Context, plantID primitive.ObjectID) ([]domain.GrowthLog, error) // Newest first
	Update(ctx context.Context, log *domain.GrowthLog) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteByPlant(ctx context.Context, plantID primitive.ObjectID) error
	// ClearPhoto drops the weak photo reference from the logs pointing at it.
	ClearPhoto(ctx context.Context, photoID primitive.ObjectID) error
}

// NotificationRepository stores in-app notifications.
type NotificationRepository interface {
	// Create returns ErrDuplicate when a notification of the same type for
	// the same plant and day already exists.
	Create(ctx context.Context, n *domain.Notification) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error)
	List(ctx context.Context, skip, limit int64, unreadOnly bool) ([]domain.Notification, error) // Newest first
	Exists(ctx context.Context, plantID primitive.ObjectID, kind domain.NotificationType, day string) (bool, error)
	Stats(ctx context.Context) (domain.NotificationStats, error)
	MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) (*domain.Notification, error)
	MarkAllRead(ctx context.Context, at time.Time) (int64, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
	// DeleteReadBefore removes read notifications whose read time is before cutoff.
	DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Store bundles every repository so a backend can be passed around as one value.
type Store struct {
	Locations     LocationRepository
	Plants        PlantRepository
	CareSchedules CareScheduleRepository
	CareLogs      CareLogRepository
	Treatments    TreatmentRepository
	Photos        PhotoRepository
	GrowthLogs    GrowthLogRepository
	Notifications NotificationRepository
}
