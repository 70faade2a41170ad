package mongo

import (
	"context"
	"errors"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const careScheduleCollectionName = "care_schedules"

// mongoCareScheduleRepository implements repository.CareScheduleRepository.
// Watering and fertilization schedules share the collection, discriminated
// by kind.
type mongoCareScheduleRepository struct {
	collection *mongo.Collection
}

// NewMongoCareScheduleRepository creates a new CareSchedule repository.
func NewMongoCareScheduleRepository(db *mongo.Database) repository.CareScheduleRepository {
	return &mongoCareScheduleRepository{
		collection: db.Collection(careScheduleCollectionName),
	}
}

func (r *mongoCareScheduleRepository) Create(ctx context.Context, schedule *domain.CareSchedule) (primitive.ObjectID, error) {
	if schedule.PlantID == primitive.NilObjectID || !schedule.Kind.Valid() {
		return primitive.NilObjectID, errors.New("schedule requires plantId and a valid kind")
	}
	schedule.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, schedule)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoCareScheduleRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CareSchedule, error) {
	return findOne[domain.CareSchedule](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoCareScheduleRepository) ListByPlant(ctx context.Context, plantID primitive.ObjectID, kind domain.CareKind, activeOnly bool) ([]domain.CareSchedule, error) {
	filter := bson.M{"plantId": plantID, "kind": kind}
	if activeOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	return findMany[domain.CareSchedule](ctx, r.collection, filter, opts)
}

// ListActive returns in-effect schedules in insertion order, which the due
// selector relies on for its stable tie-break.
func (r *mongoCareScheduleRepository) ListActive(ctx context.Context, kind domain.CareKind, today time.Time) ([]domain.CareSchedule, error) {
	day := domain.DateOf(today)
	filter := bson.M{
		"kind":      kind,
		"isActive":  true,
		"startDate": bson.M{"$lte": day},
		"$or": bson.A{
			bson.M{"endDate": nil},
			bson.M{"endDate": bson.M{"$gte": day}},
		},
	}
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})
	return findMany[domain.CareSchedule](ctx, r.collection, filter, opts)
}

func (r *mongoCareScheduleRepository) Update(ctx context.Context, schedule *domain.CareSchedule) error {
	schedule.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.collection, schedule.ID, schedule)
}

func (r *mongoCareScheduleRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *mongoCareScheduleRepository) DeleteByPlant(ctx context.Context, plantID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"plantId": plantID})
	return err
}

// EnsureCareScheduleIndexes creates necessary indexes. Call during startup.
func EnsureCareScheduleIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "plantId", Value: 1}, {Key: "kind", Value: 1}}},
		{Keys: bson.D{{Key: "kind", Value: 1}, {Key: "isActive", Value: 1}, {Key: "startDate", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
