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

const growthLogCollectionName = "growth_logs"

// mongoGrowthLogRepository implements repository.GrowthLogRepository
type mongoGrowthLogRepository struct {
	collection *mongo.Collection
}

// NewMongoGrowthLogRepository creates a new GrowthLog repository.
func NewMongoGrowthLogRepository(db *mongo.Database) repository.GrowthLogRepository {
	return &mongoGrowthLogRepository{
		collection: db.Collection(growthLogCollectionName),
	}
}

func (r *mongoGrowthLogRepository) Create(ctx context.Context, log *domain.GrowthLog) (primitive.ObjectID, error) {
	if log.PlantID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("growth log requires plantId")
	}
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()
	if log.MeasuredAt.IsZero() {
		log.MeasuredAt = log.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoGrowthLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.GrowthLog, error) {
	return findOne[domain.GrowthLog](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoGrowthLogRepository) ListByPlant(ctx context.Context, plantID primitive.ObjectID) ([]domain.GrowthLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "measuredAt", Value: -1}})
	return findMany[domain.GrowthLog](ctx, r.collection, bson.M{"plantId": plantID}, opts)
}

func (r *mongoGrowthLogRepository) Update(ctx context.Context, log *domain.GrowthLog) error {
	return replaceByID(ctx, r.collection, log.ID, log)
}

func (r *mongoGrowthLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *mongoGrowthLogRepository) DeleteByPlant(ctx context.Context, plantID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"plantId": plantID})
	return err
}

func (r *mongoGrowthLogRepository) ClearPhoto(ctx context.Context, photoID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"photoId": photoID},
		bson.M{"$unset": bson.M{"photoId": ""}},
	)
	return err
}

// EnsureGrowthLogIndexes creates necessary indexes. Call during startup.
func EnsureGrowthLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "plantId", Value: 1}, {Key: "measuredAt", Value: -1}}},
		{Keys: bson.D{{Key: "photoId", Value: 1}}, Options: options.Index().SetSparse(true)},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
