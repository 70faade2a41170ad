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

const careLogCollectionName = "care_logs"

// mongoCareLogRepository implements repository.CareLogRepository
type mongoCareLogRepository struct {
	collection *mongo.Collection
}

// NewMongoCareLogRepository creates a new CareLog repository.
func NewMongoCareLogRepository(db *mongo.Database) repository.CareLogRepository {
	return &mongoCareLogRepository{
		collection: db.Collection(careLogCollectionName),
	}
}

func (r *mongoCareLogRepository) Create(ctx context.Context, log *domain.CareLog) (primitive.ObjectID, error) {
	if log.PlantID == primitive.NilObjectID || !log.Kind.Valid() {
		return primitive.NilObjectID, errors.New("care log requires plantId and a valid kind")
	}
	log.ID = primitive.NewObjectID()
	log.CreatedAt = time.Now().UTC()
	if log.OccurredAt.IsZero() {
		log.OccurredAt = log.CreatedAt
	}

	result, err := r.collection.InsertOne(ctx, log)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoCareLogRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CareLog, error) {
	return findOne[domain.CareLog](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoCareLogRepository) ListByPlant(ctx context.Context, plantID primitive.ObjectID, kind domain.CareKind, limit int64) ([]domain.CareLog, error) {
	filter := bson.M{"plantId": plantID}
	if kind != "" {
		filter["kind"] = kind
	}
	opts := options.Find().SetSort(bson.D{{Key: "occurredAt", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findMany[domain.CareLog](ctx, r.collection, filter, opts)
}

func (r *mongoCareLogRepository) GetLatest(ctx context.Context, plantID primitive.ObjectID, kind domain.CareKind) (*domain.CareLog, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "occurredAt", Value: -1}})
	return findOne[domain.CareLog](ctx, r.collection, bson.M{"plantId": plantID, "kind": kind}, opts)
}

func (r *mongoCareLogRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *mongoCareLogRepository) DeleteByPlant(ctx context.Context, plantID primitive.ObjectID) error {
	_, err := r.collection.DeleteMany(ctx, bson.M{"plantId": plantID})
	return err
}

func (r *mongoCareLogRepository) DetachSchedule(ctx context.Context, scheduleID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"scheduleId": scheduleID},
		bson.M{"$unset": bson.M{"scheduleId": ""}},
	)
	return err
}

// EnsureCareLogIndexes creates necessary indexes. Call during startup.
func EnsureCareLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// Latest log per plant and kind drives every projection.
			Keys: bson.D{{Key: "plantId", Value: 1}, {Key: "kind", Value: 1}, {Key: "occurredAt", Value: -1}},
		},
		{Keys: bson.D{{Key: "scheduleId", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
