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

const locationCollectionName = "locations"

// mongoLocationRepository implements repository.LocationRepository
type mongoLocationRepository struct {
	collection *mongo.Collection
}

// NewMongoLocationRepository creates a new Location repository backed by MongoDB.
func NewMongoLocationRepository(db *mongo.Database) repository.LocationRepository {
	return &mongoLocationRepository{
		collection: db.Collection(locationCollectionName),
	}
}

func (r *mongoLocationRepository) Create(ctx context.Context, location *domain.Location) (primitive.ObjectID, error) {
	if location.Name == "" || location.Type == "" {
		return primitive.NilObjectID, errors.New("location requires name and type")
	}
	location.ID = primitive.NewObjectID()
	location.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, location)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoLocationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Location, error) {
	return findOne[domain.Location](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoLocationRepository) List(ctx context.Context) ([]domain.Location, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}})
	return findMany[domain.Location](ctx, r.collection, bson.M{}, opts)
}

func (r *mongoLocationRepository) Update(ctx context.Context, location *domain.Location) error {
	return replaceByID(ctx, r.collection, location.ID, location)
}

func (r *mongoLocationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// EnsureLocationIndexes creates necessary indexes. Call during startup.
func EnsureLocationIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}},
	})
	return err
}
