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

const photoCollectionName = "photos"

// mongoPhotoRepository implements repository.PhotoRepository
type mongoPhotoRepository struct {
	collection *mongo.Collection
}

// NewMongoPhotoRepository creates a new Photo repository backed by MongoDB.
func NewMongoPhotoRepository(db *mongo.Database) repository.PhotoRepository {
	return &mongoPhotoRepository{
		collection: db.Collection(photoCollectionName),
	}
}

// Create inserts new photo metadata into the database.
func (r *mongoPhotoRepository) Create(ctx context.Context, photo *domain.Photo) (primitive.ObjectID, error) {
	if photo.PlantID == primitive.NilObjectID || photo.FilePath == "" {
		return primitive.NilObjectID, errors.New("photo requires plantId and filePath")
	}
	photo.ID = primitive.NewObjectID()
	photo.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, photo)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoPhotoRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Photo, error) {
	return findOne[domain.Photo](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoPhotoRepository) ListByPlant(ctx context.Context, plantID primitive.ObjectID) ([]domain.Photo, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	return findMany[domain.Photo](ctx, r.collection, bson.M{"plantId": plantID}, opts)
}

func (r *mongoPhotoRepository) Update(ctx context.Context, photo *domain.Photo) error {
	return replaceByID(ctx, r.collection, photo.ID, photo)
}

func (r *mongoPhotoRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

// EnsurePhotoIndexes creates necessary indexes for the photos collection.
func EnsurePhotoIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "plantId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{
			// Object keys are generated per upload and never shared.
			Keys:    bson.D{{Key: "filePath", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
