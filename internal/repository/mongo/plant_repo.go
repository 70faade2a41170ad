package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"alcyxob/plants-manager/internal/domain"
	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const plantCollectionName = "plants"

// mongoPlantRepository implements repository.PlantRepository
type mongoPlantRepository struct {
	collection *mongo.Collection
}

// NewMongoPlantRepository creates a new Plant repository backed by MongoDB.
func NewMongoPlantRepository(db *mongo.Database) repository.PlantRepository {
	return &mongoPlantRepository{
		collection: db.Collection(plantCollectionName),
	}
}

// Create inserts a new plant into the database.
func (r *mongoPlantRepository) Create(ctx context.Context, plant *domain.Plant) (primitive.ObjectID, error) {
	if plant.Name == "" || plant.Type == "" || plant.Category == "" {
		return primitive.NilObjectID, errors.New("plant name, type, and category are required")
	}

	plant.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	plant.CreatedAt = now
	plant.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, plant)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoPlantRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Plant, error) {
	return findOne[domain.Plant](ctx, r.collection, bson.M{"_id": id})
}

// List returns plants matching filter, ordered by name.
func (r *mongoPlantRepository) List(ctx context.Context, filter domain.PlantFilter) ([]domain.Plant, error) {
	query := bson.M{}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.LocationID != nil {
		query["locationId"] = *filter.LocationID
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetSkip(filter.Skip)
	if filter.Limit > 0 {
		opts.SetLimit(filter.Limit)
	}
	return findMany[domain.Plant](ctx, r.collection, query, opts)
}

func (r *mongoPlantRepository) Search(ctx context.Context, query string, limit int64) ([]domain.Plant, error) {
	pattern := primitive.Regex{Pattern: regexp.QuoteMeta(query), Options: "i"}
	filter := bson.M{"$or": bson.A{
		bson.M{"name": pattern},
		bson.M{"scientificName": pattern},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}}).SetLimit(limit)
	return findMany[domain.Plant](ctx, r.collection, filter, opts)
}

func (r *mongoPlantRepository) ListByAcquisitionDate(ctx context.Context, start, end time.Time) ([]domain.Plant, error) {
	filter := bson.M{"acquisitionDate": bson.M{"$gte": domain.DateOf(start), "$lte": domain.DateOf(end)}}
	opts := options.Find().SetSort(bson.D{{Key: "acquisitionDate", Value: 1}})
	return findMany[domain.Plant](ctx, r.collection, filter, opts)
}

func (r *mongoPlantRepository) Update(ctx context.Context, plant *domain.Plant) error {
	plant.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.collection, plant.ID, plant)
}

func (r *mongoPlantRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *mongoPlantRepository) Count(ctx context.Context) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{})
}

func (r *mongoPlantRepository) CountByLocation(ctx context.Context, locationID primitive.ObjectID) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"locationId": locationID})
}

type groupCount[K any] struct {
	Key   K     `bson:"_id"`
	Count int64 `bson:"count"`
}

func (r *mongoPlantRepository) group(ctx context.Context, match bson.M, field string, out interface{}) error {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$" + field},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)
	return cursor.All(ctx, out)
}

func (r *mongoPlantRepository) CountByType(ctx context.Context) (map[domain.PlantType]int64, error) {
	var rows []groupCount[domain.PlantType]
	if err := r.group(ctx, bson.M{}, "type", &rows); err != nil {
		return nil, err
	}
	counts := make(map[domain.PlantType]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

func (r *mongoPlantRepository) CountPerLocation(ctx context.Context) (map[primitive.ObjectID]int64, error) {
	var rows []groupCount[primitive.ObjectID]
	match := bson.M{"locationId": bson.M{"$ne": nil}}
	if err := r.group(ctx, match, "locationId", &rows); err != nil {
		return nil, err
	}
	counts := make(map[primitive.ObjectID]int64, len(rows))
	for _, row := range rows {
		counts[row.Key] = row.Count
	}
	return counts, nil
}

// EnsurePlantIndexes creates necessary indexes. Call during startup.
func EnsurePlantIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "name", Value: 1}}},
		{Keys: bson.D{{Key: "locationId", Value: 1}}},
		{Keys: bson.D{{Key: "type", Value: 1}, {Key: "category", Value: 1}}},
		{Keys: bson.D{{Key: "acquisitionDate", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
