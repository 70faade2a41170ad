package mongo

import (
	"context"
	"errors"
	"log"
	"time"

	"alcyxob/plants-manager/internal/repository"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Default connection timeout
const defaultTimeout = 10 * time.Second

// ConnectDB establishes a connection to MongoDB using the provided URI.
// It returns the mongo.Client which can be used to access databases and collections.
func ConnectDB(uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	// Ping the primary: Connect succeeds even when the server is unreachable.
	pingCtx, pingCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer pingCancel()

	if err = client.Ping(pingCtx, readpref.Primary()); err != nil {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		_ = client.Disconnect(disconnectCtx)
		return nil, err
	}

	return client, nil
}

// DisconnectDB gracefully disconnects the MongoDB client.
func DisconnectDB(client *mongo.Client) error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultTimeout)
	defer cancel()
	return client.Disconnect(ctx)
}

// NewStore builds every MongoDB-backed repository on db.
func NewStore(db *mongo.Database) repository.Store {
	return repository.Store{
		Locations:     NewMongoLocationRepository(db),
		Plants:        NewMongoPlantRepository(db),
		CareSchedules: NewMongoCareScheduleRepository(db),
		CareLogs:      NewMongoCareLogRepository(db),
		Treatments:    NewMongoTreatmentRepository(db),
		Photos:        NewMongoPhotoRepository(db),
		GrowthLogs:    NewMongoGrowthLogRepository(db),
		Notifications: NewMongoNotificationRepository(db),
	}
}

// EnsureIndexes creates the indexes of every collection. Failures are logged
// and do not stop the server; the notification uniqueness index is the only
// one correctness depends on, and the sweep also checks before inserting.
func EnsureIndexes(ctx context.Context, db *mongo.Database) {
	ensure := map[string]func(context.Context, *mongo.Collection) error{
		locationCollectionName:     EnsureLocationIndexes,
		plantCollectionName:        EnsurePlantIndexes,
		careScheduleCollectionName: EnsureCareScheduleIndexes,
		careLogCollectionName:      EnsureCareLogIndexes,
		treatmentCollectionName:    EnsureTreatmentIndexes,
		applicationCollectionName:  EnsureApplicationIndexes,
		photoCollectionName:        EnsurePhotoIndexes,
		growthLogCollectionName:    EnsureGrowthLogIndexes,
		notificationCollectionName: EnsureNotificationIndexes,
	}
	for name, fn := range ensure {
		if err := fn(ctx, db.Collection(name)); err != nil {
			log.Printf("WARN: Failed to create indexes for collection %s: %v", name, err)
		}
	}
}

func insertedID(result *mongo.InsertOneResult) (primitive.ObjectID, error) {
	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted ID")
	}
	return id, nil
}

// findMany runs a Find and decodes every document. It never returns a nil
// slice, so empty results encode as [] in JSON.
func findMany[T any](ctx context.Context, c *mongo.Collection, filter interface{}, opts ...*options.FindOptions) ([]T, error) {
	cursor, err := c.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []T{}
	if err = cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func findOne[T any](ctx context.Context, c *mongo.Collection, filter interface{}, opts ...*options.FindOneOptions) (*T, error) {
	var v T
	if err := c.FindOne(ctx, filter, opts...).Decode(&v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &v, nil
}

func replaceByID(ctx context.Context, c *mongo.Collection, id primitive.ObjectID, doc interface{}) error {
	if id == primitive.NilObjectID {
		return errors.New("ID is required for update")
	}
	result, err := c.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func deleteByID(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) error {
	result, err := c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}
