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

const notificationCollectionName = "notifications"

// mongoNotificationRepository implements repository.NotificationRepository
type mongoNotificationRepository struct {
	collection *mongo.Collection
}

// NewMongoNotificationRepository creates a new Notification repository.
func NewMongoNotificationRepository(db *mongo.Database) repository.NotificationRepository {
	return &mongoNotificationRepository{
		collection: db.Collection(notificationCollectionName),
	}
}

// Create inserts a notification. The unique (plantId, type, day) index turns
// a second insert for the same day into repository.ErrDuplicate.
func (r *mongoNotificationRepository) Create(ctx context.Context, n *domain.Notification) (primitive.ObjectID, error) {
	if n.Type == "" || n.Day == "" {
		return primitive.NilObjectID, errors.New("notification requires type and day")
	}
	n.ID = primitive.NewObjectID()
	n.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, n)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoNotificationRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Notification, error) {
	return findOne[domain.Notification](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoNotificationRepository) List(ctx context.Context, skip, limit int64, unreadOnly bool) ([]domain.Notification, error) {
	filter := bson.M{}
	if unreadOnly {
		filter["isRead"] = false
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetSkip(skip)
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findMany[domain.Notification](ctx, r.collection, filter, opts)
}

func (r *mongoNotificationRepository) Exists(ctx context.Context, plantID primitive.ObjectID, kind domain.NotificationType, day string) (bool, error) {
	filter := bson.M{"plantId": plantID, "type": kind, "day": day}
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *mongoNotificationRepository) Stats(ctx context.Context) (domain.NotificationStats, error) {
	var stats domain.NotificationStats
	var err error
	if stats.Total, err = r.collection.CountDocuments(ctx, bson.M{}); err != nil {
		return stats, err
	}
	stats.Unread, err = r.collection.CountDocuments(ctx, bson.M{"isRead": false})
	return stats, err
}

func (r *mongoNotificationRepository) MarkRead(ctx context.Context, id primitive.ObjectID, at time.Time) (*domain.Notification, error) {
	update := bson.M{"$set": bson.M{"isRead": true, "readAt": at.UTC()}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var n domain.Notification
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, update, opts).Decode(&n)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &n, nil
}

func (r *mongoNotificationRepository) MarkAllRead(ctx context.Context, at time.Time) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"isRead": false},
		bson.M{"$set": bson.M{"isRead": true, "readAt": at.UTC()}},
	)
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

func (r *mongoNotificationRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	return deleteByID(ctx, r.collection, id)
}

func (r *mongoNotificationRepository) DeleteReadBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{
		"isRead": true,
		"readAt": bson.M{"$lt": cutoff.UTC()},
	})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// EnsureNotificationIndexes creates necessary indexes. Call during startup.
func EnsureNotificationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			// At most one notification per plant, type and day.
			Keys:    bson.D{{Key: "plantId", Value: 1}, {Key: "type", Value: 1}, {Key: "day", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"plantId": bson.M{"$exists": true}}),
		},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "isRead", Value: 1}, {Key: "readAt", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
