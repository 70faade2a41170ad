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

const (
	treatmentCollectionName   = "treatments"
	applicationCollectionName = "treatment_applications"
)

// mongoTreatmentRepository implements repository.TreatmentRepository.
// Applications live in their own collection.
type mongoTreatmentRepository struct {
	collection   *mongo.Collection
	applications *mongo.Collection
}

// NewMongoTreatmentRepository creates a new Treatment repository.
func NewMongoTreatmentRepository(db *mongo.Database) repository.TreatmentRepository {
	return &mongoTreatmentRepository{
		collection:   db.Collection(treatmentCollectionName),
		applications: db.Collection(applicationCollectionName),
	}
}

func (r *mongoTreatmentRepository) Create(ctx context.Context, treatment *domain.Treatment) (primitive.ObjectID, error) {
	if treatment.PlantID == primitive.NilObjectID || treatment.IssueName == "" {
		return primitive.NilObjectID, errors.New("treatment requires plantId and issueName")
	}
	treatment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	treatment.CreatedAt = now
	treatment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, treatment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoTreatmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Treatment, error) {
	return findOne[domain.Treatment](ctx, r.collection, bson.M{"_id": id})
}

func (r *mongoTreatmentRepository) ListByPlant(ctx context.Context, plantID primitive.ObjectID, status domain.TreatmentStatus) ([]domain.Treatment, error) {
	filter := bson.M{"plantId": plantID}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	return findMany[domain.Treatment](ctx, r.collection, filter, opts)
}

func (r *mongoTreatmentRepository) ListByStatus(ctx context.Context, status domain.TreatmentStatus) ([]domain.Treatment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: -1}})
	return findMany[domain.Treatment](ctx, r.collection, bson.M{"status": status}, opts)
}

func (r *mongoTreatmentRepository) CountByStatus(ctx context.Context, status domain.TreatmentStatus) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"status": status})
}

func (r *mongoTreatmentRepository) ListOverlapping(ctx context.Context, start, end time.Time) ([]domain.Treatment, error) {
	start, end = domain.DateOf(start), domain.DateOf(end)
	filter := bson.M{"$or": bson.A{
		bson.M{"startDate": bson.M{"$gte": start, "$lte": end}},
		bson.M{"endDate": bson.M{"$ne": nil, "$gte": start, "$lte": end}},
		bson.M{
			"startDate": bson.M{"$lte": start},
			"$or": bson.A{
				bson.M{"endDate": nil},
				bson.M{"endDate": bson.M{"$gte": end}},
			},
		},
	}}
	opts := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})
	return findMany[domain.Treatment](ctx, r.collection, filter, opts)
}

func (r *mongoTreatmentRepository) Update(ctx context.Context, treatment *domain.Treatment) error {
	treatment.UpdatedAt = time.Now().UTC()
	return replaceByID(ctx, r.collection, treatment.ID, treatment)
}

// Delete removes a treatment together with its applications.
func (r *mongoTreatmentRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.applications.DeleteMany(ctx, bson.M{"treatmentId": id}); err != nil {
		return err
	}
	return deleteByID(ctx, r.collection, id)
}

func (r *mongoTreatmentRepository) DeleteByPlant(ctx context.Context, plantID primitive.ObjectID) error {
	if _, err := r.applications.DeleteMany(ctx, bson.M{"plantId": plantID}); err != nil {
		return err
	}
	_, err := r.collection.DeleteMany(ctx, bson.M{"plantId": plantID})
	return err
}

func (r *mongoTreatmentRepository) CreateApplication(ctx context.Context, app *domain.TreatmentApplication) (primitive.ObjectID, error) {
	if app.TreatmentID == primitive.NilObjectID || app.PlantID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("application requires treatmentId and plantId")
	}
	app.ID = primitive.NewObjectID()
	app.CreatedAt = time.Now().UTC()
	if app.AppliedAt.IsZero() {
		app.AppliedAt = app.CreatedAt
	}

	result, err := r.applications.InsertOne(ctx, app)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(result)
}

func (r *mongoTreatmentRepository) ListApplications(ctx context.Context, treatmentID primitive.ObjectID) ([]domain.TreatmentApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appliedAt", Value: -1}})
	return findMany[domain.TreatmentApplication](ctx, r.applications, bson.M{"treatmentId": treatmentID}, opts)
}

func (r *mongoTreatmentRepository) ListApplicationsByPlant(ctx context.Context, plantID primitive.ObjectID) ([]domain.TreatmentApplication, error) {
	opts := options.Find().SetSort(bson.D{{Key: "appliedAt", Value: -1}})
	return findMany[domain.TreatmentApplication](ctx, r.applications, bson.M{"plantId": plantID}, opts)
}

// EnsureTreatmentIndexes creates necessary indexes. Call during startup.
func EnsureTreatmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "plantId", Value: 1}, {Key: "startDate", Value: -1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "startDate", Value: 1}, {Key: "endDate", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}

// EnsureApplicationIndexes creates necessary indexes. Call during startup.
func EnsureApplicationIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "treatmentId", Value: 1}, {Key: "appliedAt", Value: -1}}},
		{Keys: bson.D{{Key: "plantId", Value: 1}}},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
