package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"peakform/coach-app/internal/domain"
	"peakform/coach-app/internal/repository"
)

const enrollmentCollectionName = "enrollments"

type mongoEnrollmentRepository struct {
	collection *mongo.Collection
}

// NewMongoEnrollmentRepository creates a new enrollment repository.
func NewMongoEnrollmentRepository(db *mongo.Database) repository.EnrollmentRepository {
	return &mongoEnrollmentRepository{
		collection: db.Collection(enrollmentCollectionName),
	}
}

func (r *mongoEnrollmentRepository) Create(ctx context.Context, enrollment *domain.ProgramEnrollment) (primitive.ObjectID, error) {
	if enrollment.ClientID == primitive.NilObjectID || enrollment.ProgramID == primitive.NilObjectID {
		return primitive.NilObjectID, errors.New("enrollment requires clientId and programId")
	}

	enrollment.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	enrollment.CreatedAt = now
	enrollment.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, enrollment)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted enrollment ID")
	}
	return insertedID, nil
}

func (r *mongoEnrollmentRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramEnrollment, error) {
	var enrollment domain.ProgramEnrollment
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&enrollment)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &enrollment, nil
}

func (r *mongoEnrollmentRepository) GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramEnrollment, error) {
	var enrollments []domain.ProgramEnrollment
	filter := bson.M{"clientId": clientID, "isActive": true}
	findOptions := options.Find().SetSort(bson.D{{Key: "startDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &enrollments); err != nil {
		return nil, err
	}
	return enrollments, nil
}

func (r *mongoEnrollmentRepository) Deactivate(ctx context.Context, id primitive.ObjectID) error {
	update := bson.M{
		"$set": bson.M{
			"isActive":  false,
			"updatedAt": time.Now().UTC(),
		},
	}

	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": id}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureEnrollmentIndexes creates indexes for the enrollments collection.
func EnsureEnrollmentIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "isActive", Value: 1}},
			Options: options.Index(),
		},
		{
			Keys:    bson.D{{Key: "programId", Value: 1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
