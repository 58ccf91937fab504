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

const completionCollectionName = "completions"

type mongoCompletionRepository struct {
	collection *mongo.Collection
}

// NewMongoCompletionRepository creates a new completion repository.
func NewMongoCompletionRepository(db *mongo.Database) repository.CompletionRepository {
	return &mongoCompletionRepository{
		collection: db.Collection(completionCollectionName),
	}
}

// Upsert writes a completion keyed by (clientId, workoutId, scheduledDate).
// A concurrent or repeated submission for the same key converges on a
// single record; the unique index backs this up at the DB level.
func (r *mongoCompletionRepository) Upsert(ctx context.Context, completion *domain.CompletionRecord) (*domain.CompletionRecord, error) {
	if completion.ClientID == primitive.NilObjectID || completion.WorkoutID == primitive.NilObjectID {
		return nil, errors.New("completion requires clientId and workoutId")
	}

	now := time.Now().UTC()
	filter := bson.M{
		"clientId":      completion.ClientID,
		"workoutId":     completion.WorkoutID,
		"scheduledDate": completion.ScheduledDate,
	}
	update := bson.M{
		"$set": bson.M{
			"enrollmentId": completion.EnrollmentID,
			"completedAt":  completion.CompletedAt,
			"updatedAt":    now,
		},
		"$setOnInsert": bson.M{
			"clientId":      completion.ClientID,
			"workoutId":     completion.WorkoutID,
			"scheduledDate": completion.ScheduledDate,
			"createdAt":     now,
		},
	}
	opts := options.FindOneAndUpdate().
		SetUpsert(true).
		SetReturnDocument(options.After)

	var stored domain.CompletionRecord
	if err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&stored); err != nil {
		return nil, err
	}
	return &stored, nil
}

func (r *mongoCompletionRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CompletionRecord, error) {
	var completion domain.CompletionRecord
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&completion)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &completion, nil
}

// GetByClientAndDateRange returns completions with scheduledDate in
// [start, end] inclusive, ordered by scheduledDate ascending.
func (r *mongoCompletionRepository) GetByClientAndDateRange(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.CompletionRecord, error) {
	var completions []domain.CompletionRecord
	filter := bson.M{
		"clientId":      clientID,
		"scheduledDate": bson.M{"$gte": start, "$lte": end},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "scheduledDate", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

func (r *mongoCompletionRepository) GetRecentByClient(ctx context.Context, clientID primitive.ObjectID, limit int64) ([]domain.CompletionRecord, error) {
	var completions []domain.CompletionRecord
	findOptions := options.Find().
		SetSort(bson.D{{Key: "scheduledDate", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &completions); err != nil {
		return nil, err
	}
	return completions, nil
}

// EnsureCompletionIndexes creates indexes for the completions collection.
// The unique compound index is what makes the write path idempotent under
// concurrent submissions.
func EnsureCompletionIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "clientId", Value: 1},
				{Key: "workoutId", Value: 1},
				{Key: "scheduledDate", Value: 1},
			},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "scheduledDate", Value: -1}},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
