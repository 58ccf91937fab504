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

const setLogCollectionName = "set_logs"

type mongoSetLogRepository struct {
	collection *mongo.Collection
}

// NewMongoSetLogRepository creates a new set log repository.
func NewMongoSetLogRepository(db *mongo.Database) repository.SetLogRepository {
	return &mongoSetLogRepository{
		collection: db.Collection(setLogCollectionName),
	}
}

// ReplaceForCompletion deletes existing set logs of the completion and
// inserts the given ones. Delete-then-insert keeps a resubmitted
// completion from double-counting its sets.
func (r *mongoSetLogRepository) ReplaceForCompletion(ctx context.Context, completionID primitive.ObjectID, sets []domain.SetLog) error {
	if completionID == primitive.NilObjectID {
		return errors.New("completion ID is required")
	}

	if _, err := r.collection.DeleteMany(ctx, bson.M{"completionId": completionID}); err != nil {
		return err
	}
	if len(sets) == 0 {
		return nil
	}

	now := time.Now().UTC()
	docs := make([]interface{}, 0, len(sets))
	for i := range sets {
		sets[i].ID = primitive.NewObjectID()
		sets[i].CompletionID = completionID
		sets[i].CreatedAt = now
		docs = append(docs, sets[i])
	}

	_, err := r.collection.InsertMany(ctx, docs)
	return err
}

// UpdateSet overwrites weight and reps for one (completion, exercise,
// setNumber) key. A key with no matching record is silently ignored; this
// operation never inserts.
func (r *mongoSetLogRepository) UpdateSet(ctx context.Context, completionID, exerciseID primitive.ObjectID, setNumber int, weight *float64, reps *int) error {
	filter := bson.M{
		"completionId": completionID,
		"exerciseId":   exerciseID,
		"setNumber":    setNumber,
	}
	update := bson.M{
		"$set": bson.M{
			"weight": weight,
			"reps":   reps,
		},
	}

	_, err := r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *mongoSetLogRepository) GetByCompletionIDs(ctx context.Context, completionIDs []primitive.ObjectID) ([]domain.SetLog, error) {
	if len(completionIDs) == 0 {
		return []domain.SetLog{}, nil
	}

	var sets []domain.SetLog
	filter := bson.M{"completionId": bson.M{"$in": completionIDs}}
	findOptions := options.Find().SetSort(bson.D{
		{Key: "completionId", Value: 1},
		{Key: "setNumber", Value: 1},
	})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &sets); err != nil {
		return nil, err
	}
	return sets, nil
}

// EnsureSetLogIndexes creates indexes for the set logs collection.
func EnsureSetLogIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "completionId", Value: 1},
				{Key: "exerciseId", Value: 1},
				{Key: "setNumber", Value: 1},
			},
			Options: options.Index(),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
