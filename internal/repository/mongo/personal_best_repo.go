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

const personalBestCollectionName = "personal_bests"

type mongoPersonalBestRepository struct {
	collection *mongo.Collection
}

// NewMongoPersonalBestRepository creates a new personal best repository.
func NewMongoPersonalBestRepository(db *mongo.Database) repository.PersonalBestRepository {
	return &mongoPersonalBestRepository{
		collection: db.Collection(personalBestCollectionName),
	}
}

func (r *mongoPersonalBestRepository) GetByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.PersonalBest, error) {
	var bests []domain.PersonalBest
	findOptions := options.Find().SetSort(bson.D{{Key: "estimatedOneRM", Value: -1}})

	cursor, err := r.collection.Find(ctx, bson.M{"clientId": clientID}, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &bests); err != nil {
		return nil, err
	}
	return bests, nil
}

func (r *mongoPersonalBestRepository) GetByClientAndExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID) (*domain.PersonalBest, error) {
	var best domain.PersonalBest
	filter := bson.M{"clientId": clientID, "exerciseId": exerciseID}
	err := r.collection.FindOne(ctx, filter).Decode(&best)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &best, nil
}

func (r *mongoPersonalBestRepository) Upsert(ctx context.Context, best *domain.PersonalBest) error {
	if best.ClientID == primitive.NilObjectID || best.ExerciseID == primitive.NilObjectID {
		return errors.New("personal best requires clientId and exerciseId")
	}

	now := time.Now().UTC()
	best.UpdatedAt = now
	filter := bson.M{"clientId": best.ClientID, "exerciseId": best.ExerciseID}
	update := bson.M{
		"$set": bson.M{
			"weight":         best.Weight,
			"reps":           best.Reps,
			"estimatedOneRM": best.EstimatedOneRM,
			"achievedAt":     best.AchievedAt,
			"updatedAt":      now,
		},
		"$setOnInsert": bson.M{
			"clientId":   best.ClientID,
			"exerciseId": best.ExerciseID,
			"createdAt":  now,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, filter, update, opts)
	return err
}

// EnsurePersonalBestIndexes creates indexes for the personal bests
// collection.
func EnsurePersonalBestIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "clientId", Value: 1}, {Key: "exerciseId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, err := collection.Indexes().CreateMany(ctx, indexes)
	return err
}
