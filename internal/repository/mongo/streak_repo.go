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

const streakStateCollectionName = "streak_states"

type mongoStreakStateRepository struct {
	collection *mongo.Collection
}

// NewMongoStreakStateRepository creates a new streak state repository.
// Streak states are keyed by client ID, one document per client.
func NewMongoStreakStateRepository(db *mongo.Database) repository.StreakStateRepository {
	return &mongoStreakStateRepository{
		collection: db.Collection(streakStateCollectionName),
	}
}

func (r *mongoStreakStateRepository) Get(ctx context.Context, clientID primitive.ObjectID) (*domain.StreakState, error) {
	var state domain.StreakState
	err := r.collection.FindOne(ctx, bson.M{"_id": clientID}).Decode(&state)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &state, nil
}

func (r *mongoStreakStateRepository) Upsert(ctx context.Context, state *domain.StreakState) error {
	if state.ClientID == primitive.NilObjectID {
		return errors.New("streak state requires clientId")
	}

	state.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"currentStreak":   state.CurrentStreak,
			"longestStreak":   state.LongestStreak,
			"lastWorkoutDate": state.LastWorkoutDate,
			"updatedAt":       state.UpdatedAt,
		},
	}
	opts := options.Update().SetUpsert(true)

	_, err := r.collection.UpdateOne(ctx, bson.M{"_id": state.ClientID}, update, opts)
	return err
}
