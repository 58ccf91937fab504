package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/cache"
	"peakform/coach-app/internal/domain"
)

func TestLookupExternalIDCachesHits(t *testing.T) {
	ctx := context.Background()
	repo := newFakeExerciseRepo()
	svc := NewExerciseService(repo, cache.NewFreecache(1, time.Minute))

	coachID := primitive.NewObjectID()
	_, err := repo.Create(ctx, &domain.Exercise{
		CoachID:    coachID,
		Name:       "Back Squat",
		ExternalID: "ext-0042",
	})
	require.NoError(t, err)

	id, err := svc.LookupExternalID(ctx, "Back Squat")
	require.NoError(t, err)
	assert.Equal(t, "ext-0042", id)
	assert.Equal(t, 1, repo.getCalls)

	// Second lookup answers from the cache.
	id, err = svc.LookupExternalID(ctx, "Back Squat")
	require.NoError(t, err)
	assert.Equal(t, "ext-0042", id)
	assert.Equal(t, 1, repo.getCalls)

	_, err = svc.LookupExternalID(ctx, "Unknown Movement")
	assert.ErrorIs(t, err, ErrExerciseNotFound)
}

func TestUpdateExerciseEnforcesOwnership(t *testing.T) {
	ctx := context.Background()
	repo := newFakeExerciseRepo()
	svc := NewExerciseService(repo, cache.NewFreecache(1, time.Minute))

	coachID := primitive.NewObjectID()
	created, err := svc.CreateExercise(ctx, coachID, "Deadlift", "", "Back", "Advanced", "", "")
	require.NoError(t, err)

	_, err = svc.UpdateExercise(ctx, primitive.NewObjectID(), created.ID, "Deadlift", "", "Back", "Advanced", "", "")
	assert.ErrorIs(t, err, ErrExerciseAccessDenied)

	err = svc.DeleteExercise(ctx, primitive.NewObjectID(), created.ID)
	assert.ErrorIs(t, err, ErrExerciseNotFound)

	require.NoError(t, svc.DeleteExercise(ctx, coachID, created.ID))
}
