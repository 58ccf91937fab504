package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/cache"
	"peakform/coach-app/internal/domain"
	"peakform/coach-app/internal/repository"
)

// --- Error Definitions ---
var (
	ErrExerciseNotFound     = errors.New("exercise not found")
	ErrExerciseAccessDenied = errors.New("access denied to modify or delete this exercise")
	ErrValidationFailed     = errors.New("exercise validation failed")
)

// --- Service Interface ---
type ExerciseService interface {
	CreateExercise(ctx context.Context, coachID primitive.ObjectID, name, description, muscleGroup, difficulty, videoURL, externalID string) (*domain.Exercise, error)
	GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error)
	GetExercisesByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Exercise, error)
	UpdateExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID, name, description, muscleGroup, difficulty, videoURL, externalID string) (*domain.Exercise, error)
	DeleteExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID) error
	// LookupExternalID resolves an exercise name to its external catalog
	// identifier, answering repeated lookups from an in-process cache.
	LookupExternalID(ctx context.Context, name string) (string, error)
}

// --- Service Implementation ---

// exerciseService implements the ExerciseService interface.
type exerciseService struct {
	exerciseRepo repository.ExerciseRepository
	lookupCache  cache.Cache
}

// NewExerciseService creates a new instance of exerciseService.
func NewExerciseService(exerciseRepo repository.ExerciseRepository, lookupCache cache.Cache) ExerciseService {
	return &exerciseService{
		exerciseRepo: exerciseRepo,
		lookupCache:  lookupCache,
	}
}

// CreateExercise handles the creation of a new exercise by a coach.
func (s *exerciseService) CreateExercise(ctx context.Context, coachID primitive.ObjectID, name, description, muscleGroup, difficulty, videoURL, externalID string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID is required to create an exercise")
	}

	exercise := &domain.Exercise{
		CoachID:     coachID,
		Name:        name,
		Description: description,
		MuscleGroup: muscleGroup,
		Difficulty:  difficulty,
		VideoURL:    videoURL,
		ExternalID:  externalID,
	}

	exerciseID, err := s.exerciseRepo.Create(ctx, exercise)
	if err != nil {
		return nil, err
	}
	// Fetch again so DB-populated timestamps come back in the response.
	return s.exerciseRepo.GetByID(ctx, exerciseID)
}

// GetExerciseByID retrieves a single exercise.
func (s *exerciseService) GetExerciseByID(ctx context.Context, exerciseID primitive.ObjectID) (*domain.Exercise, error) {
	exercise, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return exercise, nil
}

// GetExercisesByCoach retrieves all exercises in a coach's library.
func (s *exerciseService) GetExercisesByCoach(ctx context.Context, coachID primitive.ObjectID) ([]domain.Exercise, error) {
	if coachID == primitive.NilObjectID {
		return nil, errors.New("coach ID cannot be nil")
	}
	return s.exerciseRepo.GetByCoachID(ctx, coachID)
}

// UpdateExercise handles updating an existing exercise, ensuring ownership.
func (s *exerciseService) UpdateExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID, name, description, muscleGroup, difficulty, videoURL, externalID string) (*domain.Exercise, error) {
	if name == "" {
		return nil, ErrValidationFailed
	}
	if coachID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return nil, errors.New("coach ID and exercise ID are required")
	}

	existing, err := s.exerciseRepo.GetByID(ctx, exerciseID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	if existing.CoachID != coachID {
		return nil, ErrExerciseAccessDenied
	}

	existing.Name = name
	existing.Description = description
	existing.MuscleGroup = muscleGroup
	existing.Difficulty = difficulty
	existing.VideoURL = videoURL
	existing.ExternalID = externalID

	if err := s.exerciseRepo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrExerciseNotFound
		}
		return nil, err
	}
	return existing, nil
}

// DeleteExercise handles deleting an exercise, ensuring ownership.
// The repository filter includes the coach ID, so ownership is enforced at
// the DB level.
func (s *exerciseService) DeleteExercise(ctx context.Context, coachID, exerciseID primitive.ObjectID) error {
	if coachID == primitive.NilObjectID || exerciseID == primitive.NilObjectID {
		return errors.New("coach ID and exercise ID are required")
	}

	err := s.exerciseRepo.Delete(ctx, exerciseID, coachID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// Could be missing or owned by another coach; both read as
			// not found from this coach's point of view.
			return ErrExerciseNotFound
		}
		return err
	}
	return nil
}

// LookupExternalID resolves an exercise name to its external catalog ID.
func (s *exerciseService) LookupExternalID(ctx context.Context, name string) (string, error) {
	if name == "" {
		return "", ErrValidationFailed
	}

	cacheKey := "exercise-external:" + name
	if id, ok := s.lookupCache.Get(cacheKey); ok {
		return id, nil
	}

	exercise, err := s.exerciseRepo.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", ErrExerciseNotFound
		}
		return "", err
	}

	if exercise.ExternalID != "" {
		s.lookupCache.Set(cacheKey, exercise.ExternalID)
	}
	return exercise.ExternalID, nil
}
