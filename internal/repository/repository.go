package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"peakform/coach-app/internal/domain"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	AddClientIDToCoach(ctx context.Context, coachID, clientID primitive.ObjectID) error
	GetClientsByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.User, error)
	SetCoachForClient(ctx context.Context, clientID, coachID primitive.ObjectID) error
}

// ExerciseRepository defines the interface for interacting with exercise data.
type ExerciseRepository interface {
	Create(ctx context.Context, exercise *domain.Exercise) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Exercise, error)
	GetByName(ctx context.Context, name string) (*domain.Exercise, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Exercise, error)
	Update(ctx context.Context, exercise *domain.Exercise) error
	Delete(ctx context.Context, id, coachID primitive.ObjectID) error
}

// ProgramRepository defines the interface for interacting with program data.
type ProgramRepository interface {
	Create(ctx context.Context, program *domain.Program) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Program, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]domain.Program, error)
	GetByCoachID(ctx context.Context, coachID primitive.ObjectID) ([]domain.Program, error)
}

// WorkoutDefinitionRepository manages the workout slots of a program,
// always returned ordered by sequence.
type WorkoutDefinitionRepository interface {
	Create(ctx context.Context, def *domain.WorkoutDefinition) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.WorkoutDefinition, error)
	GetByProgramID(ctx context.Context, programID primitive.ObjectID) ([]domain.WorkoutDefinition, error)
	GetByProgramIDs(ctx context.Context, programIDs []primitive.ObjectID) ([]domain.WorkoutDefinition, error)
	// CountPrimaryAt counts primary definitions occupying a (week, day)
	// cell of a program, for the one-primary-per-cell invariant.
	CountPrimaryAt(ctx context.Context, programID primitive.ObjectID, week, dayOfWeek int) (int64, error)
}

// EnrollmentRepository defines the interface for program enrollments.
type EnrollmentRepository interface {
	Create(ctx context.Context, enrollment *domain.ProgramEnrollment) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.ProgramEnrollment, error)
	// GetActiveByClientID returns active enrollments ordered by start
	// date ascending. Date-bound filtering is the caller's concern.
	GetActiveByClientID(ctx context.Context, clientID primitive.ObjectID) ([]domain.ProgramEnrollment, error)
	Deactivate(ctx context.Context, id primitive.ObjectID) error
}

// CompletionRepository persists workout completions. Upsert is keyed by
// (clientId, workoutId, scheduledDate) and must never duplicate.
type CompletionRepository interface {
	Upsert(ctx context.Context, completion *domain.CompletionRecord) (*domain.CompletionRecord, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.CompletionRecord, error)
	GetByClientAndDateRange(ctx context.Context, clientID primitive.ObjectID, start, end time.Time) ([]domain.CompletionRecord, error)
	GetRecentByClient(ctx context.Context, clientID primitive.ObjectID, limit int64) ([]domain.CompletionRecord, error)
}

// SetLogRepository persists the per-set performance records under a
// completion.
type SetLogRepository interface {
	// ReplaceForCompletion removes all set logs of a completion and
	// inserts the given ones, keeping resubmissions idempotent.
	ReplaceForCompletion(ctx context.Context, completionID primitive.ObjectID, sets []domain.SetLog) error
	// UpdateSet overwrites weight and reps for an existing
	// (completion, exercise, setNumber) key. Unmatched keys are ignored.
	UpdateSet(ctx context.Context, completionID, exerciseID primitive.ObjectID, setNumber int, weight *float64, reps *int) error
	GetByCompletionIDs(ctx context.Context, completionIDs []primitive.ObjectID) ([]domain.SetLog, error)
}

// StreakStateRepository caches the materialized streak projection.
type StreakStateRepository interface {
	Get(ctx context.Context, clientID primitive.ObjectID) (*domain.StreakState, error)
	Upsert(ctx context.Context, state *domain.StreakState) error
}

// ProgressPhotoRepository stores progress picture metadata.
type ProgressPhotoRepository interface {
	Create(ctx context.Context, photo *domain.ProgressPhoto) (primitive.ObjectID, error)
	GetRecentByClient(ctx context.Context, clientID primitive.ObjectID, limit int64) ([]domain.ProgressPhoto, error)
}

// PersonalBestRepository stores one best record per (client, exercise).
type PersonalBestRepository interface {
	GetByClient(ctx context.Context, clientID primitive.ObjectID) ([]domain.PersonalBest, error)
	GetByClientAndExercise(ctx context.Context, clientID, exerciseID primitive.ObjectID) (*domain.PersonalBest, error)
	Upsert(ctx context.Context, best *domain.PersonalBest) error
}
