package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Program is a multi-week training program authored by a coach.
// Clients are attached to programs via ProgramEnrollment.
type Program struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name          string             `bson:"name" json:"name"`
	Description   string             `bson:"description,omitempty" json:"description,omitempty"`
	DurationWeeks int                `bson:"durationWeeks" json:"durationWeeks"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// WorkoutDefinition is one workout slot within a program. A definition with
// a nil ParentWorkoutID is a primary workout and occupies a (week, weekday)
// cell; a definition with a ParentWorkoutID is a finisher attached to that
// primary and carries no grid position of its own.
type WorkoutDefinition struct {
	ID              primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ProgramID       primitive.ObjectID  `bson:"programId" json:"programId"`
	Name            string              `bson:"name" json:"name"`
	WeekNumber      int                 `bson:"weekNumber,omitempty" json:"weekNumber,omitempty"`
	DayOfWeek       *int                `bson:"dayOfWeek,omitempty" json:"dayOfWeek,omitempty"` // 0 (Sun) - 6 (Sat), nil = unscheduled
	Sequence        int                 `bson:"sequence" json:"sequence"`
	ParentWorkoutID *primitive.ObjectID `bson:"parentWorkoutId,omitempty" json:"parentWorkoutId,omitempty"`
	Notes           string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt       time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// IsFinisher reports whether this definition is a finisher attached to a
// primary workout.
func (w *WorkoutDefinition) IsFinisher() bool {
	return w.ParentWorkoutID != nil && *w.ParentWorkoutID != primitive.NilObjectID
}

// EffectiveWeek returns the week number, defaulting to 1 when unset.
func (w *WorkoutDefinition) EffectiveWeek() int {
	if w.WeekNumber < 1 {
		return 1
	}
	return w.WeekNumber
}
