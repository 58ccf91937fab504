package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduledDateLayout is the wire and storage format for calendar dates.
const ScheduledDateLayout = "2006-01-02"

// CompletionRecord marks a workout as completed by a client on a given
// scheduled date. The (clientId, workoutId, scheduledDate) triple is unique:
// a resubmission updates the existing record instead of duplicating it.
// ScheduledDate is stored as UTC midnight of the calendar date the workout
// was due.
type CompletionRecord struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID  `bson:"clientId" json:"clientId"`
	WorkoutID     primitive.ObjectID  `bson:"workoutId" json:"workoutId"`
	EnrollmentID  *primitive.ObjectID `bson:"enrollmentId,omitempty" json:"enrollmentId,omitempty"`
	ScheduledDate time.Time           `bson:"scheduledDate" json:"scheduledDate"`
	CompletedAt   time.Time           `bson:"completedAt" json:"completedAt"`
	CreatedAt     time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// SetLog is one performed set under a completion: weight x reps for an
// exercise. Weight and Reps may be absent and count as zero for tonnage.
type SetLog struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CompletionID primitive.ObjectID `bson:"completionId" json:"completionId"`
	ExerciseID   primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	SetNumber    int                `bson:"setNumber" json:"setNumber"`
	Weight       *float64           `bson:"weight,omitempty" json:"weight,omitempty"`
	Reps         *int               `bson:"reps,omitempty" json:"reps,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
}
