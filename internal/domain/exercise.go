package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Exercise represents a single exercise definition in a coach's library.
type Exercise struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CoachID     primitive.ObjectID `bson:"coachId" json:"coachId"`
	Name        string             `bson:"name" json:"name"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`

	MuscleGroup string `bson:"muscleGroup,omitempty" json:"muscleGroup,omitempty"` // e.g. "Chest", "Legs"
	Difficulty  string `bson:"difficulty,omitempty" json:"difficulty,omitempty"`   // e.g. "Novice", "Advanced"
	VideoURL    string `bson:"videoUrl,omitempty" json:"videoUrl,omitempty"`

	// Identifier of this exercise in the external movement catalog,
	// resolved lazily and cached (see service.ExerciseService).
	ExternalID string `bson:"externalId,omitempty" json:"externalId,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
