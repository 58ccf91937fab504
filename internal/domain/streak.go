package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// StreakState is a materialized projection of a client's adherence streak.
// It is refreshed after completion writes; reads recompute from completion
// records, so this cache is never authoritative.
type StreakState struct {
	ClientID        primitive.ObjectID `bson:"_id" json:"clientId"`
	CurrentStreak   int                `bson:"currentStreak" json:"currentStreak"`
	LongestStreak   int                `bson:"longestStreak" json:"longestStreak"`
	LastWorkoutDate *time.Time         `bson:"lastWorkoutDate,omitempty" json:"lastWorkoutDate,omitempty"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}
