package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PersonalBest is the heaviest set a client has logged for an exercise,
// with an Epley-estimated one-rep max. One record per (client, exercise).
type PersonalBest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID       primitive.ObjectID `bson:"clientId" json:"clientId"`
	ExerciseID     primitive.ObjectID `bson:"exerciseId" json:"exerciseId"`
	Weight         float64            `bson:"weight" json:"weight"`
	Reps           int                `bson:"reps" json:"reps"`
	EstimatedOneRM float64            `bson:"estimatedOneRm" json:"estimatedOneRm"`
	AchievedAt     time.Time          `bson:"achievedAt" json:"achievedAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EstimateOneRM returns the Epley one-rep-max estimate for a set.
func EstimateOneRM(weight float64, reps int) float64 {
	if reps <= 1 {
		return weight
	}
	return weight * (1 + float64(reps)/30)
}
