package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProgramEnrollment attaches a client to a program for a bounded or
// open-ended date range. A client may have several concurrently active
// enrollments.
type ProgramEnrollment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ClientID      primitive.ObjectID `bson:"clientId" json:"clientId"`
	CoachID       primitive.ObjectID `bson:"coachId" json:"coachId"`
	ProgramID     primitive.ObjectID `bson:"programId" json:"programId"`
	StartDate     time.Time          `bson:"startDate" json:"startDate"`
	DurationWeeks int                `bson:"durationWeeks,omitempty" json:"durationWeeks,omitempty"` // 0 = open-ended
	IsActive      bool               `bson:"isActive" json:"isActive"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// EndDate returns the exclusive end of the enrollment window, or nil when
// the enrollment is open-ended.
func (e *ProgramEnrollment) EndDate() *time.Time {
	if e.DurationWeeks <= 0 {
		return nil
	}
	end := e.StartDate.AddDate(0, 0, e.DurationWeeks*7)
	return &end
}

// CoversDate reports whether the enrollment is in effect on the given
// calendar date. Inactive enrollments never cover any date.
func (e *ProgramEnrollment) CoversDate(date time.Time) bool {
	if !e.IsActive {
		return false
	}
	if date.Before(e.StartDate) {
		return false
	}
	if end := e.EndDate(); end != nil && !date.Before(*end) {
		return false
	}
	return true
}
