package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ActivityType categorizes a plan entry.
type ActivityType string

const (
	ActivityCourse        ActivityType = "course"
	ActivityBreak         ActivityType = "break"
	ActivityHRSession     ActivityType = "hr_session"
	ActivityMockInterview ActivityType = "mock_interview"
	ActivityEvent         ActivityType = "event"
	ActivityOther         ActivityType = "other"
)

// KnownActivityType reports whether t is one of the defined activity types.
func KnownActivityType(t ActivityType) bool {
	switch t {
	case ActivityCourse, ActivityBreak, ActivityHRSession, ActivityMockInterview, ActivityEvent, ActivityOther:
		return true
	}
	return false
}

// RequiresTrainer reports whether entries of this type must reference a trainer.
func (t ActivityType) RequiresTrainer() bool {
	return t == ActivityCourse || t == ActivityHRSession
}

// PlanEntry is a single scheduled activity occupying a time range on a
// specific date within a batch. Dates are ISO (YYYY-MM-DD) and times
// are 24-hour wall-clock strings (HH:MM) at minute granularity.
// The trainer is referenced by its stable user id; the display name is
// resolved against the user roster at read time.
type PlanEntry struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	BatchID      primitive.ObjectID  `bson:"batchId" json:"batchId"`
	Date         string              `bson:"date" json:"date"`
	StartTime    string              `bson:"startTime" json:"startTime"`
	EndTime      string              `bson:"endTime" json:"endTime"`
	ActivityType ActivityType        `bson:"activityType" json:"activityType"`
	ActivityName string              `bson:"activityName" json:"activityName"`
	TrainerID    *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"`
	Notes        string              `bson:"notes,omitempty" json:"notes,omitempty"`
	CreatedAt    time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time           `bson:"updatedAt" json:"updatedAt"`
}
