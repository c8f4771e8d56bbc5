package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EventType distinguishes holidays from special events.
type EventType string

const (
	EventHoliday EventType = "holiday"
	EventSpecial EventType = "event"
)

// KnownEventType reports whether t is a defined event type.
func KnownEventType(t EventType) bool {
	return t == EventHoliday || t == EventSpecial
}

// BatchEvent marks a date as a holiday or special event for a batch.
// While present, the date accepts no new plan entries; entries already
// scheduled there are left untouched and removing the event restores
// normal scheduling. At most one event may exist per (batch, date),
// enforced with a unique index at the persistence layer.
type BatchEvent struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BatchID     primitive.ObjectID `bson:"batchId" json:"batchId"`
	Date        string             `bson:"date" json:"date"`
	EventType   EventType          `bson:"eventType" json:"eventType"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
