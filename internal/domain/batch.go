package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is reference data scoped to a batch. Its name populates the
// course selector and scopes the per-course daily cap.
type Course struct {
	Name      string              `bson:"name" json:"name"`
	TrainerID *primitive.ObjectID `bson:"trainerId,omitempty" json:"trainerId,omitempty"` // Optional default trainer
}

// Batch represents a cohort of trainees training over a bounded
// calendar window. StartDate and EndDate are ISO calendar dates
// (YYYY-MM-DD) and the window is inclusive on both ends.
type Batch struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Code      string             `bson:"code" json:"code"` // Public identifier, e.g. "BT-2024-07"
	StartDate string             `bson:"startDate" json:"startDate"`
	EndDate   string             `bson:"endDate" json:"endDate"`
	Courses   []Course           `bson:"courses,omitempty" json:"courses,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// CourseNames returns the configured course names for selector and
// validation use.
func (b *Batch) CourseNames() []string {
	names := make([]string, 0, len(b.Courses))
	for _, c := range b.Courses {
		names = append(names, c.Name)
	}
	return names
}

// ContainsDate reports whether the given ISO date falls inside the
// batch window (inclusive). Lexicographic comparison is valid for
// YYYY-MM-DD strings.
func (b *Batch) ContainsDate(date string) bool {
	return date >= b.StartDate && date <= b.EndDate
}

// HasCourse reports whether name is one of the batch's configured courses.
func (b *Batch) HasCourse(name string) bool {
	for _, c := range b.Courses {
		if c.Name == name {
			return true
		}
	}
	return false
}
