package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Role type to distinguish between user roles
type Role string

// Define constants for roles
const (
	RoleAdmin     Role = "admin"
	RoleManager   Role = "manager"
	RoleTrainer   Role = "trainer"
	RoleCandidate Role = "candidate"
)

// TrainerEligibleRoles are the roles that may be referenced as the
// trainer of a plan entry and appear in the trainer roster.
var TrainerEligibleRoles = []Role{RoleAdmin, RoleManager, RoleTrainer}

// User represents a user in the system (staff member or trainee candidate).
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`    // Should be unique
	PasswordHash string             `bson:"passwordHash" json:"-"` // Never expose this via JSON
	Role         Role               `bson:"role" json:"role"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// IsTrainerEligible reports whether the user may be assigned as the
// trainer of a plan entry.
func (u *User) IsTrainerEligible() bool {
	for _, r := range TrainerEligibleRoles {
		if u.Role == r {
			return true
		}
	}
	return false
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
