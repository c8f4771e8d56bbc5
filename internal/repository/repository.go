package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
)

// Error constants for the repository layer
var (
	ErrNotFound     = RepositoryError("not found")
	ErrDuplicate    = RepositoryError("duplicate record")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	// GetTrainerRoster returns the users holding a trainer-eligible role.
	GetTrainerRoster(ctx context.Context) ([]domain.User, error)
}

// BatchRepository defines the interface for interacting with batch data.
type BatchRepository interface {
	Create(ctx context.Context, batch *domain.Batch) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Batch, error)
	Update(ctx context.Context, batch *domain.Batch) error
}

// PlanEntryRepository defines the interface for interacting with plan entries.
type PlanEntryRepository interface {
	Create(ctx context.Context, entry *domain.PlanEntry) (primitive.ObjectID, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanEntry, error)
	// GetByBatchAndDateRange returns entries with from <= date <= to.
	GetByBatchAndDateRange(ctx context.Context, batchID primitive.ObjectID, from, to string) ([]domain.PlanEntry, error)
	GetByBatch(ctx context.Context, batchID primitive.ObjectID) ([]domain.PlanEntry, error)
	Update(ctx context.Context, entry *domain.PlanEntry) error
	Delete(ctx context.Context, id, batchID primitive.ObjectID) error
}

// BatchEventRepository defines the interface for the holiday/event overlay.
type BatchEventRepository interface {
	// Create inserts an event; ErrDuplicate when the (batch, date)
	// slot is already taken.
	Create(ctx context.Context, event *domain.BatchEvent) (primitive.ObjectID, error)
	GetByBatchAndDate(ctx context.Context, batchID primitive.ObjectID, date string) (*domain.BatchEvent, error)
	GetByBatchAndDateRange(ctx context.Context, batchID primitive.ObjectID, from, to string) ([]domain.BatchEvent, error)
	DeleteByBatchAndDate(ctx context.Context, batchID primitive.ObjectID, date string) error
}
