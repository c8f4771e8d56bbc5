package service

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/repository"
	"skillbridge/batch-scheduler/internal/schedule"
)

var (
	ErrBatchCodeTaken = errors.New("batch code is already in use")
	ErrBadBatchWindow = errors.New("batch end date must not precede its start date")
)

// BatchService is the batch directory collaborator: batch identity,
// window boundaries, course reference data, and the trainer roster.
type BatchService interface {
	CreateBatch(ctx context.Context, batch domain.Batch) (*domain.Batch, error)
	GetBatch(ctx context.Context, batchID primitive.ObjectID) (*domain.Batch, error)
	TrainerRoster(ctx context.Context) ([]domain.User, error)
}

// batchService implements the BatchService interface.
type batchService struct {
	batchRepo repository.BatchRepository
	userRepo  repository.UserRepository
}

// NewBatchService creates a new instance of batchService.
func NewBatchService(batchRepo repository.BatchRepository, userRepo repository.UserRepository) BatchService {
	return &batchService{
		batchRepo: batchRepo,
		userRepo:  userRepo,
	}
}

// CreateBatch validates the window dates and persists a new batch.
func (s *batchService) CreateBatch(ctx context.Context, batch domain.Batch) (*domain.Batch, error) {
	start, err := schedule.ParseDate(batch.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := schedule.ParseDate(batch.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrBadBatchWindow
	}

	id, err := s.batchRepo.Create(ctx, &batch)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrBatchCodeTaken
		}
		return nil, err
	}
	batch.ID = id
	return &batch, nil
}

// GetBatch retrieves a batch directory record.
func (s *batchService) GetBatch(ctx context.Context, batchID primitive.ObjectID) (*domain.Batch, error) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return batch, nil
}

// TrainerRoster returns the trainer-eligible users for selector use.
func (s *batchService) TrainerRoster(ctx context.Context) ([]domain.User, error) {
	users, err := s.userRepo.GetTrainerRoster(ctx)
	if err != nil {
		return nil, err
	}
	for i := range users {
		users[i].PasswordHash = ""
	}
	return users, nil
}
