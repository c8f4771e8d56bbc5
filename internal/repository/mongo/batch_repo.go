package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/repository"
)

const batchCollectionName = "batches"

// mongoBatchRepository implements repository.BatchRepository
type mongoBatchRepository struct {
	collection *mongo.Collection
}

// NewMongoBatchRepository creates a new Batch repository.
func NewMongoBatchRepository(db *mongo.Database) repository.BatchRepository {
	return &mongoBatchRepository{
		collection: db.Collection(batchCollectionName),
	}
}

// Create inserts a new batch.
func (r *mongoBatchRepository) Create(ctx context.Context, batch *domain.Batch) (primitive.ObjectID, error) {
	if batch.Name == "" || batch.Code == "" || batch.StartDate == "" || batch.EndDate == "" {
		return primitive.NilObjectID, errors.New("batch requires name, code, startDate, and endDate")
	}
	batch.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	batch.CreatedAt = now
	batch.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, batch)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted batch ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single batch by its ID.
func (r *mongoBatchRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Batch, error) {
	var batch domain.Batch
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&batch)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// Update replaces the mutable fields of a batch.
func (r *mongoBatchRepository) Update(ctx context.Context, batch *domain.Batch) error {
	if batch.ID == primitive.NilObjectID {
		return errors.New("batch ID is required for update")
	}
	updateDoc := bson.M{
		"$set": bson.M{
			"name":      batch.Name,
			"startDate": batch.StartDate,
			"endDate":   batch.EndDate,
			"courses":   batch.Courses,
			"updatedAt": time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": batch.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureBatchIndexes creates necessary indexes. Call during startup.
func EnsureBatchIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "code", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
