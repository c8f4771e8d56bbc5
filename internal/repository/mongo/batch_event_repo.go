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

const batchEventCollectionName = "batch_events"

// mongoBatchEventRepository implements repository.BatchEventRepository
type mongoBatchEventRepository struct {
	collection *mongo.Collection
}

// NewMongoBatchEventRepository creates a new BatchEvent repository.
func NewMongoBatchEventRepository(db *mongo.Database) repository.BatchEventRepository {
	return &mongoBatchEventRepository{
		collection: db.Collection(batchEventCollectionName),
	}
}

// Create inserts a new batch event. The unique (batchId, date) index
// turns a second event on the same date into ErrDuplicate.
func (r *mongoBatchEventRepository) Create(ctx context.Context, event *domain.BatchEvent) (primitive.ObjectID, error) {
	if event.BatchID == primitive.NilObjectID || event.Date == "" || event.Title == "" {
		return primitive.NilObjectID, errors.New("batch event requires batchId, date, and title")
	}
	event.ID = primitive.NewObjectID()
	event.CreatedAt = time.Now().UTC()

	result, err := r.collection.InsertOne(ctx, event)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return primitive.NilObjectID, repository.ErrDuplicate
		}
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted batch event ID")
	}
	return insertedID, nil
}

// GetByBatchAndDate retrieves the event marked on a specific date, if any.
func (r *mongoBatchEventRepository) GetByBatchAndDate(ctx context.Context, batchID primitive.ObjectID, date string) (*domain.BatchEvent, error) {
	var event domain.BatchEvent
	err := r.collection.FindOne(ctx, bson.M{"batchId": batchID, "date": date}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &event, nil
}

// GetByBatchAndDateRange retrieves a batch's events with from <= date <= to.
func (r *mongoBatchEventRepository) GetByBatchAndDateRange(ctx context.Context, batchID primitive.ObjectID, from, to string) ([]domain.BatchEvent, error) {
	var events []domain.BatchEvent
	filter := bson.M{
		"batchId": batchID,
		"date":    bson.M{"$gte": from, "$lte": to},
	}
	findOptions := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, findOptions)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &events); err != nil {
		return nil, err
	}
	return events, nil
}

// DeleteByBatchAndDate removes the event marked on a date, restoring
// normal scheduling for that date.
func (r *mongoBatchEventRepository) DeleteByBatchAndDate(ctx context.Context, batchID primitive.ObjectID, date string) error {
	if batchID == primitive.NilObjectID || date == "" {
		return errors.New("batch ID and date are required for deletion")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"batchId": batchID, "date": date})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsureBatchEventIndexes creates necessary indexes. The unique
// compound index enforces at most one event per (batch, date).
func EnsureBatchEventIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "batchId", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
