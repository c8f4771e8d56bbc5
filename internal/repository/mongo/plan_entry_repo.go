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

const planEntryCollectionName = "plan_entries"

// mongoPlanEntryRepository implements repository.PlanEntryRepository
type mongoPlanEntryRepository struct {
	collection *mongo.Collection
}

// NewMongoPlanEntryRepository creates a new PlanEntry repository.
func NewMongoPlanEntryRepository(db *mongo.Database) repository.PlanEntryRepository {
	return &mongoPlanEntryRepository{
		collection: db.Collection(planEntryCollectionName),
	}
}

// Create inserts a new plan entry.
func (r *mongoPlanEntryRepository) Create(ctx context.Context, entry *domain.PlanEntry) (primitive.ObjectID, error) {
	if entry.BatchID == primitive.NilObjectID || entry.Date == "" || entry.StartTime == "" || entry.EndTime == "" {
		return primitive.NilObjectID, errors.New("plan entry requires batchId, date, startTime, and endTime")
	}
	entry.ID = primitive.NewObjectID()
	now := time.Now().UTC()
	entry.CreatedAt = now
	entry.UpdatedAt = now

	result, err := r.collection.InsertOne(ctx, entry)
	if err != nil {
		return primitive.NilObjectID, err
	}
	insertedID, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("failed to convert inserted plan entry ID")
	}
	return insertedID, nil
}

// GetByID retrieves a single plan entry by its ID.
func (r *mongoPlanEntryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanEntry, error) {
	var entry domain.PlanEntry
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&entry)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// entrySort orders by date then start time; ISO dates and HH:MM clocks
// sort correctly as strings.
var entrySort = options.Find().SetSort(bson.D{{Key: "date", Value: 1}, {Key: "startTime", Value: 1}})

// GetByBatchAndDateRange retrieves a batch's entries with from <= date <= to.
func (r *mongoPlanEntryRepository) GetByBatchAndDateRange(ctx context.Context, batchID primitive.ObjectID, from, to string) ([]domain.PlanEntry, error) {
	filter := bson.M{
		"batchId": batchID,
		"date":    bson.M{"$gte": from, "$lte": to},
	}
	return r.find(ctx, filter)
}

// GetByBatch retrieves every plan entry of a batch.
func (r *mongoPlanEntryRepository) GetByBatch(ctx context.Context, batchID primitive.ObjectID) ([]domain.PlanEntry, error) {
	return r.find(ctx, bson.M{"batchId": batchID})
}

func (r *mongoPlanEntryRepository) find(ctx context.Context, filter bson.M) ([]domain.PlanEntry, error) {
	var entries []domain.PlanEntry
	cursor, err := r.collection.Find(ctx, filter, entrySort)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	if err = cursor.All(ctx, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Update replaces the mutable fields of a plan entry.
func (r *mongoPlanEntryRepository) Update(ctx context.Context, entry *domain.PlanEntry) error {
	if entry.ID == primitive.NilObjectID {
		return errors.New("plan entry ID is required for update")
	}
	// BatchID is immutable; a schedule entry never moves between batches.
	updateDoc := bson.M{
		"$set": bson.M{
			"date":         entry.Date,
			"startTime":    entry.StartTime,
			"endTime":      entry.EndTime,
			"activityType": entry.ActivityType,
			"activityName": entry.ActivityName,
			"trainerId":    entry.TrainerID,
			"notes":        entry.Notes,
			"updatedAt":    time.Now().UTC(),
		},
	}
	result, err := r.collection.UpdateOne(ctx, bson.M{"_id": entry.ID}, updateDoc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes a plan entry, scoped to its batch.
func (r *mongoPlanEntryRepository) Delete(ctx context.Context, id, batchID primitive.ObjectID) error {
	if id == primitive.NilObjectID || batchID == primitive.NilObjectID {
		return errors.New("plan entry ID and batch ID are required for deletion")
	}
	result, err := r.collection.DeleteOne(ctx, bson.M{"_id": id, "batchId": batchID})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// EnsurePlanEntryIndexes creates necessary indexes. Call during startup.
func EnsurePlanEntryIndexes(ctx context.Context, collection *mongo.Collection) {
	indexes := []mongo.IndexModel{
		{
			// The weekly window fetch filters by batch and date range.
			Keys:    bson.D{{Key: "batchId", Value: 1}, {Key: "date", Value: 1}, {Key: "startTime", Value: 1}},
			Options: options.Index(),
		},
	}
	_, _ = collection.Indexes().CreateMany(ctx, indexes)
}
