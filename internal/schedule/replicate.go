package schedule

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
)

// ErrPastBatchEnd is the boundary warning returned when replication
// would place an entry beyond the batch's end date. Nothing is created.
var ErrPastBatchEnd = errors.New("replication target date is past the batch end date")

// Replicate builds a copy of the entry dated one calendar day later,
// with a fresh identity and zeroed timestamps. It performs only the
// batch-window boundary check; field validation is left to the
// creation path the copy is submitted through.
func Replicate(entry domain.PlanEntry, batchEndDate string) (domain.PlanEntry, error) {
	target, err := AddDays(entry.Date, 1)
	if err != nil {
		return domain.PlanEntry{}, err
	}
	if target > batchEndDate {
		return domain.PlanEntry{}, ErrPastBatchEnd
	}
	copy := entry
	copy.ID = primitive.NilObjectID
	copy.Date = target
	copy.CreatedAt = time.Time{}
	copy.UpdatedAt = time.Time{}
	return copy, nil
}
