package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/repository"
	"skillbridge/batch-scheduler/internal/schedule"
	"skillbridge/batch-scheduler/internal/storage"
)

var ErrExportFailed = errors.New("failed to export batch schedule")

// BatchExport describes an uploaded schedule artifact.
type BatchExport struct {
	ObjectKey   string `json:"objectKey"`
	DownloadURL string `json:"downloadUrl"`
	EntryCount  int    `json:"entryCount"`
}

// --- Service Interface ---
type ExportService interface {
	// ExportBatchCSV renders the full batch plan as CSV, uploads it to
	// object storage, and returns a presigned download URL.
	ExportBatchCSV(ctx context.Context, batchID primitive.ObjectID) (*BatchExport, error)
}

// exportService implements the ExportService interface.
type exportService struct {
	batchRepo   repository.BatchRepository
	entryRepo   repository.PlanEntryRepository
	userRepo    repository.UserRepository
	fileStorage storage.FileStorage
}

// NewExportService creates a new instance of exportService.
func NewExportService(
	batchRepo repository.BatchRepository,
	entryRepo repository.PlanEntryRepository,
	userRepo repository.UserRepository,
	fileStorage storage.FileStorage,
) ExportService {
	return &exportService{
		batchRepo:   batchRepo,
		entryRepo:   entryRepo,
		userRepo:    userRepo,
		fileStorage: fileStorage,
	}
}

// ExportBatchCSV renders every plan entry of the batch, ordered by
// date and start time, into a CSV artifact.
func (s *exportService) ExportBatchCSV(ctx context.Context, batchID primitive.ObjectID) (*BatchExport, error) {
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	entries, err := s.entryRepo.GetByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	roster, err := s.userRepo.GetTrainerRoster(ctx)
	if err != nil {
		return nil, err
	}
	trainerNames := make(map[primitive.ObjectID]string, len(roster))
	for _, u := range roster {
		trainerNames[u.ID] = u.Name
	}

	body, err := renderPlanCSV(entries, trainerNames)
	if err != nil {
		return nil, ErrExportFailed
	}

	objectKey := fmt.Sprintf("exports/%s/plan-%s.csv", batch.Code, uuid.NewString())
	if err := s.fileStorage.UploadObject(ctx, objectKey, "text/csv", bytes.NewReader(body)); err != nil {
		return nil, ErrExportFailed
	}
	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, objectKey, storage.DefaultPresignedURLExpiry)
	if err != nil {
		return nil, ErrExportFailed
	}

	return &BatchExport{
		ObjectKey:   objectKey,
		DownloadURL: url,
		EntryCount:  len(entries),
	}, nil
}

// renderPlanCSV writes the entry rows in wire format: dates as
// YYYY-MM-DD, times as HH:MM, trainer resolved to a display name.
func renderPlanCSV(entries []domain.PlanEntry, trainerNames map[primitive.ObjectID]string) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write([]string{"date", "day", "start_time", "end_time", "activity_type", "activity", "trainer", "notes"}); err != nil {
		return nil, err
	}
	for _, e := range entries {
		day := ""
		if d, err := schedule.ParseDate(e.Date); err == nil {
			day = d.Weekday().String()
		}
		trainer := ""
		if e.TrainerID != nil {
			trainer = trainerNames[*e.TrainerID]
		}
		row := []string{e.Date, day, e.StartTime, e.EndTime, string(e.ActivityType), e.ActivityName, trainer, e.Notes}
		if err := w.Write(row); err != nil {
			return nil, err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
