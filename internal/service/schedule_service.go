package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/repository"
	"skillbridge/batch-scheduler/internal/schedule"
)

// --- Error Definitions ---
var (
	ErrBatchNotFound = errors.New("batch not found")
	ErrEntryNotFound = errors.New("plan entry not found")
	ErrEventNotFound = errors.New("no event marked on this date")
	ErrEventExists   = errors.New("an event is already marked on this date")
	ErrDateBlocked   = errors.New("date is blocked by a holiday or event")
	ErrOutsideWindow = errors.New("date falls outside the batch window")
	ErrPastBatchEnd  = schedule.ErrPastBatchEnd
	ErrUnknownEvent  = errors.New("unknown event type")
)

// ValidationError carries the field -> message map produced by the
// entry validator. It blocks the write entirely; nothing is persisted.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("entry validation failed: %d field error(s)", len(e.Fields))
}

// EntryInput is the caller-supplied shape of a plan entry create/update.
type EntryInput struct {
	Date         string
	StartTime    string
	EndTime      string
	ActivityType domain.ActivityType
	ActivityName string
	TrainerID    *primitive.ObjectID
	Notes        string
}

// WeeklyPlan is the resolved weekly view of a batch's schedule.
// TrainerNames resolves entry trainer ids to display names for
// rendering; entries store only the stable id.
type WeeklyPlan struct {
	WeekNumber   int
	Days         []string
	Entries      map[string][]domain.PlanEntry
	Events       map[string]domain.BatchEvent
	HasNext      bool
	HasPrev      bool
	NextSlot     int
	Hours        domain.HoursBreakdown
	TrainerNames map[primitive.ObjectID]string
}

// BatchPlan is the full-batch ("all plans") view.
type BatchPlan struct {
	Entries      map[string][]domain.PlanEntry
	Events       []domain.BatchEvent
	Hours        domain.HoursBreakdown
	TrainerNames map[primitive.ObjectID]string
}

// --- Service Interface ---
type ScheduleService interface {
	WeeklyPlan(ctx context.Context, batchID primitive.ObjectID, refDate string) (*WeeklyPlan, error)
	AllPlans(ctx context.Context, batchID primitive.ObjectID) (*BatchPlan, error)

	CreateEntry(ctx context.Context, batchID primitive.ObjectID, input EntryInput) (*domain.PlanEntry, error)
	UpdateEntry(ctx context.Context, batchID, entryID primitive.ObjectID, input EntryInput) (*domain.PlanEntry, error)
	DeleteEntry(ctx context.Context, batchID, entryID primitive.ObjectID) error
	ReplicateEntry(ctx context.Context, batchID, entryID primitive.ObjectID) (*domain.PlanEntry, error)

	SetEvent(ctx context.Context, batchID primitive.ObjectID, date string, eventType domain.EventType, title, description string) (*domain.BatchEvent, error)
	RemoveEvent(ctx context.Context, batchID primitive.ObjectID, date string) error

	Hours(ctx context.Context, batchID primitive.ObjectID, refDate string, fullBatch bool) (*domain.HoursBreakdown, error)
}

// scheduleService implements the ScheduleService interface.
type scheduleService struct {
	batchRepo repository.BatchRepository
	entryRepo repository.PlanEntryRepository
	eventRepo repository.BatchEventRepository
	userRepo  repository.UserRepository
	now       func() time.Time
}

// NewScheduleService creates a new instance of scheduleService.
func NewScheduleService(
	batchRepo repository.BatchRepository,
	entryRepo repository.PlanEntryRepository,
	eventRepo repository.BatchEventRepository,
	userRepo repository.UserRepository,
) ScheduleService {
	return &scheduleService{
		batchRepo: batchRepo,
		entryRepo: entryRepo,
		eventRepo: eventRepo,
		userRepo:  userRepo,
		now:       time.Now,
	}
}

func (s *scheduleService) getBatch(ctx context.Context, batchID primitive.ObjectID) (*domain.Batch, error) {
	if batchID == primitive.NilObjectID {
		return nil, ErrBatchNotFound
	}
	batch, err := s.batchRepo.GetByID(ctx, batchID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrBatchNotFound
		}
		return nil, err
	}
	return batch, nil
}

// resolveWindow parses the batch window and the reference date. An
// empty refDate means "today".
func (s *scheduleService) resolveWindow(batch *domain.Batch, refDate string) (schedule.Window, error) {
	start, err := schedule.ParseDate(batch.StartDate)
	if err != nil {
		return schedule.Window{}, err
	}
	end, err := schedule.ParseDate(batch.EndDate)
	if err != nil {
		return schedule.Window{}, err
	}
	ref := s.now()
	if refDate != "" {
		ref, err = schedule.ParseDate(refDate)
		if err != nil {
			return schedule.Window{}, err
		}
	}
	return schedule.ResolveWindow(ref, start, end), nil
}

// trainerRules fetches the roster once and derives both the validator
// rules input and the id -> display name map for aggregation.
func (s *scheduleService) trainerRules(ctx context.Context, batch *domain.Batch) (schedule.Rules, map[primitive.ObjectID]string, error) {
	roster, err := s.userRepo.GetTrainerRoster(ctx)
	if err != nil {
		return schedule.Rules{}, nil, err
	}
	ids := make(map[primitive.ObjectID]bool, len(roster))
	names := make(map[primitive.ObjectID]string, len(roster))
	for _, u := range roster {
		ids[u.ID] = true
		names[u.ID] = u.Name
	}
	return schedule.Rules{CourseNames: batch.CourseNames(), TrainerIDs: ids}, names, nil
}

// WeeklyPlan resolves the visible week for a batch: the five weekday
// dates, per-date entries and events, navigation flags, the next open
// slot index, and the weekly hours breakdown.
func (s *scheduleService) WeeklyPlan(ctx context.Context, batchID primitive.ObjectID, refDate string) (*WeeklyPlan, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	window, err := s.resolveWindow(batch, refDate)
	if err != nil {
		return nil, err
	}
	days := window.Days()

	entries, err := s.entryRepo.GetByBatchAndDateRange(ctx, batchID, days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.GetByBatchAndDateRange(ctx, batchID, days[0], days[len(days)-1])
	if err != nil {
		return nil, err
	}
	_, trainerNames, err := s.trainerRules(ctx, batch)
	if err != nil {
		return nil, err
	}

	byDate := schedule.EntriesByDate(entries)
	eventsByDate := make(map[string]domain.BatchEvent, len(events))
	for _, ev := range events {
		eventsByDate[ev.Date] = ev
	}

	return &WeeklyPlan{
		WeekNumber:   window.WeekNumber(),
		Days:         days,
		Entries:      byDate,
		Events:       eventsByDate,
		HasNext:      window.HasNext(),
		HasPrev:      window.HasPrev(),
		NextSlot:     schedule.NextSlotIndex(byDate, days),
		Hours:        schedule.AggregateHours(entries, trainerNames),
		TrainerNames: trainerNames,
	}, nil
}

// AllPlans returns the full-batch view. The hours reduction is the
// same one the weekly view uses; only the input entry list differs.
func (s *scheduleService) AllPlans(ctx context.Context, batchID primitive.ObjectID) (*BatchPlan, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	entries, err := s.entryRepo.GetByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	events, err := s.eventRepo.GetByBatchAndDateRange(ctx, batchID, batch.StartDate, batch.EndDate)
	if err != nil {
		return nil, err
	}
	_, trainerNames, err := s.trainerRules(ctx, batch)
	if err != nil {
		return nil, err
	}
	return &BatchPlan{
		Entries:      schedule.EntriesByDate(entries),
		Events:       events,
		Hours:        schedule.AggregateHours(entries, trainerNames),
		TrainerNames: trainerNames,
	}, nil
}

// CreateEntry validates and persists a new plan entry. The date must
// fall inside the batch window and must not carry a holiday/event.
func (s *scheduleService) CreateEntry(ctx context.Context, batchID primitive.ObjectID, input EntryInput) (*domain.PlanEntry, error) {
	candidate := domain.PlanEntry{
		BatchID:      batchID,
		Date:         input.Date,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		ActivityType: input.ActivityType,
		ActivityName: input.ActivityName,
		TrainerID:    input.TrainerID,
		Notes:        input.Notes,
	}
	entry, err := s.checkAndStore(ctx, batchID, candidate, true)
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// UpdateEntry validates and persists an edit. The entry's own hours
// are excluded from the daily-cap sum by id. Editing an entry in place
// on a blocked date is allowed; moving it onto a blocked date is not.
func (s *scheduleService) UpdateEntry(ctx context.Context, batchID, entryID primitive.ObjectID, input EntryInput) (*domain.PlanEntry, error) {
	existing, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if existing.BatchID != batchID {
		return nil, ErrEntryNotFound
	}

	candidate := *existing
	candidate.Date = input.Date
	candidate.StartTime = input.StartTime
	candidate.EndTime = input.EndTime
	candidate.ActivityType = input.ActivityType
	candidate.ActivityName = input.ActivityName
	candidate.TrainerID = input.TrainerID
	candidate.Notes = input.Notes

	checkOverlay := candidate.Date != existing.Date
	return s.checkAndStore(ctx, batchID, candidate, checkOverlay)
}

// checkAndStore runs the creation-path checks (window containment,
// overlay suppression, field validation) and persists the candidate.
// Nothing is written unless every check passes.
func (s *scheduleService) checkAndStore(ctx context.Context, batchID primitive.ObjectID, candidate domain.PlanEntry, checkOverlay bool) (*domain.PlanEntry, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if _, err := schedule.ParseDate(candidate.Date); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": err.Error()}}
	}
	if !batch.ContainsDate(candidate.Date) {
		return nil, ErrOutsideWindow
	}
	if checkOverlay {
		if _, err := s.eventRepo.GetByBatchAndDate(ctx, batchID, candidate.Date); err == nil {
			return nil, ErrDateBlocked
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
	}

	rules, _, err := s.trainerRules(ctx, batch)
	if err != nil {
		return nil, err
	}
	weekEntries, err := s.weekEntriesFor(ctx, batch, candidate.Date)
	if err != nil {
		return nil, err
	}
	if fieldErrs := schedule.Validate(candidate, weekEntries, rules); fieldErrs != nil {
		return nil, &ValidationError{Fields: fieldErrs}
	}

	if candidate.ID == primitive.NilObjectID {
		id, err := s.entryRepo.Create(ctx, &candidate)
		if err != nil {
			return nil, err
		}
		candidate.ID = id
	} else {
		if err := s.entryRepo.Update(ctx, &candidate); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, ErrEntryNotFound
			}
			return nil, err
		}
	}
	return &candidate, nil
}

// weekEntriesFor fetches the entries of the week containing date, the
// validator's comparison set.
func (s *scheduleService) weekEntriesFor(ctx context.Context, batch *domain.Batch, date string) ([]domain.PlanEntry, error) {
	window, err := s.resolveWindow(batch, date)
	if err != nil {
		return nil, err
	}
	days := window.Days()
	return s.entryRepo.GetByBatchAndDateRange(ctx, batch.ID, days[0], days[len(days)-1])
}

// DeleteEntry removes a plan entry by id, scoped to the batch.
func (s *scheduleService) DeleteEntry(ctx context.Context, batchID, entryID primitive.ObjectID) error {
	if err := s.entryRepo.Delete(ctx, entryID, batchID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEntryNotFound
		}
		return err
	}
	return nil
}

// ReplicateEntry copies an entry to the next calendar day with a fresh
// identity. It refuses with ErrPastBatchEnd when the target date
// leaves the batch window and with ErrDateBlocked when the target date
// carries an event. It deliberately does not re-run the field
// validator; it relies on the checks of the creation path it shares.
func (s *scheduleService) ReplicateEntry(ctx context.Context, batchID, entryID primitive.ObjectID) (*domain.PlanEntry, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	entry, err := s.entryRepo.GetByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrEntryNotFound
		}
		return nil, err
	}
	if entry.BatchID != batchID {
		return nil, ErrEntryNotFound
	}

	copy, err := schedule.Replicate(*entry, batch.EndDate)
	if err != nil {
		return nil, err
	}
	if _, err := s.eventRepo.GetByBatchAndDate(ctx, batchID, copy.Date); err == nil {
		return nil, ErrDateBlocked
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	id, err := s.entryRepo.Create(ctx, &copy)
	if err != nil {
		return nil, err
	}
	copy.ID = id
	return &copy, nil
}

// SetEvent marks a date as a holiday or special event. Existing
// entries on the date are left untouched; only new scheduling on it is
// suppressed while the event stands.
func (s *scheduleService) SetEvent(ctx context.Context, batchID primitive.ObjectID, date string, eventType domain.EventType, title, description string) (*domain.BatchEvent, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if _, err := schedule.ParseDate(date); err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": err.Error()}}
	}
	if !batch.ContainsDate(date) {
		return nil, ErrOutsideWindow
	}
	if !domain.KnownEventType(eventType) {
		return nil, ErrUnknownEvent
	}

	event := &domain.BatchEvent{
		BatchID:     batchID,
		Date:        date,
		EventType:   eventType,
		Title:       title,
		Description: description,
	}
	id, err := s.eventRepo.Create(ctx, event)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrEventExists
		}
		return nil, err
	}
	event.ID = id
	return event, nil
}

// RemoveEvent clears the holiday/event mark from a date, restoring
// normal scheduling for it. Other dates are unaffected.
func (s *scheduleService) RemoveEvent(ctx context.Context, batchID primitive.ObjectID, date string) error {
	if err := s.eventRepo.DeleteByBatchAndDate(ctx, batchID, date); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrEventNotFound
		}
		return err
	}
	return nil
}

// Hours computes the breakdown for the week containing refDate, or for
// the whole batch when fullBatch is set.
func (s *scheduleService) Hours(ctx context.Context, batchID primitive.ObjectID, refDate string, fullBatch bool) (*domain.HoursBreakdown, error) {
	batch, err := s.getBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}

	var entries []domain.PlanEntry
	if fullBatch {
		entries, err = s.entryRepo.GetByBatch(ctx, batchID)
	} else {
		entries, err = s.weekEntriesFor(ctx, batch, refDate)
	}
	if err != nil {
		return nil, err
	}

	_, trainerNames, err := s.trainerRules(ctx, batch)
	if err != nil {
		return nil, err
	}
	hb := schedule.AggregateHours(entries, trainerNames)
	return &hb, nil
}
