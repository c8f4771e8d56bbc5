package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/repository"
)

// --- In-memory fakes ---

type fakeBatchRepo struct {
	batches map[primitive.ObjectID]*domain.Batch
}

func (r *fakeBatchRepo) Create(ctx context.Context, batch *domain.Batch) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	b := *batch
	b.ID = id
	r.batches[id] = &b
	return id, nil
}

func (r *fakeBatchRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Batch, error) {
	b, ok := r.batches[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copy := *b
	return &copy, nil
}

func (r *fakeBatchRepo) Update(ctx context.Context, batch *domain.Batch) error {
	if _, ok := r.batches[batch.ID]; !ok {
		return repository.ErrNotFound
	}
	b := *batch
	r.batches[batch.ID] = &b
	return nil
}

type fakeEntryRepo struct {
	entries map[primitive.ObjectID]domain.PlanEntry
}

func (r *fakeEntryRepo) Create(ctx context.Context, entry *domain.PlanEntry) (primitive.ObjectID, error) {
	id := primitive.NewObjectID()
	e := *entry
	e.ID = id
	r.entries[id] = e
	return id, nil
}

func (r *fakeEntryRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.PlanEntry, error) {
	e, ok := r.entries[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEntryRepo) GetByBatchAndDateRange(ctx context.Context, batchID primitive.ObjectID, from, to string) ([]domain.PlanEntry, error) {
	var out []domain.PlanEntry
	for _, e := range r.entries {
		if e.BatchID == batchID && e.Date >= from && e.Date <= to {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) GetByBatch(ctx context.Context, batchID primitive.ObjectID) ([]domain.PlanEntry, error) {
	var out []domain.PlanEntry
	for _, e := range r.entries {
		if e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeEntryRepo) Update(ctx context.Context, entry *domain.PlanEntry) error {
	stored, ok := r.entries[entry.ID]
	if !ok || stored.BatchID != entry.BatchID {
		return repository.ErrNotFound
	}
	r.entries[entry.ID] = *entry
	return nil
}

func (r *fakeEntryRepo) Delete(ctx context.Context, id, batchID primitive.ObjectID) error {
	stored, ok := r.entries[id]
	if !ok || stored.BatchID != batchID {
		return repository.ErrNotFound
	}
	delete(r.entries, id)
	return nil
}

type fakeEventRepo struct {
	events map[string]domain.BatchEvent // batch hex + date
}

func eventKey(batchID primitive.ObjectID, date string) string {
	return batchID.Hex() + "/" + date
}

func (r *fakeEventRepo) Create(ctx context.Context, event *domain.BatchEvent) (primitive.ObjectID, error) {
	key := eventKey(event.BatchID, event.Date)
	if _, ok := r.events[key]; ok {
		return primitive.NilObjectID, repository.ErrDuplicate
	}
	id := primitive.NewObjectID()
	ev := *event
	ev.ID = id
	r.events[key] = ev
	return id, nil
}

func (r *fakeEventRepo) GetByBatchAndDate(ctx context.Context, batchID primitive.ObjectID, date string) (*domain.BatchEvent, error) {
	ev, ok := r.events[eventKey(batchID, date)]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &ev, nil
}

func (r *fakeEventRepo) GetByBatchAndDateRange(ctx context.Context, batchID primitive.ObjectID, from, to string) ([]domain.BatchEvent, error) {
	var out []domain.BatchEvent
	for _, ev := range r.events {
		if ev.BatchID == batchID && ev.Date >= from && ev.Date <= to {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (r *fakeEventRepo) DeleteByBatchAndDate(ctx context.Context, batchID primitive.ObjectID, date string) error {
	key := eventKey(batchID, date)
	if _, ok := r.events[key]; !ok {
		return repository.ErrNotFound
	}
	delete(r.events, key)
	return nil
}

type fakeUserRepo struct {
	roster []domain.User
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error) {
	return primitive.NewObjectID(), nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	for _, u := range r.roster {
		if u.ID == id {
			copy := u
			return &copy, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *fakeUserRepo) GetTrainerRoster(ctx context.Context) ([]domain.User, error) {
	return append([]domain.User(nil), r.roster...), nil
}

// --- Fixture ---

type scheduleFixture struct {
	svc       *scheduleService
	batchID   primitive.ObjectID
	trainerID primitive.ObjectID
	entries   *fakeEntryRepo
	events    *fakeEventRepo
}

// newScheduleFixture wires the service against in-memory repositories
// with one batch (2024-01-01 .. 2024-02-28) and one roster trainer. The
// service clock is pinned inside the batch window.
func newScheduleFixture(t *testing.T) *scheduleFixture {
	t.Helper()

	trainerID := primitive.NewObjectID()
	users := &fakeUserRepo{roster: []domain.User{
		{ID: trainerID, Name: "Asha", Email: "asha@example.com", Role: domain.RoleTrainer},
	}}

	batches := &fakeBatchRepo{batches: map[primitive.ObjectID]*domain.Batch{}}
	batchID, err := batches.Create(context.Background(), &domain.Batch{
		Name:      "Java Batch 7",
		Code:      "BT-2024-07",
		StartDate: "2024-01-01",
		EndDate:   "2024-02-28",
		Courses:   []domain.Course{{Name: "Excel"}, {Name: "Java Fundamentals"}},
	})
	if err != nil {
		t.Fatalf("seeding batch: %v", err)
	}

	entries := &fakeEntryRepo{entries: map[primitive.ObjectID]domain.PlanEntry{}}
	events := &fakeEventRepo{events: map[string]domain.BatchEvent{}}

	svc := NewScheduleService(batches, entries, events, users).(*scheduleService)
	svc.now = func() time.Time {
		return time.Date(2024, time.January, 10, 12, 0, 0, 0, time.UTC)
	}

	return &scheduleFixture{
		svc:       svc,
		batchID:   batchID,
		trainerID: trainerID,
		entries:   entries,
		events:    events,
	}
}

func (f *scheduleFixture) courseInput(date, start, end string) EntryInput {
	return EntryInput{
		Date:         date,
		StartTime:    start,
		EndTime:      end,
		ActivityType: domain.ActivityCourse,
		ActivityName: "Excel",
		TrainerID:    &f.trainerID,
	}
}

// --- Tests ---

func TestCreateEntry(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if entry.ID == primitive.NilObjectID {
		t.Error("created entry has no id")
	}
	if len(f.entries.entries) != 1 {
		t.Errorf("store holds %d entries, want 1", len(f.entries.entries))
	}
}

func TestCreateEntryValidationBlocksPersistence(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	input := f.courseInput("2024-01-10", "09:30", "11:00")
	input.ActivityName = "Not Configured"
	input.TrainerID = nil

	_, err := f.svc.CreateEntry(ctx, f.batchID, input)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("CreateEntry() error = %v, want *ValidationError", err)
	}
	if _, ok := verr.Fields["activityName"]; !ok {
		t.Errorf("validation fields = %v, want activityName", verr.Fields)
	}
	if _, ok := verr.Fields["trainer"]; !ok {
		t.Errorf("validation fields = %v, want trainer", verr.Fields)
	}
	if len(f.entries.entries) != 0 {
		t.Errorf("invalid entry was persisted: %v", f.entries.entries)
	}
}

func TestCreateEntryOutsideWindow(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	for _, date := range []string{"2023-12-29", "2024-02-29"} {
		_, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput(date, "09:30", "11:00"))
		if !errors.Is(err, ErrOutsideWindow) {
			t.Errorf("CreateEntry(%s) error = %v, want ErrOutsideWindow", date, err)
		}
	}
}

func TestCreateEntryUnknownBatch(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.CreateEntry(context.Background(), primitive.NewObjectID(), f.courseInput("2024-01-10", "09:30", "11:00"))
	if !errors.Is(err, ErrBatchNotFound) {
		t.Fatalf("CreateEntry() error = %v, want ErrBatchNotFound", err)
	}
}

func TestEventBlocksOnlyItsDate(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SetEvent(ctx, f.batchID, "2024-01-10", domain.EventHoliday, "Republic Day Rehearsal", ""); err != nil {
		t.Fatalf("SetEvent() error = %v", err)
	}

	if _, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00")); !errors.Is(err, ErrDateBlocked) {
		t.Errorf("CreateEntry on blocked date: error = %v, want ErrDateBlocked", err)
	}
	if _, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-11", "09:30", "11:00")); err != nil {
		t.Errorf("CreateEntry on adjacent date: error = %v, want nil", err)
	}
}

func TestSetEventDuplicate(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SetEvent(ctx, f.batchID, "2024-01-10", domain.EventHoliday, "Holiday", ""); err != nil {
		t.Fatalf("SetEvent() error = %v", err)
	}
	_, err := f.svc.SetEvent(ctx, f.batchID, "2024-01-10", domain.EventSpecial, "Guest Lecture", "")
	if !errors.Is(err, ErrEventExists) {
		t.Fatalf("second SetEvent on same date: error = %v, want ErrEventExists", err)
	}
}

func TestSetEventRejectsUnknownType(t *testing.T) {
	f := newScheduleFixture(t)

	_, err := f.svc.SetEvent(context.Background(), f.batchID, "2024-01-10", domain.EventType("party"), "Party", "")
	if !errors.Is(err, ErrUnknownEvent) {
		t.Fatalf("SetEvent() error = %v, want ErrUnknownEvent", err)
	}
}

func TestRemoveEventRestoresScheduling(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	if _, err := f.svc.SetEvent(ctx, f.batchID, "2024-01-10", domain.EventHoliday, "Holiday", ""); err != nil {
		t.Fatalf("SetEvent() error = %v", err)
	}
	if err := f.svc.RemoveEvent(ctx, f.batchID, "2024-01-10"); err != nil {
		t.Fatalf("RemoveEvent() error = %v", err)
	}
	if _, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00")); err != nil {
		t.Errorf("CreateEntry after RemoveEvent: error = %v, want nil", err)
	}

	if err := f.svc.RemoveEvent(ctx, f.batchID, "2024-01-11"); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("RemoveEvent on clean date: error = %v, want ErrEventNotFound", err)
	}
}

func TestGhostEntriesStayVisibleAndEditable(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if _, err := f.svc.SetEvent(ctx, f.batchID, "2024-01-10", domain.EventHoliday, "Holiday", ""); err != nil {
		t.Fatalf("SetEvent() error = %v", err)
	}

	// The pre-existing entry remains in the weekly view.
	plan, err := f.svc.WeeklyPlan(ctx, f.batchID, "2024-01-10")
	if err != nil {
		t.Fatalf("WeeklyPlan() error = %v", err)
	}
	if len(plan.Entries["2024-01-10"]) != 1 {
		t.Errorf("blocked date shows %d entries, want the pre-existing 1", len(plan.Entries["2024-01-10"]))
	}
	if _, ok := plan.Events["2024-01-10"]; !ok {
		t.Error("weekly view is missing the event on 2024-01-10")
	}

	// Editing it in place is still allowed.
	update := f.courseInput("2024-01-10", "09:30", "10:30")
	if _, err := f.svc.UpdateEntry(ctx, f.batchID, entry.ID, update); err != nil {
		t.Errorf("in-place UpdateEntry on blocked date: error = %v, want nil", err)
	}

	// Moving another entry onto the blocked date is not.
	other, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-11", "09:30", "11:00"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	moved := f.courseInput("2024-01-10", "14:00", "15:00")
	if _, err := f.svc.UpdateEntry(ctx, f.batchID, other.ID, moved); !errors.Is(err, ErrDateBlocked) {
		t.Errorf("UpdateEntry moving onto blocked date: error = %v, want ErrDateBlocked", err)
	}
}

func TestUpdateEntryRevalidates(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	// Stretching the same entry to 2h exactly passes: its stored hours
	// are excluded from the cap sum.
	grown := f.courseInput("2024-01-10", "09:00", "11:00")
	if _, err := f.svc.UpdateEntry(ctx, f.batchID, entry.ID, grown); err != nil {
		t.Errorf("UpdateEntry to 2h: error = %v, want nil", err)
	}

	// Stretching past the cap fails and leaves the stored entry alone.
	tooLong := f.courseInput("2024-01-10", "09:00", "12:00")
	_, err = f.svc.UpdateEntry(ctx, f.batchID, entry.ID, tooLong)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("UpdateEntry past cap: error = %v, want *ValidationError", err)
	}
	stored := f.entries.entries[entry.ID]
	if stored.EndTime != "11:00" {
		t.Errorf("failed update mutated the store: EndTime = %q, want 11:00", stored.EndTime)
	}
}

func TestUpdateEntryWrongBatch(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	_, err = f.svc.UpdateEntry(ctx, primitive.NewObjectID(), entry.ID, f.courseInput("2024-01-10", "09:30", "10:30"))
	if !errors.Is(err, ErrBatchNotFound) && !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("UpdateEntry under foreign batch: error = %v, want not-found", err)
	}
}

func TestDeleteEntry(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	if err := f.svc.DeleteEntry(ctx, primitive.NewObjectID(), entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("DeleteEntry scoped to foreign batch: error = %v, want ErrEntryNotFound", err)
	}
	if err := f.svc.DeleteEntry(ctx, f.batchID, entry.ID); err != nil {
		t.Fatalf("DeleteEntry() error = %v", err)
	}
	if err := f.svc.DeleteEntry(ctx, f.batchID, entry.ID); !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("second DeleteEntry: error = %v, want ErrEntryNotFound", err)
	}
}

func TestReplicateEntry(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-02-27", "09:30", "11:00"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	copy, err := f.svc.ReplicateEntry(ctx, f.batchID, entry.ID)
	if err != nil {
		t.Fatalf("ReplicateEntry() error = %v", err)
	}
	if copy.Date != "2024-02-28" {
		t.Errorf("copy.Date = %q, want 2024-02-28", copy.Date)
	}
	if copy.ID == entry.ID || copy.ID == primitive.NilObjectID {
		t.Errorf("copy.ID = %v, want a fresh identity", copy.ID)
	}
	if len(f.entries.entries) != 2 {
		t.Fatalf("store holds %d entries, want 2", len(f.entries.entries))
	}

	// The copy sits on the batch end date; replicating it again must
	// refuse and create nothing.
	_, err = f.svc.ReplicateEntry(ctx, f.batchID, copy.ID)
	if !errors.Is(err, ErrPastBatchEnd) {
		t.Fatalf("ReplicateEntry on end date: error = %v, want ErrPastBatchEnd", err)
	}
	if len(f.entries.entries) != 2 {
		t.Errorf("refused replication still wrote: store holds %d entries", len(f.entries.entries))
	}
}

func TestReplicateEntryOntoBlockedDate(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	entry, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00"))
	if err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if _, err := f.svc.SetEvent(ctx, f.batchID, "2024-01-11", domain.EventHoliday, "Holiday", ""); err != nil {
		t.Fatalf("SetEvent() error = %v", err)
	}

	if _, err := f.svc.ReplicateEntry(ctx, f.batchID, entry.ID); !errors.Is(err, ErrDateBlocked) {
		t.Fatalf("ReplicateEntry onto blocked date: error = %v, want ErrDateBlocked", err)
	}
	if len(f.entries.entries) != 1 {
		t.Errorf("refused replication still wrote: store holds %d entries", len(f.entries.entries))
	}
}

func TestWeeklyPlanShape(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	// Two entries in the visible week, one in the next.
	if _, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00")); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	hr := EntryInput{
		Date: "2024-01-10", StartTime: "11:15", EndTime: "12:15",
		ActivityType: domain.ActivityHRSession, ActivityName: "Soft Skills",
		TrainerID: &f.trainerID,
	}
	if _, err := f.svc.CreateEntry(ctx, f.batchID, hr); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if _, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-16", "09:30", "11:00")); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	plan, err := f.svc.WeeklyPlan(ctx, f.batchID, "2024-01-10")
	if err != nil {
		t.Fatalf("WeeklyPlan() error = %v", err)
	}
	if plan.WeekNumber != 2 {
		t.Errorf("WeekNumber = %d, want 2", plan.WeekNumber)
	}
	wantDays := []string{"2024-01-08", "2024-01-09", "2024-01-10", "2024-01-11", "2024-01-12"}
	if len(plan.Days) != len(wantDays) {
		t.Fatalf("Days = %v, want %v", plan.Days, wantDays)
	}
	for i, d := range wantDays {
		if plan.Days[i] != d {
			t.Errorf("Days[%d] = %q, want %q", i, plan.Days[i], d)
		}
	}
	if !plan.HasPrev || !plan.HasNext {
		t.Errorf("HasPrev=%v HasNext=%v, want true/true for an interior week", plan.HasPrev, plan.HasNext)
	}
	if got := len(plan.Entries["2024-01-10"]); got != 2 {
		t.Errorf("entries on 2024-01-10 = %d, want 2 (next week's entry excluded)", got)
	}
	if plan.NextSlot != 3 {
		t.Errorf("NextSlot = %d, want 3", plan.NextSlot)
	}
	if plan.Hours.Course != 1.5 || plan.Hours.HRSession != 1.0 {
		t.Errorf("weekly hours Course=%v HRSession=%v, want 1.5/1.0", plan.Hours.Course, plan.Hours.HRSession)
	}
	if name := plan.TrainerNames[f.trainerID]; name != "Asha" {
		t.Errorf("TrainerNames[%v] = %q, want Asha", f.trainerID, name)
	}
}

func TestHoursWeeklyVersusFullBatch(t *testing.T) {
	f := newScheduleFixture(t)
	ctx := context.Background()

	if _, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-10", "09:30", "11:00")); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}
	if _, err := f.svc.CreateEntry(ctx, f.batchID, f.courseInput("2024-01-16", "09:30", "11:00")); err != nil {
		t.Fatalf("CreateEntry() error = %v", err)
	}

	weekly, err := f.svc.Hours(ctx, f.batchID, "2024-01-10", false)
	if err != nil {
		t.Fatalf("Hours(weekly) error = %v", err)
	}
	if weekly.Course != 1.5 {
		t.Errorf("weekly Course = %v, want 1.5", weekly.Course)
	}

	full, err := f.svc.Hours(ctx, f.batchID, "", true)
	if err != nil {
		t.Fatalf("Hours(full batch) error = %v", err)
	}
	if full.Course != 3.0 {
		t.Errorf("full-batch Course = %v, want 3.0", full.Course)
	}
}
