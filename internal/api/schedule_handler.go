package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/schedule"
	"skillbridge/batch-scheduler/internal/service"
)

// ScheduleHandler exposes the weekly plan, entry CRUD, replication,
// event overlay, hours, and export endpoints.
type ScheduleHandler struct {
	scheduleService service.ScheduleService
	exportService   service.ExportService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService service.ScheduleService, exportService service.ExportService) *ScheduleHandler {
	return &ScheduleHandler{
		scheduleService: scheduleService,
		exportService:   exportService,
	}
}

// --- Request/Response Structs ---

// PlanEntryRequest deliberately carries no `binding:"required"` tags on
// the scheduling fields: completeness is checked by the entry
// validator so that all field errors come back together in one map.
type PlanEntryRequest struct {
	Date         string              `json:"date"`
	StartTime    string              `json:"startTime"`
	EndTime      string              `json:"endTime"`
	ActivityType domain.ActivityType `json:"activityType"`
	ActivityName string              `json:"activityName"`
	TrainerID    *string             `json:"trainerId,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

type PlanEntryResponse struct {
	ID           string              `json:"id"`
	BatchID      string              `json:"batchId"`
	Date         string              `json:"date"`
	StartTime    string              `json:"startTime"`
	EndTime      string              `json:"endTime"`
	ActivityType domain.ActivityType `json:"activityType"`
	ActivityName string              `json:"activityName"`
	TrainerID    *string             `json:"trainerId,omitempty"`
	TrainerName  string              `json:"trainerName,omitempty"`
	Notes        string              `json:"notes,omitempty"`
}

type BatchEventRequest struct {
	Date        string           `json:"date" binding:"required"`
	EventType   domain.EventType `json:"eventType" binding:"required,oneof=holiday event"`
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description,omitempty"`
}

type BatchEventResponse struct {
	ID          string           `json:"id"`
	Date        string           `json:"date"`
	EventType   domain.EventType `json:"eventType"`
	Title       string           `json:"title"`
	Description string           `json:"description,omitempty"`
}

type WeeklyPlanResponse struct {
	WeekNumber int                            `json:"weekNumber"`
	Days       []string                       `json:"days"`
	Entries    map[string][]PlanEntryResponse `json:"entries"`
	Events     map[string]BatchEventResponse  `json:"events"`
	HasNext    bool                           `json:"hasNext"`
	HasPrev    bool                           `json:"hasPrev"`
	NextSlot   int                            `json:"nextSlot"`
	Hours      domain.HoursBreakdown          `json:"hours"`
}

type BatchPlanResponse struct {
	Entries map[string][]PlanEntryResponse `json:"entries"`
	Events  []BatchEventResponse           `json:"events"`
	Hours   domain.HoursBreakdown          `json:"hours"`
}

// --- Handler Methods ---

// GetWeeklyPlan godoc
// @Summary Get the weekly schedule view for a batch
// @Description Resolves the Monday-starting week containing the given date (default today), clamped to the batch window.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Param date query string false "Reference date (YYYY-MM-DD)"
// @Success 200 {object} WeeklyPlanResponse
// @Failure 400 {object} gin.H "Invalid batch ID or date"
// @Failure 404 {object} gin.H "Batch not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/plan [get]
func (h *ScheduleHandler) GetWeeklyPlan(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}

	plan, err := h.scheduleService.WeeklyPlan(c.Request.Context(), batchID, c.Query("date"))
	if err != nil {
		h.abortWithScheduleError(c, err, "Failed to load weekly plan.")
		return
	}

	resp := WeeklyPlanResponse{
		WeekNumber: plan.WeekNumber,
		Days:       plan.Days,
		Entries:    mapEntriesByDate(plan.Entries, plan.TrainerNames),
		Events:     make(map[string]BatchEventResponse, len(plan.Events)),
		HasNext:    plan.HasNext,
		HasPrev:    plan.HasPrev,
		NextSlot:   plan.NextSlot,
		Hours:      plan.Hours,
	}
	for date, ev := range plan.Events {
		resp.Events[date] = MapEventToResponse(&ev)
	}
	c.JSON(http.StatusOK, resp)
}

// GetAllPlans godoc
// @Summary Get the full-batch schedule view
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Success 200 {object} BatchPlanResponse
// @Failure 404 {object} gin.H "Batch not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/plan/all [get]
func (h *ScheduleHandler) GetAllPlans(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}

	plan, err := h.scheduleService.AllPlans(c.Request.Context(), batchID)
	if err != nil {
		h.abortWithScheduleError(c, err, "Failed to load batch plans.")
		return
	}

	resp := BatchPlanResponse{
		Entries: mapEntriesByDate(plan.Entries, plan.TrainerNames),
		Events:  make([]BatchEventResponse, 0, len(plan.Events)),
		Hours:   plan.Hours,
	}
	for i := range plan.Events {
		resp.Events = append(resp.Events, MapEventToResponse(&plan.Events[i]))
	}
	c.JSON(http.StatusOK, resp)
}

// CreateEntry godoc
// @Summary Schedule a new plan entry
// @Description Validates the entry against the scheduling rules; all field errors are returned together.
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Param entry body PlanEntryRequest true "Entry details"
// @Success 201 {object} PlanEntryResponse
// @Failure 400 {object} gin.H "Malformed request"
// @Failure 404 {object} gin.H "Batch not found"
// @Failure 409 {object} gin.H "Date blocked by a holiday/event or outside the batch window"
// @Failure 422 {object} gin.H "Validation errors, keyed by field"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/plan [post]
func (h *ScheduleHandler) CreateEntry(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}
	input, ok := h.bindEntryInput(c)
	if !ok {
		return
	}

	entry, err := h.scheduleService.CreateEntry(c.Request.Context(), batchID, input)
	if err != nil {
		h.abortWithScheduleError(c, err, "Failed to create plan entry.")
		return
	}
	c.JSON(http.StatusCreated, MapEntryToResponse(entry, nil))
}

// UpdateEntry godoc
// @Summary Edit an existing plan entry
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Param entryId path string true "Entry ID"
// @Param entry body PlanEntryRequest true "Updated entry details"
// @Success 200 {object} PlanEntryResponse
// @Failure 400 {object} gin.H "Malformed request"
// @Failure 404 {object} gin.H "Batch or entry not found"
// @Failure 409 {object} gin.H "Date blocked or outside the batch window"
// @Failure 422 {object} gin.H "Validation errors, keyed by field"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/plan/{entryId} [put]
func (h *ScheduleHandler) UpdateEntry(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}
	entryID, ok := objectIDParam(c, "entryId")
	if !ok {
		return
	}
	input, ok := h.bindEntryInput(c)
	if !ok {
		return
	}

	entry, err := h.scheduleService.UpdateEntry(c.Request.Context(), batchID, entryID, input)
	if err != nil {
		h.abortWithScheduleError(c, err, "Failed to update plan entry.")
		return
	}
	c.JSON(http.StatusOK, MapEntryToResponse(entry, nil))
}

// DeleteEntry godoc
// @Summary Delete a plan entry
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Param entryId path string true "Entry ID"
// @Success 204 "Entry deleted"
// @Failure 404 {object} gin.H "Batch or entry not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/plan/{entryId} [delete]
func (h *ScheduleHandler) DeleteEntry(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}
	entryID, ok := objectIDParam(c, "entryId")
	if !ok {
		return
	}

	if err := h.scheduleService.DeleteEntry(c.Request.Context(), batchID, entryID); err != nil {
		h.abortWithScheduleError(c, err, "Failed to delete plan entry.")
		return
	}
	c.Status(http.StatusNoContent)
}

// ReplicateEntry godoc
// @Summary Copy a plan entry to the next calendar day
// @Description Creates an identical entry dated one day later with a fresh identity. Refused with a boundary warning past the batch end date.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Param entryId path string true "Entry ID"
// @Success 201 {object} PlanEntryResponse
// @Failure 404 {object} gin.H "Batch or entry not found"
// @Failure 409 {object} gin.H "Boundary warning or target date blocked"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/plan/{entryId}/replicate [post]
func (h *ScheduleHandler) ReplicateEntry(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}
	entryID, ok := objectIDParam(c, "entryId")
	if !ok {
		return
	}

	entry, err := h.scheduleService.ReplicateEntry(c.Request.Context(), batchID, entryID)
	if err != nil {
		if errors.Is(err, service.ErrPastBatchEnd) {
			// Non-fatal boundary warning; nothing was created.
			c.JSON(http.StatusConflict, gin.H{"warning": err.Error()})
			return
		}
		h.abortWithScheduleError(c, err, "Failed to replicate plan entry.")
		return
	}
	c.JSON(http.StatusCreated, MapEntryToResponse(entry, nil))
}

// SetEvent godoc
// @Summary Mark a date as a holiday or special event
// @Description Suppresses new scheduling on the date. Existing entries are left untouched.
// @Tags Schedule
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Param event body BatchEventRequest true "Event details"
// @Success 201 {object} BatchEventResponse
// @Failure 400 {object} gin.H "Malformed request"
// @Failure 404 {object} gin.H "Batch not found"
// @Failure 409 {object} gin.H "An event already exists on this date, or the date is outside the batch window"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/events [post]
func (h *ScheduleHandler) SetEvent(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}
	var req BatchEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	event, err := h.scheduleService.SetEvent(c.Request.Context(), batchID, req.Date, req.EventType, req.Title, req.Description)
	if err != nil {
		h.abortWithScheduleError(c, err, "Failed to set batch event.")
		return
	}
	c.JSON(http.StatusCreated, MapEventToResponse(event))
}

// RemoveEvent godoc
// @Summary Remove the holiday/event mark from a date
// @Description Restores normal scheduling for the date; entries on other dates are unaffected.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Param date path string true "Date (YYYY-MM-DD)"
// @Success 204 "Event removed"
// @Failure 404 {object} gin.H "Batch or event not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/events/{date} [delete]
func (h *ScheduleHandler) RemoveEvent(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}
	date := c.Param("date")

	if err := h.scheduleService.RemoveEvent(c.Request.Context(), batchID, date); err != nil {
		h.abortWithScheduleError(c, err, "Failed to remove batch event.")
		return
	}
	c.Status(http.StatusNoContent)
}

// GetHours godoc
// @Summary Get the hours breakdown for a batch
// @Description Weekly scope by default; pass scope=batch for the full batch.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Param date query string false "Reference date for the weekly scope (YYYY-MM-DD)"
// @Param scope query string false "week (default) or batch"
// @Success 200 {object} domain.HoursBreakdown
// @Failure 404 {object} gin.H "Batch not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/hours [get]
func (h *ScheduleHandler) GetHours(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}
	fullBatch := c.Query("scope") == "batch"

	hours, err := h.scheduleService.Hours(c.Request.Context(), batchID, c.Query("date"), fullBatch)
	if err != nil {
		h.abortWithScheduleError(c, err, "Failed to compute hours breakdown.")
		return
	}
	c.JSON(http.StatusOK, hours)
}

// ExportPlan godoc
// @Summary Export the full batch plan as CSV
// @Description Uploads the artifact to object storage and returns a presigned download URL.
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Success 200 {object} service.BatchExport
// @Failure 404 {object} gin.H "Batch not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId}/export [get]
func (h *ScheduleHandler) ExportPlan(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}

	export, err := h.exportService.ExportBatchCSV(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, service.ErrBatchNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
			return
		}
		abortWithError(c, http.StatusInternalServerError, "Failed to export batch plan.")
		return
	}
	c.JSON(http.StatusOK, export)
}

// GetScheduleOptions godoc
// @Summary Get the fixed activity-name option lists per activity type
// @Tags Schedule
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string][]string
// @Router /schedule/options [get]
func (h *ScheduleHandler) GetScheduleOptions(c *gin.Context) {
	c.JSON(http.StatusOK, schedule.AllActivityNameOptions())
}

// --- Helpers ---

// bindEntryInput parses the request body and applies the
// default-trainer rule: when no trainer is supplied and the current
// user holds a trainer-eligible role, the entry defaults to them.
func (h *ScheduleHandler) bindEntryInput(c *gin.Context) (service.EntryInput, bool) {
	var req PlanEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return service.EntryInput{}, false
	}

	input := service.EntryInput{
		Date:         req.Date,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		ActivityType: req.ActivityType,
		ActivityName: req.ActivityName,
		Notes:        req.Notes,
	}
	if req.TrainerID != nil && *req.TrainerID != "" {
		id, err := primitive.ObjectIDFromHex(*req.TrainerID)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "Invalid trainer ID format.")
			return service.EntryInput{}, false
		}
		input.TrainerID = &id
	} else if req.ActivityType.RequiresTrainer() {
		if role, err := getUserRoleFromContext(c); err == nil {
			u := domain.User{Role: role}
			if u.IsTrainerEligible() {
				if idStr, err := getUserIDFromContext(c); err == nil {
					if id, err := primitive.ObjectIDFromHex(idStr); err == nil {
						input.TrainerID = &id
					}
				}
			}
		}
	}
	return input, true
}

// abortWithScheduleError maps schedule service errors to HTTP statuses.
func (h *ScheduleHandler) abortWithScheduleError(c *gin.Context, err error, fallback string) {
	var vErr *service.ValidationError
	switch {
	case errors.As(err, &vErr):
		c.AbortWithStatusJSON(http.StatusUnprocessableEntity, gin.H{"errors": vErr.Fields})
	case errors.Is(err, service.ErrBatchNotFound),
		errors.Is(err, service.ErrEntryNotFound),
		errors.Is(err, service.ErrEventNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrDateBlocked),
		errors.Is(err, service.ErrEventExists),
		errors.Is(err, service.ErrOutsideWindow):
		abortWithError(c, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrUnknownEvent):
		abortWithError(c, http.StatusBadRequest, err.Error())
	default:
		abortWithError(c, http.StatusInternalServerError, fallback)
	}
}

func batchIDParam(c *gin.Context) (primitive.ObjectID, bool) {
	return objectIDParam(c, "batchId")
}

func objectIDParam(c *gin.Context, name string) (primitive.ObjectID, bool) {
	id, err := primitive.ObjectIDFromHex(c.Param(name))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid %s format.", name))
		return primitive.NilObjectID, false
	}
	return id, true
}

// MapEntryToResponse converts a domain PlanEntry to its DTO. The
// optional trainerNames map resolves the trainer display name.
func MapEntryToResponse(entry *domain.PlanEntry, trainerNames map[primitive.ObjectID]string) PlanEntryResponse {
	if entry == nil {
		return PlanEntryResponse{}
	}
	resp := PlanEntryResponse{
		ID:           entry.ID.Hex(),
		BatchID:      entry.BatchID.Hex(),
		Date:         entry.Date,
		StartTime:    entry.StartTime,
		EndTime:      entry.EndTime,
		ActivityType: entry.ActivityType,
		ActivityName: entry.ActivityName,
		Notes:        entry.Notes,
	}
	if entry.TrainerID != nil && *entry.TrainerID != primitive.NilObjectID {
		hex := entry.TrainerID.Hex()
		resp.TrainerID = &hex
		if trainerNames != nil {
			resp.TrainerName = trainerNames[*entry.TrainerID]
		}
	}
	return resp
}

// MapEventToResponse converts a domain BatchEvent to its DTO.
func MapEventToResponse(event *domain.BatchEvent) BatchEventResponse {
	if event == nil {
		return BatchEventResponse{}
	}
	return BatchEventResponse{
		ID:          event.ID.Hex(),
		Date:        event.Date,
		EventType:   event.EventType,
		Title:       event.Title,
		Description: event.Description,
	}
}

func mapEntriesByDate(byDate map[string][]domain.PlanEntry, trainerNames map[primitive.ObjectID]string) map[string][]PlanEntryResponse {
	out := make(map[string][]PlanEntryResponse, len(byDate))
	for date, entries := range byDate {
		day := make([]PlanEntryResponse, 0, len(entries))
		for i := range entries {
			day = append(day, MapEntryToResponse(&entries[i], trainerNames))
		}
		out[date] = day
	}
	return out
}
