package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"skillbridge/batch-scheduler/internal/domain"
	"skillbridge/batch-scheduler/internal/service"
)

// BatchHandler exposes the batch directory and trainer roster.
type BatchHandler struct {
	batchService service.BatchService
}

// NewBatchHandler creates a new BatchHandler.
func NewBatchHandler(batchService service.BatchService) *BatchHandler {
	return &BatchHandler{batchService: batchService}
}

// --- Request/Response Structs ---

type CourseRequest struct {
	Name      string  `json:"name" binding:"required"`
	TrainerID *string `json:"trainerId,omitempty"`
}

type CreateBatchRequest struct {
	Name      string          `json:"name" binding:"required"`
	Code      string          `json:"code" binding:"required"`
	StartDate string          `json:"startDate" binding:"required"`
	EndDate   string          `json:"endDate" binding:"required"`
	Courses   []CourseRequest `json:"courses,omitempty"`
}

type TrainerResponse struct {
	ID   string      `json:"id"`
	Name string      `json:"name"`
	Role domain.Role `json:"role"`
}

// --- Handler Methods ---

// CreateBatch godoc
// @Summary Create a batch
// @Description Registers a training batch with its calendar window and course reference data.
// @Tags Batch
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param batch body CreateBatchRequest true "Batch details"
// @Success 201 {object} domain.Batch
// @Failure 400 {object} gin.H "Invalid input"
// @Failure 409 {object} gin.H "Batch code already in use"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches [post]
func (h *BatchHandler) CreateBatch(c *gin.Context) {
	var req CreateBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	batch := domain.Batch{
		Name:      req.Name,
		Code:      req.Code,
		StartDate: req.StartDate,
		EndDate:   req.EndDate,
	}
	for _, cr := range req.Courses {
		course := domain.Course{Name: cr.Name}
		if cr.TrainerID != nil && *cr.TrainerID != "" {
			id, err := primitive.ObjectIDFromHex(*cr.TrainerID)
			if err != nil {
				abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid trainer ID for course %q.", cr.Name))
				return
			}
			course.TrainerID = &id
		}
		batch.Courses = append(batch.Courses, course)
	}

	created, err := h.batchService.CreateBatch(c.Request.Context(), batch)
	if err != nil {
		if errors.Is(err, service.ErrBatchCodeTaken) {
			abortWithError(c, http.StatusConflict, err.Error())
		} else if errors.Is(err, service.ErrBadBatchWindow) {
			abortWithError(c, http.StatusBadRequest, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to create batch.")
		}
		return
	}
	c.JSON(http.StatusCreated, created)
}

// GetBatch godoc
// @Summary Get a batch directory record
// @Tags Batch
// @Produce json
// @Security BearerAuth
// @Param batchId path string true "Batch ID"
// @Success 200 {object} domain.Batch
// @Failure 404 {object} gin.H "Batch not found"
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /batches/{batchId} [get]
func (h *BatchHandler) GetBatch(c *gin.Context) {
	batchID, ok := batchIDParam(c)
	if !ok {
		return
	}

	batch, err := h.batchService.GetBatch(c.Request.Context(), batchID)
	if err != nil {
		if errors.Is(err, service.ErrBatchNotFound) {
			abortWithError(c, http.StatusNotFound, err.Error())
		} else {
			abortWithError(c, http.StatusInternalServerError, "Failed to load batch.")
		}
		return
	}
	c.JSON(http.StatusOK, batch)
}

// GetTrainerRoster godoc
// @Summary Get the trainer roster
// @Description Users holding a trainer-eligible role (admin, manager, trainer), for trainer selection.
// @Tags Batch
// @Produce json
// @Security BearerAuth
// @Success 200 {array} TrainerResponse
// @Failure 500 {object} gin.H "Internal Server Error"
// @Router /users/trainers [get]
func (h *BatchHandler) GetTrainerRoster(c *gin.Context) {
	roster, err := h.batchService.TrainerRoster(c.Request.Context())
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to load trainer roster.")
		return
	}

	resp := make([]TrainerResponse, 0, len(roster))
	for _, u := range roster {
		resp = append(resp, TrainerResponse{ID: u.ID.Hex(), Name: u.Name, Role: u.Role})
	}
	c.JSON(http.StatusOK, resp)
}
