package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/middleware"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/internal/services"
)

// TrainingHandler handles schedule and enrollment endpoints
type TrainingHandler struct {
	trainingService *services.TrainingService
}

// NewTrainingHandler creates a new training handler
func NewTrainingHandler(trainingService *services.TrainingService) *TrainingHandler {
	return &TrainingHandler{trainingService: trainingService}
}

// CreateSchedule plans a training offering
// POST /api/v1/schedules
func (h *TrainingHandler) CreateSchedule(c *gin.Context) {
	var req models.CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	schedule, err := h.trainingService.CreateSchedule(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"schedule": schedule})
}

// ListUpcoming returns planned and active schedules, soonest first
// GET /api/v1/schedules/upcoming
func (h *TrainingHandler) ListUpcoming(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	schedules, err := h.trainingService.UpcomingSchedules(limit)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"schedules": schedules,
		"count":     len(schedules),
	})
}

// GetSchedule returns one schedule
// GET /api/v1/schedules/:id
func (h *TrainingHandler) GetSchedule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	schedule, err := h.trainingService.GetSchedule(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"schedule": schedule})
}

// UpdateScheduleStatusRequest is the schedule lifecycle payload
type UpdateScheduleStatusRequest struct {
	Status models.ScheduleStatus `json:"status" binding:"required"`
}

// UpdateScheduleStatus moves a schedule through its lifecycle
// PATCH /api/v1/schedules/:id/status
func (h *TrainingHandler) UpdateScheduleStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req UpdateScheduleStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.trainingService.UpdateScheduleStatus(id, req.Status); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Schedule status updated"})
}

// Enroll registers an employee into a schedule; enrolling twice returns the
// existing enrollment
// POST /api/v1/enrollments
func (h *TrainingHandler) Enroll(c *gin.Context) {
	var req models.EnrollRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	enrollment, err := h.trainingService.Enroll(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"enrollment": enrollment})
}

// MyEnrollments returns the authenticated employee's enrollments
// GET /api/v1/enrollments/mine
func (h *TrainingHandler) MyEnrollments(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	enrollments, err := h.trainingService.ListEmployeeEnrollments(userCtx.EmployeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enrollments": enrollments,
		"count":       len(enrollments),
	})
}

// ListEmployeeEnrollments returns one employee's enrollments, for managers
// GET /api/v1/employees/:id/enrollments
func (h *TrainingHandler) ListEmployeeEnrollments(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	enrollments, err := h.trainingService.ListEmployeeEnrollments(employeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"enrollments": enrollments,
		"count":       len(enrollments),
	})
}

// UpdateProgress records a trainee's progress
// PATCH /api/v1/enrollments/:id/progress
func (h *TrainingHandler) UpdateProgress(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	enrollment, err := h.trainingService.UpdateProgress(id, req.ProgressPct)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}

// RecordCompletion stores the final outcome of an enrollment
// POST /api/v1/enrollments/:id/complete
func (h *TrainingHandler) RecordCompletion(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.RecordCompletionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	enrollment, err := h.trainingService.RecordCompletion(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"enrollment": enrollment})
}
