package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/internal/services"
)

// MatrixHandler handles job role and training matrix endpoints
type MatrixHandler struct {
	matrixService *services.MatrixService
}

// NewMatrixHandler creates a new matrix handler
func NewMatrixHandler(matrixService *services.MatrixService) *MatrixHandler {
	return &MatrixHandler{matrixService: matrixService}
}

// CreateRole registers a new job role
// POST /api/v1/roles
func (h *MatrixHandler) CreateRole(c *gin.Context) {
	var req models.SaveJobRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.matrixService.CreateRole(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"role": role})
}

// ListRoles returns all job roles
// GET /api/v1/roles
func (h *MatrixHandler) ListRoles(c *gin.Context) {
	roles, err := h.matrixService.ListRoles()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"roles": roles,
		"count": len(roles),
	})
}

// UpdateRole renames a role or changes its critical-function flag
// PUT /api/v1/roles/:id
func (h *MatrixHandler) UpdateRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.SaveJobRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	role, err := h.matrixService.UpdateRole(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"role": role})
}

// DeleteRole removes a role and its matrix rows, refused while employees
// still hold the role
// DELETE /api/v1/roles/:id
func (h *MatrixHandler) DeleteRole(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.matrixService.RemoveRole(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Role deleted"})
}

// GetRequirements returns the matrix rows for a role
// GET /api/v1/roles/:id/requirements
func (h *MatrixHandler) GetRequirements(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	reqs, err := h.matrixService.GetRequirements(roleID)
	if err != nil {
		respondError(c, err)
		return
	}

	// The matrix screen works in frequencies, not month counts
	type requirementView struct {
		models.TrainingRequirement
		Frequency models.Frequency `json:"frequency"`
	}
	views := make([]requirementView, 0, len(reqs))
	for _, r := range reqs {
		views = append(views, requirementView{
			TrainingRequirement: r,
			Frequency:           models.FrequencyFromMonths(r.RecertificationPeriodMonths),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"requirements": views,
		"count":        len(views),
	})
}

// SetRequirement writes one matrix cell
// PUT /api/v1/roles/:id/requirements
func (h *MatrixHandler) SetRequirement(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.SetRequirementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.matrixService.SetRequirement(roleID, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Requirement saved"})
}

// BulkUpsertRequirements saves a full matrix screen for one role atomically
// PUT /api/v1/roles/:id/requirements/bulk
func (h *MatrixHandler) BulkUpsertRequirements(c *gin.Context) {
	roleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.BulkUpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.matrixService.BulkUpsert(roleID, &req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Matrix saved",
		"rows":    len(req.Rows),
	})
}
