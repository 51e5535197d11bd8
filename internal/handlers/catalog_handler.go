package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/internal/services"
)

// CatalogHandler handles training module and lesson endpoints
type CatalogHandler struct {
	catalogService *services.CatalogService
}

// NewCatalogHandler creates a new catalog handler
func NewCatalogHandler(catalogService *services.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// CreateModule adds a module to the catalog in DRAFT status
// POST /api/v1/modules
func (h *CatalogHandler) CreateModule(c *gin.Context) {
	var req models.SaveModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	module, err := h.catalogService.CreateModule(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"module": module})
}

// ListModules returns the full catalog
// GET /api/v1/modules
func (h *CatalogHandler) ListModules(c *gin.Context) {
	modules, err := h.catalogService.ListModules()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"modules": modules,
		"count":   len(modules),
	})
}

// GetModule returns one module with its lessons
// GET /api/v1/modules/:id
func (h *CatalogHandler) GetModule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	module, err := h.catalogService.GetModule(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"module": module})
}

// UpdateModule replaces a module's editable attributes
// PUT /api/v1/modules/:id
func (h *CatalogHandler) UpdateModule(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.SaveModuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	module, err := h.catalogService.UpdateModule(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"module": module})
}

// Publish makes a module available for scheduling and the matrix
// POST /api/v1/modules/:id/publish
func (h *CatalogHandler) Publish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.catalogService.Publish(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Module published"})
}

// Unpublish moves a module back to DRAFT
// POST /api/v1/modules/:id/unpublish
func (h *CatalogHandler) Unpublish(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.catalogService.Unpublish(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Module unpublished"})
}

// AddLesson appends a lesson to a module
// POST /api/v1/modules/:id/lessons
func (h *CatalogHandler) AddLesson(c *gin.Context) {
	moduleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.SaveLessonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	lesson, err := h.catalogService.AddLesson(moduleID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"lesson": lesson})
}

// RemoveLesson deletes a lesson
// DELETE /api/v1/modules/:id/lessons/:lesson_id
func (h *CatalogHandler) RemoveLesson(c *gin.Context) {
	lessonID, err := uuid.Parse(c.Param("lesson_id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.catalogService.RemoveLesson(lessonID); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Lesson removed"})
}
