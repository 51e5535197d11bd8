package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/internal/services"
)

// OrgHandler handles unit and sector endpoints
type OrgHandler struct {
	orgService *services.OrgService
}

// NewOrgHandler creates a new organization handler
func NewOrgHandler(orgService *services.OrgService) *OrgHandler {
	return &OrgHandler{orgService: orgService}
}

// CreateUnit registers a new laboratory unit
// POST /api/v1/units
func (h *OrgHandler) CreateUnit(c *gin.Context) {
	var req models.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	unit, err := h.orgService.CreateUnit(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"unit": unit})
}

// ListUnits returns all units
// GET /api/v1/units
func (h *OrgHandler) ListUnits(c *gin.Context) {
	units, err := h.orgService.ListUnits()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"units": units,
		"count": len(units),
	})
}

// GetUnit returns one unit
// GET /api/v1/units/:id
func (h *OrgHandler) GetUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	unit, err := h.orgService.GetUnit(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// UpdateUnit changes a unit's attributes
// PUT /api/v1/units/:id
func (h *OrgHandler) UpdateUnit(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	unit, err := h.orgService.UpdateUnit(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"unit": unit})
}

// CreateSector adds a sector under a unit
// POST /api/v1/units/:id/sectors
func (h *OrgHandler) CreateSector(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.CreateSectorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	sector, err := h.orgService.CreateSector(unitID, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"sector": sector})
}

// ListSectors returns the sectors of a unit
// GET /api/v1/units/:id/sectors
func (h *OrgHandler) ListSectors(c *gin.Context) {
	unitID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	sectors, err := h.orgService.ListSectors(unitID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sectors": sectors,
		"count":   len(sectors),
	})
}
