package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/middleware"
	"github.com/labedu/compliance-backend/internal/services"
)

// ComplianceHandler handles compliance report endpoints
type ComplianceHandler struct {
	complianceService *services.ComplianceService
}

// NewComplianceHandler creates a new compliance handler
func NewComplianceHandler(complianceService *services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{complianceService: complianceService}
}

// EmployeeReport returns the compliance rows for one employee
// GET /api/v1/compliance/employees/:id
func (h *ComplianceHandler) EmployeeReport(c *gin.Context) {
	employeeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	items, err := h.complianceService.EvaluateEmployee(employeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   items,
		"summary": h.complianceService.Summarize(items),
	})
}

// MyReport returns the authenticated employee's own compliance rows
// GET /api/v1/compliance/mine
func (h *ComplianceHandler) MyReport(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	items, err := h.complianceService.EvaluateEmployee(userCtx.EmployeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   items,
		"summary": h.complianceService.Summarize(items),
	})
}

// Overview returns the organization-wide compliance report and summary
// GET /api/v1/compliance/overview
func (h *ComplianceHandler) Overview(c *gin.Context) {
	items, err := h.complianceService.EvaluateAll()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"items":   items,
		"summary": h.complianceService.Summarize(items),
	})
}

// Alerts returns only the rows that need attention, most urgent first
// GET /api/v1/compliance/alerts
func (h *ComplianceHandler) Alerts(c *gin.Context) {
	items, err := h.complianceService.EvaluateAll()
	if err != nil {
		respondError(c, err)
		return
	}

	alerts := h.complianceService.Alerts(items)
	c.JSON(http.StatusOK, gin.H{
		"alerts": alerts,
		"count":  len(alerts),
	})
}
