package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/internal/services"
)

// EmployeeHandler handles employee administration endpoints
type EmployeeHandler struct {
	employeeService *services.EmployeeService
}

// NewEmployeeHandler creates a new employee handler
func NewEmployeeHandler(employeeService *services.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService}
}

// Create onboards a new employee
// POST /api/v1/employees
func (h *EmployeeHandler) Create(c *gin.Context) {
	var req models.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	employee, err := h.employeeService.Create(&req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"employee": employee})
}

// List returns employees; ?active=true filters to active ones
// GET /api/v1/employees
func (h *EmployeeHandler) List(c *gin.Context) {
	activeOnly := c.Query("active") == "true"

	employees, err := h.employeeService.List(activeOnly)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"employees": employees,
		"count":     len(employees),
	})
}

// Get returns one employee
// GET /api/v1/employees/:id
func (h *EmployeeHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	employee, err := h.employeeService.Get(id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// Update applies an admin edit
// PATCH /api/v1/employees/:id
func (h *EmployeeHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	var req models.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	employee, err := h.employeeService.Update(id, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// Deactivate soft-disables an employee, preserving training history
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) Deactivate(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondBindError(c, err)
		return
	}

	if err := h.employeeService.Deactivate(id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Employee deactivated"})
}
