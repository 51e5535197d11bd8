package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labedu/compliance-backend/internal/middleware"
	"github.com/labedu/compliance-backend/internal/services"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService     *services.AuthService
	auditService    *services.AuditService
	employeeService *services.EmployeeService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, auditService *services.AuditService, employeeService *services.EmployeeService) *AuthHandler {
	return &AuthHandler{
		authService:     authService,
		auditService:    auditService,
		employeeService: employeeService,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login authenticates an employee
// POST /api/v1/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, employee, err := h.authService.Login(req.Email, req.Password, c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tokens":   tokens,
		"employee": employee,
	})
}

// RefreshRequest is the token refresh payload
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Refresh exchanges a refresh token for a new token pair
// POST /api/v1/auth/refresh
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	tokens, err := h.authService.Refresh(req.RefreshToken)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"tokens": tokens})
}

// ChangePasswordRequest is the password change payload
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8"`
}

// ChangePassword sets a new password for the authenticated employee
// POST /api/v1/auth/change-password
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	var req ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	err := h.authService.ChangePassword(userCtx.EmployeeID, req.CurrentPassword, req.NewPassword,
		c.ClientIP(), c.GetHeader("User-Agent"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// Me returns the authenticated employee's profile
// GET /api/v1/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	employee, err := h.employeeService.Get(userCtx.EmployeeID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"employee": employee})
}

// RecentActivity returns the authenticated employee's latest login events
// GET /api/v1/auth/activity
func (h *AuthHandler) RecentActivity(c *gin.Context) {
	userCtx := middleware.MustGetUserContext(c)

	records, err := h.auditService.RecentActivity(userCtx.EmployeeID, 20)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"activity": records,
		"count":    len(records),
	})
}
