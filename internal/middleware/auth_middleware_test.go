package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/labedu/compliance-backend/internal/models"
	"github.com/labedu/compliance-backend/pkg/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestJWTService() *jwt.Service {
	return jwt.NewService(
		"test-access-secret-key-123456789",
		"test-refresh-secret-key-123456789",
		time.Hour,
		24*time.Hour,
	)
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func TestAuthMiddleware_Success(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	employeeID := uuid.New()
	token, err := jwtService.GenerateAccessToken(employeeID, "ana@lab.example", "UNIT_MANAGER", false)
	require.NoError(t, err)

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		userCtx, exists := GetUserContext(c)
		require.True(t, exists)
		c.JSON(http.StatusOK, gin.H{
			"message":     "success",
			"employee_id": userCtx.EmployeeID,
			"email":       userCtx.Email,
		})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "success")
	assert.Contains(t, w.Body.String(), "ana@lab.example")
}

func TestAuthMiddleware_MissingAuthHeader(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "MISSING_AUTH_HEADER")
}

func TestAuthMiddleware_InvalidAuthFormat(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	tests := []struct {
		name   string
		header string
	}{
		{"Missing Bearer", "some-token"},
		{"Wrong prefix", "Basic some-token"},
		{"Empty Bearer", "Bearer "},
		{"No token", "Bearer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/protected", nil)
			req.Header.Set("Authorization", tt.header)
			w := httptest.NewRecorder()

			router.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Contains(t, w.Body.String(), "INVALID_AUTH_FORMAT")
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	router.GET("/protected", AuthMiddleware(jwtService), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer garbage.token.here")
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	expired := jwt.NewService("test-access-secret-key-123456789", "r", -time.Minute, -time.Minute)
	router := setupTestRouter()

	token, err := expired.GenerateAccessToken(uuid.New(), "ana@lab.example", "COLLABORATOR", false)
	require.NoError(t, err)

	// Same secret, sane expiry: the token parses but is expired
	validator := jwt.NewService("test-access-secret-key-123456789", "r", time.Hour, time.Hour)
	router.GET("/protected", AuthMiddleware(validator), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "should not reach here"})
	})

	req := httptest.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "TOKEN_EXPIRED")
}

func requireRoleRouter(jwtService *jwt.Service, roles ...models.SystemRole) *gin.Engine {
	router := setupTestRouter()
	router.GET("/gated", AuthMiddleware(jwtService), RequireRole(roles...), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "allowed"})
	})
	return router
}

func TestRequireRole_AllowsMatchingRole(t *testing.T) {
	jwtService := setupTestJWTService()
	router := requireRoleRouter(jwtService, models.SystemRoleUnitManager)

	token, err := jwtService.GenerateAccessToken(uuid.New(), "m@lab.example", string(models.SystemRoleUnitManager), false)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_AdminAlwaysPasses(t *testing.T) {
	jwtService := setupTestJWTService()
	router := requireRoleRouter(jwtService, models.SystemRoleInstructor)

	token, err := jwtService.GenerateAccessToken(uuid.New(), "admin@lab.example", string(models.SystemRoleAdmin), false)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_ForbidsOtherRoles(t *testing.T) {
	jwtService := setupTestJWTService()
	router := requireRoleRouter(jwtService, models.SystemRoleUnitManager)

	token, err := jwtService.GenerateAccessToken(uuid.New(), "c@lab.example", string(models.SystemRoleCollaborator), false)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "INSUFFICIENT_PERMISSIONS")
}

func TestRequirePasswordChanged_Blocks(t *testing.T) {
	jwtService := setupTestJWTService()
	router := setupTestRouter()

	token, err := jwtService.GenerateAccessToken(uuid.New(), "new@lab.example", string(models.SystemRoleCollaborator), true)
	require.NoError(t, err)

	router.GET("/gated", AuthMiddleware(jwtService), RequirePasswordChanged(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "allowed"})
	})

	req := httptest.NewRequest("GET", "/gated", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "PASSWORD_CHANGE_REQUIRED")
}
