package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/labedu/compliance-backend/internal/apperrors"
	"github.com/stretchr/testify/assert"
)

func performErrorRequest(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/boom", func(c *gin.Context) {
		respondError(c, err)
	})

	req := httptest.NewRequest("GET", "/boom", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRespondError_TransientMentionsRetry(t *testing.T) {
	w := performErrorRequest(t, apperrors.New(apperrors.Transient, "database is unavailable"))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "TRANSIENT")
	assert.Contains(t, w.Body.String(), "safe to retry")
}

func TestRespondError_NonRetryableKindsCarryNoRetryHint(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"validation", apperrors.Validationf("email", "email is malformed"), http.StatusBadRequest},
		{"conflict", apperrors.Conflictf(2, "role is assigned to 2 employee(s)"), http.StatusConflict},
		{"permission denied", apperrors.New(apperrors.PermissionDenied, "invalid credentials"), http.StatusForbidden},
		{"not found", apperrors.NotFoundf("unit not found"), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := performErrorRequest(t, tt.err)
			assert.Equal(t, tt.status, w.Code)
			assert.NotContains(t, w.Body.String(), "safe to retry")
		})
	}
}

func TestRespondError_UnclassifiedErrorIsInternal(t *testing.T) {
	w := performErrorRequest(t, errors.New("boom"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "internal_error")
	assert.NotContains(t, w.Body.String(), "boom")
}
