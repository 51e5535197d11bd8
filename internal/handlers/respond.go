package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/labedu/compliance-backend/internal/apperrors"
)

// respondError maps a classified service error onto an HTTP response. The
// response carries the kind as a stable machine-readable code and one short
// message; wrapped causes stay server-side.
func respondError(c *gin.Context, err error) {
	var appErr *apperrors.Error
	if !errors.As(err, &appErr) {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
			"code":    string(apperrors.Internal),
		})
		return
	}

	message := appErr.Message
	if appErr.Retryable() {
		message += ". It is safe to retry this operation"
	}

	body := gin.H{
		"error":   errorSlug(appErr.Kind),
		"message": message,
		"code":    string(appErr.Kind),
	}
	if appErr.Field != "" {
		body["field"] = appErr.Field
	}
	if appErr.Kind == apperrors.Conflict && appErr.Count > 0 {
		body["count"] = appErr.Count
	}

	c.JSON(statusFor(appErr.Kind), body)
}

func statusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.Validation:
		return http.StatusBadRequest
	case apperrors.Conflict:
		return http.StatusConflict
	case apperrors.PermissionDenied:
		return http.StatusForbidden
	case apperrors.NotFound:
		return http.StatusNotFound
	case apperrors.Transient:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func errorSlug(kind apperrors.Kind) string {
	switch kind {
	case apperrors.Validation:
		return "validation_error"
	case apperrors.Conflict:
		return "conflict"
	case apperrors.PermissionDenied:
		return "forbidden"
	case apperrors.NotFound:
		return "not_found"
	case apperrors.Transient:
		return "service_unavailable"
	default:
		return "internal_error"
	}
}

// respondBindError reports a request-body binding failure
func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "validation_error",
		"message": err.Error(),
		"code":    string(apperrors.Validation),
	})
}
