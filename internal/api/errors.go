package api

import (
	"alcyxob/fitness-community/internal/service"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// errorStatus maps a service error to an HTTP status and a message that is
// safe to show to the client.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidReactionType):
		return http.StatusBadRequest, "Invalid reaction type"
	case errors.Is(err, service.ErrInvalidPlan):
		return http.StatusBadRequest, "Plan must be a JSON document"
	case errors.Is(err, service.ErrEmptyContent):
		return http.StatusBadRequest, "Content cannot be empty"
	case errors.Is(err, service.ErrValidation):
		return http.StatusBadRequest, "Invalid input"
	case errors.Is(err, service.ErrAuthentication):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, service.ErrPermission):
		return http.StatusForbidden, "Forbidden"
	case errors.Is(err, service.ErrPostNotFound):
		return http.StatusNotFound, "Post not found"
	case errors.Is(err, service.ErrPlanNotFound):
		return http.StatusNotFound, "Plan not found"
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, "Not found"
	case errors.Is(err, service.ErrConflict):
		return http.StatusConflict, "Conflict"
	case errors.Is(err, service.ErrExportUnavailable):
		return http.StatusServiceUnavailable, "Plan export is not available"
	default:
		return http.StatusInternalServerError, "Internal server error"
	}
}

// respondError writes err as a JSON error response. Unexpected errors are logged.
func respondError(c *gin.Context, err error) {
	code, message := errorStatus(err)
	if code >= http.StatusInternalServerError {
		logUnexpected(c, err)
	}
	abortWithError(c, code, message)
}

func logUnexpected(c *gin.Context, err error) {
	_ = c.Error(err)
	logrus.WithError(err).WithFields(logrus.Fields{
		"method": c.Request.Method,
		"path":   c.FullPath(),
	}).Error("Request failed")
}
