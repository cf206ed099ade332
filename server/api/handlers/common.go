// Package handlers provides HTTP handlers for the neuro admin API.
//
// Handlers decode requests, call the service layer and translate models
// sentinel errors into HTTP status codes with a uniform JSON error body.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/neuromation/neuro-admin/models"
	"github.com/neuromation/neuro-admin/server/api/middleware"
)

// MaxBodySize caps request bodies, matching the largest cluster config document.
const MaxBodySize = 1 << 20

// respondError sends a standardized error response.
func respondError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.AbortWithStatusJSON(statusCode, models.ErrorResponse{
		Error:     errorCode,
		Message:   message,
		RequestID: middleware.GetRequestID(c),
	})
}

type errorMapping struct {
	targets []error
	status  int
	code    string
}

var errorMappings = []errorMapping{
	{[]error{models.ErrNotFound, models.ErrClusterNotFound, models.ErrUserNotFound, models.ErrPresetNotFound},
		http.StatusNotFound, "not_found"},
	{[]error{models.ErrUnauthorized, models.ErrInvalidToken},
		http.StatusUnauthorized, "unauthorized"},
	{[]error{models.ErrForbidden},
		http.StatusForbidden, "forbidden"},
	{[]error{models.ErrInvalidRequest, models.ErrInvalidName, models.ErrInvalidCloudType, models.ErrInvalidRole,
		models.ErrInvalidQuota, models.ErrInvalidPreset},
		http.StatusBadRequest, "invalid_request"},
	{[]error{models.ErrConflict, models.ErrClusterExists, models.ErrUserExists, models.ErrPresetExists},
		http.StatusConflict, "conflict"},
	{[]error{models.ErrPayloadTooLarge},
		http.StatusRequestEntityTooLarge, "payload_too_large"},
	{[]error{models.ErrRateLimitExceeded},
		http.StatusTooManyRequests, "rate_limit_exceeded"},
	{[]error{models.ErrServiceUnavailable},
		http.StatusServiceUnavailable, "service_unavailable"},
}

// mapErrorToResponse converts a service error to an HTTP response.
//
// Client errors carry the error text so the CLI can show what was wrong.
// Server errors are logged and answered with a generic message.
func mapErrorToResponse(c *gin.Context, err error) {
	for _, m := range errorMappings {
		for _, target := range m.targets {
			if errors.Is(err, target) {
				respondError(c, m.status, m.code, err.Error())
				return
			}
		}
	}

	_ = c.Error(err)
	middleware.GetLogger(c).Error("request failed", zap.Error(err))
	respondError(c, http.StatusInternalServerError, "internal_error", "An internal error occurred")
}

// bindJSON decodes the request body into v, enforcing MaxBodySize.
func bindJSON(c *gin.Context, v interface{}) bool {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodySize)
	if err := c.ShouldBindJSON(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			mapErrorToResponse(c, models.ErrPayloadTooLarge)
			return false
		}
		respondError(c, http.StatusBadRequest, "invalid_request", "Invalid request body: "+err.Error())
		return false
	}
	return true
}
