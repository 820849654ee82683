package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/ropa-cli/internal/core/domain"
	"github.com/custodia-labs/ropa-cli/internal/logger"
)

var errServiceUnavailable = errors.New("service not configured")

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoFiles),
		errors.Is(err, domain.ErrUnsupportedMIMEType),
		errors.Is(err, domain.ErrFileTooLarge),
		errors.Is(err, domain.ErrDuplicateFileName),
		errors.Is(err, domain.ErrEmptyQuestion),
		errors.Is(err, domain.ErrUnknownField),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoActiveSession),
		errors.Is(err, domain.ErrSessionInactive),
		errors.Is(err, domain.ErrNoDocuments):
		return http.StatusConflict
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrMalformedResponse):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, errServiceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func abort(c *gin.Context, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
}
