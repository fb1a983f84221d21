package httpserver

import (
	"errors"
	"net/http"

	"cleaning-crm/internal/domain"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type errorResponse struct {
	Error string `json:"error"`
}

// statusFor maps a domain error kind to an HTTP status. Unknown errors are
// internal.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrConflict),
		errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// writeError aborts the request with err. Internal errors are logged and
// hidden from the caller.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Error(err),
		)
		c.AbortWithStatusJSON(status, errorResponse{Error: "internal server error"})
		return
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: err.Error()})
}

func abortWith(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, errorResponse{Error: msg})
}

// bindJSON decodes the request body into dst. Field rules are applied by
// the services.
func bindJSON(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		abortWith(c, http.StatusBadRequest, "invalid request body: "+err.Error())
		return false
	}
	return true
}
