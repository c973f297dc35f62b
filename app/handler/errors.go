package handler

import (
	"errors"
	"net/http"
	"strconv"

	"carbontrace/internal/service"
	"carbontrace/pkg/apperrors"
	"carbontrace/pkg/logger"
	"carbontrace/pkg/runner"
	"carbontrace/pkg/status"

	"github.com/gin-gonic/gin"
)

var sanitizer = status.NewSanitizer()

// respondError maps a service error to a status code and writes it as {"error": ...}
func respondError(c *gin.Context, op string, err error) {
	ctx := c.Request.Context()

	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.WarnCtx(ctx, "%s rejected: %v", op, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, runner.ErrExecution):
		execErr, ok := runner.AsExecutionError(err)
		if !ok {
			execErr = &runner.ExecutionError{Kind: status.KindUnknown, Message: err.Error()}
		}
		sanitized, message := sanitizer.SanitizeExecutionError(execErr)
		c.JSON(http.StatusUnprocessableEntity, gin.H{
			"error":      message,
			"kind":       execErr.Kind,
			"code":       sanitized.ErrorCode,
			"suggestion": sanitized.Suggestion,
		})
	case errors.Is(err, service.ErrQueueDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDataCorruption):
		logger.ErrorCtx(ctx, "%s: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	default:
		logger.ErrorCtx(ctx, "%s failed: %v", op, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// paramID parses a positive int64 path parameter, writing 400 when it is invalid
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": name + " must be a positive integer"})
		return 0, false
	}
	return id, true
}

// queryInt reads an integer query parameter, returning 0 when absent or unparseable
func queryInt(c *gin.Context, name string) int {
	v, err := strconv.Atoi(c.Query(name))
	if err != nil {
		return 0
	}
	return v
}
