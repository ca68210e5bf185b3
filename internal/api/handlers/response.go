package handlers

import (
	"net/http"

	"session-auth/internal/api/interfaces"
	"session-auth/internal/api/middlewares"
	"session-auth/internal/api/models"
	"session-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, apiErr *models.APIError) {
	resp := models.NewErrorResponse(apiErr)
	resp.RequestID = c.GetString(middlewares.ContextKeyRequestID)
	c.JSON(apiErr.StatusCode, resp)
}

func respondSuccess(c *gin.Context, status int, message string, data interface{}) {
	resp := models.NewSuccessResponse(message, data)
	resp.RequestID = c.GetString(middlewares.ContextKeyRequestID)
	c.JSON(status, resp)
}

// requestLogger returns the service logger tagged with the request id
func requestLogger(c *gin.Context, services interfaces.Services) *logger.Logger {
	return services.GetLogger().WithField("request_id", c.GetString(middlewares.ContextKeyRequestID))
}

var (
	errInvalidRequest = models.NewAPIError(models.ErrCodeInvalidRequest, "Invalid request", http.StatusBadRequest)
	errInternal       = models.NewAPIError(models.ErrCodeInternalError, "Internal server error", http.StatusInternalServerError)
)
