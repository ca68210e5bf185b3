package middlewares

import (
	"fmt"
	"net/http"

	"session-auth/internal/api/models"
	"session-auth/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Recovery middleware recovers from panics and answers with a 500 envelope
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithField("request_id", c.GetString(ContextKeyRequestID)).
			Error("Panic recovered: %v", recovered)

		resp := models.NewErrorResponse(models.NewAPIError(
			models.ErrCodeInternalError, "Internal server error", http.StatusInternalServerError))
		if gin.Mode() != gin.ReleaseMode {
			resp.Error.Details = fmt.Sprint(recovered)
		}
		c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
	})
}
