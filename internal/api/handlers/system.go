package handlers

import (
	"net/http"
	"time"

	"session-auth/internal/api/interfaces"
	"session-auth/internal/api/models"

	"github.com/gin-gonic/gin"
)

// Version is reported by the health endpoints
const Version = "1.0.0"

var startTime = time.Now()

// HealthCheck reports liveness together with the state of the user directory
func HealthCheck(services interfaces.Services) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		healthy := services.IsHealthy()
		latency := time.Since(start)

		dbCheck := models.HealthCheck{Status: "healthy", Latency: latency.String()}
		status := http.StatusOK
		overall := "healthy"
		if !healthy {
			dbCheck.Status = "unhealthy"
			dbCheck.Message = "database unreachable"
			status = http.StatusServiceUnavailable
			overall = "unhealthy"
		}

		c.JSON(status, models.HealthCheckResponse{
			Status:    overall,
			Timestamp: time.Now().Unix(),
			Version:   Version,
			Uptime:    int64(time.Since(startTime).Seconds()),
			Checks:    map[string]models.HealthCheck{"database": dbCheck},
		})
	}
}
