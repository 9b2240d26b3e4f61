package middleware

import (
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"benefitflow-backend/internal/shared/telemetry"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if strings.EqualFold(c.Request.Method, "OPTIONS") {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		applicationID, _ := c.Get("applicationId")
		userID, _ := c.Get("userId")

		telemetry.Info("request.complete", map[string]any{
			"request_id":     RequestIDFromContext(c),
			"method":         c.Request.Method,
			"path":           c.Request.URL.Path,
			"status":         c.Writer.Status(),
			"duration_ms":    float64(latency.Microseconds()) / 1000.0,
			"application_id": applicationID,
			"user_id":        userID,
			"client_ip":      c.ClientIP(),
		})
	}
}
