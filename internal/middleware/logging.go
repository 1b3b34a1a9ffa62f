package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/healthcover/service-approval-api/internal/utils"
)

// RequestLogger writes one log line per request
func RequestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		entry := logger.WithFields(logrus.Fields{
			"correlation_id": utils.GetCorrelationIDFromContext(c),
			"method":         c.Request.Method,
			"path":           path,
			"route":          c.FullPath(),
			"status":         status,
			"latency_ms":     time.Since(start).Milliseconds(),
			"client_ip":      c.ClientIP(),
		})
		if len(c.Errors) > 0 {
			entry = entry.WithField("errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			entry.Error("Request failed")
		case status >= 400:
			entry.Warn("Request rejected")
		default:
			entry.Info("Request handled")
		}
	}
}
