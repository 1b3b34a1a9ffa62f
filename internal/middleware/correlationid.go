package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/healthcover/service-approval-api/internal/utils"
)

// CorrelationIDMiddleware reuses the caller's correlation ID or generates one, and echoes it back
func CorrelationIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		correlationID := extractCorrelationID(c)
		if correlationID == "" {
			correlationID = uuid.New().String()
		}
		c.Set(utils.CorrelationIDKey, correlationID)
		c.Header(utils.CorrelationIDHeader, correlationID)
		c.Next()
	}
}

func extractCorrelationID(c *gin.Context) string {
	headers := []string{utils.CorrelationIDHeader, "X-Request-ID", "X-Trace-ID"}
	for _, header := range headers {
		if id := c.GetHeader(header); id != "" {
			return id
		}
	}
	return ""
}
