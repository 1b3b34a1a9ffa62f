package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/healthcover/service-approval-api/internal/config"
)

type CORSOptions struct {
	AllowedOrigins   []string
	AllowedMethods   string
	AllowedHeaders   string
	AllowCredentials bool
}

// CORSOptionsFromConfig builds CORSOptions from the cors configuration section
func CORSOptionsFromConfig(cfg *config.CORSConfig) CORSOptions {
	return CORSOptions{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   strings.Join(cfg.AllowedMethods, ", "),
		AllowedHeaders:   strings.Join(cfg.AllowedHeaders, ", "),
		AllowCredentials: cfg.AllowCredentials,
	}
}

func CORSMiddleware(opts CORSOptions) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		if origin != "" && isOriginAllowed(origin, opts.AllowedOrigins) {
			c.Header("Access-Control-Allow-Origin", origin)
			c.Header("Access-Control-Allow-Methods", opts.AllowedMethods)
			c.Header("Access-Control-Allow-Headers", opts.AllowedHeaders)
			c.Header("Access-Control-Expose-Headers", "X-Correlation-ID")
			if opts.AllowCredentials {
				c.Header("Access-Control-Allow-Credentials", "true")
			}
			if c.Request.Method == http.MethodOptions {
				c.AbortWithStatus(http.StatusNoContent)
				return
			}
		}
		c.Next()
	}
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	for _, allowed := range allowedOrigins {
		if allowed == "*" || allowed == origin {
			return true
		}
	}
	return false
}
