// internal/interfaces/http/middleware/cors.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/your-org/shop-services/internal/config"
)

// CORS returns a middleware that handles Cross-Origin Resource Sharing
func CORS(cfg config.SecurityConfig) gin.HandlerFunc {
	methods := strings.Join(cfg.CORSAllowedMethods, ", ")
	headers := strings.Join(append([]string{RequestIDHeader}, cfg.CORSAllowedHeaders...), ", ")

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		c.Writer.Header().Add("Vary", "Origin")

		if origin != "" {
			switch matchOrigin(origin, cfg.CORSAllowedOrigins) {
			case originListed:
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
				c.Header("Access-Control-Expose-Headers", RequestIDHeader+", Location, Retry-After")
			case originAny:
				c.Header("Access-Control-Allow-Origin", "*")
				c.Header("Access-Control-Expose-Headers", RequestIDHeader+", Location, Retry-After")
			}
		}

		if c.Request.Method == http.MethodOptions {
			c.Header("Access-Control-Allow-Methods", methods)
			c.Header("Access-Control-Allow-Headers", headers)
			c.Header("Access-Control-Max-Age", "86400")
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

type originMatch int

const (
	originDenied originMatch = iota
	originAny
	originListed
)

// matchOrigin checks exact origins and "*.domain" wildcards before the bare
// "*". Only listed origins may send credentials.
func matchOrigin(origin string, allowedOrigins []string) originMatch {
	match := originDenied
	for _, allowed := range allowedOrigins {
		switch {
		case allowed == origin:
			return originListed
		case strings.HasPrefix(allowed, "*.") && strings.HasSuffix(origin, allowed[1:]):
			return originListed
		case allowed == "*":
			match = originAny
		}
	}
	return match
}
