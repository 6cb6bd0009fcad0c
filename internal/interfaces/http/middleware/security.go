package middleware

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeaders adds the response headers expected from a JSON-only API.
// HSTS is sent only when strictTransport is set.
func SecurityHeaders(serverName string, strictTransport bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Frame-Options", "DENY")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("Referrer-Policy", "no-referrer")
		// Responses are data, never documents
		h.Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		h.Set("Cache-Control", "no-store")
		if strictTransport {
			h.Set("Strict-Transport-Security", "max-age=63072000; includeSubDomains")
		}
		h.Set("Server", serverName)

		c.Next()
	}
}
