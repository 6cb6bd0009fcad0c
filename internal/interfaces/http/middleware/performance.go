package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SlowRequestLogger warns about requests slower than threshold.
// A non-positive threshold disables it.
func SlowRequestLogger(logger *logrus.Logger, threshold time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if threshold <= 0 {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		if elapsed > threshold {
			logger.WithFields(logrus.Fields{
				"request_id": c.GetString(RequestIDKey),
				"method":     c.Request.Method,
				"route":      c.FullPath(),
				"path":       c.Request.URL.Path,
				"status":     c.Writer.Status(),
				"elapsed_ms": elapsed.Milliseconds(),
				"threshold":  threshold.String(),
			}).Warn("slow request")
		}
	}
}
