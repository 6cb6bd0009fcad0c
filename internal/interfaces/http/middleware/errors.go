// internal/interfaces/http/middleware/errors.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/shop-services/internal/pkg/errs"
)

// ProblemContentType is the RFC 7807 media type
const ProblemContentType = "application/problem+json"

// ProblemDetails is the error body returned by every endpoint
type ProblemDetails struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail,omitempty"`
	Instance  string            `json:"instance"`
	RequestID string            `json:"request_id,omitempty"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// ErrorHandler renders the last error attached with c.Error as problem
// details. Server errors are logged and their detail hidden from the client.
func ErrorHandler(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		status := errs.StatusCode(err)

		problem := ProblemDetails{
			Type:      "about:blank",
			Title:     errs.Title(err),
			Status:    status,
			Instance:  c.Request.URL.Path,
			RequestID: c.GetString(RequestIDKey),
			Errors:    errs.FieldErrors(err),
		}

		if status >= http.StatusInternalServerError {
			logger.WithError(err).WithFields(logrus.Fields{
				"request_id": problem.RequestID,
				"method":     c.Request.Method,
				"path":       c.Request.URL.Path,
			}).Error("request failed")
		} else {
			problem.Detail = err.Error()
		}

		AbortWithProblem(c, problem)
	}
}

// AbortWithProblem writes problem as the response and stops the chain
func AbortWithProblem(c *gin.Context, problem ProblemDetails) {
	c.Header("Content-Type", ProblemContentType)
	c.AbortWithStatusJSON(problem.Status, problem)
}
