// internal/pkg/errs/errors.go
package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

var (
	ErrValidation      = errors.New("validation failed")
	ErrBadRequest      = errors.New("bad request")
	ErrNotFound        = errors.New("resource not found")
	ErrUnauthenticated = errors.New("authentication required")
	ErrForbidden       = errors.New("access denied")
	ErrConflict        = errors.New("conflicting record found")
	ErrTooLarge        = errors.New("request body too large")
	ErrRateLimited     = errors.New("rate limit exceeded")
)

var statusMap = []struct {
	err    error
	status int
	title  string
}{
	{ErrValidation, http.StatusUnprocessableEntity, "Validation Error"},
	{ErrBadRequest, http.StatusBadRequest, "Bad Request"},
	{ErrNotFound, http.StatusNotFound, "Resource Not Found"},
	{ErrUnauthenticated, http.StatusUnauthorized, "Unauthorized"},
	{ErrForbidden, http.StatusForbidden, "Forbidden"},
	{ErrConflict, http.StatusConflict, "Conflict"},
	{ErrTooLarge, http.StatusRequestEntityTooLarge, "Payload Too Large"},
	{ErrRateLimited, http.StatusTooManyRequests, "Too Many Requests"},
	{context.DeadlineExceeded, http.StatusRequestTimeout, "Request Timeout"},
}

// ValidationError carries field-level messages. It matches ErrValidation
// (422) or, for malformed requests, ErrBadRequest (400).
type ValidationError struct {
	Kind   error
	Fields map[string]string
}

// Validation builds a 422 validation error from field messages.
func Validation(fields map[string]string) *ValidationError {
	return &ValidationError{Kind: ErrValidation, Fields: fields}
}

// Invalid is shorthand for a single-field validation error.
func Invalid(field, message string) *ValidationError {
	return Validation(map[string]string{field: message})
}

// BadRequest builds a 400 error from field messages.
func BadRequest(fields map[string]string) *ValidationError {
	return &ValidationError{Kind: ErrBadRequest, Fields: fields}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", e.Kind.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return e.Kind
}

// NotFound wraps ErrNotFound with a resource description.
func NotFound(format string, args ...any) error {
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
}

// StatusCode resolves the HTTP status for err, defaulting to 500.
func StatusCode(err error) int {
	status, _ := classify(err)
	return status
}

// Title returns the problem title for err.
func Title(err error) string {
	_, title := classify(err)
	return title
}

// FieldErrors extracts field messages if err carries any.
func FieldErrors(err error) map[string]string {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Fields
	}
	return nil
}

func classify(err error) (int, string) {
	for _, m := range statusMap {
		if errors.Is(err, m.err) {
			return m.status, m.title
		}
	}
	return http.StatusInternalServerError, "An error occurred while processing your request."
}
