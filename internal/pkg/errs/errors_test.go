package errs

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Invalid("name", "is required"), http.StatusUnprocessableEntity},
		{"bad request", BadRequest(map[string]string{"page": "must be a number"}), http.StatusBadRequest},
		{"wrapped not found", NotFound("product %s", "abc"), http.StatusNotFound},
		{"unauthenticated", fmt.Errorf("token: %w", ErrUnauthenticated), http.StatusUnauthorized},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"rate limited", ErrRateLimited, http.StatusTooManyRequests},
		{"deadline", fmt.Errorf("find: %w", context.DeadlineExceeded), http.StatusRequestTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusCode(tt.err))
		})
	}
}

func TestValidationError(t *testing.T) {
	err := Validation(map[string]string{"price": "must be greater than zero", "name": "is required"})

	assert.ErrorIs(t, err, ErrValidation)
	assert.Equal(t, "validation failed: name: is required; price: must be greater than zero", err.Error())
	assert.Equal(t, "is required", FieldErrors(fmt.Errorf("create: %w", err))["name"])
	assert.Nil(t, FieldErrors(ErrNotFound))
}
