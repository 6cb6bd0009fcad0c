package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/your-org/shop-services/internal/pkg/errs"
)

// bindJSON decodes the body into req. Field rule violations become 422
// validation errors; malformed or missing bodies become 400.
func bindJSON(c *gin.Context, req any) error {
	err := c.ShouldBindJSON(req)
	if err == nil {
		return nil
	}

	var (
		validationErrs validator.ValidationErrors
		syntaxErr      *json.SyntaxError
		typeErr        *json.UnmarshalTypeError
		tooLarge       *http.MaxBytesError
	)

	switch {
	case errors.As(err, &validationErrs):
		fields := make(map[string]string, len(validationErrs))
		for _, fe := range validationErrs {
			fields[jsonFieldName(fe)] = describe(fe)
		}
		return errs.Validation(fields)
	case errors.As(err, &tooLarge):
		return fmt.Errorf("limit is %d bytes: %w", tooLarge.Limit, errs.ErrTooLarge)
	case errors.Is(err, io.EOF):
		return errs.BadRequest(map[string]string{"body": "request body is required"})
	case errors.As(err, &syntaxErr):
		return errs.BadRequest(map[string]string{"body": fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)})
	case errors.As(err, &typeErr):
		return errs.BadRequest(map[string]string{typeErr.Field: fmt.Sprintf("must be a %s", typeErr.Type)})
	}
	return errs.BadRequest(map[string]string{"body": err.Error()})
}

// pathUUID parses a UUID path parameter
func pathUUID(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errs.BadRequest(map[string]string{name: "must be a valid UUID"})
	}
	return id, nil
}

func jsonFieldName(fe validator.FieldError) string {
	// Namespace is Struct.Field[.Nested]; report the path below the root
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return toSnake(ns)
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "min":
		return fmt.Sprintf("must be at least %s", fe.Param())
	case "url":
		return "must be a valid URL"
	case "gt":
		return fmt.Sprintf("must be greater than %s", fe.Param())
	}
	return fmt.Sprintf("failed %q validation", fe.Tag())
}

func toSnake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 && s[i-1] != '.' && s[i-1] != '[' && !(s[i-1] >= 'A' && s[i-1] <= 'Z') {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}
