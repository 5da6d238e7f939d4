// Package validation checks and normalizes request bodies before they reach
// the service layer. Every function is total: it returns either a normalized
// value or a *domain.ValidationError, never panics.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/storefront/catalog-api/internal/core/domain"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// check runs struct validation and folds field errors into one message.
func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		msgs := make([]string, 0, len(ve))
		for _, fe := range ve {
			msgs = append(msgs, fieldError(fe))
		}
		return &domain.ValidationError{Message: strings.Join(msgs, "; ")}
	}
	return &domain.ValidationError{Message: "invalid input"}
}

// fieldError converts a single FieldError into a human-readable message.
func fieldError(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email address"
	case "url":
		return field + " must be a valid URL"
	case "gte":
		return field + " must be a non-negative number"
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fe.Tag())
	}
}
