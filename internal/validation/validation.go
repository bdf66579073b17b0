package validation

import (
	"fmt"
	"math"
	"unicode"

	"github.com/microcosm-cc/bluemonday"

	apperrors "launcher-api/internal/errors"
)

// MaxUsernameLength bounds usernames so tokens stay short
const MaxUsernameLength = 64

var textPolicy = bluemonday.StrictPolicy()

// Field is a named input value checked by Required
type Field struct {
	Name  string
	Value string
}

// Required returns a ValidationError with message for the first empty field.
// Whitespace counts as a value.
func Required(message string, fields ...Field) error {
	for _, f := range fields {
		if f.Value == "" {
			return &apperrors.ValidationError{Field: f.Name, Message: message}
		}
	}
	return nil
}

// SanitizeText makes user supplied text safe to embed in HTML. Markup is stripped and
// the remaining special characters, including ones that arrived entity-encoded, stay escaped.
func SanitizeText(text string) string {
	return textPolicy.Sanitize(text)
}

// ValidateUsername validates a username for signup.
// A colon would break the token format, which splits on the first one.
func ValidateUsername(username string) error {
	if len(username) > MaxUsernameLength {
		return &apperrors.ValidationError{
			Field:   "username",
			Message: fmt.Sprintf("Username must be at most %d characters", MaxUsernameLength),
		}
	}

	for _, r := range username {
		if r == ':' || unicode.IsControl(r) {
			return &apperrors.ValidationError{
				Field:   "username",
				Message: "Username contains invalid characters",
			}
		}
	}

	return nil
}

// ValidateAmount checks that a payment amount was supplied and is a positive finite number
func ValidateAmount(amount *float64) (float64, error) {
	if amount == nil || math.IsNaN(*amount) || math.IsInf(*amount, 0) || *amount <= 0 {
		return 0, &apperrors.ValidationError{Field: "amount", Message: "Valid amount is required"}
	}
	return *amount, nil
}
