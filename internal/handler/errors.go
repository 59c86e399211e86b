package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

// snakeCase converts a struct field name like "MinOrderValue" to the JSON
// field name "min_order_value" used in error messages. Acronym runs stay
// together, so "ProductID" becomes "product_id" and "SKU" becomes "sku".
func snakeCase(field string) string {
	runes := []rune(field)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && !unicode.IsUpper(runes[i+1]))) {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}

// formatValidationError converts validator errors to user-facing messages.
// Only the first failing field is reported.
func formatValidationError(err error) string {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			field := snakeCase(fe.Field())
			switch fe.Tag() {
			case "required":
				return "invalid request: " + field + " is required"
			case "notblank":
				return "invalid request: " + field + " cannot be whitespace only"
			case "max":
				return "invalid request: " + field + " exceeds maximum length of " + fe.Param()
			case "min":
				return "invalid request: " + field + " must be at least " + fe.Param() + " characters"
			case "gte":
				return "invalid request: " + field + " must be at least " + fe.Param()
			case "oneof":
				return "invalid request: " + field + " must be one of: " + fe.Param()
			case "email":
				return "invalid request: " + field + " must be a valid email"
			case "uuid4":
				return "invalid request: " + field + " must be a valid id"
			default:
				return "invalid request: " + field + " is invalid"
			}
		}
	}
	return "invalid request"
}
