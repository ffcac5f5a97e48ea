// Package validation provides the custom jellydator/validation rules shared by request DTOs and
// configuration.
package validation

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	validation "github.com/jellydator/validation"

	apperrors "github.com/allisson/formseal/internal/errors"
)

var fieldNameRegex = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_-]*$`)

// WrapValidationError wraps validation errors as ErrInvalidInput.
func WrapValidationError(err error) error {
	if err == nil {
		return nil
	}
	return apperrors.Wrap(apperrors.ErrInvalidInput, err.Error())
}

// NotBlank validates that a string is not empty after trimming whitespace.
var NotBlank = validation.NewStringRuleWithError(
	func(s string) bool {
		return strings.TrimSpace(s) != ""
	},
	validation.NewError("validation_not_blank", "must not be blank"),
)

// FieldName validates a form field name as used in the sensitive field registry: a letter or
// underscore followed by letters, digits, underscores or dashes.
var FieldName = validation.NewStringRuleWithError(
	fieldNameRegex.MatchString,
	validation.NewError("validation_field_name", "must be a valid form field name"),
)

// JSONObject validates that a json.RawMessage holds a single JSON object.
var JSONObject = validation.By(func(value interface{}) error {
	raw, ok := value.(json.RawMessage)
	if !ok {
		return validation.NewError("validation_json_object_type", "must be raw JSON")
	}
	if len(raw) == 0 {
		return nil // Let Required handle empty payloads
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' || !json.Valid(trimmed) {
		return validation.NewError("validation_json_object", "must be a JSON object")
	}
	return nil
})

// MaxBytes validates that a json.RawMessage is at most n bytes long.
func MaxBytes(n int) validation.Rule {
	return validation.By(func(value interface{}) error {
		raw, ok := value.(json.RawMessage)
		if !ok {
			return validation.NewError("validation_max_bytes_type", "must be raw JSON")
		}
		if len(raw) > n {
			return validation.NewError("validation_max_bytes", "payload is too large")
		}
		return nil
	})
}
