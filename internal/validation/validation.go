package validation

import "github.com/go-playground/validator/v10"

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v against its `validate` tags. The central error handler
// turns validator.ValidationErrors into per-field 400 messages.
func Struct(v any) error {
	return validate.Struct(v)
}
