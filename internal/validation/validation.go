// Package validation collects field violations for request validation.
// Rules are expressed with go-playground/validator tags but applied one field
// at a time from explicit Validate functions, so request types carry no tags.
package validation

import (
	"github.com/go-playground/validator/v10"

	"github.com/ayush/rv-checklist/backend/internal/apperr"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Violations maps a JSON field name to a human-readable message.
type Violations map[string]string

// Check runs tag against value and records msg for field when it fails.
// Only the first violation per field is kept.
func (v Violations) Check(field string, value any, tag, msg string) {
	if _, ok := v[field]; ok {
		return
	}
	if err := validate.Var(value, tag); err != nil {
		v[field] = msg
	}
}

// Add records a violation that is not expressible as a tag.
func (v Violations) Add(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

// Err returns an InvalidArgument error when any violation was recorded.
func (v Violations) Err() error {
	if len(v) == 0 {
		return nil
	}
	return apperr.Invalid("validation failed", v)
}
