package validation

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/kbukum/kanko/errors"
)

// FieldError is one failed check.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Validator accumulates failed checks. Every check skips an empty value;
// required fields are left to struct tags.
type Validator struct {
	errors []FieldError
}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) AddError(field, message string) {
	v.errors = append(v.errors, FieldError{Field: field, Message: message})
}

func (v *Validator) HasErrors() bool { return len(v.errors) > 0 }

func (v *Validator) Errors() []FieldError { return v.errors }

// Validate returns nil when every check passed, otherwise an INVALID_INPUT
// error listing the fields, also attached as the "fields" detail.
func (v *Validator) Validate() *errors.AppError {
	if !v.HasErrors() {
		return nil
	}
	return fieldsError(v.errors)
}

// Err is Validate as a plain error, so a clean result is a true nil.
func (v *Validator) Err() error {
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	return nil
}

func (v *Validator) check(field, value string, ok func(string) bool, message string) *Validator {
	if value != "" && !ok(value) {
		v.AddError(field, message)
	}
	return v
}

func (v *Validator) OptionalUUID(field, value string) *Validator {
	return v.check(field, value, func(s string) bool {
		_, err := uuid.Parse(s)
		return err == nil
	}, "must be a valid UUID")
}

// Pattern fails on a value not matching pattern, or on a bad pattern.
func (v *Validator) Pattern(field, value, pattern string) *Validator {
	return v.check(field, value, func(s string) bool {
		matched, err := regexp.MatchString(pattern, s)
		return err == nil && matched
	}, "does not match required format")
}

func (v *Validator) OneOf(field, value string, allowed []string) *Validator {
	return v.check(field, value, func(s string) bool {
		return slices.Contains(allowed, s)
	}, "must be one of: "+strings.Join(allowed, ", "))
}

// fieldsError joins field errors into one "field: message; ..." error.
func fieldsError(fields []FieldError) *errors.AppError {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%s: %s", f.Field, f.Message)
	}
	return errors.Validation(strings.Join(parts, "; ")).WithDetail("fields", fields)
}
