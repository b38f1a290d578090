package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/kanko/errors"
)

// structValidator names fields the way config files spell them.
var structValidator = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(fieldName)
	return v
})

func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"mapstructure", "json"} {
		if name, _, _ := strings.Cut(fld.Tag.Get(tag), ","); name != "" {
			return name
		}
	}
	return toSnakeCase(fld.Name)
}

// Validate checks s against its `validate` struct tags. Failures come back
// as one INVALID_INPUT error naming each field by its config path, such as
// "extract.categories[1]".
func Validate(s any) error {
	err := structValidator().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) {
		return errors.Validation("validation failed").WithCause(err)
	}
	fields := make([]FieldError, len(verrs))
	for i, e := range verrs {
		fields[i] = FieldError{Field: fieldPath(e), Message: describe(e)}
	}
	return fieldsError(fields)
}

// fieldPath drops the root struct name from the namespace.
func fieldPath(e validator.FieldError) string {
	if _, rest, ok := strings.Cut(e.Namespace(), "."); ok {
		return rest
	}
	return e.Field()
}

// describe words a failed tag. Bounds read as item counts for
// collections and as character counts for strings.
func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must " + boundPhrase(e.Kind(), "at least", e.Param())
	case "max":
		return "must " + boundPhrase(e.Kind(), "at most", e.Param())
	case "gt":
		return "must be greater than " + e.Param()
	case "url":
		return "must be a valid URL"
	case "uuid":
		return "must be a valid UUID"
	case "oneof":
		return "must be one of: " + e.Param()
	}
	return "is invalid"
}

func boundPhrase(kind reflect.Kind, bound, n string) string {
	switch kind {
	case reflect.Slice, reflect.Map, reflect.Array:
		return "contain " + bound + " " + n + " items"
	case reflect.String:
		return "be " + bound + " " + n + " characters"
	}
	return "be " + bound + " " + n
}

func toSnakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
