package schema

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report JSON names so paths match the wire document.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _ := jsonField(f)
		return name
	})
	return v
}

// Struct validates a caller-built struct using its `validate` tags and
// returns the first violation as a *ValidationError.
func Struct(v any) error {
	if err := validate.Struct(v); err != nil {
		return fromValidator(err, "")
	}
	return nil
}

func fromValidator(err error, prefix string) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fieldError(prefix, "%v", err)
	}

	fe := verrs[0]
	// Namespace is "Type.field.sub"; drop the root type name.
	_, field, _ := strings.Cut(fe.Namespace(), ".")

	msg := "failed " + fe.Tag() + " validation"
	if fe.Param() != "" {
		msg += " (" + fe.Param() + ")"
	}
	return fieldError(joinPath(prefix, field), "%s", msg)
}
