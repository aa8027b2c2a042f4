package schema

import (
	"errors"
	"fmt"
)

// ErrValidation is the sentinel every *ValidationError unwraps to.
var ErrValidation = errors.New("schema validation failed")

// ValidationError reports the first field that did not match the expected shape.
type ValidationError struct {
	// Field is the path of the violating field, empty for the document root.
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrValidation, e.Message)
	}
	return fmt.Sprintf("%s: %s: %s", ErrValidation, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func fieldError(path, format string, args ...any) *ValidationError {
	return &ValidationError{Field: path, Message: fmt.Sprintf(format, args...)}
}
