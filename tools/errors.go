package tools

import (
	"errors"
	"fmt"
)

// ErrUnknownTool marks an invocation of a tool that is not advertised.
// The protocol layer maps it to a method-not-found error.
var ErrUnknownTool = errors.New("unknown tool")

// ValidationError reports a malformed or out-of-range argument, naming the
// offending field. The protocol layer maps it to an invalid-params error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid argument %q: %s", e.Field, e.Message)
}

func validationErrorf(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}
