package input

import (
	"errors"
	"fmt"
)

// ErrBadFormat indicates input text that cannot be parsed into the shape a
// field requires, such as a cascading option without its ':' separator.
var ErrBadFormat = errors.New("malformed value")

// FormatError names the field and value that failed to parse.
type FormatError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements error.
func (e *FormatError) Error() string {
	return fmt.Sprintf("field %s: %q: %s", e.Field, e.Value, e.Reason)
}

// Unwrap returns ErrBadFormat.
func (e *FormatError) Unwrap() error { return ErrBadFormat }
