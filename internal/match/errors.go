package match

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for allowed-value resolution.
var (
	// ErrNotAllowed indicates no allowed value matched the input.
	ErrNotAllowed = errors.New("value not allowed")
	// ErrAmbiguous indicates more than one allowed value partially matched
	// the input and none matched exactly.
	ErrAmbiguous = errors.New("ambiguous value")
)

// ValueError names the field and the input that failed to resolve.
// Candidates holds the competing matches for ErrAmbiguous, or every
// selectable value for ErrNotAllowed.
type ValueError struct {
	Field      string
	Value      string
	Candidates []string
	Err        error
}

// Error implements error.
func (e *ValueError) Error() string {
	if errors.Is(e.Err, ErrAmbiguous) {
		return fmt.Sprintf("field %s: %q is ambiguous; could be %s",
			e.Field, e.Value, strings.Join(e.Candidates, ", "))
	}
	if len(e.Candidates) == 0 {
		return fmt.Sprintf("field %s: %q is not an allowed value", e.Field, e.Value)
	}
	return fmt.Sprintf("field %s: %q is not an allowed value (allowed: %s)",
		e.Field, e.Value, strings.Join(e.Candidates, ", "))
}

// Unwrap returns the sentinel cause.
func (e *ValueError) Unwrap() error { return e.Err }
