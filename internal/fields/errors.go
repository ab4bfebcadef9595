package fields

import "errors"

// Sentinel errors raised inside renderers. Render converts them into inline
// error markers; they never abort rendering of other fields.
var (
	// ErrMissingKey indicates a projection renderer found the object but not
	// the key it projects.
	ErrMissingKey = errors.New("missing key")
	// ErrUnexpectedType indicates a raw value whose shape a renderer cannot
	// handle.
	ErrUnexpectedType = errors.New("unexpected value type")
	// ErrBadSprint indicates a sprint string that does not follow the
	// Class@hash[key=value,...] syntax.
	ErrBadSprint = errors.New("malformed sprint")
	// ErrPluginDisabled indicates a plugin reference was evaluated while
	// plugins are disabled.
	ErrPluginDisabled = errors.New("field plugins are disabled")
)
