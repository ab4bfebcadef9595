package input

import (
	"strconv"
	"strings"

	"github.com/papapumpkin/trackr/internal/schema"
)

type customFunc func(label, raw string) (any, error)

// customHandler returns the exclusive input handler for a vendor field type,
// or nil when the generic schema-driven path applies.
func customHandler(c schema.Custom) customFunc {
	switch c {
	case schema.CustomSprint:
		return sprintInput
	case schema.CustomEpicLink, schema.CustomParentLink:
		return issueReferenceInput
	default:
		return nil
	}
}

// sprintInput accepts only a numeric sprint id.
func sprintInput(label, raw string) (any, error) {
	id, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return nil, &FormatError{Field: label, Value: raw, Reason: "sprint must be a numeric id"}
	}
	return id, nil
}

// issueReferenceInput takes the first issue key of a list, uppercased.
func issueReferenceInput(label, raw string) (any, error) {
	params := SplitParams(raw)
	if len(params) == 0 {
		return nil, &FormatError{Field: label, Value: raw, Reason: "expected an issue key"}
	}
	return strings.ToUpper(params[0]), nil
}
