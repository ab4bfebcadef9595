// Package match resolves loosely typed user input against the enumerated
// allowed values a tracker declares for a field.
//
// Each candidate is scored against every selectable allowed value. An exact
// match (verbatim, lowercase, or lowercase with spaces turned into
// underscores) wins outright. Otherwise a single partial match, where the
// input appears inside the allowed value bounded by the string edges,
// whitespace or hyphens, is accepted. Two or more partial matches are an
// ambiguity and nothing at all is a rejection.
package match

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// AllowedValue is one selectable value from a field's schema. Trackers name
// the display text either "name" or "value" depending on the field type.
type AllowedValue struct {
	ID       string         `json:"id,omitempty"`
	Name     string         `json:"name,omitempty"`
	Value    string         `json:"value,omitempty"`
	Archived bool           `json:"archived,omitempty"`
	Disabled bool           `json:"disabled,omitempty"`
	Children []AllowedValue `json:"children,omitempty"`
}

// Display returns the text a user would type to select this value.
func (a AllowedValue) Display() string {
	if a.Name != "" {
		return a.Name
	}
	return a.Value
}

// Selectable reports whether the value may be offered as a match.
func (a AllowedValue) Selectable() bool {
	return !a.Archived && !a.Disabled
}

// Score is the strength of a match between input and an allowed value.
type Score int

// Scores in increasing strength.
const (
	NoMatch Score = iota
	Partial
	Exact
)

// Normalize lowercases s and replaces spaces with underscores. It is the
// alias form used for both field names and allowed values.
func Normalize(s string) string {
	return strings.ReplaceAll(strings.ToLower(s), " ", "_")
}

// CheckValue scores candidate against a single allowed display value.
func CheckValue(candidate, allowed string) Score {
	if candidate == "" {
		return NoMatch
	}
	forms := []string{allowed, Normalize(allowed), strings.ToLower(allowed)}
	inputs := []string{candidate}
	if lower := strings.ToLower(candidate); lower != candidate {
		inputs = append(inputs, lower)
	}

	for _, in := range inputs {
		for _, form := range forms {
			if in == form {
				return Exact
			}
		}
	}
	for _, in := range inputs {
		for _, form := range forms {
			if boundedContains(form, in) {
				return Partial
			}
		}
	}
	return NoMatch
}

// boundedContains reports whether sub occurs in s with a segment boundary
// (string edge, whitespace or '-') on both sides.
func boundedContains(s, sub string) bool {
	for offset := 0; offset <= len(s)-len(sub); {
		idx := strings.Index(s[offset:], sub)
		if idx < 0 {
			return false
		}
		start := offset + idx
		end := start + len(sub)
		if boundaryBefore(s, start) && boundaryAfter(s, end) {
			return true
		}
		_, width := utf8.DecodeRuneInString(s[start:])
		offset = start + width
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return isBoundary(r)
}

func boundaryAfter(s string, i int) bool {
	if i >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[i:])
	return isBoundary(r)
}

func isBoundary(r rune) bool {
	return r == '-' || unicode.IsSpace(r)
}

// Resolve finds the single allowed value that value refers to. An empty
// allowed list cannot be validated against, so Resolve returns a synthetic
// AllowedValue carrying the input unchanged.
func Resolve(field, value string, allowed []AllowedValue) (AllowedValue, error) {
	if len(allowed) == 0 {
		return AllowedValue{Value: value}, nil
	}

	var partial []AllowedValue
	seen := make(map[string]bool)
	for _, av := range allowed {
		if !av.Selectable() {
			continue
		}
		switch CheckValue(value, av.Display()) {
		case Exact:
			return av, nil
		case Partial:
			if !seen[av.Display()] {
				seen[av.Display()] = true
				partial = append(partial, av)
			}
		}
	}

	switch len(partial) {
	case 0:
		return AllowedValue{}, &ValueError{
			Field:      field,
			Value:      value,
			Candidates: displays(allowed),
			Err:        ErrNotAllowed,
		}
	case 1:
		return partial[0], nil
	default:
		return AllowedValue{}, &ValueError{
			Field:      field,
			Value:      value,
			Candidates: displays(partial),
			Err:        ErrAmbiguous,
		}
	}
}

// ValidateOne resolves a single scalar input and returns the canonical
// display text of the matched allowed value.
func ValidateOne(field, value string, allowed []AllowedValue) (string, error) {
	if len(allowed) == 0 {
		return value, nil
	}
	av, err := Resolve(field, value, allowed)
	if err != nil {
		return "", err
	}
	return av.Display(), nil
}

// ValidateMany resolves each input independently. The output preserves input
// order; the first failure aborts the whole batch.
func ValidateMany(field string, values []string, allowed []AllowedValue) ([]string, error) {
	out := make([]string, 0, len(values))
	for _, v := range values {
		resolved, err := ValidateOne(field, v, allowed)
		if err != nil {
			return nil, err
		}
		out = append(out, resolved)
	}
	return out, nil
}

func displays(values []AllowedValue) []string {
	out := make([]string, 0, len(values))
	for _, av := range values {
		if av.Selectable() {
			out = append(out, av.Display())
		}
	}
	return out
}
