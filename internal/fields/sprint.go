package fields

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	intPattern   = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern = regexp.MustCompile(`^-?[0-9]*\.[0-9]+$`)
)

// ParseSprint parses the legacy agile plugin encoding of a sprint,
// Class@hash[key=value,...], into a record. Values "true" and "false" become
// bools, "<null>" becomes nil, numeric strings become int or float64, and
// anything else stays a string.
func ParseSprint(s string) (map[string]any, error) {
	open := strings.IndexByte(s, '[')
	closing := strings.LastIndexByte(s, ']')
	if open < 0 || closing < open {
		return nil, fmt.Errorf("%w: %q", ErrBadSprint, s)
	}

	record := make(map[string]any)
	var lastKey string
	for _, chunk := range splitTopLevel(s[open+1 : closing]) {
		if chunk == "" {
			continue
		}
		key, val, ok := strings.Cut(chunk, "=")
		if !ok {
			// A comma inside a value (a sprint goal, say) splits it; glue
			// the piece back onto the previous value.
			if prev, isString := record[lastKey].(string); isString {
				record[lastKey] = prev + "," + chunk
				continue
			}
			return nil, fmt.Errorf("%w: chunk %q has no '='", ErrBadSprint, chunk)
		}
		lastKey = key
		record[key] = coerce(val)
	}
	return record, nil
}

// splitTopLevel splits on commas that are not inside nested brackets.
func splitTopLevel(body string) []string {
	var (
		out   []string
		depth int
		start int
	)
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '[':
			depth++
		case ']':
			if depth > 0 {
				depth--
			}
		case ',':
			if depth == 0 {
				out = append(out, body[start:i])
				start = i + 1
			}
		}
	}
	return append(out, body[start:])
}

func coerce(v string) any {
	switch {
	case v == "true":
		return true
	case v == "false":
		return false
	case v == "<null>":
		return nil
	case intPattern.MatchString(v):
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	case floatPattern.MatchString(v):
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return v
}

// sprintRecords normalizes a sprint field value: a list of encoded strings
// (older servers) or of objects (newer servers).
func sprintRecords(value any) ([]map[string]any, error) {
	items, ok := value.([]any)
	if !ok {
		items = []any{value}
	}
	out := make([]map[string]any, 0, len(items))
	for _, item := range items {
		switch t := item.(type) {
		case string:
			rec, err := ParseSprint(t)
			if err != nil {
				return nil, err
			}
			out = append(out, rec)
		case map[string]any:
			out = append(out, t)
		default:
			return nil, fmt.Errorf("%w: sprint entry of type %T", ErrUnexpectedType, item)
		}
	}
	return out, nil
}

// renderSprints shows every active sprint, or when none is active, the last
// sprint in the order the server returned them.
func renderSprints(value any, asObject bool) (any, error) {
	records, err := sprintRecords(value)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	var active []map[string]any
	for _, rec := range records {
		if state, _ := rec["state"].(string); strings.EqualFold(state, "active") {
			active = append(active, rec)
		}
	}

	if len(active) == 0 {
		last := records[len(records)-1]
		if asObject {
			return last, nil
		}
		return Stringify(last["name"]), nil
	}
	if asObject {
		out := make([]any, 0, len(active))
		for _, rec := range active {
			out = append(out, rec)
		}
		return out, nil
	}
	names := make([]string, 0, len(active))
	for _, rec := range active {
		names = append(names, Stringify(rec["name"]))
	}
	return strings.Join(names, ", "), nil
}
