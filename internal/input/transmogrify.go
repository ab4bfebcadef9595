// Package input turns loose, human-typed command-line values into the exact
// field payloads a tracker's create and update endpoints expect.
package input

import (
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/papapumpkin/trackr/internal/logging"
	"github.com/papapumpkin/trackr/internal/match"
	"github.com/papapumpkin/trackr/internal/schema"
)

// passthrough fields are sent exactly as typed.
var passthrough = map[string]bool{
	"project":     true,
	"issuetype":   true,
	"summary":     true,
	"description": true,
}

// Transmogrifier converts text values for one set of field definitions,
// typically the create or edit metadata of a single issue type.
type Transmogrifier struct {
	defs   map[string]schema.Field
	lookup map[string]string
	logger *slog.Logger
}

// Option configures a Transmogrifier.
type Option func(*Transmogrifier)

// WithAliases adds short names that resolve to real field ids, for example
// the alias table of a field registry.
func WithAliases(aliases map[string]string) Option {
	return func(t *Transmogrifier) {
		for alias, id := range aliases {
			if _, ok := t.defs[id]; !ok {
				continue
			}
			t.lookup[alias] = id
			t.lookup[match.Normalize(alias)] = id
		}
	}
}

// WithLogger sets the logger used for debug tracing.
func WithLogger(logger *slog.Logger) Option {
	return func(t *Transmogrifier) { t.logger = logger }
}

// New builds a Transmogrifier for defs, keyed by field id.
func New(defs map[string]schema.Field, opts ...Option) *Transmogrifier {
	t := &Transmogrifier{
		defs:   defs,
		lookup: make(map[string]string, len(defs)*4),
		logger: logging.Discard(),
	}
	// Names go in first so that an id always wins over a colliding name.
	for id, def := range defs {
		if def.Name == "" {
			continue
		}
		t.lookup[def.Name] = id
		t.lookup[match.Normalize(def.Name)] = id
	}
	for id := range defs {
		t.lookup[match.Normalize(id)] = id
		t.lookup[id] = id
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Lookup returns the field id a user-supplied key refers to.
func (t *Transmogrifier) Lookup(key string) (string, bool) {
	if id, ok := t.lookup[key]; ok {
		return id, true
	}
	id, ok := t.lookup[match.Normalize(key)]
	return id, ok
}

// Transmogrify converts values, keyed by any accepted spelling of a field,
// into payloads keyed by field id. Keys that match no field are dropped. The
// first validation or format error aborts the conversion and no partial
// result is returned.
func (t *Transmogrifier) Transmogrify(values map[string]string) (map[string]any, error) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make(map[string]any, len(values))
	for _, key := range keys {
		raw := values[key]
		if name := strings.ToLower(key); passthrough[name] {
			out[name] = raw
			continue
		}
		id, ok := t.Lookup(key)
		if !ok {
			t.logger.Debug("dropping unknown field", "key", key)
			continue
		}
		if passthrough[id] {
			out[id] = raw
			continue
		}
		payload, err := t.field(t.defs[id], raw)
		if err != nil {
			return nil, err
		}
		t.logger.Debug("transmogrified field", "key", key, "id", id)
		out[id] = payload
	}
	return out, nil
}

func (t *Transmogrifier) field(def schema.Field, raw string) (any, error) {
	label := def.Name
	if label == "" {
		label = def.ID
	}

	if handler := customHandler(def.CustomType()); handler != nil {
		return handler(label, raw)
	}

	if def.Type() == schema.TypeArray {
		params := SplitParams(raw)
		valid, err := match.ValidateMany(label, params, def.AllowedValues)
		if err != nil {
			return nil, err
		}
		return arrayPayload(def.ItemType(), valid), nil
	}

	if def.Type() == schema.TypeOptionWithChild {
		return optionWithChild(label, raw, def.AllowedValues)
	}

	valid, err := match.ValidateOne(label, raw, def.AllowedValues)
	if err != nil {
		return nil, err
	}
	return scalarPayload(label, def.Type(), valid)
}

func arrayPayload(items schema.Type, values []string) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		switch items {
		case schema.TypeUser, schema.TypeVersion, schema.TypeGroup, schema.TypeComponent:
			out = append(out, map[string]any{"name": v})
		case schema.TypeOption:
			out = append(out, map[string]any{"value": v})
		default:
			out = append(out, v)
		}
	}
	return out
}

func scalarPayload(label string, typ schema.Type, value string) (any, error) {
	switch typ {
	case schema.TypeNumber:
		n, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return nil, &FormatError{Field: label, Value: value, Reason: "not a number"}
		}
		return n, nil
	case schema.TypeOption:
		return map[string]any{"value": value}, nil
	case schema.TypePriority, schema.TypeVersion, schema.TypeSecurityLevel,
		schema.TypeResolution, schema.TypeUser:
		return map[string]any{"name": value}, nil
	case schema.TypeIssueLink:
		return map[string]any{"key": value}, nil
	default:
		return value, nil
	}
}

// optionWithChild parses "parent:child". The parent is checked against the
// allowed values and the child against that parent's children.
func optionWithChild(label, raw string, allowed []match.AllowedValue) (any, error) {
	parts := strings.Split(raw, ":")
	if len(parts) != 2 {
		return nil, &FormatError{Field: label, Value: raw, Reason: "expected parent:child"}
	}
	parentText, childText := strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1])

	parent, err := match.Resolve(label, parentText, allowed)
	if err != nil {
		return nil, err
	}
	child, err := match.ValidateOne(label, childText, parent.Children)
	if err != nil {
		return nil, err
	}
	return map[string]any{
		"value": parent.Display(),
		"child": map[string]any{"value": child},
	}, nil
}
