package fields

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// RenderOptions selects per-call rendering behaviour.
type RenderOptions struct {
	// Verbose includes fields marked verbose.
	Verbose bool
	// AllowPlugins permits evaluating a descriptor's Code through the
	// plugin runner. Off by default: plugins run arbitrary programs named
	// in configuration.
	AllowPlugins bool
	// AsObject returns structured values instead of display strings.
	AsObject bool
}

// Renderer renders record fields through a registry. It is constructed once
// per command invocation and passed explicitly to callers.
type Renderer struct {
	registry *Registry
	location *time.Location
	plugins  PluginRunner
}

// RendererOption configures a Renderer.
type RendererOption func(*Renderer)

// WithLocation sets the time zone used by date renderers.
func WithLocation(loc *time.Location) RendererOption {
	return func(r *Renderer) { r.location = loc }
}

// WithPluginRunner sets the runner used for descriptors carrying Code.
func WithPluginRunner(p PluginRunner) RendererOption {
	return func(r *Renderer) { r.plugins = p }
}

// NewRenderer creates a renderer over reg.
func NewRenderer(reg *Registry, opts ...RendererOption) *Renderer {
	r := &Renderer{
		registry: reg,
		location: time.Local,
		plugins:  &ExecRunner{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Registry returns the registry the renderer was built over.
func (r *Renderer) Registry() *Registry { return r.registry }

// Render renders one field of a record and returns its display name and
// value. A nil value means the field is suppressed: unknown key, absent or
// empty value, verbose-only, hidden, or a renderer that chose to hide it.
// Renderer failures are returned as a bracketed "[Error: ...]" string.
func (r *Renderer) Render(key string, fields map[string]any, opts RenderOptions) (string, any) {
	id := r.registry.Resolve(key)
	desc, ok := r.registry.Lookup(id)
	if !ok {
		return key, nil
	}
	name := desc.Label()

	raw, present := fields[id]
	if !present || isFalsy(raw) {
		return name, nil
	}
	if desc.Verbose && !opts.Verbose {
		return name, nil
	}

	switch desc.Display.Mode {
	case DisplayHidden:
		return name, nil
	case DisplayRaw:
		if opts.AsObject {
			return name, raw
		}
		return name, Stringify(raw)
	case DisplayRenderer:
		kind := desc.Display.Kind
		return name, guard(func() (any, error) {
			return r.RenderKind(kind, raw, fields, opts.AsObject)
		})
	case DisplayFunc:
		fn := desc.Display.Func
		return name, guard(func() (any, error) {
			return fn(raw, fields, opts.AsObject)
		})
	}

	if desc.Code != "" && opts.AllowPlugins {
		return name, guard(func() (any, error) {
			return r.plugins.Run(desc.Code, raw, fields)
		})
	}
	if opts.AsObject {
		return name, raw
	}
	return name, Stringify(raw)
}

// guard runs fn and turns an error or panic into an inline marker so one
// broken field never aborts display of the rest of the record.
func guard(fn func() (any, error)) (out any) {
	defer func() {
		if rec := recover(); rec != nil {
			out = errorMarker(fmt.Errorf("%v", rec))
		}
	}()
	v, err := fn()
	if err != nil {
		return errorMarker(err)
	}
	return v
}

func errorMarker(err error) string {
	return "[Error: " + err.Error() + "]"
}

// isFalsy reports whether a decoded JSON value is empty: null, false, zero,
// an empty string, an empty list or an empty object.
func isFalsy(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case bool:
		return !t
	case string:
		return t == ""
	case float64:
		return t == 0
	case int:
		return t == 0
	case int64:
		return t == 0
	case json.Number:
		return t == "0" || t == ""
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// Stringify renders a scalar or JSON structure as plain text. Integral
// floats print without a fractional part.
func Stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case int:
		return strconv.Itoa(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case fmt.Stringer:
		return t.String()
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%v", v)
	}
	return string(b)
}
