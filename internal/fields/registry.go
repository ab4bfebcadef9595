package fields

import (
	"github.com/papapumpkin/trackr/internal/schema"
)

// Definition is a field definition as published by the tracker or supplied
// in a user override file. Display is either a bool (false suppresses, true
// prints the raw value) or the name of a renderer or registered callback.
type Definition struct {
	ID             string         `toml:"id" json:"id"`
	Name           string         `toml:"name,omitempty" json:"name,omitempty"`
	Schema         *schema.Schema `toml:"schema,omitempty" json:"schema,omitempty"`
	Display        any            `toml:"display,omitempty" json:"display,omitempty"`
	Code           string         `toml:"code,omitempty" json:"code,omitempty"`
	Verbose        bool           `toml:"verbose,omitempty" json:"verbose,omitempty"`
	Alias          string         `toml:"alias,omitempty" json:"alias,omitempty"`
	AliasReference string         `toml:"_alias_reference,omitempty" json:"_alias_reference,omitempty"`
}

// FromSchema converts tracker field listings into definitions.
func FromSchema(list []schema.Field) []Definition {
	out := make([]Definition, 0, len(list))
	for _, f := range list {
		out = append(out, Definition{ID: f.ID, Name: f.Name, Schema: f.Schema})
	}
	return out
}

// BuildOptions controls how definitions merge onto the built-in table.
type BuildOptions struct {
	// PromoteCustom orders fields not in the built-in table before the
	// built-ins.
	PromoteCustom bool
	// Funcs are callbacks a definition may name as its display.
	Funcs map[string]RenderFunc
}

// Registry is the ordered, merged field table for one invocation. It is
// immutable once built.
type Registry struct {
	order   []string
	entries map[string]Descriptor
	aliases map[string]string
	reverse map[string]string
}

// Build merges defs, in order, onto the built-in table. Later definitions
// extend earlier ones. Entries without an id, with an unknown display name,
// or for fields that have dedicated display logic are skipped.
func Build(defs []Definition, opts BuildOptions) *Registry {
	entries := make(map[string]Descriptor)
	var builtinOrder, customOrder []string
	for _, d := range builtinTable() {
		entries[d.ID] = d
		builtinOrder = append(builtinOrder, d.ID)
	}

	aliases := make(map[string]string)
	addAlias := func(alias, target string) {
		if alias == "" || alias == target {
			return
		}
		aliases[alias] = target
	}

	for _, def := range defs {
		if def.ID == "" {
			continue
		}
		display, ok := parseDisplay(def.Display, opts.Funcs)
		if !ok {
			continue
		}

		target := def.ID
		if def.AliasReference != "" {
			target = def.AliasReference
			addAlias(def.ID, target)
		}
		if IsDedicated(target) {
			continue
		}
		addAlias(def.Alias, target)

		existing, found := entries[target]
		if found && existing.Immutable {
			continue
		}
		if !found {
			existing = Descriptor{ID: target, Custom: true}
			customOrder = append(customOrder, target)
		}
		entries[target] = extend(existing, def, display)
	}

	order := make([]string, 0, len(builtinOrder)+len(customOrder))
	if opts.PromoteCustom {
		order = append(order, customOrder...)
		order = append(order, builtinOrder...)
	} else {
		order = append(order, builtinOrder...)
		order = append(order, customOrder...)
	}

	reverse := make(map[string]string, len(aliases))
	for alias, target := range aliases {
		if prev, ok := reverse[target]; !ok || alias < prev {
			reverse[target] = alias
		}
	}
	return &Registry{order: order, entries: entries, aliases: aliases, reverse: reverse}
}

// extend applies def onto d. A definition that configures neither display
// nor code keeps the existing strategy, or infers one from its schema when
// there is none.
func extend(d Descriptor, def Definition, display Display) Descriptor {
	if def.Name != "" && (def.AliasReference == "" || d.Name == "") {
		d.Name = def.Name
	}
	if def.Verbose {
		d.Verbose = true
	}
	switch {
	case display.Mode != DisplayUnset:
		d.Display = display
	case def.Code != "":
		d.Display = Display{}
		d.Code = def.Code
	case d.Display.Mode == DisplayUnset && d.Code == "" && def.Schema != nil:
		d.Display = renderer(inferKind(*def.Schema))
	}
	return d
}

func parseDisplay(v any, funcs map[string]RenderFunc) (Display, bool) {
	switch t := v.(type) {
	case nil:
		return Display{}, true
	case bool:
		if t {
			return Display{Mode: DisplayRaw}, true
		}
		return hidden, true
	case string:
		if t == "" {
			return Display{}, true
		}
		if k, ok := ParseKind(t); ok {
			return renderer(k), true
		}
		if fn, ok := funcs[t]; ok {
			return Display{Mode: DisplayFunc, Func: fn, FuncName: t}, true
		}
	}
	return Display{}, false
}

// inferKind selects the default renderer for a schema type.
func inferKind(s schema.Schema) Kind {
	switch schema.ParseCustom(s.Custom) {
	case schema.CustomSprint:
		return KindSprint
	case schema.CustomEpicLink, schema.CustomParentLink:
		return KindAuto
	}

	switch schema.ParseType(s.Type) {
	case schema.TypeString:
		return KindString
	case schema.TypeDate:
		return KindDate
	case schema.TypeDatetime:
		return KindDatetime
	case schema.TypeUser:
		return KindUser
	case schema.TypeOption:
		return KindValue
	case schema.TypeOptionWithChild:
		return KindOptionWithChild
	case schema.TypePriority:
		return KindPriority
	case schema.TypeGroup, schema.TypeStatus, schema.TypeResolution, schema.TypeIssueType,
		schema.TypeProject, schema.TypeVersion, schema.TypeComponent, schema.TypeSecurityLevel:
		return KindName
	case schema.TypeIssueLink:
		return KindKey
	case schema.TypeVotes:
		return KindVotes
	case schema.TypeWatches:
		return KindWatches
	case schema.TypeArray:
		return inferArrayKind(schema.ParseType(s.Items))
	default:
		return KindAuto
	}
}

func inferArrayKind(items schema.Type) Kind {
	switch items {
	case schema.TypeString:
		return KindArray
	case schema.TypeUser:
		return KindUserList
	case schema.TypeOption:
		return KindValueList
	case schema.TypeVersion, schema.TypeComponent, schema.TypeGroup:
		return KindNameList
	default:
		return KindAuto
	}
}

// Keys returns field ids in display order.
func (r *Registry) Keys() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Len returns the number of registered fields.
func (r *Registry) Len() int { return len(r.order) }

// Resolve maps an alias to its real field id. Other keys are returned as-is.
func (r *Registry) Resolve(key string) string {
	if real, ok := r.aliases[key]; ok {
		return real
	}
	return key
}

// Lookup returns the descriptor for key, following aliases.
func (r *Registry) Lookup(key string) (Descriptor, bool) {
	d, ok := r.entries[r.Resolve(key)]
	return d, ok
}

// AliasFor returns the alias registered for a real field id, if any.
func (r *Registry) AliasFor(id string) string { return r.reverse[id] }

// Aliases returns a copy of the alias to field id table.
func (r *Registry) Aliases() map[string]string {
	out := make(map[string]string, len(r.aliases))
	for k, v := range r.aliases {
		out[k] = v
	}
	return out
}

// Entry is one row of a registry listing.
type Entry struct {
	Key       string
	Name      string
	Strategy  string
	Alias     string
	Verbose   bool
	Immutable bool
	Custom    bool
}

// Describe lists the registry in display order.
func (r *Registry) Describe() []Entry {
	out := make([]Entry, 0, len(r.order))
	for _, id := range r.order {
		d := r.entries[id]
		out = append(out, Entry{
			Key:       id,
			Name:      d.Label(),
			Strategy:  d.Strategy(),
			Alias:     r.reverse[id],
			Verbose:   d.Verbose,
			Immutable: d.Immutable,
			Custom:    d.Custom,
		})
	}
	return out
}
