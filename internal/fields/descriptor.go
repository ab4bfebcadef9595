// Package fields maintains the ordered field registry for a tracker and
// renders raw field payloads into display strings or structured values.
package fields

import "fmt"

// Kind names one of the built-in renderers.
type Kind int

// Kinds, one per rendering strategy.
const (
	KindAuto Kind = iota
	KindString
	KindKey
	KindValue
	KindName
	KindUser
	KindUserList
	KindNameList
	KindValueList
	KindArray
	KindOptionWithChild
	KindDate
	KindDatetime
	KindPriority
	KindReporter
	KindCreated
	KindVotes
	KindWatches
	KindWorkRatio
	KindSprint
)

var kindNames = []string{
	KindAuto:            "auto",
	KindString:          "string",
	KindKey:             "key",
	KindValue:           "value",
	KindName:            "name",
	KindUser:            "user",
	KindUserList:        "user_list",
	KindNameList:        "name_list",
	KindValueList:       "value_list",
	KindArray:           "array",
	KindOptionWithChild: "option_with_child",
	KindDate:            "date",
	KindDatetime:        "datetime",
	KindPriority:        "priority",
	KindReporter:        "reporter",
	KindCreated:         "created",
	KindVotes:           "votes",
	KindWatches:         "watches",
	KindWorkRatio:       "workratio",
	KindSprint:          "sprint",
}

// String returns the kind name used in registry listings.
func (k Kind) String() string {
	if int(k) >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// ParseKind looks up a renderer by the name used in override files.
func ParseKind(name string) (Kind, bool) {
	for i, n := range kindNames {
		if n == name {
			return Kind(i), true
		}
	}
	return 0, false
}

// DisplayMode selects the rendering strategy of a descriptor.
type DisplayMode int

const (
	// DisplayUnset means no display was configured; Code or plain
	// stringification applies.
	DisplayUnset DisplayMode = iota
	// DisplayHidden suppresses the field.
	DisplayHidden
	// DisplayRaw stringifies the raw value.
	DisplayRaw
	// DisplayRenderer uses a built-in renderer.
	DisplayRenderer
	// DisplayFunc calls a Go callback registered at startup.
	DisplayFunc
)

// RenderFunc renders one raw field value. fields is the full record. When
// asObject is set it returns a structured value instead of a string. A nil
// result suppresses the field.
type RenderFunc func(value any, fields map[string]any, asObject bool) (any, error)

// Display is the configured rendering strategy of a field.
type Display struct {
	Mode DisplayMode
	Kind Kind
	Func RenderFunc
	// FuncName is the registry name of Func, kept for listings.
	FuncName string
}

// String returns the display in override-file form.
func (d Display) String() string {
	switch d.Mode {
	case DisplayHidden:
		return "hidden"
	case DisplayRaw:
		return "raw"
	case DisplayRenderer:
		return d.Kind.String()
	case DisplayFunc:
		return "func:" + d.FuncName
	default:
		return "unset"
	}
}

// Descriptor describes how one field is displayed.
type Descriptor struct {
	ID   string
	Name string
	// Display always wins over Code when both are present.
	Display Display
	// Code references an external plugin, used only when Display is unset
	// and plugins are explicitly enabled.
	Code string
	// Immutable descriptors keep their renderer regardless of overrides.
	Immutable bool
	// Verbose descriptors only render when verbose output is requested.
	Verbose bool
	// Custom is set for fields that did not come from the built-in table.
	Custom bool
}

// Label returns the human-readable name, falling back to the id.
func (d Descriptor) Label() string {
	if d.Name != "" {
		return d.Name
	}
	return d.ID
}

// Strategy describes the effective rendering strategy for listings.
func (d Descriptor) Strategy() string {
	if d.Display.Mode == DisplayUnset && d.Code != "" {
		return "plugin"
	}
	return d.Display.String()
}
