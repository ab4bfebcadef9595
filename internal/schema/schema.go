// Package schema models the field metadata a tracker publishes through its
// field-listing and create/edit metadata endpoints, and classifies schema
// type strings into closed enumerations for dispatch.
package schema

import "github.com/papapumpkin/trackr/internal/match"

// Schema is the type information attached to a field definition.
type Schema struct {
	Type   string `json:"type" toml:"type"`
	Items  string `json:"items,omitempty" toml:"items,omitempty"`
	Custom string `json:"custom,omitempty" toml:"custom,omitempty"`
	System string `json:"system,omitempty" toml:"system,omitempty"`
}

// Field is one field definition as returned by the tracker, optionally
// carrying the values a user may choose from.
type Field struct {
	ID            string               `json:"id"`
	Key           string               `json:"key,omitempty"`
	Name          string               `json:"name"`
	Custom        bool                 `json:"custom,omitempty"`
	Required      bool                 `json:"required,omitempty"`
	Schema        *Schema              `json:"schema,omitempty"`
	AllowedValues []match.AllowedValue `json:"allowedValues,omitempty"`
}

// Type returns the classified schema type, or TypeUnknown when the field
// carries no schema.
func (f Field) Type() Type {
	if f.Schema == nil {
		return TypeUnknown
	}
	return ParseType(f.Schema.Type)
}

// ItemType returns the classified item type of an array field.
func (f Field) ItemType() Type {
	if f.Schema == nil {
		return TypeUnknown
	}
	return ParseType(f.Schema.Items)
}

// CustomType returns the classified vendor type of a custom field.
func (f Field) CustomType() Custom {
	if f.Schema == nil {
		return CustomNone
	}
	return ParseCustom(f.Schema.Custom)
}
