package schema

import (
	"encoding/json"
)

// JSON is a typed JSON Schema node used to author tool input schemas.
// It covers the keywords tool authors actually write, including the metadata
// keywords ($schema, $id, title, examples, default) that strict provider
// dialects reject; Sanitize removes those when a provider requires it.
type JSON struct {
	Schema      string          `json:"$schema,omitempty"`
	ID          string          `json:"$id,omitempty"`
	Title       string          `json:"title,omitempty"`
	Type        string          `json:"type,omitempty"`
	Description string          `json:"description,omitempty"`
	Properties  map[string]JSON `json:"properties,omitempty"`
	Required    []string        `json:"required,omitempty"`
	Items       *JSON           `json:"items,omitempty"`
	Enum        []any           `json:"enum,omitempty"`
	Default     any             `json:"default,omitempty"`
	Examples    []any           `json:"examples,omitempty"`
	Minimum     *float64        `json:"minimum,omitempty"`
	Maximum     *float64        `json:"maximum,omitempty"`
	MinLength   *int            `json:"minLength,omitempty"`
	MaxLength   *int            `json:"maxLength,omitempty"`
	Pattern     string          `json:"pattern,omitempty"`
	Format      string          `json:"format,omitempty"`
	Ref         string          `json:"$ref,omitempty"`
	AnyOf       []JSON          `json:"anyOf,omitempty"`
	OneOf       []JSON          `json:"oneOf,omitempty"`
	AllOf       []JSON          `json:"allOf,omitempty"`
	Defs        map[string]JSON `json:"$defs,omitempty"`

	// AdditionalProperties is either a bool or a JSON node. Nil leaves the
	// keyword out entirely.
	AdditionalProperties any `json:"additionalProperties,omitempty"`
}

// Any creates a JSON schema that accepts any type.
func Any() JSON {
	return JSON{}
}

// String creates a JSON schema for a string type.
func String() JSON {
	return JSON{Type: "string"}
}

// StringWithDesc creates a JSON schema for a string type with a description.
func StringWithDesc(desc string) JSON {
	return JSON{
		Type:        "string",
		Description: desc,
	}
}

// Int creates a JSON schema for an integer type.
func Int() JSON {
	return JSON{Type: "integer"}
}

// IntWithDesc creates a JSON schema for an integer type with a description.
func IntWithDesc(desc string) JSON {
	return JSON{
		Type:        "integer",
		Description: desc,
	}
}

// Number creates a JSON schema for a number type.
func Number() JSON {
	return JSON{Type: "number"}
}

// Bool creates a JSON schema for a boolean type.
func Bool() JSON {
	return JSON{Type: "boolean"}
}

// Array creates a JSON schema for an array type with the specified item schema.
func Array(items JSON) JSON {
	return JSON{
		Type:  "array",
		Items: &items,
	}
}

// Object creates a JSON schema for an object type with the specified properties and required fields.
func Object(properties map[string]JSON, required ...string) JSON {
	return JSON{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

// Enum creates a JSON schema with enumerated values.
func Enum(values ...any) JSON {
	return JSON{Enum: values}
}

// WithDescription returns a copy of the node with the description set.
func (s JSON) WithDescription(desc string) JSON {
	s.Description = desc
	return s
}

// WithTitle returns a copy of the node with the title set.
func (s JSON) WithTitle(title string) JSON {
	s.Title = title
	return s
}

// WithDefault returns a copy of the node with a default value.
func (s JSON) WithDefault(v any) JSON {
	s.Default = v
	return s
}

// Map converts the node into the generic map form that tool descriptors and
// provider payloads carry. The result is freshly allocated.
func (s JSON) Map() map[string]any {
	data, err := json.Marshal(s)
	if err != nil {
		return EmptyObject()
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil || out == nil {
		return EmptyObject()
	}
	return out
}

// EmptyObject returns the minimal schema accepting an object with no declared
// properties. It is the fallback for inputs that are not schema-shaped.
func EmptyObject() map[string]any {
	return map[string]any{
		"type":       "object",
		"properties": map[string]any{},
	}
}
