package schema

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Dialect identifies the JSON Schema subset a model provider accepts for
// tool input schemas.
type Dialect string

const (
	// DialectPassthrough forwards schemas unchanged.
	DialectPassthrough Dialect = "passthrough"

	// DialectStrict is the structured tool-calling subset: no metadata
	// keywords, and additionalProperties closed wherever properties are
	// required.
	DialectStrict Dialect = "strict"
)

// String returns the dialect name.
func (d Dialect) String() string {
	return string(d)
}

// IsValid reports whether d is a known dialect.
func (d Dialect) IsValid() bool {
	switch d {
	case DialectPassthrough, DialectStrict:
		return true
	default:
		return false
	}
}

// ParseDialect parses a dialect name. Matching is case-insensitive.
func ParseDialect(s string) (Dialect, error) {
	d := Dialect(strings.ToLower(strings.TrimSpace(s)))
	if !d.IsValid() {
		return "", fmt.Errorf("unknown schema dialect %q", s)
	}
	return d, nil
}

// strippedKeys are dropped from every schema node in the strict dialect.
// description is always kept.
var strippedKeys = map[string]bool{
	"$schema":  true,
	"$id":      true,
	"$comment": true,
	"title":    true,
	"examples": true,
	"default":  true,
}

// Keywords whose value is a map of name -> schema. Draft-07 dependencies
// mixes schemas with property-name arrays; only the schemas are rewritten.
var schemaMapKeys = map[string]bool{
	"properties":        true,
	"patternProperties": true,
	"$defs":             true,
	"definitions":       true,
	"dependentSchemas":  true,
	"dependencies":      true,
}

// Keywords whose value is a list of schemas.
var schemaListKeys = map[string]bool{
	"prefixItems": true,
	"anyOf":       true,
	"allOf":       true,
	"oneOf":       true,
}

// Keywords whose value is a single schema (or a boolean schema).
var schemaValueKeys = map[string]bool{
	"not":                   true,
	"if":                    true,
	"then":                  true,
	"else":                  true,
	"contains":              true,
	"propertyNames":         true,
	"additionalProperties":  true,
	"unevaluatedProperties": true,
	"additionalItems":       true,
	"unevaluatedItems":      true,
	"contentSchema":         true,
}

// Sanitizer rewrites tool input schemas into a provider dialect. The zero
// value is ready to use. A Sanitizer holds no state between calls and is safe
// for concurrent use.
type Sanitizer struct {
	// Fallback builds the schema returned when the input is not
	// schema-shaped at all (nil, scalars, arrays, undecodable JSON).
	// Defaults to EmptyObject.
	Fallback func() map[string]any
}

// Sanitize rewrites node with the zero-value Sanitizer.
func Sanitize(node any, dialect Dialect) map[string]any {
	return Sanitizer{}.Sanitize(node, dialect)
}

// Sanitize returns node rewritten for dialect. node may be a
// map[string]any, a JSON or *JSON, or encoded JSON (json.RawMessage or
// []byte). The input is never modified.
//
// Passthrough (and any unknown dialect) returns an unmodified copy of the
// schema. The strict dialect returns a cleaned tree and is idempotent:
// Sanitize(Sanitize(s, d), d) equals Sanitize(s, d).
func (s Sanitizer) Sanitize(node any, dialect Dialect) map[string]any {
	root, ok := asSchemaMap(node)
	if !ok {
		return s.fallback()
	}
	if dialect != DialectStrict {
		return Clone(root)
	}
	return strictNode(root)
}

func (s Sanitizer) fallback() map[string]any {
	if s.Fallback != nil {
		if fb := s.Fallback(); fb != nil {
			return fb
		}
	}
	return EmptyObject()
}

// asSchemaMap normalizes the accepted input shapes into a generic map.
func asSchemaMap(node any) (map[string]any, bool) {
	switch v := node.(type) {
	case map[string]any:
		return v, v != nil
	case JSON:
		return v.Map(), true
	case *JSON:
		if v == nil {
			return nil, false
		}
		return v.Map(), true
	case json.RawMessage:
		return decodeSchema(v)
	case []byte:
		return decodeSchema(v)
	default:
		return nil, false
	}
}

func decodeSchema(data []byte) (map[string]any, bool) {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil || m == nil {
		return nil, false
	}
	return m, true
}

func strictNode(node map[string]any) map[string]any {
	out := make(map[string]any, len(node)+1)
	for key, value := range node {
		if strippedKeys[key] {
			continue
		}
		// Draft-04 identifier. Only the string form is a keyword.
		if key == "id" {
			if _, ok := value.(string); ok {
				continue
			}
		}

		switch {
		case schemaMapKeys[key]:
			out[key] = strictSchemaMap(value)
		case schemaListKeys[key]:
			out[key] = strictSchemaList(value)
		case key == "items":
			switch value.(type) {
			case []any, []map[string]any:
				out[key] = strictSchemaList(value)
			default:
				out[key] = strictSchema(value)
			}
		case schemaValueKeys[key]:
			out[key] = strictSchema(value)
		default:
			out[key] = copyValue(value)
		}
	}

	if hasRequired(out["required"]) {
		out["additionalProperties"] = false
	}
	return out
}

// strictSchema cleans a value in schema position. Boolean schemas and
// anything else that is not an object are copied as-is.
func strictSchema(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if v == nil {
			return v
		}
		return strictNode(v)
	case JSON:
		return strictNode(v.Map())
	case *JSON:
		if v == nil {
			return nil
		}
		return strictNode(v.Map())
	default:
		return copyValue(value)
	}
}

// strictSchemaMap cleans a name -> schema map. Names are never treated as
// keywords, so a property called "title" survives.
func strictSchemaMap(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for name, child := range v {
			out[name] = strictSchema(child)
		}
		return out
	case map[string]JSON:
		out := make(map[string]any, len(v))
		for name, child := range v {
			out[name] = strictNode(child.Map())
		}
		return out
	default:
		return copyValue(value)
	}
}

func strictSchemaList(value any) any {
	switch v := value.(type) {
	case []any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = strictSchema(child)
		}
		return out
	case []map[string]any:
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = strictSchema(child)
		}
		return out
	default:
		return copyValue(value)
	}
}

func hasRequired(value any) bool {
	switch v := value.(type) {
	case []any:
		return len(v) > 0
	case []string:
		return len(v) > 0
	default:
		return false
	}
}

// Clone returns a deep copy of a generic schema map. Nested maps and slices
// are copied; scalar values are shared.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return copyValue(m).(map[string]any)
}

// copyValue deep-copies the generic JSON container types so the output never
// aliases the input.
func copyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		if v == nil {
			return v
		}
		out := make(map[string]any, len(v))
		for k, child := range v {
			out[k] = copyValue(child)
		}
		return out
	case []any:
		if v == nil {
			return v
		}
		out := make([]any, len(v))
		for i, child := range v {
			out[i] = copyValue(child)
		}
		return out
	case []map[string]any:
		if v == nil {
			return v
		}
		out := make([]map[string]any, len(v))
		for i, child := range v {
			out[i], _ = copyValue(child).(map[string]any)
		}
		return out
	case []string:
		if v == nil {
			return v
		}
		out := make([]string, len(v))
		copy(out, v)
		return out
	default:
		return value
	}
}
