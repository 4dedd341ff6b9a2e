package schema

import (
	"reflect"
	"strings"
	"time"
)

// FromType generates a JSON schema from a Go value's type using reflection.
// Tool authors describe their arguments as a struct and let the catalog carry
// the generated schema:
//
//	type searchArgs struct {
//	    From string `json:"from" description:"Departure port"`
//	    Date string `json:"date,omitempty" description:"Travel date (YYYY-MM-DD)"`
//	}
//	inputSchema := schema.FromType(searchArgs{}).Map()
//
// Supported types:
//   - struct: object schema with properties from exported fields
//   - slice/array: array schema
//   - map: open object schema
//   - string, int*, uint*, float*, bool: primitive schemas
//   - time.Time: string schema with date-time format
//   - interface{}/any: empty schema (allows any)
//
// Struct tags:
//   - `json:"name"`: property name; `json:"-"` skips the field
//   - `json:"name,omitempty"`: field is optional (not in required list)
//   - `description:"..."`: property description
//   - `enum:"a,b,c"`: allowed string values
func FromType(t any) JSON {
	if t == nil {
		return JSON{}
	}
	return fromReflectType(reflect.TypeOf(t))
}

func fromReflectType(t reflect.Type) JSON {
	if t.Kind() == reflect.Ptr {
		return fromReflectType(t.Elem())
	}

	if t == reflect.TypeOf(time.Time{}) {
		return JSON{
			Type:   "string",
			Format: "date-time",
		}
	}

	switch t.Kind() {
	case reflect.Struct:
		return fromStruct(t)
	case reflect.Slice, reflect.Array:
		items := fromReflectType(t.Elem())
		return JSON{
			Type:  "array",
			Items: &items,
		}
	case reflect.Map:
		return JSON{Type: "object"}
	case reflect.String:
		return JSON{Type: "string"}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return JSON{Type: "integer"}
	case reflect.Float32, reflect.Float64:
		return JSON{Type: "number"}
	case reflect.Bool:
		return JSON{Type: "boolean"}
	default:
		return JSON{}
	}
}

func fromStruct(t reflect.Type) JSON {
	properties := make(map[string]JSON)
	var required []string

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}

		jsonTag := field.Tag.Get("json")
		if jsonTag == "-" {
			continue
		}

		name := field.Name
		optional := false
		if jsonTag != "" {
			parts := strings.Split(jsonTag, ",")
			if parts[0] != "" {
				name = parts[0]
			}
			for _, part := range parts[1:] {
				if part == "omitempty" {
					optional = true
				}
			}
		}

		prop := fromReflectType(field.Type)
		if desc := field.Tag.Get("description"); desc != "" {
			prop.Description = desc
		}
		if enum := field.Tag.Get("enum"); enum != "" {
			for _, v := range strings.Split(enum, ",") {
				prop.Enum = append(prop.Enum, strings.TrimSpace(v))
			}
		}

		properties[name] = prop
		if !optional {
			required = append(required, name)
		}
	}

	return JSON{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}
