// Package schema authors tool input schemas and rewrites them for the JSON
// Schema dialect each model provider accepts.
//
// # Authoring
//
// Tool schemas can be written as generic maps, built with the typed JSON
// helpers, or generated from a Go struct:
//
//	search := schema.Object(map[string]schema.JSON{
//		"from": schema.StringWithDesc("Departure port"),
//		"to":   schema.StringWithDesc("Arrival port"),
//		"date": schema.StringWithDesc("Travel date (YYYY-MM-DD)"),
//	}, "from", "to")
//
//	type searchArgs struct {
//		From string `json:"from" description:"Departure port"`
//		Date string `json:"date,omitempty"`
//	}
//	generated := schema.FromType(searchArgs{})
//
// # Sanitizing
//
// Some providers only accept a strict subset of JSON Schema for structured
// tool calling. Sanitize rewrites a schema into that subset:
//
//	cleaned := schema.Sanitize(search, schema.DialectStrict)
//
// In the strict dialect, metadata keywords ($schema, $id, $comment, title,
// examples, default) are removed at every level, description is kept, and
// every node with a non-empty required list gets additionalProperties false.
// The rewrite is idempotent and never modifies its input.
//
// Inputs that are not schema-shaped at all (nil, scalars, arrays, invalid
// JSON) produce the Sanitizer's fallback, an empty object schema by default.
package schema
