// Package catalog holds the tool descriptors a chat turn can choose from.
//
// A Catalog is built once from static configuration and passed explicitly to
// whatever needs it; there is no package-level registry. Descriptors are
// validated at construction so the selection hot path can trust them:
//
//	cat, err := catalog.NewWithPrefixes(catalog.Prefixes{
//		"ferry_":  "transport",
//		"hotel_":  "accommodation",
//	}, descriptors...)
//	if err != nil {
//		return err
//	}
//
//	pool := cat.Pool() // enabled tools, registration order
//
// The only mutable state is each tool's enabled flag, which the settings
// package toggles between turns with SetEnabled.
package catalog
