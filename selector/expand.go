package selector

import "github.com/zero-day-ai/toolgate/catalog"

// Expand returns the tools in pool whose category is in categories, in pool
// order.
func Expand(categories CategorySet, pool []catalog.Descriptor) []catalog.Descriptor {
	if len(categories) == 0 {
		return []catalog.Descriptor{}
	}

	out := make([]catalog.Descriptor, 0, len(pool))
	for _, d := range pool {
		if categories.Has(d.Category) {
			out = append(out, d)
		}
	}
	return out
}
