package catalog

import "strings"

// Prefixes maps a tool id prefix to the category of tools named with it,
// e.g. "ferry_" -> "transport".
type Prefixes map[string]Category

// InferCategory returns the category whose prefix is the longest match for
// id. Ties between equal-length prefixes resolve to the lexically smaller
// prefix so the result does not depend on map order.
func InferCategory(id string, prefixes Prefixes) (Category, bool) {
	var (
		best    string
		bestCat Category
		found   bool
	)
	for prefix, cat := range prefixes {
		if prefix == "" || !strings.HasPrefix(id, prefix) {
			continue
		}
		if !found || len(prefix) > len(best) || (len(prefix) == len(best) && prefix < best) {
			best, bestCat, found = prefix, cat, true
		}
	}
	return bestCat, found
}
