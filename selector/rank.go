package selector

import (
	"slices"
	"strings"

	"github.com/zero-day-ai/toolgate/catalog"
)

const (
	// DefaultStrongBonus is added for each strong association a tool has with
	// the query.
	DefaultStrongBonus = 10

	// DefaultTokenBonus is added for each query token found in a tool's
	// description.
	DefaultTokenBonus = 2
)

// StrongRule ties a query keyword directly to a category or a family of tool
// ids. It is kept apart from the classifier's Rule table: the two are tuned
// independently.
type StrongRule struct {
	// Keyword is the lower-case substring looked for in the query.
	Keyword string `json:"keyword" yaml:"keyword"`

	// Category, when set, restricts the rule to tools in that category.
	Category catalog.Category `json:"category,omitempty" yaml:"category,omitempty"`

	// ToolPrefix, when set, restricts the rule to tool ids with that prefix.
	ToolPrefix string `json:"tool_prefix,omitempty" yaml:"tool_prefix,omitempty"`
}

func (r StrongRule) matches(lowerQuery string, d catalog.Descriptor) bool {
	if r.Keyword == "" || (r.Category == "" && r.ToolPrefix == "") {
		return false
	}
	if r.Category != "" && d.Category != r.Category {
		return false
	}
	if r.ToolPrefix != "" && !strings.HasPrefix(d.ID, r.ToolPrefix) {
		return false
	}
	return strings.Contains(lowerQuery, strings.ToLower(r.Keyword))
}

// Ranker trims an oversized candidate list to a budget by scoring each tool
// against the query. Zero bonuses fall back to the defaults.
type Ranker struct {
	Strong      []StrongRule
	StrongBonus int
	TokenBonus  int
}

// Rank ranks with no strong rules and the default bonuses.
func Rank(candidates []catalog.Descriptor, query string, maxTools int) []catalog.Descriptor {
	return Ranker{}.Rank(candidates, query, maxTools)
}

// Rank returns at most maxTools candidates. A list already within budget is
// returned as is. Otherwise candidates are ordered by descending score, ties
// kept in their original order, and truncated. maxTools <= 0 yields an
// empty list.
func (r Ranker) Rank(candidates []catalog.Descriptor, query string, maxTools int) []catalog.Descriptor {
	if maxTools <= 0 {
		return []catalog.Descriptor{}
	}
	if len(candidates) <= maxTools {
		return candidates
	}

	lower := strings.ToLower(query)
	tokens := strings.Fields(lower)

	type scored struct {
		tool  catalog.Descriptor
		score int
	}
	ranked := make([]scored, len(candidates))
	for i, d := range candidates {
		ranked[i] = scored{tool: d, score: r.score(lower, tokens, d)}
	}

	slices.SortStableFunc(ranked, func(a, b scored) int {
		return b.score - a.score
	})

	out := make([]catalog.Descriptor, maxTools)
	for i := range out {
		out[i] = ranked[i].tool
	}
	return out
}

// Score returns the ranking score of a single tool for query.
func (r Ranker) Score(query string, d catalog.Descriptor) int {
	lower := strings.ToLower(query)
	return r.score(lower, strings.Fields(lower), d)
}

func (r Ranker) score(lowerQuery string, tokens []string, d catalog.Descriptor) int {
	strongBonus, tokenBonus := r.StrongBonus, r.TokenBonus
	if strongBonus == 0 {
		strongBonus = DefaultStrongBonus
	}
	if tokenBonus == 0 {
		tokenBonus = DefaultTokenBonus
	}

	score := 0
	for _, rule := range r.Strong {
		if rule.matches(lowerQuery, d) {
			score += strongBonus
		}
	}

	desc := strings.ToLower(d.Description)
	for _, tok := range tokens {
		if strings.Contains(desc, tok) {
			score += tokenBonus
		}
	}
	return score
}
