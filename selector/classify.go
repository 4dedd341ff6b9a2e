package selector

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zero-day-ai/toolgate/catalog"
)

// ErrInvalidRule indicates a malformed category rule.
var ErrInvalidRule = errors.New("invalid category rule")

// Rule maps a set of query keywords to a tool category.
type Rule struct {
	// Category is the tool category the rule selects.
	Category catalog.Category `json:"category" yaml:"category"`

	// Keywords are lower-case substrings; any one of them occurring in the
	// lower-cased query selects the category.
	Keywords []string `json:"keywords" yaml:"keywords"`

	// Enabled reports whether the rule takes part in classification. Rules
	// decoded from YAML are enabled unless they say otherwise.
	Enabled bool `json:"enabled" yaml:"enabled"`

	// Fallback marks the category as part of the default set used when no
	// rule matches the query.
	Fallback bool `json:"fallback,omitempty" yaml:"fallback,omitempty"`
}

// UnmarshalYAML decodes a rule, defaulting Enabled to true when the
// document omits it.
func (r *Rule) UnmarshalYAML(value *yaml.Node) error {
	type rawRule Rule
	raw := rawRule{Enabled: true}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	*r = Rule(raw)
	return nil
}

// ValidateRules checks a rule table: every rule names a category, each
// category appears once, and rules without keywords must be fallback rules.
func ValidateRules(rules []Rule) error {
	var errs []error
	seen := make(map[catalog.Category]bool, len(rules))
	for i, r := range rules {
		switch {
		case r.Category == "":
			errs = append(errs, fmt.Errorf("%w: rule %d has no category", ErrInvalidRule, i))
		case seen[r.Category]:
			errs = append(errs, fmt.Errorf("%w: duplicate rule for category %q", ErrInvalidRule, r.Category))
		case len(r.Keywords) == 0 && !r.Fallback:
			errs = append(errs, fmt.Errorf("%w: category %q has no keywords and is not a fallback", ErrInvalidRule, r.Category))
		}
		seen[r.Category] = true

		for _, kw := range r.Keywords {
			if strings.TrimSpace(kw) == "" {
				errs = append(errs, fmt.Errorf("%w: category %q has an empty keyword", ErrInvalidRule, r.Category))
				break
			}
		}
	}
	return errors.Join(errs...)
}

// CategorySet is an unordered set of categories.
type CategorySet map[catalog.Category]struct{}

// NewCategorySet returns a set holding cats.
func NewCategorySet(cats ...catalog.Category) CategorySet {
	s := make(CategorySet, len(cats))
	for _, c := range cats {
		s[c] = struct{}{}
	}
	return s
}

// Has reports whether c is in the set.
func (s CategorySet) Has(c catalog.Category) bool {
	_, ok := s[c]
	return ok
}

// Sorted returns the members in lexical order.
func (s CategorySet) Sorted() []catalog.Category {
	out := make([]catalog.Category, 0, len(s))
	out = slices.AppendSeq(out, maps.Keys(s))
	slices.Sort(out)
	return out
}

// Strings returns the sorted members as plain strings.
func (s CategorySet) Strings() []string {
	out := make([]string, 0, len(s))
	for _, c := range s.Sorted() {
		out = append(out, string(c))
	}
	return out
}

// Classify returns the categories whose keywords occur in query. Matching is
// a plain substring search on the lower-cased query; no other normalization
// is applied. When no enabled rule matches, Classify returns the fallback set
// and true.
func Classify(query string, rules []Rule) (CategorySet, bool) {
	lower := strings.ToLower(query)

	matched := make(CategorySet)
	for _, r := range rules {
		if !r.Enabled {
			continue
		}
		for _, kw := range r.Keywords {
			if kw != "" && strings.Contains(lower, strings.ToLower(kw)) {
				matched[r.Category] = struct{}{}
				break
			}
		}
	}

	if len(matched) > 0 {
		return matched, false
	}
	return FallbackSet(rules), true
}

// FallbackSet returns the categories of the enabled fallback rules.
func FallbackSet(rules []Rule) CategorySet {
	set := make(CategorySet)
	for _, r := range rules {
		if r.Enabled && r.Fallback {
			set[r.Category] = struct{}{}
		}
	}
	return set
}
