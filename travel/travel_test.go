package travel

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/schema"
	"github.com/zero-day-ai/toolgate/selector"
)

func TestCatalog(t *testing.T) {
	cat, err := Catalog()
	require.NoError(t, err)

	assert.Equal(t, len(Descriptors()), cat.Len())
	assert.Len(t, cat.Pool(), cat.Len(), "every default tool starts enabled")
	assert.Equal(t, []catalog.Category{Accommodation, Mapping, Transport, Travel}, cat.Categories())

	for _, d := range cat.Snapshot() {
		assert.NotEmpty(t, d.Integration, d.ID)
		assert.NotNil(t, d.InputSchema, d.ID)
	}
}

func TestRules(t *testing.T) {
	rules := Rules()
	require.NoError(t, selector.ValidateRules(rules))

	assert.Equal(t, selector.NewCategorySet(Travel), selector.FallbackSet(rules))

	cat, err := Catalog()
	require.NoError(t, err)
	served := make(map[catalog.Category]bool)
	for _, d := range cat.Pool() {
		served[d.Category] = true
	}
	for _, r := range rules {
		assert.True(t, served[r.Category], "no tools for category %s", r.Category)
	}
}

func TestStrongRules(t *testing.T) {
	cat, err := Catalog()
	require.NoError(t, err)

	for _, r := range StrongRules() {
		assert.NotEmpty(t, r.Keyword)

		matched := false
		for _, d := range cat.Snapshot() {
			if (r.Category == "" || d.Category == r.Category) &&
				(r.ToolPrefix == "" || strings.HasPrefix(d.ID, r.ToolPrefix)) {
				matched = true
				break
			}
		}
		assert.True(t, matched, "strong rule %q matches no tool", r.Keyword)
	}
}

func TestDescriptors_StrictSchemas(t *testing.T) {
	for _, d := range Descriptors() {
		t.Run(d.ID, func(t *testing.T) {
			strict := schema.Sanitize(d.InputSchema, schema.DialectStrict)

			assert.NotContains(t, strict, "$schema")
			assert.NotContains(t, strict, "title")
			assert.Equal(t, "object", strict["type"])
			if _, ok := strict["required"]; ok {
				assert.Equal(t, false, strict["additionalProperties"])
			}
			assert.Equal(t, strict, schema.Sanitize(strict, schema.DialectStrict))
		})
	}
}

func TestRanker(t *testing.T) {
	r := Ranker()
	assert.Equal(t, StrongRules(), r.Strong)

	cat, err := Catalog()
	require.NoError(t, err)
	routes, _ := cat.Get("ferry_search_routes")
	flights, _ := cat.Get("flight_search")

	assert.Greater(t, r.Score("ferry to the island", routes), r.Score("ferry to the island", flights))
}
