package selector_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/selector"
	"github.com/zero-day-ai/toolgate/travel"
)

func TestSelect_FerryQuery(t *testing.T) {
	cat, err := travel.Catalog()
	require.NoError(t, err)

	s, err := selector.New(travel.Rules(), selector.WithRanker(travel.Ranker()))
	require.NoError(t, err)

	res := s.Select(context.Background(), selector.Request{
		Query:    "What ferries go from Piraeus to Aegina tomorrow?",
		Pool:     cat.Pool(),
		MaxTools: 8,
	})

	assert.False(t, res.Fallback)
	assert.Equal(t, []catalog.Category{travel.Transport}, res.Categories.Sorted())

	var want []string
	for _, d := range cat.Pool() {
		if d.Category == travel.Transport {
			want = append(want, d.ID)
		}
	}
	assert.Equal(t, want, res.IDs())

	for _, d := range res.Tools {
		assert.NotEqual(t, travel.Mapping, d.Category)
		assert.NotEqual(t, travel.Accommodation, d.Category)
	}
}

func TestSelect_EmptyQuerySingleGeneralTool(t *testing.T) {
	cat, err := catalog.New(catalog.Descriptor{
		ID:          "travel_trip_planner",
		Description: "Plan a trip",
		Category:    travel.Travel,
		Enabled:     true,
	})
	require.NoError(t, err)

	s, err := selector.New(travel.Rules())
	require.NoError(t, err)

	res := s.Select(context.Background(), selector.Request{Query: "", Pool: cat.Pool(), MaxTools: 8})

	assert.True(t, res.Fallback)
	assert.Equal(t, []string{"travel_trip_planner"}, res.IDs())
}

func TestSelect_DisabledToolsNeverSelected(t *testing.T) {
	cat, err := travel.Catalog()
	require.NoError(t, err)
	require.NoError(t, cat.SetEnabled("ferry_get_prices", false))

	s, err := selector.New(travel.Rules(), selector.WithRanker(travel.Ranker()))
	require.NoError(t, err)

	res := s.Select(context.Background(), selector.Request{Query: "ferry prices to Aegina", Pool: cat.Pool(), MaxTools: selector.DefaultMaxTools})

	assert.NotContains(t, res.IDs(), "ferry_get_prices")
	assert.Contains(t, res.IDs(), "ferry_search_routes")
}

func TestSelect_StrongRulesPreferMatchingFamily(t *testing.T) {
	cat, err := travel.Catalog()
	require.NoError(t, err)

	s, err := selector.New(travel.Rules(), selector.WithRanker(travel.Ranker()))
	require.NoError(t, err)

	// Matches transport and accommodation (eight tools); with a budget of
	// three the ferry tools win on their two strong associations.
	res := s.Select(context.Background(), selector.Request{
		Query:    "ferry hotel island",
		Pool:     cat.Pool(),
		MaxTools: 3,
	})

	assert.Equal(t, []string{"ferry_search_routes", "ferry_get_schedule", "ferry_get_prices"}, res.IDs())
	assert.Equal(t, 8, res.Candidates)
}

func ExampleSelector_Select() {
	cat, _ := travel.Catalog()
	s, _ := selector.New(travel.Rules(), selector.WithRanker(travel.Ranker()))

	res := s.Select(context.Background(), selector.Request{
		Query: "Is there a ferry from Piraeus to Aegina?",
		Pool:  cat.Pool(),
	})
	for _, id := range res.IDs() {
		fmt.Println(id)
	}

	// Output:
	// ferry_search_routes
	// ferry_get_schedule
	// ferry_get_prices
	// flight_search
	// flight_status
}
