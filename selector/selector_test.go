package selector

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/zero-day-ai/toolgate/catalog"
)

func testPool() []catalog.Descriptor {
	return []catalog.Descriptor{
		{ID: "ferry_search", Category: "transport", Description: "Search ferry routes", Enabled: true},
		{ID: "flight_search", Category: "transport", Description: "Search flights", Enabled: true},
		{ID: "hotel_search", Category: "accommodation", Description: "Search hotels", Enabled: true},
		{ID: "maps_geocode", Category: "mapping", Description: "Geocode a place", Enabled: true},
		{ID: "travel_weather", Category: "travel", Description: "Weather forecast", Enabled: true},
		{ID: "travel_planner", Category: "travel", Description: "Plan a trip", Enabled: true},
	}
}

func newTestSelector(t *testing.T, opts ...Option) *Selector {
	t.Helper()
	s, err := New(testRules(), opts...)
	require.NoError(t, err)
	return s
}

func TestNew_InvalidRules(t *testing.T) {
	_, err := New([]Rule{{Category: "a"}})
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestSelect(t *testing.T) {
	s := newTestSelector(t)

	tests := []struct {
		name         string
		query        string
		maxTools     int
		want         []string
		wantFallback bool
	}{
		{
			name:     "transport only",
			query:    "Ferry or flight to Crete?",
			maxTools: DefaultMaxTools,
			want:     []string{"ferry_search", "flight_search"},
		},
		{
			name:     "two categories keep pool order",
			query:    "map of my hotel",
			maxTools: DefaultMaxTools,
			want:     []string{"hotel_search", "maps_geocode"},
		},
		{
			name:         "fallback",
			query:        "hello",
			maxTools:     DefaultMaxTools,
			want:         []string{"travel_weather", "travel_planner"},
			wantFallback: true,
		},
		{
			name:     "budget applied",
			query:    "ferry or flight",
			maxTools: 1,
			want:     []string{"ferry_search"},
		},
		{
			name:     "zero budget",
			query:    "ferry",
			maxTools: 0,
			want:     []string{},
		},
		{
			name:     "negative budget",
			query:    "ferry",
			maxTools: -1,
			want:     []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Select(context.Background(), Request{Query: tt.query, Pool: testPool(), MaxTools: tt.maxTools})
			require.NotNil(t, res)
			assert.Equal(t, tt.want, res.IDs())
			assert.Equal(t, tt.wantFallback, res.Fallback)
			assert.Equal(t, len(tt.want), res.Len())
		})
	}
}

func TestSelect_BudgetIsUpperBound(t *testing.T) {
	pool := make([]catalog.Descriptor, 12)
	for i := range pool {
		pool[i] = catalog.Descriptor{ID: fmt.Sprintf("travel_%02d", i), Category: "travel", Description: "x", Enabled: true}
	}
	s := newTestSelector(t)

	for _, maxTools := range []int{-5, -1, 0, 1, 3, 8, 12, 20} {
		res := s.Select(context.Background(), Request{Query: "hello", Pool: pool, MaxTools: maxTools})
		assert.True(t, res.Fallback)
		assert.Equal(t, 12, res.Candidates)
		assert.Equal(t, min(max(maxTools, 0), 12), res.Len(), "maxTools %d", maxTools)
	}
}

func TestSelect_EmptyPool(t *testing.T) {
	res := newTestSelector(t).Select(context.Background(), Request{Query: "ferry", MaxTools: DefaultMaxTools})
	assert.Empty(t, res.Tools)
	assert.Equal(t, 0, res.Candidates)
}

func TestSelect_SkipsDisabled(t *testing.T) {
	pool := testPool()
	pool[0].Enabled = false

	res := newTestSelector(t).Select(context.Background(), Request{Query: "ferry or flight", Pool: pool, MaxTools: DefaultMaxTools})
	assert.Equal(t, []string{"flight_search"}, res.IDs())
}

func TestSelect_WithRanker(t *testing.T) {
	s := newTestSelector(t, WithRanker(Ranker{
		Strong: []StrongRule{{Keyword: "crete", ToolPrefix: "flight_"}},
	}))

	res := s.Select(context.Background(), Request{Query: "ferry or flight to crete", Pool: testPool(), MaxTools: 1})
	assert.Equal(t, []string{"flight_search"}, res.IDs())
}

func TestSelect_Total(t *testing.T) {
	s := newTestSelector(t)
	queries := []string{
		"",
		"   ",
		strings.Repeat("ferry hotel map trip ", 5000),
		"\x00\xff\xfe",
		"ΠΛΟΙΟ για Αίγινα",
		"🚢🏨",
	}
	for _, q := range queries {
		assert.NotPanics(t, func() {
			res := s.Select(context.Background(), Request{Query: q, Pool: testPool(), MaxTools: DefaultMaxTools})
			assert.LessOrEqual(t, res.Len(), DefaultMaxTools)
		})
	}
}

func TestSelect_Properties(t *testing.T) {
	s := newTestSelector(t)
	queries := []string{
		"", "ferry", "hotel near the port", "map", "trip", "nothing relevant",
		"flight hotel map trip", "where is the ferry", "STAY",
	}

	for _, q := range queries {
		for _, maxTools := range []int{1, 2, 3, 8} {
			req := Request{Query: q, Pool: testPool(), MaxTools: maxTools}
			first := s.Select(context.Background(), req)

			// Determinism.
			for i := 0; i < 3; i++ {
				again := s.Select(context.Background(), req)
				assert.Equal(t, first.IDs(), again.IDs(), "query %q", q)
			}

			// Cap respected.
			assert.LessOrEqual(t, first.Len(), maxTools, "query %q", q)

			// Category correctness.
			for _, d := range first.Tools {
				assert.True(t, first.Categories.Has(d.Category), "query %q leaked %s", q, d.ID)
			}

			// Non-emptiness under fallback: the pool always holds travel tools.
			if first.Fallback {
				assert.NotZero(t, first.Len(), "query %q", q)
			}
		}
	}
}

func TestSelect_VacuousCategory(t *testing.T) {
	rules := append(testRules(), Rule{Category: "cruise", Keywords: []string{"cruise"}, Enabled: true})
	s, err := New(rules)
	require.NoError(t, err)

	res := s.Select(context.Background(), Request{Query: "a cruise", Pool: testPool(), MaxTools: DefaultMaxTools})
	assert.False(t, res.Fallback)
	assert.Empty(t, res.Tools)
	assert.True(t, res.Categories.Has("cruise"))
}

func TestResult_Get(t *testing.T) {
	res := newTestSelector(t).Select(context.Background(), Request{Query: "hotel", Pool: testPool(), MaxTools: DefaultMaxTools})

	d, ok := res.Get("hotel_search")
	require.True(t, ok)
	assert.Equal(t, catalog.Category("accommodation"), d.Category)

	_, ok = res.Get("ferry_search")
	assert.False(t, ok)
}

func TestSelect_Tracing(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	defer tp.Shutdown(context.Background())

	s := newTestSelector(t, WithTracer(tp.Tracer("test")))

	s.Select(context.Background(), Request{Query: "ferry", Pool: testPool(), MaxTools: DefaultMaxTools})
	s.Select(context.Background(), Request{Query: "hello", Pool: testPool(), MaxTools: DefaultMaxTools})

	spans := recorder.Ended()
	require.Len(t, spans, 2)
	for _, span := range spans {
		assert.Equal(t, "selector.Select", span.Name())
	}

	assert.Empty(t, spans[0].Events())
	require.Len(t, spans[1].Events(), 1)
	assert.Equal(t, "selector.fallback", spans[1].Events()[0].Name)

	attrs := make(map[string]any)
	for _, kv := range spans[0].Attributes() {
		attrs[string(kv.Key)] = kv.Value.AsInterface()
	}
	assert.Equal(t, int64(6), attrs["selector.pool_size"])
	assert.Equal(t, int64(2), attrs["selector.selected"])
	assert.Equal(t, false, attrs["selector.fallback"])
}

func TestSelect_FallbackLogged(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	s := newTestSelector(t, WithLogger(logger))

	s.Select(context.Background(), Request{Query: "ferry", Pool: testPool()})
	assert.Empty(t, buf.String())

	s.Select(context.Background(), Request{Query: "hello", Pool: testPool()})
	assert.Contains(t, buf.String(), "using fallback categories")
	assert.Contains(t, buf.String(), "travel")
}

func TestSelect_Metrics(t *testing.T) {
	s := newTestSelector(t, WithMeterProvider(noop.NewMeterProvider()))
	require.NotNil(t, s.metrics)

	assert.NotPanics(t, func() {
		s.Select(context.Background(), Request{Query: "hello", Pool: testPool()})
	})
}

func TestNew_NilOptions(t *testing.T) {
	s := newTestSelector(t, WithLogger(nil), WithTracer(nil))
	assert.NotNil(t, s.logger)
	assert.NotNil(t, s.tracer)
	assert.Nil(t, s.metrics)
	assert.Len(t, s.Rules(), 4)
}
