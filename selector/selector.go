package selector

import (
	"context"
	"log/slog"
	"slices"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/zero-day-ai/toolgate/catalog"
)

// DefaultMaxTools is the per-turn tool budget callers use when none is
// configured.
const DefaultMaxTools = 8

// Request is the input to one selection.
type Request struct {
	// Query is the latest user message text. Empty is valid.
	Query string

	// Pool is the set of tools available this turn, already filtered to
	// enabled tools.
	Pool []catalog.Descriptor

	// MaxTools caps the result. Zero or negative values produce an empty
	// result.
	MaxTools int
}

// Result is the bounded, ordered tool set chosen for one turn.
type Result struct {
	// Tools are the selected tools, most relevant first.
	Tools []catalog.Descriptor

	// Categories are the categories the query was classified into (or the
	// fallback set).
	Categories CategorySet

	// Fallback reports whether no keyword matched and the fallback set was
	// used.
	Fallback bool

	// Candidates is the number of tools that matched the categories before
	// ranking.
	Candidates int
}

// IDs returns the selected tool ids in order.
func (r *Result) IDs() []string {
	ids := make([]string, len(r.Tools))
	for i, d := range r.Tools {
		ids[i] = d.ID
	}
	return ids
}

// Get returns the selected tool with the given id.
func (r *Result) Get(id string) (catalog.Descriptor, bool) {
	for _, d := range r.Tools {
		if d.ID == id {
			return d, true
		}
	}
	return catalog.Descriptor{}, false
}

// Len returns the number of selected tools.
func (r *Result) Len() int {
	return len(r.Tools)
}

// Selector narrows a candidate pool to the tools relevant to a query. It
// holds only immutable configuration and is safe for concurrent use.
type Selector struct {
	rules  []Rule
	ranker Ranker

	logger        *slog.Logger
	tracer        trace.Tracer
	meterProvider metric.MeterProvider
	metrics       *selectorMetrics
}

// New creates a Selector for a rule table.
func New(rules []Rule, opts ...Option) (*Selector, error) {
	if err := ValidateRules(rules); err != nil {
		return nil, err
	}

	s := &Selector{
		rules:  slices.Clone(rules),
		logger: slog.New(slog.DiscardHandler),
		tracer: noop.NewTracerProvider().Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.tracer == nil {
		s.tracer = noop.NewTracerProvider().Tracer(instrumentationName)
	}

	metrics, err := newSelectorMetrics(s.meterProvider)
	if err != nil {
		return nil, err
	}
	s.metrics = metrics

	return s, nil
}

// Rules returns a copy of the selector's rule table.
func (s *Selector) Rules() []Rule {
	return slices.Clone(s.rules)
}

// Select classifies the query, expands the matched categories over the pool
// and ranks the candidates down to the budget. It never fails: an empty or
// unmatched query falls back to the default categories, and an empty pool
// gives an empty result.
func (s *Selector) Select(ctx context.Context, req Request) *Result {
	ctx, span := s.tracer.Start(ctx, "selector.Select")
	defer span.End()

	categories, fallback := Classify(req.Query, s.rules)
	candidates := Expand(categories, enabledOnly(req.Pool))
	tools := s.ranker.Rank(candidates, req.Query, req.MaxTools)

	res := &Result{
		Tools:      tools,
		Categories: categories,
		Fallback:   fallback,
		Candidates: len(candidates),
	}

	if fallback {
		span.AddEvent("selector.fallback", trace.WithAttributes(
			attribute.StringSlice("selector.categories", categories.Strings()),
		))
		s.logger.DebugContext(ctx, "no category keyword matched, using fallback categories",
			"query_length", len(req.Query),
			"categories", categories.Strings(),
		)
	}

	span.SetAttributes(
		attribute.Int("selector.pool_size", len(req.Pool)),
		attribute.Int("selector.max_tools", req.MaxTools),
		attribute.Int("selector.candidates", len(candidates)),
		attribute.Int("selector.selected", len(tools)),
		attribute.Bool("selector.fallback", fallback),
		attribute.StringSlice("selector.categories", categories.Strings()),
	)
	s.metrics.record(ctx, res)

	return res
}

// enabledOnly drops disabled tools a caller may have left in the pool.
func enabledOnly(pool []catalog.Descriptor) []catalog.Descriptor {
	for i, d := range pool {
		if d.Enabled {
			continue
		}
		out := slices.Clone(pool[:i])
		for _, d := range pool[i+1:] {
			if d.Enabled {
				out = append(out, d)
			}
		}
		return out
	}
	return pool
}
