package selector

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const instrumentationName = "github.com/zero-day-ai/toolgate/selector"

// selectorMetrics holds the metric instruments, created once in New.
type selectorMetrics struct {
	selections metric.Int64Counter
	fallbacks  metric.Int64Counter
	selected   metric.Int64Histogram
}

func newSelectorMetrics(mp metric.MeterProvider) (*selectorMetrics, error) {
	if mp == nil {
		return nil, nil
	}
	meter := mp.Meter(instrumentationName)

	m := &selectorMetrics{}
	var err error

	m.selections, err = meter.Int64Counter(
		"toolgate.selector.selections",
		metric.WithDescription("Number of tool selections performed"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create selections counter: %w", err)
	}

	m.fallbacks, err = meter.Int64Counter(
		"toolgate.selector.fallbacks",
		metric.WithDescription("Selections where no keyword matched and the fallback set was used"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("create fallbacks counter: %w", err)
	}

	m.selected, err = meter.Int64Histogram(
		"toolgate.selector.selected",
		metric.WithDescription("Number of tools returned per selection"),
		metric.WithUnit("{tool}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create selected histogram: %w", err)
	}

	return m, nil
}

func (m *selectorMetrics) record(ctx context.Context, res *Result) {
	if m == nil {
		return
	}
	opts := metric.WithAttributes(attribute.Bool("selector.fallback", res.Fallback))
	m.selections.Add(ctx, 1, opts)
	if res.Fallback {
		m.fallbacks.Add(ctx, 1)
	}
	m.selected.Record(ctx, int64(len(res.Tools)), opts)
}
