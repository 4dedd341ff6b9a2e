package selector

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Selector.
type Option func(*Selector)

// WithLogger sets the logger. The classifier fallback is logged at debug
// level. If not provided, logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Selector) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithTracer sets the OpenTelemetry tracer used for the selector.Select span.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Selector) {
		s.tracer = tracer
	}
}

// WithMeterProvider enables selection metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(s *Selector) {
		s.meterProvider = mp
	}
}

// WithRanker replaces the default ranker, typically to add strong rules.
func WithRanker(r Ranker) Option {
	return func(s *Selector) {
		s.ranker = r
	}
}
