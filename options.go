package toolgate

import (
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/toolgate/catalog"
	"github.com/zero-day-ai/toolgate/settings"
)

// Option configures a Gate.
type Option func(*gateConfig)

// gateConfig holds the options applied by New.
type gateConfig struct {
	logger        *slog.Logger
	tracer        trace.Tracer
	meterProvider metric.MeterProvider
	descriptors   []catalog.Descriptor
	store         settings.Store
}

// WithLogger sets a custom logger for the gate and the components it
// builds. If not provided, logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(c *gateConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for turn preparation and tool
// selection spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *gateConfig) {
		c.tracer = tracer
	}
}

// WithMeterProvider enables selection metrics.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(c *gateConfig) {
		c.meterProvider = mp
	}
}

// WithDescriptors replaces the tools declared in the configuration.
func WithDescriptors(descriptors ...catalog.Descriptor) Option {
	return func(c *gateConfig) {
		c.descriptors = descriptors
	}
}

// WithSettings uses store instead of the backend named in the
// configuration. The caller keeps ownership: Gate.Close does not close it.
func WithSettings(store settings.Store) Option {
	return func(c *gateConfig) {
		c.store = store
	}
}
