package sdk

import (
	"log/slog"

	"github.com/agentcat/sdk/store"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Option configures a Catalog.
type Option func(*catalogConfig)

// catalogConfig holds configuration for a Catalog instance.
type catalogConfig struct {
	logger *slog.Logger
	tracer trace.Tracer
	meter  metric.Meter
	runner store.Runner
}

// WithLogger sets a custom logger for the catalog and its clients.
// If not provided, a default logger will be created.
func WithLogger(logger *slog.Logger) Option {
	return func(c *catalogConfig) {
		c.logger = logger
	}
}

// WithTracer sets an OpenTelemetry tracer for distributed tracing.
// Every client operation runs inside a span when a tracer is set.
func WithTracer(tracer trace.Tracer) Option {
	return func(c *catalogConfig) {
		c.tracer = tracer
	}
}

// WithMeter sets an OpenTelemetry meter for operation counters.
func WithMeter(meter metric.Meter) Option {
	return func(c *catalogConfig) {
		c.meter = meter
	}
}

// WithRunner sets the orchestrator that executes team runs.
// It is only consulted by Open; a backend passed to New carries its own
// runner. Without one, team runs fail with a coded team error.
func WithRunner(r store.Runner) Option {
	return func(c *catalogConfig) {
		c.runner = r
	}
}
