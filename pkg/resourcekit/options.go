package resourcekit

import (
	"log/slog"

	"github.com/randalmurphal/resourcekit/pkg/resourcekit/event"
	"github.com/randalmurphal/resourcekit/pkg/resourcekit/observability"
)

// providerConfig holds provider construction settings.
type providerConfig struct {
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	bus     *event.Bus
	retry   RetryConfig
	drivers map[string]Driver
}

// defaultProviderConfig returns the default provider settings: no
// logging, no-op metrics and spans, no event bus, no retries, and the
// built-in memory and sqlite drivers.
func defaultProviderConfig() providerConfig {
	return providerConfig{
		metrics: observability.NoopMetrics{},
		spans:   observability.NoopSpanManager{},
		retry:   NoRetry,
		drivers: map[string]Driver{
			"memory": MemoryDriver{},
			"sqlite": SQLiteDriver{},
		},
	}
}

// Option configures a Provider.
type Option func(*providerConfig)

// WithLogger sets the slog logger for lifecycle logging.
// Default: no logging.
func WithLogger(logger *slog.Logger) Option {
	return func(c *providerConfig) {
		c.logger = logger
	}
}

// WithMetrics sets the metrics recorder.
// Default: observability.NoopMetrics.
func WithMetrics(m observability.MetricsRecorder) Option {
	return func(c *providerConfig) {
		if m != nil {
			c.metrics = m
		}
	}
}

// WithSpans sets the span manager for open/close tracing.
// Default: observability.NoopSpanManager.
func WithSpans(s observability.SpanManager) Option {
	return func(c *providerConfig) {
		if s != nil {
			c.spans = s
		}
	}
}

// WithEventBus sets the bus that receives lifecycle events
// (resource.opened, resource.closed, resource.failed).
// Default: no events.
func WithEventBus(bus *event.Bus) Option {
	return func(c *providerConfig) {
		c.bus = bus
	}
}

// WithRetry sets the retry policy applied to driver Open calls.
// Default: NoRetry.
func WithRetry(cfg RetryConfig) Option {
	return func(c *providerConfig) {
		c.retry = cfg
	}
}

// WithDriver registers a driver for a scheme at construction time,
// replacing a built-in if the scheme collides.
func WithDriver(scheme string, d Driver) Option {
	return func(c *providerConfig) {
		if scheme != "" && d != nil {
			c.drivers[scheme] = d
		}
	}
}
