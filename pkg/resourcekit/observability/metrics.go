package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records resource lifecycle metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordConstruction records one construction attempt with its
	// duration and error status.
	RecordConstruction(ctx context.Context, scheme string, duration time.Duration, err error)

	// RecordRemoval records removal of a resource.
	RecordRemoval(ctx context.Context, scheme string)

	// RecordActive adjusts the count of live resources by delta.
	RecordActive(ctx context.Context, scheme string, delta int64)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	constructions       metric.Int64Counter
	constructionErrors  metric.Int64Counter
	constructionLatency metric.Float64Histogram
	removals            metric.Int64Counter
	active              metric.Int64UpDownCounter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("resourcekit")

	constructions, err := meter.Int64Counter("resourcekit.resource.constructions",
		metric.WithDescription("Number of resource construction attempts"),
	)
	if err != nil {
		return nil, err
	}

	constructionErrors, err := meter.Int64Counter("resourcekit.resource.construction_errors",
		metric.WithDescription("Number of failed resource constructions"),
	)
	if err != nil {
		return nil, err
	}

	constructionLatency, err := meter.Float64Histogram("resourcekit.resource.construction_latency_ms",
		metric.WithDescription("Resource construction latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	removals, err := meter.Int64Counter("resourcekit.resource.removals",
		metric.WithDescription("Number of resource removals"),
	)
	if err != nil {
		return nil, err
	}

	active, err := meter.Int64UpDownCounter("resourcekit.resource.active",
		metric.WithDescription("Number of live resources"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		constructions:       constructions,
		constructionErrors:  constructionErrors,
		constructionLatency: constructionLatency,
		removals:            removals,
		active:              active,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordConstruction records one construction attempt.
func (m *otelMetrics) RecordConstruction(ctx context.Context, scheme string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("scheme", scheme),
	}

	m.constructions.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.constructionLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.constructionErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}

// RecordRemoval records removal of a resource.
func (m *otelMetrics) RecordRemoval(ctx context.Context, scheme string) {
	m.removals.Add(ctx, 1, metric.WithAttributes(attribute.String("scheme", scheme)))
}

// RecordActive adjusts the live resource count.
func (m *otelMetrics) RecordActive(ctx context.Context, scheme string, delta int64) {
	m.active.Add(ctx, delta, metric.WithAttributes(attribute.String("scheme", scheme)))
}
