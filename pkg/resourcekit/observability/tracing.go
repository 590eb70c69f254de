package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the resourcekit tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("resourcekit")

// SpanManager handles trace span lifecycle for resource operations.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartOpenSpan starts a span covering a resource construction.
	StartOpenSpan(ctx context.Context, uri, scheme string) (context.Context, trace.Span)

	// StartCloseSpan starts a span covering removal and close.
	StartCloseSpan(ctx context.Context, uri string) (context.Context, trace.Span)

	// EndSpanWithError completes a span, optionally recording an error.
	EndSpanWithError(span trace.Span, err error)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the
// provider before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartOpenSpan starts a span covering a resource construction.
func (m *otelSpanManager) StartOpenSpan(ctx context.Context, uri, scheme string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "resourcekit.open",
		trace.WithAttributes(
			attribute.String("resource.uri", uri),
			attribute.String("resource.scheme", scheme),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// StartCloseSpan starts a span covering removal and close.
func (m *otelSpanManager) StartCloseSpan(ctx context.Context, uri string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "resourcekit.close",
		trace.WithAttributes(
			attribute.String("resource.uri", uri),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndSpanWithError completes a span, optionally recording an error.
func (m *otelSpanManager) EndSpanWithError(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
