// internal/common/observability/tracing.go
package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "compare-workers"

type tracerShutdowner interface {
	Shutdown(ctx context.Context) error
}

// EnableTracing installs a batching tracer provider that exports to the
// Jaeger collector endpoint.
func (o *Observability) EnableTracing(serviceName, endpoint string, sampleRatio float64) error {
	exporter, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(endpoint)))
	if err != nil {
		return fmt.Errorf("create jaeger exporter: %w", err)
	}
	o.installTracer(serviceName, sdktrace.WithBatcher(exporter), sampleRatio)
	return nil
}

// EnableTracingWithExporter is EnableTracing for a caller-supplied exporter.
func (o *Observability) EnableTracingWithExporter(serviceName string, exporter sdktrace.SpanExporter) {
	o.installTracer(serviceName, sdktrace.WithSyncer(exporter), 1)
}

func (o *Observability) installTracer(serviceName string, processor sdktrace.TracerProviderOption, sampleRatio float64) {
	res := resource.NewSchemaless(attribute.String("service.name", serviceName))
	tp := sdktrace.NewTracerProvider(
		processor,
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(sampleRatio))),
	)
	otel.SetTracerProvider(tp)
	o.tracerProvider = tp
}

// StartSpan starts a span on the global tracer. Without EnableTracing the
// global provider is a no-op.
func StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return otel.Tracer(instrumentationName).Start(ctx, name, trace.WithAttributes(attrs...))
}
