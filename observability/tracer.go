package observability

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/hpcparser/logger"
)

const instrumentationName = "github.com/kbukum/hpcparser"

// TracerConfig configures the OpenTelemetry tracer.
type TracerConfig struct {
	Service ServiceInfo
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows plain HTTP.
	Insecure bool
	// SampleRate is the sampling rate (0.0 to 1.0).
	SampleRate float64
}

// InitTracer installs an OTLP/HTTP tracer provider as the global provider.
// The returned provider must be shut down to flush buffered spans.
func InitTracer(ctx context.Context, cfg TracerConfig) (*sdktrace.TracerProvider, error) {
	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlptracehttp.WithInsecure())
	}

	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating trace exporter: %w", err)
	}

	res, err := newResource(cfg.Service)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(samplerFor(cfg.SampleRate)),
	)

	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.NewCompositeTextMapPropagator(
		propagation.TraceContext{},
		propagation.Baggage{},
	))

	logger.Get(logger.ComponentTelemetry).Debug("tracer initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"sample_rate", cfg.SampleRate,
	))

	return tp, nil
}

func samplerFor(rate float64) sdktrace.Sampler {
	switch {
	case rate >= 1.0:
		return sdktrace.AlwaysSample()
	case rate <= 0:
		return sdktrace.NeverSample()
	default:
		return sdktrace.TraceIDRatioBased(rate)
	}
}

// newResource describes the process. The service attributes carry no schema
// URL so they merge cleanly with the SDK default resource.
func newResource(svc ServiceInfo) (*resource.Resource, error) {
	attrs := []attribute.KeyValue{attribute.String(AttrServiceName, svc.Name)}
	if svc.Version != "" {
		attrs = append(attrs, attribute.String(AttrServiceVersion, svc.Version))
	}
	if svc.Environment != "" {
		attrs = append(attrs, attribute.String(AttrEnvironment, svc.Environment))
	}
	return resource.Merge(resource.Default(), resource.NewSchemaless(attrs...))
}

// Tracer returns the hpcparser tracer from the global provider.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// StartSpan starts a new span using the hpcparser tracer.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return Tracer().Start(ctx, name, opts...)
}

// SetSpanAttribute sets an attribute on the current span in context.
func SetSpanAttribute(ctx context.Context, key string, value any) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	switch v := value.(type) {
	case string:
		span.SetAttributes(attribute.String(key, v))
	case int:
		span.SetAttributes(attribute.Int(key, v))
	case int64:
		span.SetAttributes(attribute.Int64(key, v))
	case float64:
		span.SetAttributes(attribute.Float64(key, v))
	case bool:
		span.SetAttributes(attribute.Bool(key, v))
	}
}

// Span names, one per engine phase.
const (
	SpanRun        = "hpcparser.run"
	SpanSourceRead = "source.read"
	SpanDispatch   = "pipeline.dispatch"
	SpanSinkWrite  = "sink.write"
)

// Attribute keys.
const (
	AttrServiceName    = "service.name"
	AttrServiceVersion = "service.version"
	AttrEnvironment    = "deployment.environment"
	AttrRunID          = "hpcparser.run_id"
	AttrPhase          = "hpcparser.phase"
	AttrStatus         = "hpcparser.status"
	AttrRecords        = "hpcparser.records"
	AttrValues         = "hpcparser.values"
	AttrFailures       = "hpcparser.failures"
	AttrWorkers        = "hpcparser.workers"
	AttrFormat         = "hpcparser.format"
	AttrPath           = "hpcparser.path"
	AttrErrorCode      = "hpcparser.error_code"
)
