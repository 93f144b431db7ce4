package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/hpcparser/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	Service ServiceInfo
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows plain HTTP.
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter installs an OTLP/HTTP meter provider as the global provider.
// The returned provider must be shut down to export the final collection.
func InitMeter(ctx context.Context, cfg MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(cfg.Endpoint),
	}
	if cfg.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(cfg.Service)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	readerOpts := []sdkmetric.PeriodicReaderOption{}
	if cfg.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(cfg.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)

	otel.SetMeterProvider(mp)

	logger.Get(logger.ComponentTelemetry).Debug("meter initialized", logger.Fields(
		"endpoint", cfg.Endpoint,
		"interval", cfg.Interval.String(),
	))

	return mp, nil
}

// Meter returns the hpcparser meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments recorded by a run.
type Metrics struct {
	records       metric.Int64Counter
	values        metric.Int64Counter
	failures      metric.Int64Counter
	phaseDuration metric.Float64Histogram
	phaseErrors   metric.Int64Counter
}

// NewMetrics creates metric instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	records, err := meter.Int64Counter("hpcparser.records",
		metric.WithDescription("Records transformed"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hpcparser.records counter: %w", err)
	}

	values, err := meter.Int64Counter("hpcparser.values",
		metric.WithDescription("Numeric values produced by the transform"),
		metric.WithUnit("{value}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hpcparser.values counter: %w", err)
	}

	failures, err := meter.Int64Counter("hpcparser.record_failures",
		metric.WithDescription("Records whose transform failed"),
		metric.WithUnit("{record}"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hpcparser.record_failures counter: %w", err)
	}

	phaseDuration, err := meter.Float64Histogram("hpcparser.phase.duration",
		metric.WithDescription("Duration of engine phases in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hpcparser.phase.duration histogram: %w", err)
	}

	phaseErrors, err := meter.Int64Counter("hpcparser.phase.errors",
		metric.WithDescription("Failed engine phases by error code"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating hpcparser.phase.errors counter: %w", err)
	}

	return &Metrics{
		records:       records,
		values:        values,
		failures:      failures,
		phaseDuration: phaseDuration,
		phaseErrors:   phaseErrors,
	}, nil
}

// RecordBatch records the size of a produced batch.
func (m *Metrics) RecordBatch(ctx context.Context, records, values, failures int) {
	if m == nil {
		return
	}
	m.records.Add(ctx, int64(records))
	m.values.Add(ctx, int64(values))
	if failures > 0 {
		m.failures.Add(ctx, int64(failures))
	}
}

// RecordPhase records one phase execution.
func (m *Metrics) RecordPhase(ctx context.Context, phase, status string, duration time.Duration) {
	if m == nil {
		return
	}
	m.phaseDuration.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String(AttrPhase, phase),
		attribute.String(AttrStatus, status),
	))
}

// RecordError records a failed phase by error code.
func (m *Metrics) RecordError(ctx context.Context, phase, code string) {
	if m == nil {
		return
	}
	m.phaseErrors.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrPhase, phase),
		attribute.String(AttrErrorCode, code),
	))
}
