package observability

import (
	"context"
	"errors"
	"fmt"
	"sync"

	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/kbukum/hpcparser/component"
	"github.com/kbukum/hpcparser/logger"
)

// Component owns the telemetry providers for the lifetime of the app.
type Component struct {
	cfg     Config
	service ServiceInfo

	mu      sync.RWMutex
	started bool
	tp      *sdktrace.TracerProvider
	mp      *sdkmetric.MeterProvider
	metrics *Metrics
}

var (
	_ component.Component   = (*Component)(nil)
	_ component.Describable = (*Component)(nil)
)

// NewComponent creates the telemetry component.
func NewComponent(cfg Config, service ServiceInfo) *Component {
	cfg.ApplyDefaults()
	return &Component{cfg: cfg, service: service}
}

// Name implements component.Component.
func (c *Component) Name() string { return logger.ComponentTelemetry }

// Start installs exporters when telemetry is enabled and creates the metric
// instruments on the resulting global meter.
func (c *Component) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cfg.Enabled {
		tp, err := InitTracer(ctx, TracerConfig{
			Service:    c.service,
			Endpoint:   c.cfg.Endpoint,
			Insecure:   c.cfg.Insecure,
			SampleRate: c.cfg.SampleRate,
		})
		if err != nil {
			return err
		}
		mp, err := InitMeter(ctx, MeterConfig{
			Service:  c.service,
			Endpoint: c.cfg.Endpoint,
			Insecure: c.cfg.Insecure,
			Interval: c.cfg.Interval,
		})
		if err != nil {
			_ = tp.Shutdown(ctx)
			return err
		}
		c.tp, c.mp = tp, mp
	}

	m, err := NewMetrics(Meter())
	if err != nil {
		return fmt.Errorf("creating metrics: %w", err)
	}
	c.metrics = m
	c.started = true
	return nil
}

// Stop flushes and shuts down the providers. It is a no-op when disabled.
func (c *Component) Stop(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var errs []error
	if c.tp != nil {
		if err := c.tp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tracer shutdown: %w", err))
		}
		c.tp = nil
	}
	if c.mp != nil {
		if err := c.mp.Shutdown(ctx); err != nil {
			errs = append(errs, fmt.Errorf("meter shutdown: %w", err))
		}
		c.mp = nil
	}
	c.started = false
	return errors.Join(errs...)
}

// Health implements component.Component.
func (c *Component) Health(ctx context.Context) component.Health {
	c.mu.RLock()
	defer c.mu.RUnlock()

	h := component.Health{Name: c.Name(), Status: component.StatusHealthy}
	if !c.started {
		h.Status = component.StatusUnhealthy
		h.Message = "not started"
	}
	return h
}

// Describe implements component.Describable.
func (c *Component) Describe() component.Description {
	details := "disabled (no-op providers)"
	if c.cfg.Enabled {
		scheme := "https"
		if c.cfg.Insecure {
			scheme = "http"
		}
		details = fmt.Sprintf("otlp %s://%s sample_rate=%.2f", scheme, c.cfg.Endpoint, c.cfg.SampleRate)
	}
	return component.Description{Name: "OpenTelemetry", Type: "telemetry", Details: details}
}

// Metrics returns the run instruments. It is nil before Start.
func (c *Component) Metrics() *Metrics {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.metrics
}
