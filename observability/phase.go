package observability

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/hpcparser/errors"
)

// Phase status values.
const (
	StatusOK    = "ok"
	StatusError = "error"
)

// Phase tracks one engine phase: a span, a duration sample and an error count.
type Phase struct {
	Name      string
	StartTime time.Time

	ctx     context.Context
	span    trace.Span
	metrics *Metrics
}

// StartPhase starts a span named after the phase. If metrics is nil, metric
// recording is skipped.
func StartPhase(ctx context.Context, metrics *Metrics, name string, attrs ...attribute.KeyValue) (context.Context, *Phase) {
	ctx, span := StartSpan(ctx, name, trace.WithAttributes(attrs...))
	return ctx, &Phase{
		Name:      name,
		StartTime: time.Now(),
		ctx:       ctx,
		span:      span,
		metrics:   metrics,
	}
}

// SetAttributes adds attributes to the phase span.
func (p *Phase) SetAttributes(attrs ...attribute.KeyValue) {
	p.span.SetAttributes(attrs...)
}

// End closes the span and records the phase outcome. It returns the elapsed
// time.
func (p *Phase) End(err error) time.Duration {
	duration := time.Since(p.StartTime)
	status := StatusOK

	if err != nil {
		status = StatusError
		code := string(errors.Wrap(err).Code)
		p.span.RecordError(err)
		p.span.SetStatus(codes.Error, err.Error())
		p.span.SetAttributes(attribute.String(AttrErrorCode, code))
		p.metrics.RecordError(p.ctx, p.Name, code)
	}

	p.span.SetAttributes(attribute.String(AttrStatus, status))
	p.span.End()
	p.metrics.RecordPhase(p.ctx, p.Name, status, duration)
	return duration
}

// Duration returns the elapsed time since the phase started.
func (p *Phase) Duration() time.Duration {
	return time.Since(p.StartTime)
}
