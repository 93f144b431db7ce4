package engine

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/kbukum/hpcparser/errors"
	"github.com/kbukum/hpcparser/logger"
	"github.com/kbukum/hpcparser/observability"
	"github.com/kbukum/hpcparser/pipeline"
	"github.com/kbukum/hpcparser/record"
	"github.com/kbukum/hpcparser/sink"
)

// Phase names used in log lines and error details.
const (
	PhaseRead      = "read"
	PhaseTransform = "transform"
	PhaseWrite     = "write"
)

// maxLoggedFailures caps per-record warnings under the best-effort policy.
const maxLoggedFailures = 20

// Source loads the raw records of an input artifact.
type Source interface {
	ReadAll(ctx context.Context, path string) ([]record.Raw, error)
}

// Report summarizes a run.
type Report struct {
	RunID             string
	Records           int
	Values            int
	Empty             int
	Failures          int
	FailedIndices     []int
	Workers           int
	ReadDuration      time.Duration
	TransformDuration time.Duration
	WriteDuration     time.Duration
}

// Engine wires a source, the parallel transform and a writer.
type Engine struct {
	cfg       Config
	source    Source
	writer    sink.Writer
	transform record.FallibleFunc
	log       *logger.Logger
	metrics   *observability.Metrics
}

// Option customizes an Engine.
type Option func(*Engine)

// WithTransform replaces the per-record transform.
func WithTransform(fn record.FallibleFunc) Option {
	return func(e *Engine) { e.transform = fn }
}

// New creates an Engine. cfg defaults are applied; log and metrics may be nil.
func New(cfg Config, src Source, w sink.Writer, log *logger.Logger, metrics *observability.Metrics, opts ...Option) *Engine {
	cfg.ApplyDefaults()
	if log == nil {
		log = logger.Get(logger.ComponentEngine)
	}
	e := &Engine{
		cfg:       cfg,
		source:    src,
		writer:    w,
		transform: record.TransformFunc(record.Transform).Fallible(),
		log:       log,
		metrics:   metrics,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run reads input, transforms every line and writes the batch to output.
// Nothing is written when reading or, under PolicyAllOrNothing, any
// transform fails. A run that outlives cfg.Timeout ends as CANCELED.
func (e *Engine) Run(ctx context.Context, input, output string) (report *Report, err error) {
	report = &Report{RunID: uuid.NewString()}
	ctx = logger.ContextWithRunID(ctx, report.RunID)
	if e.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.cfg.Timeout)
		defer cancel()
	}
	ctx, run := observability.StartPhase(ctx, e.metrics, observability.SpanRun,
		attribute.String(observability.AttrRunID, report.RunID))
	defer func() {
		run.SetAttributes(
			attribute.Int(observability.AttrRecords, report.Records),
			attribute.Int(observability.AttrFailures, report.Failures),
		)
		run.End(err)
		if stderrors.Is(err, context.DeadlineExceeded) {
			e.log.WithContext(ctx).WithError(err).Warn("run timed out", logger.Fields("timeout", e.cfg.Timeout.String()))
		}
	}()

	lines, err := e.read(ctx, input, report)
	if err != nil {
		return report, err
	}

	batch, err := e.process(ctx, lines, report)
	if err != nil {
		return report, err
	}

	if err := e.write(ctx, output, batch, report); err != nil {
		return report, err
	}

	e.metrics.RecordBatch(ctx, report.Records, report.Values, report.Failures)
	e.log.WithContext(ctx).Info("Processing complete", logger.Fields(
		logger.FieldRecords, report.Records,
		logger.FieldValues, report.Values,
		logger.FieldFailures, report.Failures,
		"read_ms", report.ReadDuration.Milliseconds(),
		"transform_ms", report.TransformDuration.Milliseconds(),
		"write_ms", report.WriteDuration.Milliseconds(),
	))
	return report, nil
}

func (e *Engine) read(ctx context.Context, input string, report *Report) ([]record.Raw, error) {
	ctx, phase := observability.StartPhase(ctx, e.metrics, observability.SpanSourceRead,
		attribute.String(observability.AttrPath, input))
	ctx = logger.ContextWithPhase(ctx, PhaseRead)

	lines, err := e.source.ReadAll(ctx, input)
	err = canceled(ctx, PhaseRead, err)
	if err == nil {
		phase.SetAttributes(attribute.Int(observability.AttrRecords, len(lines)))
	}
	report.ReadDuration = phase.End(err)
	if err != nil {
		e.log.WithContext(ctx).WithError(err).Error("read failed", logger.Fields(logger.FieldOperation, PhaseRead))
		return nil, err
	}
	return lines, nil
}

func (e *Engine) process(ctx context.Context, lines []record.Raw, report *Report) (record.Batch, error) {
	ctx, phase := observability.StartPhase(ctx, e.metrics, observability.SpanDispatch,
		attribute.Int(observability.AttrWorkers, e.cfg.Workers))
	ctx = logger.ContextWithPhase(ctx, PhaseTransform)
	log := e.log.WithContext(ctx).WithFields(logger.Fields(logger.FieldRecords, len(lines)))

	log.Info(fmt.Sprintf("Read %d lines. Processing with %d workers", len(lines), e.cfg.Workers))

	res, err := pipeline.Dispatch(ctx, lines, func(ctx context.Context, _ int, r record.Raw) (record.Numeric, error) {
		return e.transform(ctx, r)
	}, pipeline.WithWorkers(e.cfg.Workers), pipeline.WithChunkSize(e.cfg.ChunkSize))
	report.Workers = res.Workers

	if err != nil {
		err = errors.Canceled(PhaseTransform, err).WithDetail("completed", res.Completed)
		report.TransformDuration = phase.End(err)
		log.Warn("transform canceled", logger.Fields("completed", res.Completed))
		return nil, err
	}

	if ferr := res.Err(); ferr != nil {
		pf := ferr.(*pipeline.PartialFailure)
		report.Failures = len(pf.Failures)
		report.FailedIndices = pf.Indices()
		phase.SetAttributes(attribute.Int(observability.AttrFailures, report.Failures))

		if e.cfg.FailurePolicy != PolicyBestEffort {
			err := errors.TransformFailed(report.Failures, ferr).WithDetail("indices", report.FailedIndices)
			report.TransformDuration = phase.End(err)
			log.Error("transform failed", logger.MergeWithError(logger.Fields(logger.FieldFailures, report.Failures), ferr))
			return nil, err
		}
		for i, f := range pf.Failures {
			if i == maxLoggedFailures {
				log.Warn("further record failures omitted", logger.Fields(logger.FieldFailures, report.Failures))
				break
			}
			log.WithError(f.Err).Warn("record failed", logger.Fields(logger.FieldIndex, f.Index))
		}
	}

	batch := record.Batch(res.Items)
	for i := range batch {
		if batch[i] == nil {
			batch[i] = record.Numeric{}
		}
	}
	report.Records = batch.Len()
	report.Values = batch.Values()
	report.Empty = batch.Empty()
	phase.SetAttributes(
		attribute.Int(observability.AttrRecords, report.Records),
		attribute.Int(observability.AttrValues, report.Values),
	)
	report.TransformDuration = phase.End(nil)
	log.Debug("transform finished", logger.DurationFields(PhaseTransform, report.TransformDuration))
	return batch, nil
}

func (e *Engine) write(ctx context.Context, output string, batch record.Batch, report *Report) error {
	ctx, phase := observability.StartPhase(ctx, e.metrics, observability.SpanSinkWrite,
		attribute.String(observability.AttrPath, output),
		attribute.Int(observability.AttrRecords, batch.Len()))
	ctx = logger.ContextWithPhase(ctx, PhaseWrite)

	var err error
	if cerr := ctx.Err(); cerr != nil {
		err = errors.Canceled(PhaseWrite, cerr)
	} else {
		err = canceled(ctx, PhaseWrite, e.writer.Write(ctx, output, batch))
	}
	report.WriteDuration = phase.End(err)
	if err != nil {
		e.log.WithContext(ctx).Error("write failed", logger.ErrorFields(PhaseWrite, err))
	}
	return err
}

// canceled converts err into a CANCELED error when ctx is done.
func canceled(ctx context.Context, phase string, err error) error {
	if err != nil && ctx.Err() != nil {
		return errors.Canceled(phase, err)
	}
	return err
}
