package pipeline

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// ErrPanic marks a failure caused by a panic inside the dispatched function.
var ErrPanic = errors.New("panic in dispatched function")

// DispatchOption configures Dispatch.
type DispatchOption func(*dispatchConfig)

type dispatchConfig struct {
	workers  int
	chunk    int
	observer func(index int, err error)
}

// WithWorkers sets the worker pool size. Values below 1 select
// runtime.GOMAXPROCS(0).
func WithWorkers(n int) DispatchOption {
	return func(c *dispatchConfig) { c.workers = n }
}

// WithChunkSize sets how many consecutive indices a worker claims per fetch.
// The default of 1 gives fully dynamic scheduling; larger chunks reduce
// contention on the cursor for very cheap items.
func WithChunkSize(k int) DispatchOption {
	return func(c *dispatchConfig) { c.chunk = k }
}

// WithObserver registers a callback invoked after each index is processed.
// It runs on worker goroutines and must be safe for concurrent use.
func WithObserver(fn func(index int, err error)) DispatchOption {
	return func(c *dispatchConfig) { c.observer = fn }
}

func resolveDispatch(opts []DispatchOption) dispatchConfig {
	c := dispatchConfig{}
	for _, opt := range opts {
		opt(&c)
	}
	if c.workers < 1 {
		c.workers = runtime.GOMAXPROCS(0)
	}
	if c.chunk < 1 {
		c.chunk = 1
	}
	return c
}

// IndexError is the failure of a single input index.
type IndexError struct {
	Index int
	Err   error
}

func (e IndexError) Error() string { return fmt.Sprintf("item %d: %v", e.Index, e.Err) }

func (e IndexError) Unwrap() error { return e.Err }

// PartialFailure reports the indices that failed in an otherwise joined
// dispatch. Failures are sorted by index.
type PartialFailure struct {
	Total    int
	Failures []IndexError
}

func (p *PartialFailure) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d of %d items failed", len(p.Failures), p.Total)
	if len(p.Failures) > 0 {
		fmt.Fprintf(&b, "; first: %v", p.Failures[0])
	}
	return b.String()
}

// Unwrap exposes every per-index error to errors.Is and errors.As.
func (p *PartialFailure) Unwrap() []error {
	errs := make([]error, len(p.Failures))
	for i, f := range p.Failures {
		errs[i] = f
	}
	return errs
}

// Indices returns the failed indices in ascending order.
func (p *PartialFailure) Indices() []int {
	idx := make([]int, len(p.Failures))
	for i, f := range p.Failures {
		idx[i] = f.Index
	}
	return idx
}

// Result is the outcome of Dispatch. Items[i] holds the output for input i;
// it is the zero value when index i failed or was never processed.
type Result[O any] struct {
	Items     []O
	Failures  []IndexError
	Completed int
	Workers   int
}

// Err returns a *PartialFailure when any index failed, nil otherwise.
func (r *Result[O]) Err() error {
	if len(r.Failures) == 0 {
		return nil
	}
	return &PartialFailure{Total: len(r.Items), Failures: r.Failures}
}

// Dispatch calls fn for every element of items on a fixed pool of workers
// and returns once all workers have returned.
//
// Each index is processed exactly once. Results are written to the slot of
// their index, so Items keeps input order whatever the completion order.
// A failing or panicking call is recorded in Failures and does not affect
// other indices.
//
// When ctx is done, workers stop claiming new indices; Dispatch still joins
// every worker and returns ctx.Err() with the partial Result (Completed <
// len(items)). An empty input returns at once without starting workers.
func Dispatch[I, O any](ctx context.Context, items []I, fn func(ctx context.Context, index int, item I) (O, error), opts ...DispatchOption) (*Result[O], error) {
	n := len(items)
	res := &Result[O]{Items: make([]O, n)}
	if n == 0 {
		return res, nil
	}

	cfg := resolveDispatch(opts)
	workers := min(cfg.workers, (n+cfg.chunk-1)/cfg.chunk)
	res.Workers = workers

	errs := make([]error, n)
	var (
		cursor    atomic.Int64
		completed atomic.Int64
		wg        sync.WaitGroup
	)

	wg.Add(workers)
	for range workers {
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				end := int(cursor.Add(int64(cfg.chunk)))
				start := end - cfg.chunk
				if start >= n {
					return
				}
				for i := start; i < min(end, n); i++ {
					out, err := invoke(ctx, fn, i, items[i])
					if err != nil {
						errs[i] = err
					} else {
						res.Items[i] = out
					}
					completed.Add(1)
					if cfg.observer != nil {
						cfg.observer(i, err)
					}
				}
			}
		}()
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			res.Failures = append(res.Failures, IndexError{Index: i, Err: err})
		}
	}
	res.Completed = int(completed.Load())

	if res.Completed < n {
		return res, ctx.Err()
	}
	return res, nil
}

// invoke calls fn and converts a panic into an error wrapping ErrPanic.
func invoke[I, O any](ctx context.Context, fn func(context.Context, int, I) (O, error), i int, item I) (out O, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero O
			out, err = zero, fmt.Errorf("%w: %v", ErrPanic, r)
		}
	}()
	return fn(ctx, i, item)
}
