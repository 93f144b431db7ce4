package pipeline

import "context"

// Iterator yields values one at a time.
type Iterator[T any] interface {
	// Next returns the next value, or ok=false once the sequence ends.
	Next(ctx context.Context) (v T, ok bool, err error)
	Close() error
}

// Pipeline is a lazy sequence. The iterator behind it is created only when a
// terminal (Collect, Drain or ForEach) pulls from it.
type Pipeline[T any] struct {
	open func(ctx context.Context) Iterator[T]
}

// Runnable is a pipeline bound to its terminal step.
type Runnable struct {
	run func(ctx context.Context) error
}

// Run pulls the pipeline to completion.
func (r *Runnable) Run(ctx context.Context) error {
	return r.run(ctx)
}

// FromSlice yields the elements of items in order and stops with the
// context error once ctx is done.
func FromSlice[T any](items []T) *Pipeline[T] {
	return FromFunc(func(context.Context) Iterator[T] { return &sliceIter[T]{items: items} })
}

// FromFunc defers iterator creation to open.
func FromFunc[T any](open func(ctx context.Context) Iterator[T]) *Pipeline[T] {
	return &Pipeline[T]{open: open}
}

// Drain binds p to sink. Each value is handed to sink in order; the first
// error from either side ends the run.
func Drain[T any](p *Pipeline[T], sink func(context.Context, T) error) *Runnable {
	return &Runnable{run: func(ctx context.Context) error {
		it := p.open(ctx)
		defer it.Close()
		for {
			v, ok, err := it.Next(ctx)
			switch {
			case err != nil:
				return err
			case !ok:
				return nil
			}
			if err := sink(ctx, v); err != nil {
				return err
			}
		}
	}}
}

// ForEach runs Drain(p, fn) immediately.
func ForEach[T any](ctx context.Context, p *Pipeline[T], fn func(context.Context, T) error) error {
	return Drain(p, fn).Run(ctx)
}

// Collect gathers every value of p. The result is never nil; on error it
// holds the values pulled before the failure.
func Collect[T any](ctx context.Context, p *Pipeline[T]) ([]T, error) {
	out := make([]T, 0)
	err := ForEach(ctx, p, func(_ context.Context, v T) error {
		out = append(out, v)
		return nil
	})
	return out, err
}

type sliceIter[T any] struct {
	items []T
	pos   int
}

func (it *sliceIter[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if it.pos == len(it.items) {
		return zero, false, nil
	}
	v := it.items[it.pos]
	it.pos++
	return v, true, nil
}

func (it *sliceIter[T]) Close() error { return nil }
