// Package pipeline holds the execution primitives of hpcparser.
//
// Dispatch runs a function over every element of a slice on a fixed worker
// pool. Workers claim indices from a shared atomic cursor, so a worker that
// finishes early takes the next unclaimed index, and each result lands in
// the slot of its input index. The returned Result is ordered like the input
// regardless of completion order:
//
//	res, err := pipeline.Dispatch(ctx, lines, func(ctx context.Context, i int, r record.Raw) (record.Numeric, error) {
//	    return record.Transform(r), nil
//	}, pipeline.WithWorkers(8))
//
// Per-index failures never stop sibling work; they are collected after the
// join and reported through Result.Err as a *PartialFailure.
//
// Pipeline is a lazy, pull-based sequence used for sequential stages such as
// reading lines or encoding records. No work happens until values are pulled
// via Collect, Drain, or ForEach:
//
//	lines, err := pipeline.Collect(ctx, source.Lines(r, maxLine))
package pipeline
