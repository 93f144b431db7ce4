package record

import "context"

// Raw is one input line and its position in the input.
type Raw struct {
	Index int
	Text  string
}

// Numeric is the ordered sequence of transformed values for one line.
// Each record owns its backing array.
type Numeric []float64

// Batch is the ordered collection of records for one run. Batch[i] is the
// result for input line i, so len(batch) always equals the input line count.
type Batch []Numeric

// Len returns the number of records, including empty ones.
func (b Batch) Len() int { return len(b) }

// Values returns the total number of values across all records.
func (b Batch) Values() int {
	n := 0
	for _, r := range b {
		n += len(r)
	}
	return n
}

// Empty returns the number of records with no values.
func (b Batch) Empty() int {
	n := 0
	for _, r := range b {
		if len(r) == 0 {
			n++
		}
	}
	return n
}

// Equal reports whether two batches hold the same records in the same order.
func (b Batch) Equal(other Batch) bool {
	if len(b) != len(other) {
		return false
	}
	for i := range b {
		if len(b[i]) != len(other[i]) {
			return false
		}
		for j := range b[i] {
			if b[i][j] != other[i][j] {
				return false
			}
		}
	}
	return true
}

// TransformFunc maps one raw record to its numeric record. Implementations
// must be safe for concurrent use.
type TransformFunc func(Raw) Numeric

// FallibleFunc is a transform that can fail for a single record.
type FallibleFunc func(ctx context.Context, r Raw) (Numeric, error)

// Fallible adapts an infallible transform to a FallibleFunc.
func (f TransformFunc) Fallible() FallibleFunc {
	return func(_ context.Context, r Raw) (Numeric, error) {
		return f(r), nil
	}
}
