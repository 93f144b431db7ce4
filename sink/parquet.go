package sink

import (
	"context"
	"io"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/kbukum/hpcparser/errors"
	"github.com/kbukum/hpcparser/logger"
	"github.com/kbukum/hpcparser/record"
)

// ParquetRow is the row schema of the parquet format.
type ParquetRow struct {
	Index  int64     `parquet:"index"`
	Values []float64 `parquet:"values"`
}

const parquetRowGroup = 64 * 1024

// ParquetWriter writes one parquet row per record.
type ParquetWriter struct {
	log *logger.Logger
}

// Write encodes batch to path atomically.
func (w *ParquetWriter) Write(ctx context.Context, path string, batch record.Batch) error {
	start := time.Now()
	err := writeAtomic(path, func(out io.Writer) error {
		return encodeParquet(ctx, out, batch)
	})
	if err != nil {
		return errors.WriteFailure(path, err).WithDetail("format", FormatParquet)
	}
	logWritten(ctx, w.log, FormatParquet, path, batch, time.Since(start))
	return nil
}

func encodeParquet(ctx context.Context, out io.Writer, batch record.Batch) error {
	pw := parquet.NewGenericWriter[ParquetRow](out)
	rows := make([]ParquetRow, 0, min(len(batch), parquetRowGroup))
	for i, rec := range batch {
		rows = append(rows, ParquetRow{Index: int64(i), Values: rec})
		if len(rows) == cap(rows) {
			if err := ctx.Err(); err != nil {
				return err
			}
			if _, err := pw.Write(rows); err != nil {
				return err
			}
			rows = rows[:0]
		}
	}
	if len(rows) > 0 {
		if _, err := pw.Write(rows); err != nil {
			return err
		}
	}
	return pw.Close()
}

// ReadParquet decodes a file written by ParquetWriter. Rows are placed by
// their index column, which must cover 0..n-1 exactly once.
func ReadParquet(path string) (record.Batch, error) {
	rows, err := parquet.ReadFile[ParquetRow](path)
	if err != nil {
		return nil, err
	}
	batch := make(record.Batch, len(rows))
	seen := make([]bool, len(rows))
	for _, row := range rows {
		if row.Index < 0 || row.Index >= int64(len(rows)) {
			return nil, errors.New(errors.ErrCodeInternal, "parquet row index out of range").
				WithDetail("index", row.Index)
		}
		if seen[row.Index] {
			return nil, errors.New(errors.ErrCodeInternal, "duplicate parquet row index").
				WithDetail("index", row.Index)
		}
		seen[row.Index] = true
		batch[row.Index] = record.Numeric(row.Values)
	}
	return batch, nil
}
