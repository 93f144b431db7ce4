package sink

import (
	"context"
	"fmt"

	"github.com/kbukum/hpcparser/logger"
	"github.com/kbukum/hpcparser/record"
)

// LogWriter writes nothing and reports the batch it would have saved.
type LogWriter struct {
	log *logger.Logger
}

// Write logs "Saving batch of size N to path".
func (w *LogWriter) Write(ctx context.Context, path string, batch record.Batch) error {
	w.log.WithContext(ctx).Info(fmt.Sprintf("Saving batch of size %d to %s", batch.Len(), path),
		logger.Fields(logger.FieldFormat, FormatLog, logger.FieldValues, batch.Values()))
	return nil
}
