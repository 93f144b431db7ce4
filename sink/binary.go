package sink

import (
	"context"
	"encoding/binary"
	stderrors "errors"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/kbukum/hpcparser/errors"
	"github.com/kbukum/hpcparser/logger"
	"github.com/kbukum/hpcparser/pipeline"
	"github.com/kbukum/hpcparser/record"
)

// Binary container layout, all integers little-endian:
//
//	magic   [4]byte "HPCB"
//	version uint16
//	count   uint64            number of records
//	count × { n uint32; values [n]float64 }
const (
	binaryMagic   = "HPCB"
	BinaryVersion = 1
)

// ErrBadContainer is returned by ReadBinary for malformed input.
var ErrBadContainer = stderrors.New("malformed binary container")

// BinaryWriter writes the binary container format.
type BinaryWriter struct {
	log *logger.Logger
}

// Write encodes batch to path atomically.
func (w *BinaryWriter) Write(ctx context.Context, path string, batch record.Batch) error {
	start := time.Now()
	err := writeAtomic(path, func(out io.Writer) error {
		return EncodeBinary(ctx, out, batch)
	})
	if err != nil {
		return errors.WriteFailure(path, err).WithDetail("format", FormatBinary)
	}
	logWritten(ctx, w.log, FormatBinary, path, batch, time.Since(start))
	return nil
}

// EncodeBinary writes batch to out in the binary container format.
func EncodeBinary(ctx context.Context, out io.Writer, batch record.Batch) error {
	header := make([]byte, 0, len(binaryMagic)+2+8)
	header = append(header, binaryMagic...)
	header = binary.LittleEndian.AppendUint16(header, BinaryVersion)
	header = binary.LittleEndian.AppendUint64(header, uint64(len(batch)))
	if _, err := out.Write(header); err != nil {
		return err
	}

	var buf []byte
	return pipeline.Drain(pipeline.FromSlice(batch), func(_ context.Context, rec record.Numeric) error {
		buf = binary.LittleEndian.AppendUint32(buf[:0], uint32(len(rec)))
		for _, v := range rec {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		_, err := out.Write(buf)
		return err
	}).Run(ctx)
}

// ReadBinary decodes a binary container.
func ReadBinary(r io.Reader) (record.Batch, error) {
	var header [len(binaryMagic) + 2 + 8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, fmt.Errorf("%w: header: %v", ErrBadContainer, err)
	}
	if string(header[:4]) != binaryMagic {
		return nil, fmt.Errorf("%w: bad magic %q", ErrBadContainer, header[:4])
	}
	if v := binary.LittleEndian.Uint16(header[4:6]); v != BinaryVersion {
		return nil, fmt.Errorf("%w: unsupported version %d", ErrBadContainer, v)
	}
	count := binary.LittleEndian.Uint64(header[6:])

	batch := make(record.Batch, 0, min(count, 1<<20))
	var lenBuf [4]byte
	for i := uint64(0); i < count; i++ {
		if _, err := io.ReadFull(r, lenBuf[:]); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrBadContainer, i, err)
		}
		n := binary.LittleEndian.Uint32(lenBuf[:])
		payload := make([]byte, int(n)*8)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, fmt.Errorf("%w: record %d values: %v", ErrBadContainer, i, err)
		}
		rec := make(record.Numeric, n)
		for j := range rec {
			rec[j] = math.Float64frombits(binary.LittleEndian.Uint64(payload[j*8:]))
		}
		batch = append(batch, rec)
	}
	return batch, nil
}

func logWritten(ctx context.Context, log *logger.Logger, format, path string, batch record.Batch, d time.Duration) {
	log.WithContext(ctx).Debug("batch written", logger.MergeWithDuration(logger.Fields(
		logger.FieldFormat, format,
		logger.FieldPath, path,
		logger.FieldRecords, batch.Len(),
		logger.FieldValues, batch.Values(),
	), d))
}
