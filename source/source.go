package source

import (
	"bufio"
	"context"
	"io"
	"os"
	"time"

	"github.com/kbukum/hpcparser/errors"
	"github.com/kbukum/hpcparser/logger"
	"github.com/kbukum/hpcparser/pipeline"
	"github.com/kbukum/hpcparser/record"
	"github.com/kbukum/hpcparser/util"
)

const (
	// DefaultMaxLineSize bounds a single input line.
	DefaultMaxLineSize = 64 * 1024 * 1024

	initialBufferSize = 64 * 1024
)

// Config is the source section of the application config.
type Config struct {
	MaxLineSize string `yaml:"max_line_size" mapstructure:"max_line_size"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.MaxLineSize == "" {
		c.MaxLineSize = "64MB"
	}
}

// Validate checks that MaxLineSize parses as a size.
func (c *Config) Validate() error {
	if _, err := util.ParseBytes(c.MaxLineSize); err != nil {
		return errors.InvalidInput("source.max_line_size", err.Error())
	}
	return nil
}

// Options converts the config into reader options.
func (c *Config) Options() Options {
	return Options{MaxLineSize: int(util.ParseSize(c.MaxLineSize, DefaultMaxLineSize))}
}

// Options tunes a Reader.
type Options struct {
	// MaxLineSize is the longest accepted line in bytes. Zero selects
	// DefaultMaxLineSize.
	MaxLineSize int
}

// Reader loads input files into memory.
type Reader struct {
	opts Options
	log  *logger.Logger
}

// New creates a Reader. A nil log uses the registered source logger.
func New(opts Options, log *logger.Logger) *Reader {
	if opts.MaxLineSize <= 0 {
		opts.MaxLineSize = DefaultMaxLineSize
	}
	if log == nil {
		log = logger.Get(logger.ComponentSource)
	}
	return &Reader{opts: opts, log: log}
}

// ReadAll reads every line of the file at path using default options.
func ReadAll(ctx context.Context, path string) ([]record.Raw, error) {
	return New(Options{}, nil).ReadAll(ctx, path)
}

// ReadAll reads every line of the file at path. Any open or read failure is
// returned as a FILE_NOT_READABLE error naming path.
func (r *Reader) ReadAll(ctx context.Context, path string) ([]record.Raw, error) {
	start := time.Now()
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileNotReadable(path, err)
	}
	defer f.Close()

	lines, err := r.Read(ctx, f)
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, errors.FileNotReadable(path, err)
	}

	r.log.WithContext(ctx).Debug("input loaded", logger.MergeWithDuration(
		logger.Fields(logger.FieldPath, path, logger.FieldRecords, len(lines)), time.Since(start)))
	return lines, nil
}

// Read reads every line from rd.
func (r *Reader) Read(ctx context.Context, rd io.Reader) ([]record.Raw, error) {
	return pipeline.Collect(ctx, Lines(rd, r.opts.MaxLineSize))
}

// Lines returns a pipeline yielding the lines of rd as records.
func Lines(rd io.Reader, maxLineSize int) *pipeline.Pipeline[record.Raw] {
	return pipeline.FromFunc(func(context.Context) pipeline.Iterator[record.Raw] {
		sc := bufio.NewScanner(rd)
		sc.Buffer(make([]byte, 0, min(initialBufferSize, maxLineSize)), maxLineSize)
		return &lineIter{scanner: sc}
	})
}

type lineIter struct {
	scanner *bufio.Scanner
	index   int
}

func (it *lineIter) Next(ctx context.Context) (record.Raw, bool, error) {
	if err := ctx.Err(); err != nil {
		return record.Raw{}, false, err
	}
	if !it.scanner.Scan() {
		return record.Raw{}, false, it.scanner.Err()
	}
	raw := record.Raw{Index: it.index, Text: it.scanner.Text()}
	it.index++
	return raw, true, nil
}

func (it *lineIter) Close() error { return nil }
