package sink

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/kbukum/hpcparser/errors"
	"github.com/kbukum/hpcparser/logger"
	"github.com/kbukum/hpcparser/record"
)

// Format names.
const (
	FormatBinary  = "binary"
	FormatParquet = "parquet"
	FormatLog     = "log"
)

// Writer persists one batch to path. Implementations return a WRITE_FAILURE
// error naming path when the artifact cannot be written.
type Writer interface {
	Write(ctx context.Context, path string, batch record.Batch) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, path string, batch record.Batch) error

// Write calls f.
func (f WriterFunc) Write(ctx context.Context, path string, batch record.Batch) error {
	return f(ctx, path, batch)
}

// Factory creates a Writer that logs through log.
type Factory func(log *logger.Logger) Writer

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a format available to New. Registering an existing name
// replaces it.
func Register(name string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[strings.ToLower(name)] = f
}

// New creates the writer registered under name. A nil log uses the
// registered sink logger.
func New(name string, log *logger.Logger) (Writer, error) {
	mu.RLock()
	f, ok := factories[strings.ToLower(name)]
	mu.RUnlock()
	if !ok {
		return nil, errors.UnsupportedFormat(name).WithDetail("known", strings.Join(Formats(), ","))
	}
	if log == nil {
		log = logger.Get(logger.ComponentSink)
	}
	return f(log), nil
}

// Formats returns the registered format names in sorted order.
func Formats() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(factories))
	for name := range factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func init() {
	Register(FormatBinary, func(log *logger.Logger) Writer { return &BinaryWriter{log: log} })
	Register(FormatParquet, func(log *logger.Logger) Writer { return &ParquetWriter{log: log} })
	Register(FormatLog, func(log *logger.Logger) Writer { return &LogWriter{log: log} })
}

// Config is the sink section of the application config.
type Config struct {
	Format string `yaml:"format" mapstructure:"format" validate:"omitempty,oneof=binary parquet log"`
}

// ApplyDefaults selects the binary format when none is set.
func (c *Config) ApplyDefaults() {
	if c.Format == "" {
		c.Format = FormatBinary
	}
}
