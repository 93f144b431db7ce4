// Command hpcparser transforms a text file of numeric records in parallel and
// writes the ordered batch to an output artifact.
//
//	hpcparser [flags] <input_path> <output_path>
package main

import (
	"cmp"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/hpcparser/bootstrap"
	"github.com/kbukum/hpcparser/config"
	"github.com/kbukum/hpcparser/engine"
	"github.com/kbukum/hpcparser/errors"
	"github.com/kbukum/hpcparser/logger"
	"github.com/kbukum/hpcparser/observability"
	"github.com/kbukum/hpcparser/sink"
	"github.com/kbukum/hpcparser/source"
	"github.com/kbukum/hpcparser/validation"
	"github.com/kbukum/hpcparser/version"
)

const usageLine = "Usage: hpcparser [flags] <input_path> <output_path>"

func main() {
	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

type cliFlags struct {
	set         *pflag.FlagSet
	configPath  string
	envFile     string
	workers     int
	chunkSize   int
	format      string
	logLevel    string
	logFormat   string
	maxLineSize string
	timeout     time.Duration
	showVersion bool
}

func newFlags(stderr io.Writer) *cliFlags {
	f := &cliFlags{set: pflag.NewFlagSet(serviceName, pflag.ContinueOnError)}
	fs := f.set
	fs.SetOutput(stderr)
	fs.StringVarP(&f.configPath, "config", "c", "", "config file (default: search ./cmd/hpcparser/config.yml, ./config/config.yml, ./config.yml)")
	fs.StringVar(&f.envFile, "env-file", "", "dotenv file loaded before binding HPCPARSER_* variables")
	fs.IntVarP(&f.workers, "workers", "w", 0, "worker goroutines (0 = one per CPU)")
	fs.IntVar(&f.chunkSize, "chunk-size", 0, "lines claimed per worker fetch")
	fs.StringVarP(&f.format, "format", "f", "", "output format: "+strings.Join(sink.Formats(), "|"))
	fs.StringVar(&f.logLevel, "log-level", "", "log level: debug|info|warn|error")
	fs.StringVar(&f.logFormat, "log-format", "", "log format: console|json")
	fs.StringVar(&f.maxLineSize, "max-line-size", "", "longest accepted input line, e.g. 64MB")
	fs.DurationVar(&f.timeout, "timeout", 0, "abort the run after this long, e.g. 30s (0 = no limit)")
	fs.BoolVarP(&f.showVersion, "version", "V", false, "print version and exit")
	fs.Usage = func() {
		fmt.Fprintln(stderr, usageLine)
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}
	return f
}

// apply copies explicitly set flags over file and environment values.
func (f *cliFlags) apply(cfg *AppConfig) {
	fs := f.set
	if fs.Changed("workers") {
		cfg.Engine.Workers = f.workers
	}
	if fs.Changed("chunk-size") {
		cfg.Engine.ChunkSize = f.chunkSize
	}
	if fs.Changed("format") {
		cfg.Sink.Format = strings.ToLower(f.format)
	}
	if fs.Changed("log-level") {
		cfg.Logging.Level = f.logLevel
	}
	if fs.Changed("log-format") {
		cfg.Logging.Format = f.logFormat
	}
	if fs.Changed("max-line-size") {
		cfg.Source.MaxLineSize = f.maxLineSize
	}
	if fs.Changed("timeout") {
		cfg.Engine.Timeout = f.timeout
	}
}

// validate checks positional arguments and flag values that need no config.
// Arguments after <output_path> are ignored.
func (f *cliFlags) validate() *errors.AppError {
	positional := f.set.Args()
	v := validation.New().
		Custom(len(positional) >= 2, "args", "expected <input_path> and <output_path>")
	if len(positional) >= 2 {
		v.Required("input_path", positional[0]).
			Required("output_path", positional[1])
	}
	return v.Min("workers", f.workers, 0).
		Min("chunk-size", f.chunkSize, 0).
		OneOf("format", strings.ToLower(f.format), sink.Formats()).
		Validate()
}

// run executes the command and returns the process exit status.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	flags := newFlags(stderr)
	if err := flags.set.Parse(args); err != nil {
		if stderrors.Is(err, pflag.ErrHelp) {
			return errors.ExitOK
		}
		return errors.ExitUsage
	}
	if flags.showVersion {
		fmt.Fprintf(stdout, "%s %s\n", serviceName, version.Get())
		return errors.ExitOK
	}

	if err := flags.validate(); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		flags.set.Usage()
		return err.ExitCode
	}
	positional := flags.set.Args()

	cfg, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return errors.ExitCode(err)
	}

	log := logger.NewWithWriter(&cfg.Logging, cfg.Name, logOutput(cfg.Logging.Output, stdout, stderr))
	logger.SetGlobalLogger(log)
	logger.Reset()
	logger.RegisterDefaults()
	if extra := positional[2:]; len(extra) > 0 {
		log.Warn("ignoring extra arguments", logger.Fields("args", extra))
	}

	app, err := bootstrap.NewApp(cfg, bootstrap.WithLogger(log))
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return errors.ExitCode(err)
	}

	if err := runApp(ctx, app, positional[0], positional[1]); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", serviceName, err)
		return errors.ExitCode(err)
	}
	return errors.ExitOK
}

// loadConfig reads file and environment config, then applies flag overrides
// and defaults.
func loadConfig(flags *cliFlags) (*AppConfig, error) {
	cfg := &AppConfig{}
	opts := []config.LoaderOption{config.WithEnvPrefix("HPCPARSER")}
	if flags.configPath != "" {
		opts = append(opts, config.WithConfigFile(flags.configPath))
	}
	if flags.envFile != "" {
		opts = append(opts, config.WithEnvFile(flags.envFile))
	}
	if err := config.LoadConfig(serviceName, cfg, opts...); err != nil {
		return nil, errors.InvalidInput("config", err.Error())
	}
	flags.apply(cfg)
	cfg.ApplyDefaults()
	cfg.Version = cmp.Or(cfg.Version, version.Get().Short())
	return cfg, nil
}

func runApp(ctx context.Context, app *bootstrap.App[*AppConfig], input, output string) error {
	cfg := app.Cfg
	telemetry := observability.NewComponent(cfg.Telemetry, observability.ServiceInfo{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	})
	if err := app.RegisterComponent(telemetry); err != nil {
		return errors.Internal(err)
	}

	var eng *engine.Engine
	app.OnConfigure(func(context.Context, *bootstrap.App[*AppConfig]) error {
		w, err := sink.New(cfg.Sink.Format, logger.Get(logger.ComponentSink))
		if err != nil {
			return err
		}
		src := source.New(cfg.Source.Options(), logger.Get(logger.ComponentSource))
		eng = engine.New(cfg.Engine, src, w, logger.Get(logger.ComponentEngine), telemetry.Metrics())
		return nil
	})

	return app.RunTask(ctx, func(ctx context.Context) error {
		report, err := eng.Run(ctx, input, output)
		if err != nil {
			return err
		}
		app.Logger.Debug("run finished", logger.Fields(
			logger.FieldRunID, report.RunID,
			logger.FieldWorkers, report.Workers,
			logger.FieldFormat, cfg.Sink.Format,
			logger.FieldPath, output,
		))
		return nil
	})
}

func logOutput(output string, stdout, stderr io.Writer) io.Writer {
	switch strings.ToLower(output) {
	case "stdout":
		return stdout
	case "discard":
		return io.Discard
	default:
		return stderr
	}
}
