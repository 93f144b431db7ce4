// Package logger provides structured logging for hpcparser using zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Every pipeline stage logs
// under its own component name and carries the run ID when one is present in
// the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "console"
//	  output: "stderr"
//
// # Usage
//
//	log := logger.Get("dispatch")
//	log.Info("dispatch complete", logger.Fields(logger.FieldRecords, n))
package logger
