// Package errors provides the structured error type shared by every stage of
// the parser. Each AppError carries a machine-readable code, a human-readable
// message and the process exit status the CLI should terminate with.
package errors
