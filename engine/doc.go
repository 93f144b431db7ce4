// Package engine runs one hpcparser job: read every line of the input,
// transform all lines in parallel, and write the ordered batch.
//
// The three phases never overlap. Each phase runs under its own span and
// records its duration; the run as a whole is identified by a random run ID
// carried in log lines and span attributes.
package engine
