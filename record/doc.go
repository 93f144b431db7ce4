// Package record defines the unit of work of hpcparser and its transform.
//
// A Raw record is one input line and its 0-based index. Transform turns it
// into a Numeric record: the leading run of decimal numbers on the line, each
// mapped through v*v + 0.5. Parsing stops where no number can be read, so
// "1.0 2.0 foo 3.0" yields [1.5 4.5]. A line with no leading
// number yields an empty, non-nil record; that is a result, not an error.
//
// A Batch holds one Numeric per input line, in input order.
package record
