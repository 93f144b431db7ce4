// Package source reads the input artifact of a run into ordered raw records.
//
// Every line of the input becomes one record.Raw whose Index is its 0-based
// line number. Line terminators ("\n" and "\r\n") are stripped; a final line
// without a terminator is still a record, and a trailing terminator does not
// add an empty one.
package source
