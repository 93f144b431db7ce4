// Package sink persists a transformed batch.
//
// A Writer is created by format name through New. Three formats are
// registered:
//
//   - binary: a compact little-endian container, decoded by ReadBinary.
//   - parquet: one row per record with its index and values, decoded by ReadParquet.
//   - log: writes nothing and only logs the batch size and target path.
//
// File formats write to a temporary file next to the target and rename it
// into place, so a failed write never leaves a partial artifact.
package sink
