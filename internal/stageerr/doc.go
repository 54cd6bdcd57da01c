// Package stageerr defines the pipeline error taxonomy and wrapping helpers.
//
// Structural and configuration failures (missing inputs, unknown splits, an
// empty vocabulary, cache write errors) are fatal and abort the run.
// Per-record data-quality failures (schema mismatches, out-of-range timings)
// are recovered by skipping the record and accumulating a count that surfaces
// in the final summary. Unresolved spatial matches are ordinary sentinel
// values, not errors.
package stageerr
