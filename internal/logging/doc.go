// Package logging assembles structured slog loggers and formatting helpers
// used across the srlprep pipeline.
//
// It owns the console/JSON handlers, centralizes level and output plumbing,
// and provides attribute helpers plus a no-op logger for tests and wiring code
// that cannot fail. Prefer these constructors over hand-rolled slog setup so
// every stage emits log lines with the same shape.
package logging
