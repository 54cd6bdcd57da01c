package stageerr

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingSource marks a required input file that is absent. Fatal.
	ErrMissingSource = errors.New("missing source")
	// ErrSchemaMismatch marks a cross-referenced id not found in a joined
	// source. The record is dropped and counted; the run continues.
	ErrSchemaMismatch = errors.New("schema mismatch")
	// ErrUnknownSplit marks a video id with no split membership. Fatal.
	ErrUnknownSplit = errors.New("unknown split")
	// ErrTemporalIndex marks a timing outside the configured frame
	// quantization. The record is skipped and counted.
	ErrTemporalIndex = errors.New("temporal index out of range")
	// ErrEmptyVocabulary marks a filter configuration that left no argument
	// tokens. Fatal.
	ErrEmptyVocabulary = errors.New("empty vocabulary")
	// ErrCacheWrite marks an I/O failure persisting a derived artifact. Fatal.
	ErrCacheWrite = errors.New("cache write failure")
	// ErrConfiguration marks unusable configuration detected mid-run. Fatal.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be one
// of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrConfiguration
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether the error must abort the run rather than be recovered
// by skipping the offending record.
func Fatal(err error) bool {
	switch {
	case errors.Is(err, ErrSchemaMismatch), errors.Is(err, ErrTemporalIndex):
		return false
	default:
		return err != nil
	}
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "stage failure"
	}
	return strings.Join(parts, ": ")
}
