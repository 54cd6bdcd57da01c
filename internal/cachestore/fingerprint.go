package cachestore

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"

	"srlprep/internal/config"
	"srlprep/internal/fileutil"
)

// Fingerprint derives a stage's cache key: SHA-256 over the stage name, the
// canonical pipeline configuration, and the content hash of every input
// file. Any config or input change invalidates the stage.
func Fingerprint(cfg *config.Config, stage string, inputs []string) (string, error) {
	canonical, err := json.Marshal(cfg.Pipeline)
	if err != nil {
		return "", fmt.Errorf("canonicalize pipeline config: %w", err)
	}

	hasher := sha256.New()
	hasher.Write([]byte(stage))
	hasher.Write([]byte{0})
	hasher.Write(canonical)
	for _, input := range inputs {
		sum, err := fileutil.HashFile(input)
		if err != nil {
			return "", fmt.Errorf("hash input %s: %w", input, err)
		}
		hasher.Write([]byte{0})
		hasher.Write([]byte(input))
		hasher.Write([]byte{0})
		hasher.Write([]byte(sum))
	}
	return hex.EncodeToString(hasher.Sum(nil)), nil
}
