package testsupport

import (
	"path/filepath"
	"testing"

	"srlprep/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test
// and a small annotation corpus written to disk. It defaults common fields
// and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.CaptionFile = filepath.Join(base, "captions.json")
	cfgVal.Paths.SplitFile = filepath.Join(base, "splits.json")
	cfgVal.Paths.EntityAnnotFile = filepath.Join(base, "entities.json")
	cfgVal.Paths.SRLFile = filepath.Join(base, "srl.json")
	cfgVal.Paths.CacheDir = filepath.Join(base, "cache")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Pipeline.Workers = 2

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	WriteCorpus(t, base)

	for _, opt := range opts {
		opt(builder)
	}

	if err := cfgVal.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}
	return builder.cfg
}

// WithWorkers overrides the worker count on the test config.
func WithWorkers(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.Workers = n
	}
}

// WithNGTProp overrides the gt-k truncation count on the test config.
func WithNGTProp(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.NGTProp = n
	}
}

// WithExcludeVerbs overrides the verb exclusion set on the test config.
func WithExcludeVerbs(lemmas ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Pipeline.ExcludeVerbSet = lemmas
	}
}
