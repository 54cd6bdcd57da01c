package pipeline_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"srlprep/internal/cachestore"
	"srlprep/internal/config"
	"srlprep/internal/fileutil"
	"srlprep/internal/logging"
	"srlprep/internal/pipeline"
	"srlprep/internal/testsupport"
)

func openStore(t *testing.T, cfg *config.Config) *cachestore.Store {
	t.Helper()
	store, err := cachestore.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("cachestore.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

func allArtifacts() []string {
	return []string{
		pipeline.ArtifactCapAnnots,
		pipeline.ArtifactLemmaDict,
		pipeline.ArtifactVerbEnt,
		pipeline.ArtifactVerbEntTrain,
		pipeline.ArtifactVerbEntVal,
		pipeline.ArtifactTrainDict,
		pipeline.ArtifactValDict,
		pipeline.ArtifactTrainAnnots,
		pipeline.ArtifactValAnnots,
		pipeline.ArtifactArgVocab,
		"gt5_" + pipeline.ArtifactTrainDict,
		"gt5_" + pipeline.ArtifactValDict,
		"gt5_" + pipeline.ArtifactTrainAnnots,
		"gt5_" + pipeline.ArtifactValAnnots,
	}
}

func TestRunProducesAllArtifacts(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := openStore(t, cfg)

	summary, err := pipeline.New(cfg, store, logging.NewNop()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if len(summary.Stages) != 6 {
		t.Fatalf("expected 6 stages, got %d", len(summary.Stages))
	}
	for _, stage := range summary.Stages {
		if stage.Cached {
			t.Fatalf("first run should build stage %s, not reuse it", stage.Stage)
		}
	}

	for _, name := range allArtifacts() {
		if _, err := os.Stat(filepath.Join(cfg.Paths.CacheDir, name)); err != nil {
			t.Fatalf("missing artifact %s: %v", name, err)
		}
	}

	// The orphan SRL record in the fixture is dropped and surfaced.
	if summary.Stages[0].Dropped != 1 {
		t.Fatalf("captions stage dropped = %d, want 1", summary.Stages[0].Dropped)
	}
}

func TestRerunIsCachedAndByteIdentical(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := openStore(t, cfg)
	ctx := context.Background()

	if _, err := pipeline.New(cfg, store, logging.NewNop()).Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	before := make(map[string]string)
	for _, name := range allArtifacts() {
		sum, err := fileutil.HashFile(filepath.Join(cfg.Paths.CacheDir, name))
		if err != nil {
			t.Fatalf("hash %s: %v", name, err)
		}
		before[name] = sum
	}

	summary, err := pipeline.New(cfg, store, logging.NewNop()).Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	for _, stage := range summary.Stages {
		if !stage.Cached {
			t.Fatalf("stage %s rebuilt on identical inputs", stage.Stage)
		}
	}
	for name, want := range before {
		got, err := fileutil.HashFile(filepath.Join(cfg.Paths.CacheDir, name))
		if err != nil {
			t.Fatalf("hash %s: %v", name, err)
		}
		if got != want {
			t.Fatalf("artifact %s changed across runs", name)
		}
	}
}

func TestConfigChangeInvalidatesStages(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := openStore(t, cfg)
	ctx := context.Background()

	if _, err := pipeline.New(cfg, store, logging.NewNop()).Run(ctx); err != nil {
		t.Fatalf("first Run: %v", err)
	}

	cfg.Pipeline.NumFrms = 20
	summary, err := pipeline.New(cfg, store, logging.NewNop()).Run(ctx)
	if err != nil {
		t.Fatalf("second Run: %v", err)
	}
	for _, stage := range summary.Stages {
		if stage.Cached {
			t.Fatalf("stage %s reused after config change", stage.Stage)
		}
	}
}

func TestExcludedVerbNeverReachesVerbEntFile(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExcludeVerbs("see"))
	store := openStore(t, cfg)

	if _, err := pipeline.New(cfg, store, logging.NewNop()).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(cfg.Paths.CacheDir, pipeline.ArtifactVerbEnt))
	if err != nil {
		t.Fatalf("read verb ent file: %v", err)
	}
	if strings.Contains(string(data), "seeing") {
		t.Fatal("excluded verb lemma leaked into verb_ent_file.csv")
	}
	if !strings.Contains(string(data), "running") {
		t.Fatal("retained verb missing from verb_ent_file.csv")
	}

	// The lemma dictionary still covers every corpus verb; exclusion happens
	// downstream of lemma resolution.
	dict, err := os.ReadFile(filepath.Join(cfg.Paths.CacheDir, pipeline.ArtifactLemmaDict))
	if err != nil {
		t.Fatalf("read lemma dict: %v", err)
	}
	if !strings.Contains(string(dict), "seeing") {
		t.Fatal("lemma dictionary should still contain excluded surface forms")
	}
}

func TestRunStagesRejectsUnknownStage(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := openStore(t, cfg)

	_, err := pipeline.New(cfg, store, logging.NewNop()).RunStages(context.Background(), "frobnicate")
	if err == nil {
		t.Fatal("expected unknown-stage error")
	}
}

func TestSingleStageRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := openStore(t, cfg)

	summary, err := pipeline.New(cfg, store, logging.NewNop()).RunStages(context.Background(), "lemmas")
	if err != nil {
		t.Fatalf("RunStages: %v", err)
	}
	if len(summary.Stages) != 1 || summary.Stages[0].Stage != "lemmas" {
		t.Fatalf("unexpected summary: %+v", summary.Stages)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.CacheDir, pipeline.ArtifactLemmaDict)); err != nil {
		t.Fatalf("lemma dictionary not written: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.Paths.CacheDir, pipeline.ArtifactVerbEnt)); err == nil {
		t.Fatal("single-stage run should not produce later-stage artifacts")
	}
}

func TestCanceledContextStopsRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := openStore(t, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := pipeline.New(cfg, store, logging.NewNop()).Run(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
