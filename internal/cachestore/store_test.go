package cachestore_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"srlprep/internal/cachestore"
	"srlprep/internal/config"
	"srlprep/internal/logging"
	"srlprep/internal/stageerr"
	"srlprep/internal/testsupport"
)

func openStore(t *testing.T) (*cachestore.Store, *config.Config) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store, err := cachestore.Open(cfg, logging.NewNop())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store, cfg
}

func TestOpenRejectsSecondRun(t *testing.T) {
	_, cfg := openStore(t)

	_, err := cachestore.Open(cfg, logging.NewNop())
	if !errors.Is(err, stageerr.ErrCacheWrite) {
		t.Fatalf("expected lock conflict, got %v", err)
	}
}

func TestStageFreshnessRoundTrip(t *testing.T) {
	store, cfg := openStore(t)
	ctx := context.Background()

	fp, err := cachestore.Fingerprint(cfg, "lemmas", []string{cfg.Paths.SRLFile})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}

	fresh, err := store.Fresh(ctx, "lemmas", fp, []string{"verb_lemma_dict.json"})
	if err != nil {
		t.Fatalf("Fresh: %v", err)
	}
	if fresh {
		t.Fatal("stage should not be fresh before first run")
	}

	if err := store.WriteJSON("verb_lemma_dict.json", map[string]string{"running": "run"}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	if err := store.RecordStage(ctx, "lemmas", fp, "run-1", cachestore.Counts{Rows: 1}); err != nil {
		t.Fatalf("RecordStage: %v", err)
	}

	fresh, err = store.Fresh(ctx, "lemmas", fp, []string{"verb_lemma_dict.json"})
	if err != nil {
		t.Fatalf("Fresh: %v", err)
	}
	if !fresh {
		t.Fatal("stage should be fresh after recording")
	}

	// A missing output invalidates the stage even with a matching fingerprint.
	if err := os.Remove(store.Path("verb_lemma_dict.json")); err != nil {
		t.Fatalf("remove artifact: %v", err)
	}
	fresh, err = store.Fresh(ctx, "lemmas", fp, []string{"verb_lemma_dict.json"})
	if err != nil {
		t.Fatalf("Fresh: %v", err)
	}
	if fresh {
		t.Fatal("stage with missing output should not be fresh")
	}
}

func TestFingerprintTracksConfigAndInputs(t *testing.T) {
	_, cfg := openStore(t)

	base, err := cachestore.Fingerprint(cfg, "index", []string{cfg.Paths.SRLFile})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}

	again, err := cachestore.Fingerprint(cfg, "index", []string{cfg.Paths.SRLFile})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if base != again {
		t.Fatal("fingerprint should be stable across calls")
	}

	otherStage, err := cachestore.Fingerprint(cfg, "vocab", []string{cfg.Paths.SRLFile})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if otherStage == base {
		t.Fatal("different stages should not share fingerprints")
	}

	changed := *cfg
	changed.Pipeline.NumFrms = 20
	bumped, err := cachestore.Fingerprint(&changed, "index", []string{cfg.Paths.SRLFile})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if bumped == base {
		t.Fatal("config change should change the fingerprint")
	}

	if err := os.WriteFile(cfg.Paths.SRLFile, []byte("[]"), 0o644); err != nil {
		t.Fatalf("rewrite input: %v", err)
	}
	mutated, err := cachestore.Fingerprint(cfg, "index", []string{cfg.Paths.SRLFile})
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if mutated == base {
		t.Fatal("input change should change the fingerprint")
	}
}

func TestStagesAndClear(t *testing.T) {
	store, _ := openStore(t)
	ctx := context.Background()

	if err := store.WriteCSV("verb_ent_file.csv", [][]string{{"vid_seg"}, {"v_a_segment_00"}}); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}
	if err := store.RecordStage(ctx, "verbs", "fp", "run-1", cachestore.Counts{Rows: 1, Dropped: 2}); err != nil {
		t.Fatalf("RecordStage: %v", err)
	}

	entries, err := store.Stages(ctx)
	if err != nil {
		t.Fatalf("Stages: %v", err)
	}
	if len(entries) != 1 || entries[0].Stage != "verbs" || entries[0].Counts.Dropped != 2 {
		t.Fatalf("unexpected ledger entries: %+v", entries)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := os.Stat(store.Path("verb_ent_file.csv")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("artifact should be gone after clear, stat err = %v", err)
	}
	entries, err = store.Stages(ctx)
	if err != nil {
		t.Fatalf("Stages: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("ledger should be empty after clear, got %+v", entries)
	}
}
