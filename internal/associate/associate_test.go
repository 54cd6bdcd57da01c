package associate_test

import (
	"context"
	"errors"
	"testing"

	"srlprep/internal/asrl"
	"srlprep/internal/associate"
	"srlprep/internal/config"
	"srlprep/internal/lemma"
	"srlprep/internal/logging"
	"srlprep/internal/rolefilter"
	"srlprep/internal/sources"
	"srlprep/internal/stageerr"
)

func defaultConfig() *config.Config {
	cfg := config.Default()
	return &cfg
}

func proposals() []asrl.Proposal {
	return []asrl.Proposal{
		{Box: asrl.Box{X1: 0, Y1: 0, X2: 100, Y2: 200}, FrameIdx: 2, Label: "man", Score: 0.92},
		{Box: asrl.Box{X1: 50, Y1: 40, X2: 120, Y2: 90}, FrameIdx: 3, Label: "dog", Score: 0.81},
		{Box: asrl.Box{X1: 10, Y1: 10, X2: 40, Y2: 60}, FrameIdx: 4, Label: "man", Score: 0.55},
		{Box: asrl.Box{X1: 0, Y1: 0, X2: 720, Y2: 405}, FrameIdx: 2, Label: asrl.BackgroundLabel, Score: 0.90},
		{Box: asrl.Box{X1: 0, Y1: 0, X2: 720, Y2: 405}, FrameIdx: 5, Label: "park", Score: 0.10},
	}
}

func TestGroundPrefersLargestBox(t *testing.T) {
	matcher := associate.NewMatcher(defaultConfig())

	got := matcher.Ground("ARG0", "a man", proposals())
	if got.PropIdx != 0 {
		t.Fatalf("expected largest man box at index 0, got %d", got.PropIdx)
	}
	if got.FrameIdx != 2 {
		t.Fatalf("expected frame index 2, got %d", got.FrameIdx)
	}
}

func TestGroundSkipsBackgroundAndLowScore(t *testing.T) {
	matcher := associate.NewMatcher(defaultConfig())

	if got := matcher.Ground("ARGM-LOC", "in the park", proposals()); got.PropIdx != asrl.UnresolvedIdx {
		t.Fatalf("low-score proposal should not ground, got index %d", got.PropIdx)
	}
	if got := matcher.Ground("ARG0", asrl.BackgroundLabel, proposals()); got.PropIdx != asrl.UnresolvedIdx {
		t.Fatalf("background should never ground, got index %d", got.PropIdx)
	}
}

func TestGroundNoneWordIsUnresolved(t *testing.T) {
	matcher := associate.NewMatcher(defaultConfig())

	got := matcher.Ground("ARG2", "none", proposals())
	if got.PropIdx != asrl.UnresolvedIdx || got.FrameIdx != asrl.UnresolvedIdx {
		t.Fatalf("none word should stay unresolved, got %+v", got)
	}
}

func TestGroundTieBreaksOnLowestIndex(t *testing.T) {
	matcher := associate.NewMatcher(defaultConfig())

	same := []asrl.Proposal{
		{Box: asrl.Box{X1: 0, Y1: 0, X2: 10, Y2: 10}, FrameIdx: 1, Label: "cat", Score: 0.9},
		{Box: asrl.Box{X1: 5, Y1: 5, X2: 15, Y2: 15}, FrameIdx: 2, Label: "cat", Score: 0.9},
	}
	if got := matcher.Ground("ARG1", "the cat", same); got.PropIdx != 0 {
		t.Fatalf("equal areas should keep the lowest index, got %d", got.PropIdx)
	}
}

func corpusFixture() *sources.Corpus {
	return &sources.Corpus{
		Records: []sources.Record{
			{
				VideoID:   "v_train1",
				SegIdx:    0,
				Proposals: proposals(),
				Verbs: []sources.Verb{
					{Verb: "running", Roles: map[string]string{"ARG0": "a man", "ARGM-LOC": "in the park"}},
				},
			},
			{
				VideoID: "v_val1",
				SegIdx:  0,
				Proposals: []asrl.Proposal{
					{Box: asrl.Box{X1: 20, Y1: 10, X2: 90, Y2: 180}, FrameIdx: 4, Label: "woman", Score: 0.9},
				},
				Verbs: []sources.Verb{
					{Verb: "throwing", Roles: map[string]string{"ARG0": "a woman", "ARG1": "a ball"}},
				},
			},
		},
		Splits: map[string]asrl.Split{
			"v_train1": asrl.SplitTrain,
			"v_val1":   asrl.SplitVal,
		},
	}
}

func TestRunPartitionsBySplit(t *testing.T) {
	cfg := defaultConfig()
	corpus := corpusFixture()
	filter := rolefilter.New(cfg)
	resolver := lemma.Build(corpus.DistinctVerbs())

	result, err := associate.Run(context.Background(), corpus, filter, resolver, associate.NewMatcher(cfg), 2, logging.NewNop())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	// One row per allow-listed role per verb occurrence.
	if len(result.Train) != 4 || len(result.Val) != 4 {
		t.Fatalf("train=%d val=%d, want 4 and 4", len(result.Train), len(result.Val))
	}
	for _, row := range result.Train {
		if row.Split != asrl.SplitTrain {
			t.Fatalf("train partition holds %v row", row.Split)
		}
	}

	var arg0 *associate.Row
	for i := range result.Train {
		if result.Train[i].Role == "ARG0" {
			arg0 = &result.Train[i]
		}
	}
	if arg0 == nil || arg0.PropIdx != 0 || arg0.Label != "man" {
		t.Fatalf("unexpected ARG0 grounding: %+v", arg0)
	}
	if result.Grounded != 2 {
		t.Fatalf("expected 2 grounded args (man, woman), got %d", result.Grounded)
	}
	if result.Unresolved != 6 {
		t.Fatalf("expected 6 unresolved args, got %d", result.Unresolved)
	}
}

func TestRunIsDeterministicAcrossWorkerCounts(t *testing.T) {
	cfg := defaultConfig()
	corpus := corpusFixture()
	filter := rolefilter.New(cfg)
	resolver := lemma.Build(corpus.DistinctVerbs())

	one, err := associate.Run(context.Background(), corpus, filter, resolver, associate.NewMatcher(cfg), 1, logging.NewNop())
	if err != nil {
		t.Fatalf("Run workers=1: %v", err)
	}
	four, err := associate.Run(context.Background(), corpus, filter, resolver, associate.NewMatcher(cfg), 4, logging.NewNop())
	if err != nil {
		t.Fatalf("Run workers=4: %v", err)
	}

	a, b := associate.CSVRows(one.All()), associate.CSVRows(four.All())
	if len(a) != len(b) {
		t.Fatalf("row counts differ: %d vs %d", len(a), len(b))
	}
	for i := range a {
		for j := range a[i] {
			if a[i][j] != b[i][j] {
				t.Fatalf("row %d differs: %v vs %v", i, a[i], b[i])
			}
		}
	}
}

func TestRunRejectsUnknownSplit(t *testing.T) {
	cfg := defaultConfig()
	corpus := corpusFixture()
	delete(corpus.Splits, "v_val1")
	filter := rolefilter.New(cfg)
	resolver := lemma.Build(corpus.DistinctVerbs())

	_, err := associate.Run(context.Background(), corpus, filter, resolver, associate.NewMatcher(cfg), 1, logging.NewNop())
	if !errors.Is(err, stageerr.ErrUnknownSplit) {
		t.Fatalf("expected ErrUnknownSplit, got %v", err)
	}
	if !stageerr.Fatal(err) {
		t.Fatal("unknown split should classify as fatal")
	}
}
