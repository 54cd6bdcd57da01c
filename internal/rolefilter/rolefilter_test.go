package rolefilter_test

import (
	"reflect"
	"testing"

	"srlprep/internal/config"
	"srlprep/internal/lemma"
	"srlprep/internal/rolefilter"
	"srlprep/internal/sources"
)

func newFilter(t *testing.T, exclude ...string) *rolefilter.Filter {
	t.Helper()
	cfg := config.Default()
	cfg.Pipeline.ExcludeVerbSet = exclude
	return rolefilter.New(&cfg)
}

func TestApplyDropsExcludedVerbs(t *testing.T) {
	filter := newFilter(t, "see")
	resolver := lemma.Build([]string{"running", "seeing"})

	verbs := []sources.Verb{
		{Verb: "running", Roles: map[string]string{"ARG0": "a man"}},
		{Verb: "seeing", Roles: map[string]string{"ARG0": "a man", "ARG1": "a dog"}},
	}

	frames := filter.Apply(verbs, resolver)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame after exclusion, got %d", len(frames))
	}
	if frames[0].Lemma != "run" || frames[0].VerbIdx != 0 {
		t.Fatalf("unexpected surviving frame: %+v", frames[0])
	}
}

func TestApplyKeepsStableVerbIdx(t *testing.T) {
	filter := newFilter(t, "run")
	resolver := lemma.Build([]string{"running", "seeing"})

	verbs := []sources.Verb{
		{Verb: "running", Roles: map[string]string{"ARG0": "a man"}},
		{Verb: "seeing", Roles: map[string]string{"ARG0": "a man"}},
	}

	frames := filter.Apply(verbs, resolver)
	if len(frames) != 1 || frames[0].VerbIdx != 1 {
		t.Fatalf("expected surviving frame to keep verb index 1, got %+v", frames)
	}
}

func TestApplyFillsMissingRolesWithNoneWord(t *testing.T) {
	filter := newFilter(t)
	resolver := lemma.Build([]string{"throwing"})

	verbs := []sources.Verb{
		{Verb: "throwing", Roles: map[string]string{"ARG0": "a woman", "ARG1": "a ball"}},
	}

	frames := filter.Apply(verbs, resolver)
	if len(frames) != 1 {
		t.Fatalf("expected 1 frame, got %d", len(frames))
	}

	got := make(map[string]string, len(frames[0].Roles))
	order := make([]string, 0, len(frames[0].Roles))
	for _, role := range frames[0].Roles {
		got[role.Role] = role.Text
		order = append(order, role.Role)
	}
	if !reflect.DeepEqual(order, []string{"ARG0", "ARG1", "ARG2", "ARGM-LOC"}) {
		t.Fatalf("role order = %v", order)
	}
	if got["ARG2"] != "none" || got["ARGM-LOC"] != "none" {
		t.Fatalf("missing roles should carry the none word: %v", got)
	}
	if got["ARG0"] != "a woman" {
		t.Fatalf("present role lost its text: %v", got)
	}
}

func TestApplyDropsRolesOutsideAllowList(t *testing.T) {
	filter := newFilter(t)
	resolver := lemma.Build([]string{"running"})

	verbs := []sources.Verb{
		{Verb: "running", Roles: map[string]string{"ARG0": "a man", "ARGM-TMP": "yesterday"}},
	}

	frames := filter.Apply(verbs, resolver)
	for _, role := range frames[0].Roles {
		if role.Role == "ARGM-TMP" {
			t.Fatal("role outside allow-list leaked into frame")
		}
	}
}

func TestAnnotRows(t *testing.T) {
	filter := newFilter(t)
	resolver := lemma.Build([]string{"running"})

	records := []sources.Record{{
		VideoID: "v_a",
		SegIdx:  0,
		Verbs: []sources.Verb{
			{Verb: "running", Roles: map[string]string{"ARG0": "a man"}},
		},
	}}

	rows := filter.AnnotRows(records, resolver)
	if len(rows) != 2 {
		t.Fatalf("expected header + 1 row, got %d", len(rows))
	}
	wantHeader := []string{"vid_seg", "verb_idx", "verb", "lemma", "ARG0", "ARG1", "ARG2", "ARGM-LOC"}
	if !reflect.DeepEqual(rows[0], wantHeader) {
		t.Fatalf("header = %v", rows[0])
	}
	want := []string{"v_a_segment_00", "0", "running", "run", "a man", "none", "none", "none"}
	if !reflect.DeepEqual(rows[1], want) {
		t.Fatalf("row = %v, want %v", rows[1], want)
	}
}
