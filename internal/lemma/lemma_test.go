package lemma_test

import (
	"reflect"
	"testing"

	"srlprep/internal/lemma"
)

func TestLemmatize(t *testing.T) {
	cases := []struct {
		verb string
		want string
	}{
		{"running", "run"},
		{"Running", "run"},
		{"seeing", "see"},
		{"making", "make"},
		{"eating", "eat"},
		{"walking", "walk"},
		{"carries", "carry"},
		{"carried", "carry"},
		{"crying", "cry"},
		{"watches", "watch"},
		{"pushes", "push"},
		{"fixes", "fix"},
		{"dances", "dance"},
		{"danced", "dance"},
		{"stopped", "stop"},
		{"jumped", "jump"},
		{"smiled", "smile"},
		{"opened", "open"},
		{"played", "play"},
		{"was", "be"},
		{"went", "go"},
		{"threw", "throw"},
		{"used", "use"},
		{"walk", "walk"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := lemma.Lemmatize(tc.verb); got != tc.want {
			t.Errorf("Lemmatize(%q) = %q, want %q", tc.verb, got, tc.want)
		}
	}
}

func TestResolverBuildAndDict(t *testing.T) {
	resolver := lemma.Build([]string{"running", "watches", "Throwing"})

	want := map[string]string{
		"running":  "run",
		"watches":  "watch",
		"throwing": "throw",
	}
	if got := resolver.Dict(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Dict = %v, want %v", got, want)
	}
	if got := resolver.Verbs(); !reflect.DeepEqual(got, []string{"running", "throwing", "watches"}) {
		t.Fatalf("Verbs = %v", got)
	}
}

func TestResolverFallsBackForUnknownVerb(t *testing.T) {
	resolver := lemma.FromDict(map[string]string{"running": "run"})

	if got := resolver.Lemma("running"); got != "run" {
		t.Fatalf("Lemma(running) = %q", got)
	}
	if got := resolver.Lemma("jumping"); got != "jump" {
		t.Fatalf("Lemma(jumping) = %q, want fallback lemmatization", got)
	}
}
