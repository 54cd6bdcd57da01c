package vocab_test

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"srlprep/internal/stageerr"
	"srlprep/internal/vocab"
)

func TestCountsAddAndMerge(t *testing.T) {
	a := vocab.Counts{}
	a.Add("a man", "none")
	a.Add("the man with a dog", "none")

	b := vocab.Counts{}
	b.Add("none", "none")
	b.Add("a dog", "none")

	a.Merge(b)

	want := vocab.Counts{"a": 3, "man": 2, "the": 1, "with": 1, "dog": 2}
	if !reflect.DeepEqual(a, want) {
		t.Fatalf("merged counts = %v, want %v", a, want)
	}
}

func TestBuildOrdersByFrequencyThenToken(t *testing.T) {
	counts := vocab.Counts{"man": 3, "dog": 3, "ball": 1}

	v, err := vocab.Build(counts, "none")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	want := []string{"none", "dog", "man", "ball"}
	if got := v.Tokens(); !reflect.DeepEqual(got, want) {
		t.Fatalf("Tokens = %v, want %v", got, want)
	}
	if id, ok := v.ID("none"); !ok || id != 0 {
		t.Fatalf("none word id = %d,%v, want 0", id, ok)
	}
	if id, ok := v.ID("man"); !ok || id != 2 {
		t.Fatalf("man id = %d,%v", id, ok)
	}
	if _, ok := v.ID("cat"); ok {
		t.Fatal("unknown token should not resolve")
	}
	if v.Size() != 4 {
		t.Fatalf("Size = %d", v.Size())
	}
}

func TestBuildEmptyIsFatal(t *testing.T) {
	_, err := vocab.Build(vocab.Counts{}, "none")
	if !errors.Is(err, stageerr.ErrEmptyVocabulary) {
		t.Fatalf("expected ErrEmptyVocabulary, got %v", err)
	}
	if !stageerr.Fatal(err) {
		t.Fatal("empty vocabulary should classify as fatal")
	}
}

func TestPayloadSerializesIdentically(t *testing.T) {
	counts := vocab.Counts{}
	counts.Add("a man throws a ball", "none")
	counts.Add("the man", "none")

	first, err := vocab.Build(counts, "none")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	second, err := vocab.Build(counts, "none")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	a, err := json.Marshal(first.Payload())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	b, err := json.Marshal(second.Payload())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(a) != string(b) {
		t.Fatalf("payload differs between runs:\n%s\n%s", a, b)
	}
}
