package textutil

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"A man, running!", []string{"a", "man", "running"}},
		{"the man's t-shirt", []string{"the", "man's", "t-shirt"}},
		{"  ", nil},
		{"Two dogs & a ball", []string{"two", "dogs", "a", "ball"}},
	}
	for _, tc := range cases {
		if got := Tokenize(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Tokenize(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestHeadNoun(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"the small brown dog", "dog"},
		{"in the park", "park"},
		{"A man", "man"},
		{"two dogs", "dogs"},
		{"the", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := HeadNoun(tc.in); got != tc.want {
			t.Fatalf("HeadNoun(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeFoldsCase(t *testing.T) {
	if got := Normalize("  RUNNING Man "); got != "running man" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
