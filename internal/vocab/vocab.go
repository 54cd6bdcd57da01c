// Package vocab builds the argument-token vocabulary with deterministic id
// assignment.
package vocab

import (
	"sort"

	"srlprep/internal/stageerr"
	"srlprep/internal/textutil"
)

// Counts holds token frequencies. Workers count into private Counts and the
// partials are merged once at stage end.
type Counts map[string]int

// Add tokenizes one argument text into the counter. The none word is
// excluded; it holds the reserved id regardless of frequency.
func (c Counts) Add(text, noneWord string) {
	for _, token := range textutil.Tokenize(text) {
		if token == noneWord {
			continue
		}
		c[token]++
	}
}

// Merge folds another partial count into the receiver.
func (c Counts) Merge(other Counts) {
	for token, n := range other {
		c[token] += n
	}
}

// Vocabulary is a frozen token-to-id assignment. Id 0 is the none word;
// remaining ids follow descending frequency, ties broken lexicographically.
type Vocabulary struct {
	noneWord string
	tokens   []string
	ids      map[string]int
	counts   Counts
}

// Build freezes counts into a Vocabulary. Counts without a single real
// token are an empty vocabulary, which is fatal.
func Build(counts Counts, noneWord string) (*Vocabulary, error) {
	if len(counts) == 0 {
		return nil, stageerr.Wrap(stageerr.ErrEmptyVocabulary, "vocab", "assign ids",
			"no argument tokens survived filtering", nil)
	}

	tokens := make([]string, 0, len(counts))
	for token := range counts {
		tokens = append(tokens, token)
	}
	sort.Slice(tokens, func(i, j int) bool {
		if counts[tokens[i]] != counts[tokens[j]] {
			return counts[tokens[i]] > counts[tokens[j]]
		}
		return tokens[i] < tokens[j]
	})

	v := &Vocabulary{
		noneWord: noneWord,
		tokens:   append([]string{noneWord}, tokens...),
		ids:      make(map[string]int, len(tokens)+1),
		counts:   counts,
	}
	for id, token := range v.tokens {
		v.ids[token] = id
	}
	return v, nil
}

// ID returns the id of a token and whether it is in the vocabulary.
func (v *Vocabulary) ID(token string) (int, bool) {
	id, ok := v.ids[token]
	return id, ok
}

// Size returns the vocabulary size including the none word.
func (v *Vocabulary) Size() int {
	return len(v.tokens)
}

// Tokens returns the id-ordered token list.
func (v *Vocabulary) Tokens() []string {
	return append([]string(nil), v.tokens...)
}

// Payload is the persisted vocabulary shape: id-ordered tokens plus the
// frequency table the ordering was derived from.
type Payload struct {
	NoneWord string         `json:"none_word"`
	Itos     []string       `json:"itos"`
	Freqs    map[string]int `json:"freqs"`
}

// Payload returns the serializable form of the vocabulary.
func (v *Vocabulary) Payload() Payload {
	return Payload{
		NoneWord: v.noneWord,
		Itos:     v.Tokens(),
		Freqs:    v.counts,
	}
}
