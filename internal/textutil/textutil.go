package textutil

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var lowerCaser = cases.Lower(language.English)

// determiners and other non-head tokens dropped during head-noun extraction.
var skipWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"his": {}, "her": {}, "its": {}, "their": {}, "my": {}, "your": {}, "our": {},
	"some": {}, "any": {}, "each": {}, "every": {}, "another": {}, "other": {},
	"in": {}, "on": {}, "at": {}, "of": {}, "to": {}, "with": {}, "from": {},
	"into": {}, "onto": {}, "near": {}, "by": {}, "over": {}, "under": {},
	"and": {}, "or": {},
	"one": {}, "two": {}, "three": {}, "four": {}, "five": {},
	"several": {}, "few": {}, "many": {},
}

// Normalize lowercases a token using English case folding and trims
// surrounding whitespace.
func Normalize(value string) string {
	return strings.TrimSpace(lowerCaser.String(value))
}

// Tokenize splits text into normalized word tokens. Anything that is not a
// letter, digit, hyphen, or apostrophe separates tokens; hyphens and
// apostrophes survive inside words ("man's", "t-shirt").
func Tokenize(text string) []string {
	text = Normalize(text)
	if text == "" {
		return nil
	}
	fields := strings.FieldsFunc(text, func(r rune) bool {
		switch {
		case r >= 'a' && r <= 'z':
			return false
		case r >= '0' && r <= '9':
			return false
		case r == '-' || r == '\'':
			return false
		default:
			return true
		}
	})
	tokens := make([]string, 0, len(fields))
	for _, field := range fields {
		field = strings.Trim(field, "-'")
		if field != "" {
			tokens = append(tokens, field)
		}
	}
	return tokens
}

// HeadNoun extracts the likely head noun of an argument phrase: the last
// token after determiners, prepositions, and simple numerals are dropped.
// English noun phrases are head-final, so "the small brown dog" yields "dog"
// and "in the park" yields "park". Returns "" when nothing survives.
func HeadNoun(text string) string {
	tokens := Tokenize(text)
	head := ""
	for _, token := range tokens {
		if _, skip := skipWords[token]; skip {
			continue
		}
		head = token
	}
	return head
}
