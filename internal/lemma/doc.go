// Package lemma reduces verb surface forms to lemmas with a deterministic
// rule-based lemmatizer and a corpus-wide resolver dictionary.
package lemma
