// Package textutil provides deterministic text normalization: case folding,
// word tokenization, and head-noun extraction for argument phrases. Every
// function here is a pure transform so repeated runs produce identical output.
package textutil
