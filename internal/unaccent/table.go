// Package unaccent folds Unicode text down to its unaccented base form so
// that catalog entries and search input can be matched without diacritics.
package unaccent

import (
	"strings"
	"sync"

	"golang.org/x/text/unicode/norm"
)

// overrides maps characters whose canonical decomposition would not yield a
// useful ASCII form: ligatures, stroked letters and letters with no
// decomposition at all. Digraph conventions follow common romanization.
var overrides = map[rune]string{
	'Æ': "AE", // Æ latin capital ae
	'æ': "ae", // æ latin small ae
	'Ð': "D",  // Ð eth
	'ð': "d",  // ð eth
	'Ø': "OE", // Ø o with stroke
	'ø': "oe", // ø o with stroke
	'Þ': "Th", // Þ thorn
	'þ': "th", // þ thorn
	'ß': "ss", // ß sharp s
	'Đ': "Dj", // Đ d with stroke
	'đ': "dj", // đ d with stroke
	'Ħ': "H",  // Ħ h with stroke
	'ħ': "h",  // ħ h with stroke
	'ı': "i",  // ı dotless i
	'ĸ': "q",  // ĸ kra
	'Ł': "L",  // Ł l with stroke
	'ł': "l",  // ł l with stroke
	'Ŋ': "Ng", // Ŋ eng
	'ŋ': "ng", // ŋ eng
	'Œ': "OE", // Œ oe ligature
	'œ': "oe", // œ oe ligature
	'Ŧ': "Th", // Ŧ t with stroke
	'ŧ': "th", // ŧ t with stroke
}

// Table resolves single codepoints to their unaccented replacement.
// Resolution happens once per codepoint and is cached for the lifetime of
// the Table; writes are idempotent, so concurrent lookups of the same
// missing codepoint race harmlessly.
type Table struct {
	cache sync.Map // rune -> string
}

// NewTable returns a folding table with the standard override set.
func NewTable() *Table {
	return &Table{}
}

// Fold returns the replacement string for a single codepoint. The override
// table wins over decomposition; characters with a canonical decomposition
// fold to their base character (combining marks are discarded); everything
// else maps to itself. Fold is total: it never fails.
func (t *Table) Fold(r rune) string {
	if cached, ok := t.cache.Load(r); ok {
		return cached.(string)
	}
	folded := t.resolve(r)
	t.cache.Store(r, folded)
	return folded
}

func (t *Table) resolve(r rune) string {
	if rep, ok := overrides[r]; ok {
		return rep
	}
	decomposed := []rune(norm.NFD.String(string(r)))
	if len(decomposed) > 0 && decomposed[0] != r {
		// Take the base character only. Folding it again lands on a fixed
		// point when the base is itself replaceable (e.g. ǣ -> æ -> "ae"),
		// which keeps FoldText idempotent.
		return t.Fold(decomposed[0])
	}
	return string(r)
}

// FoldText folds every character of s, preserving character order and all
// whitespace. Callers are responsible for any whitespace normalization.
func (t *Table) FoldText(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		b.WriteString(t.Fold(r))
	}
	return b.String()
}
