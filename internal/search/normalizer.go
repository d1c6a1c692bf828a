// Package search builds the folded content stored in the full-text index,
// the prefix-match expressions queried against it, and the locale-aware
// ordering used to present result rows.
package search

import (
	"strings"

	"github.com/mrlokans/librarian/internal/unaccent"
)

// Normalizer ties the folding table to query and index construction so both
// sides of the full-text index always see the same folding. Construct one
// and share it; it is safe for concurrent use.
type Normalizer struct {
	table *unaccent.Table
}

// NewNormalizer creates a normalizer around the given folding table.
func NewNormalizer(table *unaccent.Table) *Normalizer {
	return &Normalizer{table: table}
}

// FoldText folds a string without touching its whitespace.
func (n *Normalizer) FoldText(s string) string {
	return n.table.FoldText(s)
}

// BuildIndexedContent joins the non-empty searchable fields of a record with
// single spaces and folds the result. Callers must pass fields in the fixed
// schema order (author, title, translator, original title); index
// population and query construction degrade silently if the two ever
// disagree on folding, so both go through this Normalizer.
func (n *Normalizer) BuildIndexedContent(fields ...string) string {
	kept := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			kept = append(kept, f)
		}
	}
	return n.table.FoldText(strings.Join(kept, " "))
}

// BuildQuery turns free-form user input into a prefix-match FTS expression:
// each whitespace-separated token gets a trailing * and the joined
// expression is folded as a whole. Folding happens after wildcard-marking
// so the marker itself is never folded. Empty or all-whitespace input
// builds the empty expression, which the repository treats as "match every
// record".
func (n *Normalizer) BuildQuery(raw string) string {
	tokens := strings.Fields(raw)
	for i, tok := range tokens {
		tokens[i] = tok + "*"
	}
	return n.table.FoldText(strings.Join(tokens, " "))
}
