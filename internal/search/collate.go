package search

import (
	"log"
	"sort"
	"sync"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Collator compares display strings using locale-sensitive collation, so
// accented letters sort next to their base letter instead of after 'z'.
type Collator struct {
	mu sync.Mutex
	c  *collate.Collator
}

// NewCollator builds a collator for the given BCP 47 locale. An
// unparseable locale falls back to the root collation order with a logged
// warning rather than failing.
func NewCollator(locale string) *Collator {
	tag, err := language.Parse(locale)
	if err != nil {
		log.Printf("Invalid collation locale %q, falling back to default ordering: %v", locale, err)
		tag = language.Und
	}
	return &Collator{c: collate.New(tag)}
}

// Compare returns -1, 0 or 1 per the configured locale's alphabetic order.
func (cl *Collator) Compare(a, b string) int {
	// collate.Collator keeps an internal buffer, so serialize access.
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.c.CompareString(a, b)
}

// SortState records which column the rows were last sorted by and in which
// direction. It is a value: callers thread it through explicitly (the HTTP
// layer keeps one per session) instead of mutating shared state.
type SortState struct {
	Column     string `json:"column"`
	Descending bool   `json:"descending"`
}

// Toggle returns the state after a click on column: clicking the current
// column flips the direction, clicking a different column resets to
// ascending.
func (s SortState) Toggle(column string) SortState {
	if column == s.Column {
		return SortState{Column: column, Descending: !s.Descending}
	}
	return SortState{Column: column, Descending: false}
}

// SortRows stably sorts rows in place by the string key extracted from
// each row, using the collator's ordering. Stability matters: rows that compare
// equal keep their prior relative order, so toggling the direction on a
// column does not shuffle ties. Absent values sort as empty strings.
func SortRows[T any](cl *Collator, rows []T, key func(T) string, descending bool) {
	sort.SliceStable(rows, func(i, j int) bool {
		cmp := cl.Compare(key(rows[i]), key(rows[j]))
		if descending {
			return cmp > 0
		}
		return cmp < 0
	})
}
