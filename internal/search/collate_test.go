package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	key string
	seq int
}

func keys(rows []row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.key
	}
	return out
}

func TestCollator_Compare(t *testing.T) {
	cl := NewCollator("pl")

	assert.Negative(t, cl.Compare("a", "b"))
	assert.Positive(t, cl.Compare("b", "a"))
	assert.Zero(t, cl.Compare("lem", "lem"))

	// Accented variants sort adjacent to the base letter, not after z.
	assert.Negative(t, cl.Compare("a", "á"))
	assert.Negative(t, cl.Compare("á", "b"))
	assert.Negative(t, cl.Compare("ó", "p"))

	// Polish ł orders after l, well before m-z territory.
	assert.Negative(t, cl.Compare("l", "ł"))
	assert.Negative(t, cl.Compare("ł", "m"))
}

func TestCollator_InvalidLocaleFallsBack(t *testing.T) {
	cl := NewCollator("not a locale!")

	// Must still produce a usable ordering.
	assert.Negative(t, cl.Compare("a", "b"))
	assert.Zero(t, cl.Compare("x", "x"))
}

func TestSortRows_Stable(t *testing.T) {
	cl := NewCollator("pl")

	rows := []row{{"B", 1}, {"A", 2}, {"B", 3}}
	SortRows(cl, rows, func(r row) string { return r.key }, false)

	require.Equal(t, []string{"A", "B", "B"}, keys(rows))
	assert.Equal(t, 2, rows[0].seq)
	// The two B rows keep their original relative order.
	assert.Equal(t, 1, rows[1].seq)
	assert.Equal(t, 3, rows[2].seq)
}

func TestSortRows_ToggleReversesWithoutTies(t *testing.T) {
	cl := NewCollator("pl")

	rows := []row{{"c", 1}, {"a", 2}, {"b", 3}, {"d", 4}}
	SortRows(cl, rows, func(r row) string { return r.key }, false)
	require.Equal(t, []string{"a", "b", "c", "d"}, keys(rows))

	SortRows(cl, rows, func(r row) string { return r.key }, true)
	assert.Equal(t, []string{"d", "c", "b", "a"}, keys(rows))
}

func TestSortRows_EmptyValuesSortFirst(t *testing.T) {
	cl := NewCollator("pl")

	rows := []row{{"b", 1}, {"", 2}, {"a", 3}}
	SortRows(cl, rows, func(r row) string { return r.key }, false)

	assert.Equal(t, []string{"", "a", "b"}, keys(rows))
}

func TestSortRows_LocaleOrdering(t *testing.T) {
	cl := NewCollator("pl")

	rows := []row{{"Żeromski", 1}, {"Lem", 2}, {"Łoziński", 3}, {"Zola", 4}}
	SortRows(cl, rows, func(r row) string { return r.key }, false)

	// Polish alphabet: L < Ł < ... < Z < Ż.
	assert.Equal(t, []string{"Lem", "Łoziński", "Zola", "Żeromski"}, keys(rows))
}

func TestSortState_Toggle(t *testing.T) {
	var state SortState

	state = state.Toggle("author")
	assert.Equal(t, SortState{Column: "author", Descending: false}, state)

	state = state.Toggle("author")
	assert.Equal(t, SortState{Column: "author", Descending: true}, state)

	state = state.Toggle("author")
	assert.Equal(t, SortState{Column: "author", Descending: false}, state)

	// A different column resets to ascending.
	state = state.Toggle("author")
	state = state.Toggle("title")
	assert.Equal(t, SortState{Column: "title", Descending: false}, state)
}
