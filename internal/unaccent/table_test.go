package unaccent

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFold_KnownMappings(t *testing.T) {
	table := NewTable()

	tests := []struct {
		r    rune
		want string
	}{
		{'Æ', "AE"},
		{'æ', "ae"},
		{'ß', "ss"},
		{'é', "e"},
		{'Ł', "L"},
		{'ł', "l"},
		{'ø', "oe"},
		{'þ', "th"},
		{'œ', "oe"},
		{'a', "a"},
		{'Z', "Z"},
		{' ', " "},
		{'7', "7"},
		{'ó', "o"},
		{'ż', "z"},
		{'ç', "c"},
		{'ñ', "n"},
		{'ü', "u"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, table.Fold(tt.r), "Fold(%q)", tt.r)
	}
}

func TestFold_DecomposedBaseIsItselfFoldable(t *testing.T) {
	table := NewTable()

	// ǣ decomposes to æ + macron; the base must keep folding until it
	// reaches a fixed point.
	assert.Equal(t, "ae", table.Fold('ǣ'))
	assert.Equal(t, "oe", table.Fold('ǿ')) // ø + acute
}

func TestFold_CachedResultIsStable(t *testing.T) {
	table := NewTable()

	first := table.Fold('é')
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, table.Fold('é'))
	}
}

func TestFoldText(t *testing.T) {
	table := NewTable()

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"plain ascii", "plain ascii"},
		{"Stanisław Lem", "Stanislaw Lem"},
		{"Æthelred", "AEthelred"},
		{"straße", "strasse"},
		{"Zażółć gęślą jaźń", "Zazolc gesla jazn"},
		{"  spacing \t preserved  ", "  spacing \t preserved  "},
		{"Señor Müller-Lüdenscheidt", "Senor Muller-Ludenscheidt"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, table.FoldText(tt.in), "FoldText(%q)", tt.in)
	}
}

func TestFoldText_Idempotent(t *testing.T) {
	table := NewTable()

	inputs := []string{
		"Jérôme d'Ambrosio",
		"Œuvres complètes",
		"ǣ ǿ ß Æ",
		"Przygody Mikołajka",
		"plain",
		"",
	}

	for _, s := range inputs {
		once := table.FoldText(s)
		assert.Equal(t, once, table.FoldText(once), "folded output of %q must be a fixed point", s)
	}
}

func TestFold_ConcurrentAccess(t *testing.T) {
	table := NewTable()
	input := "Čeští vědci přišli s novým øl"

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = table.FoldText(input)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, results[0], got)
	}
}
