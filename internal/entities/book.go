// Package entities defines the database models shared across the
// application.
package entities

import (
	"strings"
	"time"
)

// Book is a single catalog record. Shelf, Author and Title are required;
// Translator and OriginalTitle only apply to translated works.
type Book struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Shelf         string    `gorm:"index;size:64" json:"shelf"`
	Author        string    `gorm:"index;size:256" json:"author"`
	Title         string    `gorm:"index;size:512" json:"title"`
	Translator    string    `gorm:"size:256" json:"translator,omitempty"`
	OriginalTitle string    `gorm:"size:512" json:"original_title,omitempty"`
	Borrowed      string    `gorm:"size:256" json:"borrowed,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// SearchFields returns the searchable fields in the fixed schema order the
// full-text index is built from: author, title, translator, original title.
// Index population and query construction both rely on this order staying
// put; changing it silently degrades search recall for existing indexes.
func (b *Book) SearchFields() []string {
	return []string{b.Author, b.Title, b.Translator, b.OriginalTitle}
}

// Normalize collapses runs of whitespace inside every field, mirroring how
// entries are cleaned up before insertion.
func (b *Book) Normalize() {
	b.Shelf = collapseSpaces(b.Shelf)
	b.Author = collapseSpaces(b.Author)
	b.Title = collapseSpaces(b.Title)
	b.Translator = collapseSpaces(b.Translator)
	b.OriginalTitle = collapseSpaces(b.OriginalTitle)
	b.Borrowed = collapseSpaces(b.Borrowed)
}

func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
