// Package books provides database operations for the book catalog and keeps
// the full-text index in step with every write.
package books

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/search"
)

// ErrMissingRequired is returned when shelf, author or title is empty.
var ErrMissingRequired = errors.New("shelf, author and title are required")

// QueryError wraps a full-text expression the backend could not execute.
// The backend's own error is preserved unchanged so callers can report it.
type QueryError struct {
	Expr string
	Err  error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("search expression %q: %v", e.Expr, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// Repository handles all catalog database operations. Every write updates
// the books_fts index inside the same transaction, so the index never
// drifts from the Books table.
type Repository struct {
	db   *gorm.DB
	norm *search.Normalizer
}

// NewRepository creates a new books repository. The normalizer must be the
// same one used to build search queries, or recall silently degrades.
func NewRepository(db *gorm.DB, norm *search.Normalizer) *Repository {
	return &Repository{db: db, norm: norm}
}

func (r *Repository) indexedContent(book *entities.Book) string {
	return r.norm.BuildIndexedContent(book.SearchFields()...)
}

func validate(book *entities.Book) error {
	if book.Shelf == "" || book.Author == "" || book.Title == "" {
		return ErrMissingRequired
	}
	return nil
}

// Create inserts a book and its folded content into the full-text index.
func (r *Repository) Create(book *entities.Book) error {
	book.Normalize()
	if err := validate(book); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(book).Error; err != nil {
			return fmt.Errorf("create book: %w", err)
		}
		if err := tx.Exec(
			`INSERT INTO books_fts(rowid, content) VALUES (?, ?)`,
			book.ID, r.indexedContent(book),
		).Error; err != nil {
			return fmt.Errorf("index book %d: %w", book.ID, err)
		}
		return nil
	})
}

// Update saves a book's fields and rebuilds its indexed content.
func (r *Repository) Update(book *entities.Book) error {
	book.Normalize()
	if err := validate(book); err != nil {
		return err
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Book{}).Where("id = ?", book.ID).Updates(map[string]any{
			"shelf":          book.Shelf,
			"author":         book.Author,
			"title":          book.Title,
			"translator":     book.Translator,
			"original_title": book.OriginalTitle,
			"borrowed":       book.Borrowed,
		})
		if res.Error != nil {
			return fmt.Errorf("update book %d: %w", book.ID, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Exec(
			`UPDATE books_fts SET content = ? WHERE rowid = ?`,
			r.indexedContent(book), book.ID,
		).Error; err != nil {
			return fmt.Errorf("reindex book %d: %w", book.ID, err)
		}
		return nil
	})
}

// Delete removes a book and its index entry.
func (r *Repository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&entities.Book{}, id)
		if res.Error != nil {
			return fmt.Errorf("delete book %d: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		if err := tx.Exec(`DELETE FROM books_fts WHERE rowid = ?`, id).Error; err != nil {
			return fmt.Errorf("unindex book %d: %w", id, err)
		}
		return nil
	})
}

// GetByID retrieves a single book.
func (r *Repository) GetByID(id uint) (*entities.Book, error) {
	var book entities.Book
	if err := r.db.First(&book, id).Error; err != nil {
		return nil, err
	}
	return &book, nil
}

// Count returns the number of books in the catalog.
func (r *Repository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&entities.Book{}).Count(&count).Error
	return count, err
}

// ListAll returns every book, unordered. Display ordering is the caller's
// concern (collation lives in the search package).
func (r *Repository) ListAll() ([]entities.Book, error) {
	var books []entities.Book
	err := r.db.Find(&books).Error
	return books, err
}

// Search runs a prefix-match query built from raw user input against the
// full-text index. An input that builds to the empty expression returns
// every record — FTS5 rejects an empty MATCH, and an empty search box is
// expected to show the whole catalog. An expression the backend cannot
// parse is surfaced as a QueryError, never as an empty result set.
func (r *Repository) Search(raw string) ([]entities.Book, error) {
	expr := r.norm.BuildQuery(raw)
	if expr == "" {
		return r.ListAll()
	}

	var books []entities.Book
	err := r.db.Raw(
		`SELECT books.* FROM books
		 JOIN books_fts ON books.id = books_fts.rowid
		 WHERE books_fts MATCH ?`,
		expr,
	).Scan(&books).Error
	if err != nil {
		return nil, &QueryError{Expr: expr, Err: err}
	}
	return books, nil
}

// Reindex rebuilds the whole full-text index from the Books table. Used
// after folding rules change between releases or when a database is
// restored without its index. Returns the number of books indexed.
func (r *Repository) Reindex() (int, error) {
	var indexed int
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec(`DELETE FROM books_fts`).Error; err != nil {
			return fmt.Errorf("clear index: %w", err)
		}

		var books []entities.Book
		if err := tx.Find(&books).Error; err != nil {
			return fmt.Errorf("load books: %w", err)
		}
		for i := range books {
			if err := tx.Exec(
				`INSERT INTO books_fts(rowid, content) VALUES (?, ?)`,
				books[i].ID, r.indexedContent(&books[i]),
			).Error; err != nil {
				return fmt.Errorf("index book %d: %w", books[i].ID, err)
			}
		}
		indexed = len(books)
		return nil
	})
	return indexed, err
}
