package http

import (
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/search"
	"github.com/mrlokans/librarian/internal/session"
)

// BookStore defines database operations for catalog management.
type BookStore interface {
	Create(book *entities.Book) error
	Update(book *entities.Book) error
	Delete(id uint) error
	GetByID(id uint) (*entities.Book, error)
	Search(raw string) ([]entities.Book, error)
	Count() (int64, error)
}

// BookAuditor records catalog changes. May be nil.
type BookAuditor interface {
	LogBookChange(eventType string, bookID uint, description string, opErr error)
}

// sessionResults caches the result rows of one session's last search so a
// repeated request with unchanged input skips the full-text query, and so
// sorting operates on the previously displayed order (which is what keeps
// tie order intact across direction toggles).
type sessionResults struct {
	mu   sync.Mutex
	memo search.QueryMemo
	rows []entities.Book
}

type BooksController struct {
	store    BookStore
	auditor  BookAuditor
	norm     *search.Normalizer
	collator *search.Collator
	sessions *session.Manager

	results sync.Map // session token -> *sessionResults
}

func NewBooksController(store BookStore, auditor BookAuditor, norm *search.Normalizer, collator *search.Collator, sessions *session.Manager) *BooksController {
	return &BooksController{
		store:    store,
		auditor:  auditor,
		norm:     norm,
		collator: collator,
		sessions: sessions,
	}
}

// bookRequest is the payload for creating or updating a book.
type bookRequest struct {
	Shelf         string `json:"shelf"`
	Author        string `json:"author"`
	Title         string `json:"title"`
	Translator    string `json:"translator"`
	OriginalTitle string `json:"original_title"`
	Borrowed      string `json:"borrowed"`
}

func (r *bookRequest) toBook() *entities.Book {
	return &entities.Book{
		Shelf:         r.Shelf,
		Author:        r.Author,
		Title:         r.Title,
		Translator:    r.Translator,
		OriginalTitle: r.OriginalTitle,
		Borrowed:      r.Borrowed,
	}
}

// columnSelectors maps sortable column names to field extractors.
var columnSelectors = map[string]func(*entities.Book) string{
	"shelf":          func(b *entities.Book) string { return b.Shelf },
	"author":         func(b *entities.Book) string { return b.Author },
	"title":          func(b *entities.Book) string { return b.Title },
	"translator":     func(b *entities.Book) string { return b.Translator },
	"original_title": func(b *entities.Book) string { return b.OriginalTitle },
	"borrowed":       func(b *entities.Book) string { return b.Borrowed },
}

// ListBooks returns catalog rows matching the search input, ordered by the
// session's sort state. The raw input is remembered per session; repeating
// it verbatim reuses the previous result set instead of re-running the
// full-text query.
// GET /api/books?q=...
func (bc *BooksController) ListBooks(c *gin.Context) {
	raw, supplied := c.GetQuery("q")
	if !supplied {
		// Reopening the page restores the previous search.
		if remembered, ok := bc.sessions.LastSearch(c.Request); ok {
			raw = remembered
		}
	}

	entry := bc.sessionEntry(c)
	entry.mu.Lock()
	defer entry.mu.Unlock()

	if _, changed := entry.memo.Build(bc.norm, raw); changed || entry.rows == nil {
		rows, err := bc.store.Search(raw)
		if err != nil {
			var qe *books.QueryError
			if errors.As(err, &qe) {
				// Backend parse errors surface unchanged rather than
				// pretending the catalog is empty.
				respondBadRequest(c, qe.Error())
				return
			}
			respondInternalError(c, err, "search books")
			return
		}
		entry.rows = rows
	}

	bc.sessions.SetLastSearch(c.Request, raw)

	state := bc.sessions.SortState(c.Request)
	if selector, ok := columnSelectors[state.Column]; ok {
		search.SortRows(bc.collator, entry.rows, func(b entities.Book) string {
			return selector(&b)
		}, state.Descending)
	}

	c.JSON(http.StatusOK, gin.H{
		"books": entry.rows,
		"query": raw,
		"sort":  state,
	})
}

// SortBooks handles a column-header click: the same column toggles the
// direction, a different column resets to ascending. The new state is
// stored in the session and applied on the next list request.
// POST /api/books/sort
func (bc *BooksController) SortBooks(c *gin.Context) {
	var body struct {
		Column string `json:"column" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "column is required")
		return
	}
	if _, ok := columnSelectors[body.Column]; !ok {
		respondBadRequest(c, "unknown column: "+body.Column)
		return
	}

	state := bc.sessions.SortState(c.Request).Toggle(body.Column)
	bc.sessions.SetSortState(c.Request, state)

	c.JSON(http.StatusOK, gin.H{"sort": state})
}

// GetBook returns a single book.
// GET /api/books/:id
func (bc *BooksController) GetBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	book, err := bc.store.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "get book")
		return
	}
	c.JSON(http.StatusOK, book)
}

// CreateBook inserts a new catalog record.
// POST /api/books
func (bc *BooksController) CreateBook(c *gin.Context) {
	var body bookRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book := body.toBook()
	err := bc.store.Create(book)
	if bc.auditor != nil {
		bc.auditor.LogBookChange(entities.ActivityEventCreate, book.ID, book.Author+": "+book.Title, err)
	}
	if err != nil {
		if errors.Is(err, books.ErrMissingRequired) {
			respondBadRequest(c, err.Error())
			return
		}
		respondInternalError(c, err, "create book")
		return
	}

	bc.invalidateResults()
	c.JSON(http.StatusCreated, book)
}

// UpdateBook saves changes to an existing record.
// PUT /api/books/:id
func (bc *BooksController) UpdateBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var body bookRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBadRequest(c, "invalid request body")
		return
	}

	book := body.toBook()
	book.ID = id
	err := bc.store.Update(book)
	if bc.auditor != nil {
		bc.auditor.LogBookChange(entities.ActivityEventUpdate, id, book.Author+": "+book.Title, err)
	}
	if err != nil {
		switch {
		case errors.Is(err, books.ErrMissingRequired):
			respondBadRequest(c, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			respondNotFound(c, "book")
		default:
			respondInternalError(c, err, "update book")
		}
		return
	}

	bc.invalidateResults()
	c.JSON(http.StatusOK, book)
}

// DeleteBook removes a record and its index entry.
// DELETE /api/books/:id
func (bc *BooksController) DeleteBook(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	err := bc.store.Delete(id)
	if bc.auditor != nil {
		bc.auditor.LogBookChange(entities.ActivityEventDelete, id, "", err)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			respondNotFound(c, "book")
			return
		}
		respondInternalError(c, err, "delete book")
		return
	}

	bc.invalidateResults()
	respondSuccess(c, "book deleted")
}

// GetBookCount returns the catalog size, used for the window title in the
// reference client.
// GET /api/books/count
func (bc *BooksController) GetBookCount(c *gin.Context) {
	count, err := bc.store.Count()
	if err != nil {
		respondInternalError(c, err, "count books")
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": count})
}

func (bc *BooksController) sessionEntry(c *gin.Context) *sessionResults {
	cookie, err := c.Request.Cookie(bc.sessions.Cookie.Name)
	if err != nil || cookie.Value == "" {
		// First request of a session: no token issued yet, so use a
		// throwaway entry.
		return &sessionResults{}
	}
	entry, _ := bc.results.LoadOrStore(cookie.Value, &sessionResults{})
	return entry.(*sessionResults)
}

// invalidateResults drops every session's cached result rows after a
// catalog mutation.
func (bc *BooksController) invalidateResults() {
	bc.results.Range(func(key, _ any) bool {
		bc.results.Delete(key)
		return true
	})
}
