package books

import (
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/search"
	"github.com/mrlokans/librarian/internal/unaccent"
)

// setupTestRepo creates a fresh test database with a repository.
func setupTestRepo(t *testing.T) (*Repository, func()) {
	t.Helper()
	dbPath := "./test_" + t.Name() + ".db"
	db, err := database.NewDatabase(dbPath)
	require.NoError(t, err)

	norm := search.NewNormalizer(unaccent.NewTable())
	repo := NewRepository(db.DB, norm)

	cleanup := func() {
		db.Close()
		os.Remove(dbPath)
	}
	return repo, cleanup
}

func sampleBook() *entities.Book {
	return &entities.Book{
		Shelf:         "A1",
		Author:        "Stanisław Lem",
		Title:         "Solaris",
		OriginalTitle: "Solaris",
	}
}

func TestCreateIndexesBook(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	book := sampleBook()
	require.NoError(t, repo.Create(book))
	assert.NotZero(t, book.ID)

	// Accent-insensitive prefix match against the indexed content
	results, err := repo.Search("stanis")
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, book.ID, results[0].ID)
}

func TestCreateValidatesRequiredFields(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	err := repo.Create(&entities.Book{Shelf: "A1", Author: "Lem"})
	assert.ErrorIs(t, err, ErrMissingRequired)

	count, err := repo.Count()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestCreateNormalizesWhitespace(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	book := &entities.Book{Shelf: "A1", Author: "  Jane   Doe ", Title: "A  Title"}
	require.NoError(t, repo.Create(book))

	assert.Equal(t, "Jane Doe", book.Author)
	assert.Equal(t, "A Title", book.Title)
}

func TestSearch(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	records := []entities.Book{
		{Shelf: "A1", Author: "Stanisław Lem", Title: "Solaris"},
		{Shelf: "A1", Author: "Stefan Żeromski", Title: "Przedwiośnie"},
		{Shelf: "B2", Author: "Émile Zola", Title: "Germinal", Translator: "Krystyna Dolatowska"},
	}
	for i := range records {
		require.NoError(t, repo.Create(&records[i]))
	}

	t.Run("folded input matches accented content", func(t *testing.T) {
		results, err := repo.Search("zeromski")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Stefan Żeromski", results[0].Author)
	})

	t.Run("accented input matches folded index", func(t *testing.T) {
		results, err := repo.Search("Émile")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Germinal", results[0].Title)
	})

	t.Run("prefix matching", func(t *testing.T) {
		results, err := repo.Search("sol")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Solaris", results[0].Title)
	})

	t.Run("all terms must match", func(t *testing.T) {
		results, err := repo.Search("lem germinal")
		require.NoError(t, err)
		assert.Empty(t, results)

		results, err = repo.Search("zola germ")
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("translator field is searchable", func(t *testing.T) {
		results, err := repo.Search("dolatowska")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Germinal", results[0].Title)
	})

	t.Run("shelf and borrowed are not searchable", func(t *testing.T) {
		results, err := repo.Search("B2")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("empty input returns all records", func(t *testing.T) {
		results, err := repo.Search("")
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("whitespace-only input returns all records", func(t *testing.T) {
		results, err := repo.Search("   ")
		require.NoError(t, err)
		assert.Len(t, results, 3)
	})

	t.Run("no matches yields empty result, not error", func(t *testing.T) {
		results, err := repo.Search("nosuchbook")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("unparsable expression surfaces QueryError", func(t *testing.T) {
		_, err := repo.Search(`"unbalanced`)
		require.Error(t, err)
		var qe *QueryError
		assert.True(t, errors.As(err, &qe))
		assert.NotEmpty(t, qe.Expr)
	})
}

func TestUpdateReindexesBook(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	book := sampleBook()
	require.NoError(t, repo.Create(book))

	book.Title = "Cyberiada"
	require.NoError(t, repo.Update(book))

	results, err := repo.Search("cyberiada")
	require.NoError(t, err)
	require.Len(t, results, 1)

	// The old content must no longer match
	results, err = repo.Search("solaris")
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestUpdateMissingBook(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	book := sampleBook()
	book.ID = 42
	err := repo.Update(book)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestDeleteRemovesIndexEntry(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	book := sampleBook()
	require.NoError(t, repo.Create(book))
	require.NoError(t, repo.Delete(book.ID))

	results, err := repo.Search("solaris")
	require.NoError(t, err)
	assert.Empty(t, results)

	err = repo.Delete(book.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGetByID(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	book := sampleBook()
	require.NoError(t, repo.Create(book))

	got, err := repo.GetByID(book.ID)
	require.NoError(t, err)
	assert.Equal(t, book.Author, got.Author)

	_, err = repo.GetByID(9999)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReindexRebuildsWholeIndex(t *testing.T) {
	repo, cleanup := setupTestRepo(t)
	defer cleanup()

	records := []entities.Book{
		{Shelf: "A1", Author: "Stanisław Lem", Title: "Solaris"},
		{Shelf: "A1", Author: "Émile Zola", Title: "Germinal"},
	}
	for i := range records {
		require.NoError(t, repo.Create(&records[i]))
	}

	// Corrupt the index to simulate a database restored without it
	require.NoError(t, repo.db.Exec(`DELETE FROM books_fts`).Error)

	results, err := repo.Search("lem")
	require.NoError(t, err)
	assert.Empty(t, results)

	indexed, err := repo.Reindex()
	require.NoError(t, err)
	assert.Equal(t, 2, indexed)

	results, err = repo.Search("lem")
	require.NoError(t, err)
	assert.Len(t, results, 1)
}
