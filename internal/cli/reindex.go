package cli

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/search"
	"github.com/mrlokans/librarian/internal/unaccent"
)

// ReindexCommand rebuilds the full-text index from the catalog table.
type ReindexCommand struct {
	DatabasePath string
}

func NewReindexCommand() *ReindexCommand {
	return &ReindexCommand{}
}

func (cmd *ReindexCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("reindex", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s reindex [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Rebuild the full-text search index from the catalog table.\n\n")
		fmt.Fprintf(os.Stderr, "Run this after restoring a database file, or after upgrading to a\n")
		fmt.Fprintf(os.Stderr, "release that changed how indexed text is folded.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
	}

	return fs.Parse(args)
}

func (cmd *ReindexCommand) Run() error {
	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}

	fmt.Printf("Rebuilding search index in %s\n", absDBPath)

	db, err := database.NewDatabase(absDBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	norm := search.NewNormalizer(unaccent.NewTable())
	repo := books.NewRepository(db.DB, norm)

	indexed, err := repo.Reindex()
	if err != nil {
		return fmt.Errorf("reindex failed: %w", err)
	}

	fmt.Printf("Indexed %d records\n", indexed)
	return nil
}
