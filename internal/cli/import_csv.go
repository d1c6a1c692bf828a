package cli

import (
	"encoding/csv"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mrlokans/librarian/internal/activity"
	"github.com/mrlokans/librarian/internal/config"
	"github.com/mrlokans/librarian/internal/database"
	activitydb "github.com/mrlokans/librarian/internal/database/activity"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/search"
	"github.com/mrlokans/librarian/internal/unaccent"
)

// csvColumns is the expected header of an import file, in order.
var csvColumns = []string{"shelf", "author", "title", "translator", "original_title", "borrowed"}

// ImportCSVCommand handles bulk-loading catalog records from a CSV file.
type ImportCSVCommand struct {
	FilePath     string
	DatabasePath string
	Verbose      bool
	DryRun       bool
}

func NewImportCSVCommand() *ImportCSVCommand {
	return &ImportCSVCommand{}
}

func (cmd *ImportCSVCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("import-csv", flag.ExitOnError)

	fs.StringVar(&cmd.FilePath, "file", "", "Path to the CSV file (required)")
	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "Enable verbose logging")
	fs.BoolVar(&cmd.DryRun, "dry-run", false, "Show what would be imported without making changes")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s import-csv -file <path> [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Bulk-load catalog records from a CSV file.\n\n")
		fmt.Fprintf(os.Stderr, "The file must have a header row with the columns:\n")
		fmt.Fprintf(os.Stderr, "  %s\n\n", strings.Join(csvColumns, ","))
		fmt.Fprintf(os.Stderr, "Every imported record is indexed for search as it is saved.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  # Preview an import:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file catalog.csv -dry-run -verbose\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  # Import into a specific database:\n")
		fmt.Fprintf(os.Stderr, "  %s import-csv -file catalog.csv -db ~/books/librarian.db\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	if cmd.FilePath == "" {
		return fmt.Errorf("required flag -file not provided")
	}

	return nil
}

func (cmd *ImportCSVCommand) Run() error {
	fmt.Println("CSV Import")
	fmt.Println("==========")

	if cmd.DryRun {
		fmt.Println("DRY RUN MODE - No changes will be made")
		fmt.Println()
	}

	file, err := os.Open(cmd.FilePath)
	if err != nil {
		return fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	fmt.Printf("File: %s\n", cmd.FilePath)

	records, err := readRecords(file)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		fmt.Println("No records found in file")
		return nil
	}

	fmt.Printf("Found %d records\n", len(records))

	if cmd.Verbose {
		fmt.Println("\n=== Records ===")
		for i, book := range records {
			fmt.Printf("%d. %q by %s [%s]\n", i+1, book.Title, book.Author, book.Shelf)
		}
	}

	if cmd.DryRun {
		fmt.Println("\nDry run complete. Use without -dry-run to import.")
		return nil
	}

	absDBPath, err := filepath.Abs(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for database: %w", err)
	}
	cmd.DatabasePath = absDBPath

	fmt.Printf("\nSaving to database: %s\n", cmd.DatabasePath)

	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	norm := search.NewNormalizer(unaccent.NewTable())
	repo := books.NewRepository(db.DB, norm)
	auditor := activity.NewService(activitydb.NewRepository(db.DB))

	var imported int
	var importErrors []string

	for i := range records {
		if err := repo.Create(&records[i]); err != nil {
			errMsg := fmt.Sprintf("record %d (%q): %v", i+1, records[i].Title, err)
			importErrors = append(importErrors, errMsg)
			if cmd.Verbose {
				fmt.Printf("  [ERROR] %s\n", errMsg)
			}
			continue
		}
		imported++
		if cmd.Verbose {
			fmt.Printf("  [OK] %q by %s\n", records[i].Title, records[i].Author)
		}
	}

	// Log synchronously so the event is not lost when the process exits.
	event := &entities.ActivityEvent{
		EventType:   entities.ActivityEventImport,
		Action:      "csv_import",
		Description: fmt.Sprintf("%s: imported %d of %d records", filepath.Base(cmd.FilePath), imported, len(records)),
		Status:      entities.ActivityStatusSuccess,
	}
	if len(importErrors) > 0 {
		event.Status = entities.ActivityStatusFailed
		event.ErrorMsg = importErrors[0]
	}
	if err := auditor.Log(event); err != nil {
		fmt.Printf("Warning: failed to record import in activity log: %v\n", err)
	}

	fmt.Println("\n=== Import Summary ===")
	fmt.Printf("Records saved: %d/%d\n", imported, len(records))

	if len(importErrors) > 0 {
		fmt.Printf("\n%d errors occurred:\n", len(importErrors))
		for _, errMsg := range importErrors {
			fmt.Printf("  [ERROR] %s\n", errMsg)
		}
	}

	fmt.Println("\nImport complete!")
	return nil
}

// readRecords parses the CSV stream into book entities. The header row is
// required and must match csvColumns exactly.
func readRecords(r io.Reader) ([]entities.Book, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = len(csvColumns)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i, col := range csvColumns {
		if strings.TrimSpace(strings.ToLower(header[i])) != col {
			return nil, fmt.Errorf("unexpected CSV header: want %s", strings.Join(csvColumns, ","))
		}
	}

	var records []entities.Book
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV row: %w", err)
		}
		records = append(records, entities.Book{
			Shelf:         row[0],
			Author:        row[1],
			Title:         row[2],
			Translator:    row[3],
			OriginalTitle: row[4],
			Borrowed:      row[5],
		})
	}
	return records, nil
}
