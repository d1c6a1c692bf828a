// Command generate_demo creates a demo catalog database with sample records.
// The samples lean on accented names and titles so search and sorting can be
// exercised right away.
// Usage: go run cmd/generate_demo/main.go [-db path/to/demo.db]
package main

import (
	"flag"
	"log"
	"os"

	"github.com/mrlokans/librarian/internal/database"
	"github.com/mrlokans/librarian/internal/database/books"
	"github.com/mrlokans/librarian/internal/entities"
	"github.com/mrlokans/librarian/internal/search"
	"github.com/mrlokans/librarian/internal/unaccent"
)

const defaultDemoDatabasePath = "./demo/demo.db"

func main() {
	dbPath := flag.String("db", defaultDemoDatabasePath, "path to the demo database file")
	flag.Parse()

	log.Printf("Generating demo database at %s...", *dbPath)

	// Delete existing demo database to start fresh
	if err := os.Remove(*dbPath); err != nil && !os.IsNotExist(err) {
		log.Fatalf("Failed to remove existing demo database: %v", err)
	}

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		log.Fatalf("Failed to create database: %v", err)
	}
	defer db.Close()

	norm := search.NewNormalizer(unaccent.NewTable())
	repo := books.NewRepository(db.DB, norm)

	records := demoCatalog()
	for i := range records {
		if err := repo.Create(&records[i]); err != nil {
			log.Printf("Failed to save %q: %v", records[i].Title, err)
			continue
		}
		log.Printf("Saved: %s by %s", records[i].Title, records[i].Author)
	}

	log.Println("Demo database generated successfully!")
}

func demoCatalog() []entities.Book {
	return []entities.Book{
		{
			Shelf:  "A1",
			Author: "Stanisław Lem",
			Title:  "Solaris",
		},
		{
			Shelf:  "A1",
			Author: "Stanisław Lem",
			Title:  "Cyberiada",
		},
		{
			Shelf:         "A2",
			Author:        "Gabriel García Márquez",
			Title:         "Sto lat samotności",
			Translator:    "Grażyna Grudzińska",
			OriginalTitle: "Cien años de soledad",
		},
		{
			Shelf:         "A2",
			Author:        "Antoine de Saint-Exupéry",
			Title:         "Mały Książę",
			Translator:    "Jan Szwykowski",
			OriginalTitle: "Le Petit Prince",
		},
		{
			Shelf:  "B1",
			Author: "Stefan Żeromski",
			Title:  "Przedwiośnie",
		},
		{
			Shelf:  "B1",
			Author: "Władysław Reymont",
			Title:  "Chłopi",
		},
		{
			Shelf:         "B2",
			Author:        "Halldór Laxness",
			Title:         "Sjálfstætt fólk",
			OriginalTitle: "Sjálfstætt fólk",
		},
		{
			Shelf:         "B2",
			Author:        "Tove Jansson",
			Title:         "W Dolinie Muminków",
			Translator:    "Irena Szuch-Wyszomirska",
			OriginalTitle: "Trollkarlens hatt",
		},
		{
			Shelf:         "C1",
			Author:        "Fiodor Dostojewski",
			Title:         "Zbrodnia i kara",
			Translator:    "Czesław Jastrzębiec-Kozłowski",
			OriginalTitle: "Преступление и наказание",
		},
		{
			Shelf:         "C1",
			Author:        "Émile Zola",
			Title:         "Germinal",
			Translator:    "Krystyna Dolatowska",
			OriginalTitle: "Germinal",
			Borrowed:      "Ania, 2026-03-14",
		},
		{
			Shelf:  "C2",
			Author: "Łukasz Orbitowski",
			Title:  "Inna dusza",
		},
		{
			Shelf:         "C2",
			Author:        "Karel Čapek",
			Title:         "Inwazja jaszczurów",
			Translator:    "Jadwiga Bułakowska",
			OriginalTitle: "Válka s mloky",
		},
	}
}
