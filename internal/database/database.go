// Package database opens the catalog SQLite database, migrates the schema
// and maintains the full-text index table the repositories write into.
package database

import (
	"fmt"
	"log"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/mrlokans/librarian/internal/entities"
)

type Database struct {
	DB *gorm.DB
}

func NewDatabase(dbPath string) (*Database, error) {
	db, err := gorm.Open(sqlite.Open(dbPath), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	err = db.AutoMigrate(
		&entities.Book{},
		&entities.ActivityEvent{},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	// gorm cannot migrate virtual tables, so the FTS5 index is created with
	// raw DDL. The table is external-content-free: rowid tracks Book.ID and
	// content holds the folded, space-joined searchable fields.
	if err := db.Exec(
		`CREATE VIRTUAL TABLE IF NOT EXISTS books_fts USING fts5(content)`,
	).Error; err != nil {
		return nil, fmt.Errorf("failed to create full-text index: %w", err)
	}

	log.Printf("Database initialized successfully at %s", dbPath)

	return &Database{DB: db}, nil
}

func (d *Database) Close() error {
	sqlDB, err := d.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
