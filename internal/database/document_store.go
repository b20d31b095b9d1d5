package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/noah-isme/kma-contact-api/internal/models"
)

const sqliteScheme = "sqlite://"

// ConnectDocumentStore opens the database behind the document collections and migrates
// the documents table. sqlite:// and file: URLs use SQLite, anything else PostgreSQL.
func ConnectDocumentStore(ctx context.Context, url string) (*gorm.DB, error) {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil, fmt.Errorf("database url must not be empty")
	}

	db, err := gorm.Open(dialectorFor(url), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open document store: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access connection pool: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(pingCtx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("unable to reach document store: %w", err)
	}

	if err := db.AutoMigrate(&models.Document{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate document store: %w", err)
	}

	return db, nil
}

func dialectorFor(url string) gorm.Dialector {
	switch {
	case strings.HasPrefix(url, sqliteScheme):
		return sqlite.Open(strings.TrimPrefix(url, sqliteScheme))
	case strings.HasPrefix(url, "file:"):
		return sqlite.Open(url)
	default:
		return postgres.Open(url)
	}
}
