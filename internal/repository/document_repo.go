package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/noah-isme/kma-contact-api/internal/models"
)

// ErrStorageUnavailable is returned whenever no database is configured or a write fails.
var ErrStorageUnavailable = errors.New("document storage unavailable")

// DocumentRepository persists JSON documents grouped by collection.
type DocumentRepository interface {
	Available() bool
	Insert(ctx context.Context, collection string, document any) (string, error)
	DatabaseName(ctx context.Context) (string, error)
	CollectionNames(ctx context.Context, limit int) ([]string, error)
	Close() error
}

type documentRepository struct {
	db   *gorm.DB
	name string
}

// NewDocumentRepository constructs a repository backed by GORM. A nil db yields a
// repository that reports itself unavailable. name overrides the database name reported
// by the driver when not empty.
func NewDocumentRepository(db *gorm.DB, name string) DocumentRepository {
	return &documentRepository{db: db, name: strings.TrimSpace(name)}
}

func (r *documentRepository) Available() bool {
	return r.db != nil
}

func (r *documentRepository) Insert(ctx context.Context, collection string, document any) (string, error) {
	if r.db == nil {
		return "", ErrStorageUnavailable
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		return "", errors.New("collection name must not be empty")
	}

	body, err := json.Marshal(document)
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}

	record := models.Document{
		ID:         uuid.NewString(),
		Collection: collection,
		Body:       datatypes.JSON(body),
	}
	if err := r.db.WithContext(ctx).Create(&record).Error; err != nil {
		return "", fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}

	return record.ID, nil
}

func (r *documentRepository) DatabaseName(ctx context.Context) (string, error) {
	if r.name != "" {
		return r.name, nil
	}
	if r.db == nil {
		return "", ErrStorageUnavailable
	}

	name := r.db.WithContext(ctx).Migrator().CurrentDatabase()
	if name == "" {
		return "Unknown", nil
	}
	return name, nil
}

func (r *documentRepository) CollectionNames(ctx context.Context, limit int) ([]string, error) {
	if r.db == nil {
		return nil, ErrStorageUnavailable
	}

	query := r.db.WithContext(ctx).
		Model(&models.Document{}).
		Distinct("collection").
		Order("collection ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	names := make([]string, 0)
	if err := query.Pluck("collection", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *documentRepository) Close() error {
	if r.db == nil {
		return nil
	}
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
