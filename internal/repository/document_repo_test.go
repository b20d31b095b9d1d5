package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/kma-contact-api/internal/models"
)

func setupDocumentTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Document{}))
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})
	return db
}

func TestDocumentRepositoryInsertStoresBody(t *testing.T) {
	db := setupDocumentTestDB(t)
	repo := NewDocumentRepository(db, "")

	phone := "+44 20 7946 0000"
	submission := models.ContactSubmission{Name: "Jo", Email: "jo@example.com", Phone: &phone, Description: "Interested in services"}

	id, err := repo.Insert(context.Background(), "contactsubmission", submission)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	var stored models.Document
	require.NoError(t, db.First(&stored, "id = ?", id).Error)
	require.Equal(t, "contactsubmission", stored.Collection)
	require.False(t, stored.CreatedAt.IsZero())

	var decoded models.ContactSubmission
	require.NoError(t, json.Unmarshal(stored.Body, &decoded))
	require.Equal(t, submission, decoded)
}

func TestDocumentRepositoryInsertGeneratesDistinctIDs(t *testing.T) {
	repo := NewDocumentRepository(setupDocumentTestDB(t), "")
	doc := map[string]string{"name": "same"}

	first, err := repo.Insert(context.Background(), "contactsubmission", doc)
	require.NoError(t, err)
	second, err := repo.Insert(context.Background(), "contactsubmission", doc)
	require.NoError(t, err)
	require.NotEqual(t, first, second)
}

func TestDocumentRepositoryUnavailable(t *testing.T) {
	repo := NewDocumentRepository(nil, "")
	require.False(t, repo.Available())

	_, err := repo.Insert(context.Background(), "contactsubmission", map[string]string{})
	require.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = repo.CollectionNames(context.Background(), 10)
	require.ErrorIs(t, err, ErrStorageUnavailable)

	_, err = repo.DatabaseName(context.Background())
	require.ErrorIs(t, err, ErrStorageUnavailable)
	require.NoError(t, repo.Close())
}

func TestDocumentRepositoryWriteFailureIsStorageUnavailable(t *testing.T) {
	db := setupDocumentTestDB(t)
	require.NoError(t, db.Migrator().DropTable(&models.Document{}))
	repo := NewDocumentRepository(db, "")

	_, err := repo.Insert(context.Background(), "contactsubmission", map[string]string{"a": "b"})
	require.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestDocumentRepositoryRejectsEmptyCollection(t *testing.T) {
	repo := NewDocumentRepository(setupDocumentTestDB(t), "")
	_, err := repo.Insert(context.Background(), " ", map[string]string{})
	require.Error(t, err)
}

func TestDocumentRepositoryCollectionNamesDistinctAndLimited(t *testing.T) {
	repo := NewDocumentRepository(setupDocumentTestDB(t), "")
	ctx := context.Background()

	for _, collection := range []string{"gamma", "alpha", "beta", "alpha"} {
		_, err := repo.Insert(ctx, collection, map[string]string{"k": "v"})
		require.NoError(t, err)
	}

	names, err := repo.CollectionNames(ctx, 10)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta", "gamma"}, names)

	limited, err := repo.CollectionNames(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, []string{"alpha", "beta"}, limited)
}

func TestDocumentRepositoryDatabaseName(t *testing.T) {
	db := setupDocumentTestDB(t)

	name, err := NewDocumentRepository(db, "kma").DatabaseName(context.Background())
	require.NoError(t, err)
	require.Equal(t, "kma", name)

	name, err = NewDocumentRepository(db, "").DatabaseName(context.Background())
	require.NoError(t, err)
	require.NotEmpty(t, name)
}
