package database

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/kma-contact-api/internal/models"
)

func TestConnectDocumentStoreSQLite(t *testing.T) {
	url := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())

	db, err := ConnectDocumentStore(context.Background(), url)
	require.NoError(t, err)
	t.Cleanup(func() {
		sqlDB, _ := db.DB()
		_ = sqlDB.Close()
	})

	require.True(t, db.Migrator().HasTable(&models.Document{}))
}

func TestConnectDocumentStoreRejectsEmptyURL(t *testing.T) {
	_, err := ConnectDocumentStore(context.Background(), "  ")
	require.Error(t, err)
}

func TestConnectNATSRejectsEmptyURL(t *testing.T) {
	_, err := ConnectNATS("", "test")
	require.Error(t, err)
}
