package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/gentyx/clienthub/internal/blob"
	"github.com/gentyx/clienthub/internal/db"
)

// NewTestDB opens an in-memory SQLite database with the ClientHub schema,
// closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

// NewTestBlobStore returns a LocalStore rooted in the test's temp dir.
func NewTestBlobStore(t *testing.T) *blob.LocalStore {
	t.Helper()
	store, err := blob.NewLocalStore(filepath.Join(t.TempDir(), "uploads"))
	if err != nil {
		t.Fatalf("failed to create blob store: %v", err)
	}
	return store
}
