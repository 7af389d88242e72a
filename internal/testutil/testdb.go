package testutil

import (
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/alexanderramin/sitebook/internal/db"
)

// NewTestDB opens a migrated in-memory sitebook database that lives for the
// duration of t. It has a single connection.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openForTest(t, ":memory:")
}

// NewFileTestDB is NewTestDB on a file under t.TempDir, for tests whose
// goroutines need separate pooled connections.
func NewFileTestDB(t *testing.T) *sql.DB {
	t.Helper()
	return openForTest(t, filepath.Join(t.TempDir(), "sitebook.db"))
}

// NewTestUoW is the production unit of work over a test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}

func openForTest(t *testing.T, path string) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(path)
	if err != nil {
		t.Fatalf("opening test database %s: %v", path, err)
	}
	t.Cleanup(func() { _ = database.Close() })
	return database
}
