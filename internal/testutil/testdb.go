package testutil

import (
	"context"
	"database/sql"
	"testing"

	"github.com/alexanderramin/buildops/internal/db"
)

// NewTestDB creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test completes.
func NewTestDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.OpenDB(db.MemoryPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		database.Close()
	})
	return database
}

// NewSeededDB is NewTestDB plus the embedded fixture dataset.
func NewSeededDB(t *testing.T) *sql.DB {
	t.Helper()
	database := NewTestDB(t)
	if err := db.Seed(context.Background(), database); err != nil {
		t.Fatalf("failed to seed test database: %v", err)
	}
	return database
}

// NewTestUoW creates a UnitOfWork backed by the given test database.
func NewTestUoW(database *sql.DB) db.UnitOfWork {
	return db.NewSQLiteUnitOfWork(database)
}
