package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Migrate runs all schema migrations. Every statement is idempotent, so it
// is safe to call on an already-migrated database.
func Migrate(db *sql.DB) error {
	for i, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			// Tolerate "duplicate column name" errors from ALTER TABLE
			// since the migration system re-runs all statements.
			if strings.Contains(err.Error(), "duplicate column name") {
				continue
			}
			return fmt.Errorf("migration %d: %w", i, err)
		}
	}
	if err := migrateBackfillSequences(db); err != nil {
		return fmt.Errorf("backfilling id sequence allocator state: %w", err)
	}
	return nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS records (
		kind       TEXT NOT NULL,
		id         TEXT NOT NULL,
		body       TEXT NOT NULL CHECK(json_valid(body)),
		created_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		updated_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now')),
		PRIMARY KEY (kind, id)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_records_kind ON records(kind)`,

	`CREATE TABLE IF NOT EXISTS id_sequences (
		kind     TEXT PRIMARY KEY,
		prefix   TEXT NOT NULL,
		next_seq INTEGER NOT NULL CHECK(next_seq > 0)
	)`,

	`CREATE TABLE IF NOT EXISTS seed_runs (
		name       TEXT PRIMARY KEY,
		applied_at TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%fZ','now'))
	)`,
}

// migrateBackfillSequences raises every allocator row to at least the highest
// numeric suffix present in records, so ids written outside the allocator
// (fixtures, imports) are never handed out twice.
func migrateBackfillSequences(db *sql.DB) error {
	ctx := context.Background()
	query := `UPDATE id_sequences
		SET next_seq = MAX(next_seq, (
			SELECT COALESCE(MAX(CAST(substr(r.id, length(id_sequences.prefix) + 2) AS INTEGER)), 0) + 1
			FROM records r
			WHERE r.kind = id_sequences.kind
		))`
	if _, err := db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("raising sequence rows: %w", err)
	}
	return nil
}
