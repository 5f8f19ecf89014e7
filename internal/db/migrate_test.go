package db

import (
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, Migrate(db))
	require.NoError(t, Migrate(db))
}

func TestMigrate_CreatesAllTables(t *testing.T) {
	db := openTestDB(t)

	for _, table := range []string{"records", "id_sequences", "seed_runs"} {
		var name string
		err := db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name=?`, table).Scan(&name)
		require.NoError(t, err, "table %s should exist", table)
		assert.Equal(t, table, name)
	}
}

func TestMigrate_RejectsInvalidJSON(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO records (kind, id, body) VALUES ('clients', 'CLT-001', '{not json')`)
	assert.Error(t, err)
}

func TestMigrate_BackfillRaisesSequences(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO id_sequences (kind, prefix, next_seq) VALUES ('clients', 'CLT', 2)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO records (kind, id, body) VALUES ('clients', 'CLT-007', '{}')`)
	require.NoError(t, err)

	require.NoError(t, Migrate(db))

	var next int
	require.NoError(t, db.QueryRow(`SELECT next_seq FROM id_sequences WHERE kind = 'clients'`).Scan(&next))
	assert.Equal(t, 8, next)
}

func TestOpenDB_MemorySharesOneConnection(t *testing.T) {
	db := openTestDB(t)

	_, err := db.Exec(`INSERT INTO records (kind, id, body) VALUES ('clients', 'CLT-001', '{}')`)
	require.NoError(t, err)

	// A second query on the pool must see the same in-memory database.
	var n int
	require.NoError(t, db.QueryRow(`SELECT COUNT(*) FROM records`).Scan(&n))
	assert.Equal(t, 1, n)
	assert.Equal(t, 1, db.Stats().MaxOpenConnections)
}
