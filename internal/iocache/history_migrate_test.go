package iocache

import (
	"database/sql"
	"os"
	"path/filepath"
	"testing"

	"github.com/huangsam/anomalyplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateHistory_NoneBackend(t *testing.T) {
	err := MigrateHistory(schema.NoneBackend, "", -1)
	assert.ErrorContains(t, err, "migrations are not supported for NoneBackend")
}

func TestMigrateHistory_UnsupportedBackend(t *testing.T) {
	err := MigrateHistory(schema.DatabaseBackend("oracle"), "", -1)
	assert.ErrorContains(t, err, "unsupported backend")
}

func TestMigrateHistory_SQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "migrate.db")

	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
	_, err := os.Stat(dbPath)
	require.NoError(t, err)
	assertTableExists(t, dbPath, renderRunsTable, true)
	assertTableExists(t, dbPath, renderLabelsTable, true)

	// Already at latest
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))

	// Step down to the runs table only
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 1))
	assertTableExists(t, dbPath, renderRunsTable, true)
	assertTableExists(t, dbPath, renderLabelsTable, false)

	// Roll everything back
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))
	assertTableExists(t, dbPath, renderRunsTable, false)

	// Nothing left to roll back
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 0))

	// And up again
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, 3))
	assertTableExists(t, dbPath, renderLabelsTable, true)
}

func TestMigrateHistory_CompatibleWithStore(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "compat.db")

	store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	// Tables created by the store must not break the first migration
	assert.NoError(t, MigrateHistory(schema.SQLiteBackend, dbPath, -1))
}

func TestMigrateHistory_SQLiteInMemory(t *testing.T) {
	require.NoError(t, MigrateHistory(schema.SQLiteBackend, ":memory:", -1))
}

func assertTableExists(t *testing.T, dbPath, table string, want bool) {
	t.Helper()
	db, err := sql.Open("sqlite", dbPath)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var count int
	err = db.QueryRow(`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, want, count == 1, "table %s", table)
}
