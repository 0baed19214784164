package iocache

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/huangsam/anomalyplot/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// resetGlobals restores the global manager between tests.
func resetGlobals(t *testing.T) {
	t.Helper()
	initOnce = sync.Once{}
	closeOnce = sync.Once{}
	Manager = &HistoryStoreManager{}
}

func TestHistoryGlobal(t *testing.T) {
	t.Run("single setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "history.db")

		require.NoError(t, InitHistory(schema.SQLiteBackend, dbPath))
		require.NotNil(t, Manager.GetHistoryStore())
		CloseHistory()

		_, err := os.Stat(dbPath)
		assert.NoError(t, err, "database file should be created")
	})

	t.Run("idempotent setup", func(t *testing.T) {
		resetGlobals(t)
		dbPath := filepath.Join(t.TempDir(), "history.db")

		assert.NoError(t, InitHistory(schema.SQLiteBackend, dbPath))
		first := Manager.GetHistoryStore()
		assert.NoError(t, InitHistory(schema.SQLiteBackend, dbPath))
		assert.NoError(t, InitHistory(schema.SQLiteBackend, dbPath))
		assert.Same(t, first, Manager.GetHistoryStore())

		CloseHistory()
		CloseHistory()
	})

	t.Run("empty backend disables history", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitHistory("", ""))
		assert.Nil(t, Manager.GetHistoryStore())
		CloseHistory()
	})

	t.Run("none backend", func(t *testing.T) {
		resetGlobals(t)
		require.NoError(t, InitHistory(schema.NoneBackend, ""))
		store := Manager.GetHistoryStore()
		require.NotNil(t, store)

		status, err := store.GetStatus()
		require.NoError(t, err)
		assert.False(t, status.Connected)
		CloseHistory()
	})

	t.Run("unsupported backend", func(t *testing.T) {
		resetGlobals(t)
		err := InitHistory(schema.DatabaseBackend("oracle"), "")
		assert.ErrorContains(t, err, "unsupported backend")
	})
}

func TestClearHistory(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "history.db")
		store, err := NewHistoryStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("sqlite missing file is fine", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "missing.db")
		assert.NoError(t, ClearHistory(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, ClearHistory(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, ClearHistory(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, ClearHistory(schema.DatabaseBackend("oracle"), "", ""))
	})
}

// TestValidateTableName tests the validateTableName function with various inputs.
func TestValidateTableName(t *testing.T) {
	tests := []struct {
		name      string
		tableName string
		wantErr   bool
	}{
		{name: "valid simple name", tableName: "render_runs"},
		{name: "valid name with numbers", tableName: "render_runs_2"},
		{name: "valid name starting with underscore", tableName: "_render"},
		{name: "valid mixed case", tableName: "RenderRuns_1"},
		{name: "empty name", tableName: "", wantErr: true},
		{name: "starts with number", tableName: "1_runs", wantErr: true},
		{name: "contains dash", tableName: "render-runs", wantErr: true},
		{name: "contains dot", tableName: "db.runs", wantErr: true},
		{name: "sql injection attempt", tableName: "runs'; DROP TABLE users; --", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateTableName(tt.tableName)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

// TestQuoteTableName tests the quoteTableName function for all backends.
func TestQuoteTableName(t *testing.T) {
	tests := []struct {
		backend schema.DatabaseBackend
		want    string
	}{
		{schema.SQLiteBackend, `"render_runs"`},
		{schema.MySQLBackend, "`render_runs`"},
		{schema.PostgreSQLBackend, `"render_runs"`},
		{schema.NoneBackend, `"render_runs"`},
	}

	for _, tt := range tests {
		t.Run(string(tt.backend), func(t *testing.T) {
			assert.Equal(t, tt.want, quoteTableName("render_runs", tt.backend))
		})
	}
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 3))
	assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 2))
	assert.Equal(t, "$1, $2, $3", placeholders(schema.PostgreSQLBackend, 3))
	assert.Equal(t, "?", placeholders(schema.SQLiteBackend, 1))
}
