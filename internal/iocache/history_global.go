package iocache

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &HistoryStoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// GetHistoryDBFilePath returns the path to the SQLite DB file for render history.
func GetHistoryDBFilePath() string {
	return contract.GetHistoryDBFilePath()
}

// InitHistory initializes the global manager with a history store.
// An empty backend leaves history tracking off.
func InitHistory(backend schema.DatabaseBackend, connStr string) error {
	var initErr error

	initOnce.Do(func() {
		if backend == "" {
			return
		}
		store, err := NewHistoryStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize history store: %w", err)
			return
		}

		Manager.Lock()
		Manager.history = store
		Manager.Unlock()
	})

	return initErr
}

// CloseHistory should be called on application shutdown.
func CloseHistory() {
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.history != nil {
			_ = Manager.history.Close()
		}
	})
}

// ClearHistory removes all render history for the specified backend.
// For SQLite, it deletes the database file.
// For MySQL and PostgreSQL, it drops the history tables.
// For NoneBackend, it does nothing.
func ClearHistory(backend schema.DatabaseBackend, dbFilePath, connStr string) error {
	switch backend {
	case schema.SQLiteBackend:
		if dbFilePath == "" {
			return errors.New("dbFilePath cannot be empty for SQLite backend")
		}
		if err := os.Remove(dbFilePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to remove SQLite database file %s: %w", dbFilePath, err)
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		driverName, _ := driverFor(backend)
		// Labels first, they reference runs
		for i := len(historyTables) - 1; i >= 0; i-- {
			if err := clearSQLTable(driverName, backend, connStr, historyTables[i]); err != nil {
				return err
			}
		}
		return nil

	case schema.NoneBackend:
		return nil

	default:
		return fmt.Errorf("unsupported history backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(driverName string, backend schema.DatabaseBackend, connStr, tableName string) error {
	if err := validateTableName(tableName); err != nil {
		return err
	}

	db, err := sql.Open(driverName, connStr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s database: %w", driverName, err)
	}
	defer func() { _ = db.Close() }()

	if err := db.Ping(); err != nil {
		return fmt.Errorf("failed to ping %s database: %w", driverName, err)
	}

	query := fmt.Sprintf("DROP TABLE IF EXISTS %s", quoteTableName(tableName, backend))
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}

	return nil
}
