package cmd

import (
	"fmt"

	"github.com/huangsam/anomalyplot/internal/contract"
	"github.com/huangsam/anomalyplot/internal/iocache"
	"github.com/huangsam/anomalyplot/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackendFromViper reads and validates the history backend settings
// without running the full dataset setup.
func historyBackendFromViper() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backendStr)
	}

	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup() error {
	backend, connStr, err := historyBackendFromViper()
	if err != nil {
		return err
	}

	if err := iocache.InitHistory(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

func historySetupWrapper(_ *cobra.Command, _ []string) error {
	return historySetup()
}

// historyMigrateSetup loads configuration for migrations. It does NOT open the
// store, so tables are left for the migrations to create.
func historyMigrateSetup() error {
	backend, connStr, err := historyBackendFromViper()
	if err != nil {
		return err
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

func historyMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return historyMigrateSetup()
}

// historyCmd groups render history management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage the render history store",
	Long: `Manage the history of render runs.

Each render stores:
- Run metadata (timestamp, dataset path, configuration, duration)
- Every label drawn with its revision, relative change and pixel position

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet
  clear   - Remove all history
  migrate - Run database schema migrations

Examples:
  # Check history status
  anomalyplot history status

  # Export for analysis in pandas/DuckDB
  anomalyplot history export --output-file history.parquet`,
}

// historyStatusCmd shows history statistics.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display render history statistics and connection details",
	Long: `Show the backend, run counts, timestamps and table sizes of the history store.

Examples:
  anomalyplot history status
  anomalyplot history status --history-backend mysql --history-db-connect "user:pass@tcp(localhost:3306)/anomalyplot?parseTime=true"`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store := historyStore()
		if store == nil {
			iocache.PrintHistoryStatus(schema.HistoryStatus{Backend: string(cfg.HistoryBackend)})
			return
		}
		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		iocache.PrintHistoryStatus(status)
	},
}

// historyClearCmd removes all history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all render history",
	Long: `Delete all stored render runs and labels.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  anomalyplot history export --output-file backup.parquet
  anomalyplot history clear`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		// Close the store first so SQLite can remove its file
		iocache.CloseHistory()
		dbFilePath := contract.GetHistoryDBFilePath()
		if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
			dbFilePath = cfg.HistoryDBConnect
		}
		if err := iocache.ClearHistory(cfg.HistoryBackend, dbFilePath, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("Render history cleared successfully.")
	},
}

// historyExportCmd exports history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export render history to Parquet files",
	Long: `Export render runs and labels to Parquet.

Two files are written next to --output-file:
  <name>.render_runs.parquet
  <name>.render_labels.parquet

Examples:
  anomalyplot history export --output-file history.parquet`,
	PreRunE: historySetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.OutputFile == "" {
			contract.LogFatal("Export requires an output file", fmt.Errorf("--output-file is required"))
		}
		if err := iocache.ExecuteHistoryExport(cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs schema migrations.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations for the history store",
	Long: `Apply or roll back the history schema.

Examples:
  # Migrate to latest
  anomalyplot history migrate

  # Roll back everything
  anomalyplot history migrate --target-version 0

  # Migrate a PostgreSQL store to version 2
  anomalyplot history migrate --history-backend postgresql --history-db-connect "host=localhost user=postgres password=pass dbname=anomalyplot" --target-version 2`,
	PreRunE: historyMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateHistory(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}

// historyStore returns the active store, or nil when history is disabled.
func historyStore() contract.HistoryStore {
	if historyManager == nil {
		return nil
	}
	return historyManager.GetHistoryStore()
}
