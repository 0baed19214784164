package iocache

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/mysql"
	pgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/huangsam/anomalyplot/schema"
)

//go:embed migrations
var migrationsFS embed.FS

// MigrateHistory runs database migrations for the history store.
// - If targetVersion < 0, it migrates to the latest version.
// - If targetVersion == 0, it rolls back all migrations.
// - If targetVersion > 0, it migrates to the specified version.
func MigrateHistory(backend schema.DatabaseBackend, connStr string, targetVersion int) error {
	if backend == schema.NoneBackend {
		return errors.New("migrations are not supported for NoneBackend")
	}

	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	var driver database.Driver
	switch backend {
	case schema.SQLiteBackend:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case schema.MySQLBackend:
		driver, err = mysql.WithInstance(db, &mysql.Config{})
	case schema.PostgreSQLBackend:
		driver, err = pgx.WithInstance(db, &pgx.Config{})
	}
	if err != nil {
		return fmt.Errorf("failed to create %s migrate driver: %w", backend, err)
	}

	sub, err := fs.Sub(migrationsFS, "migrations/"+string(backend))
	if err != nil {
		return fmt.Errorf("failed to access migrations directory: %w", err)
	}
	sourceDriver, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "anomalyplot", driver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	currentVersion, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d. Please fix manually or force version", currentVersion)
	}

	switch {
	case targetVersion < 0:
		err = m.Up()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to latest version: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migration needed. Database is already at the latest version.")
		} else {
			newVersion, _, _ := m.Version()
			fmt.Printf("Successfully migrated from version %d to version %d\n", currentVersion, newVersion)
		}

	case targetVersion == 0:
		err = m.Down()
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to roll back to version 0: %w", err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Println("No migration needed. Database is already at version 0")
		} else {
			fmt.Printf("Successfully rolled back from version %d to version 0\n", currentVersion)
		}

	default:
		err = m.Migrate(uint(targetVersion))
		if err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate to version %d: %w", targetVersion, err)
		}
		if errors.Is(err, migrate.ErrNoChange) {
			fmt.Printf("No migration needed. Database is already at version %d\n", targetVersion)
		} else {
			fmt.Printf("Successfully migrated from version %d to version %d\n", currentVersion, targetVersion)
		}
	}

	return nil
}
