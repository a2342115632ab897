package postgres

import (
	stderrors "errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres" // postgres driver
	_ "github.com/golang-migrate/migrate/v4/source/file"       // file source driver

	"github.com/turtacn/potvault/pkg/errors"
)

// ─────────────────────────────────────────────────────────────────────────────
// RunMigrations — apply all pending migrations
// ─────────────────────────────────────────────────────────────────────────────

// RunMigrations applies every pending schema migration from migrationsPath
// (e.g. "file://migrations") against the database at dbURL.  A database that
// is already up to date is not an error.
func RunMigrations(dbURL, migrationsPath string) error {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return errors.Wrap(err, errors.CodeCatalogMigrationFailed,
			"failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Up(); err != nil && !stderrors.Is(err, migrate.ErrNoChange) {
		return errors.Wrap(err, errors.CodeCatalogMigrationFailed,
			"failed to run migrations")
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// RollbackMigration — revert migrations by the given number of steps
// ─────────────────────────────────────────────────────────────────────────────

// RollbackMigration rolls the schema back by steps migrations.  Intended for
// development and test databases.
func RollbackMigration(dbURL, migrationsPath string, steps int) error {
	if steps <= 0 {
		return errors.Newf(errors.CodeInvalidParam,
			"steps must be greater than 0, got %d", steps)
	}
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return errors.Wrap(err, errors.CodeCatalogMigrationFailed,
			"failed to create migrate instance")
	}
	defer m.Close()

	if err := m.Steps(-steps); err != nil {
		if stderrors.Is(err, migrate.ErrNoChange) {
			return errors.New(errors.CodeCatalogMigrationFailed,
				"no migrations to roll back")
		}
		return errors.Wrap(err, errors.CodeCatalogMigrationFailed,
			fmt.Sprintf("failed to roll back %d step(s)", steps))
	}
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// MigrationStatus — query the current schema version
// ─────────────────────────────────────────────────────────────────────────────

// MigrationStatus returns the applied migration version and whether the
// schema is dirty.  A database without any applied migration reports
// version 0, clean.
func MigrationStatus(dbURL, migrationsPath string) (version uint, dirty bool, err error) {
	m, err := migrate.New(migrationsPath, dbURL)
	if err != nil {
		return 0, false, errors.Wrap(err, errors.CodeCatalogMigrationFailed,
			"failed to create migrate instance")
	}
	defer m.Close()

	version, dirty, err = m.Version()
	if err != nil {
		if stderrors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, errors.Wrap(err, errors.CodeCatalogMigrationFailed,
			"failed to get migration version")
	}
	return version, dirty, nil
}
