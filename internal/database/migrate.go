package database

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

// Migrate applies all pending schema migrations embedded in the binary.
// The reservation_slots composite primary key created here is the
// authoritative guard against double-booked (kind, day, time) triples, so
// the server refuses to start when the schema cannot be brought up to date.
func Migrate(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationFiles, "migrations")
	if err != nil {
		return fmt.Errorf("read migration files: %w", err)
	}

	dbDriver, err := migratemysql.WithInstance(db, &migratemysql.Config{})
	if err != nil {
		sourceDriver.Close()
		return fmt.Errorf("create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "mysql", dbDriver)
	if err != nil {
		sourceDriver.Close()
		return fmt.Errorf("create migrate instance: %w", err)
	}
	// m is not closed here; closing it would close the caller's db handle.

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}
