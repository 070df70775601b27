package database

import (
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratemysql "github.com/golang-migrate/migrate/v4/database/mysql"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/mysql/*.sql migrations/sqlite/*.sql
var migrationsFS embed.FS

// Migrate applies every pending up migration to the store named by uri.
// It opens and closes its own connection, so it is safe to run from a
// deployment step before any server starts.  Running it against an
// up-to-date schema is a no-op.
func Migrate(uri string) error {
	db, err := Open(uri)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer db.Close()
	dialect := db.DriverName()

	src, err := iofs.New(migrationsFS, "migrations/"+dialect)
	if err != nil {
		return fmt.Errorf("load migrations: %w", err)
	}

	var driver migratedb.Driver
	switch dialect {
	case DialectMySQL:
		driver, err = migratemysql.WithInstance(db.DB, &migratemysql.Config{})
	case DialectSQLite:
		driver, err = migratesqlite.WithInstance(db.DB, &migratesqlite.Config{})
	default:
		err = fmt.Errorf("%w: %s", ErrUnsupportedDSN, dialect)
	}
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, dialect, driver)
	if err != nil {
		_ = src.Close()
		return fmt.Errorf("migration setup: %w", err)
	}
	defer func() { _, _ = m.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
