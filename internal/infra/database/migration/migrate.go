package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"go-weather/pkg/log"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Up applies every pending cache schema migration on db. driverName is "sqlite" or "postgres".
// The same scripts serve the sqlc and gorm backends.
func Up(db *sql.DB, driverName string) error {
	m, release, err := newMigrate(db, driverName)
	if err != nil {
		return err
	}
	defer release()

	from, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}
	if dirty {
		return fmt.Errorf("database is in a dirty state at version %d, fix it manually or force the version", from)
	}

	err = m.Up()
	if errors.Is(err, migrate.ErrNoChange) {
		log.Debugw("cache schema up to date", "version", from)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to migrate to latest version: %w", err)
	}

	to, _, _ := m.Version()
	log.Infow("cache schema migrated", "from", from, "to", to)
	return nil
}

// newMigrate builds a migrate instance over db. release frees what the driver holds
// without closing db itself.
func newMigrate(db *sql.DB, driverName string) (*migrate.Migrate, func(), error) {
	var (
		driver  database.Driver
		release = func() {}
		err     error
	)
	switch driverName {
	case "sqlite":
		// the sqlite driver keeps no connection of its own and its Close closes db
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case "postgres":
		driver, release, err = postgresDriver(db)
	default:
		return nil, nil, fmt.Errorf("unsupported migration driver: %s", driverName)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s migrate driver: %w", driverName, err)
	}

	migrationFS, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to access migrations directory: %w", err)
	}
	source, err := iofs.New(migrationFS, ".")
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", source, driverName, driver)
	if err != nil {
		release()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, release, nil
}

// postgresDriver runs migrations on one connection taken from db. Closing the driver
// returns that connection to the pool and leaves db open.
func postgresDriver(db *sql.DB) (database.Driver, func(), error) {
	ctx := context.Background()
	conn, err := db.Conn(ctx)
	if err != nil {
		return nil, nil, err
	}

	driver, err := postgres.WithConnection(ctx, conn, &postgres.Config{})
	if err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return driver, func() {
		if err := driver.Close(); err != nil {
			log.Warnw("failed to release migration connection", "error", err)
		}
	}, nil
}
