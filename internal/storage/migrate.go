package storage

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	pgxmigrate "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// migrate applies the embedded migrations for the active dialect.
//
// sqlite migrates through the live handle so that :memory: databases see the
// schema; closing the migrate instance would close that handle, so it is left
// open. postgres migrates over a short-lived connection of its own.
func (db *DB) migrate(ctx context.Context, dsn string) error {
	src, err := iofs.New(migrationsFS, "migrations/"+string(db.dialect))
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	var driver database.Driver
	switch db.dialect {
	case DialectSQLite:
		driver, err = sqlitemigrate.WithInstance(db.conn, &sqlitemigrate.Config{})
		if err != nil {
			return fmt.Errorf("create sqlite driver: %w", err)
		}
	case DialectPostgres:
		migrateDB, err := sql.Open("pgx", dsn)
		if err != nil {
			return fmt.Errorf("open migration database: %w", err)
		}
		if err := migrateDB.PingContext(ctx); err != nil {
			migrateDB.Close()
			return fmt.Errorf("ping migration database: %w", err)
		}
		driver, err = pgxmigrate.WithInstance(migrateDB, &pgxmigrate.Config{})
		if err != nil {
			migrateDB.Close()
			return fmt.Errorf("create pgx driver: %w", err)
		}
	}

	m, err := migrate.NewWithInstance("iofs", src, string(db.dialect), driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	if db.dialect == DialectPostgres {
		defer m.Close()
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
