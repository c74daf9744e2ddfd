package storage

import (
	"context"

	"github.com/claude/liftlog/internal/config"
)

// Open connects the archive selected by cfg.Driver. For Postgres the
// migrations in migrationsPath are applied first unless it is empty; SQLite
// creates its schema on open. The returned func closes the archive.
func Open(ctx context.Context, cfg config.DatabaseConfig, migrationsPath string) (Archive, func(), error) {
	if cfg.Driver == config.DriverSQLite {
		db, err := OpenLocalDB(cfg.Path)
		if err != nil {
			return nil, nil, err
		}
		return db, func() { db.Close() }, nil
	}

	dsn := cfg.DSN()
	if migrationsPath != "" {
		if err := RunMigrations(dsn, migrationsPath); err != nil {
			return nil, nil, err
		}
	}
	db, err := New(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return db, db.Close, nil
}
