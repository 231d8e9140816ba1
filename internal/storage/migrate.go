package storage

import (
	"context"
	"embed"
	"fmt"
	"io/fs"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect"
	"github.com/uptrace/bun/migrate"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

const (
	migrationsTable      = "portfolio_migrations"
	migrationsLocksTable = "portfolio_migration_locks"
)

// MigrationsFS returns the embedded migration files for this package.
func MigrationsFS() embed.FS {
	return migrationsFS
}

// dialectMigrations returns the migration directory for db's dialect.
func dialectMigrations(db *bun.DB) (fs.FS, error) {
	dir := "migrations/sqlite"
	if db.Dialect().Name() == dialect.PG {
		dir = "migrations/postgres"
	}
	return fs.Sub(migrationsFS, dir)
}

func newMigrator(db *bun.DB) (*migrate.Migrator, error) {
	files, err := dialectMigrations(db)
	if err != nil {
		return nil, err
	}
	migrations := migrate.NewMigrations()
	if err := migrations.Discover(files); err != nil {
		return nil, fmt.Errorf("storage: discover migrations: %w", err)
	}
	return migrate.NewMigrator(db, migrations,
		migrate.WithTableName(migrationsTable),
		migrate.WithLocksTableName(migrationsLocksTable),
	), nil
}

// Migrate applies pending migrations and returns the names it applied.
func Migrate(ctx context.Context, db *bun.DB) ([]string, error) {
	migrator, err := newMigrator(db)
	if err != nil {
		return nil, err
	}
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("storage: init migrations: %w", err)
	}

	group, err := migrator.Migrate(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	if group.IsZero() {
		return nil, nil
	}
	applied := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		applied = append(applied, m.Name)
	}
	return applied, nil
}

// Rollback reverts the last applied migration group.
func Rollback(ctx context.Context, db *bun.DB) ([]string, error) {
	migrator, err := newMigrator(db)
	if err != nil {
		return nil, err
	}
	if err := migrator.Init(ctx); err != nil {
		return nil, fmt.Errorf("storage: init migrations: %w", err)
	}
	group, err := migrator.Rollback(ctx)
	if err != nil {
		return nil, fmt.Errorf("storage: rollback: %w", err)
	}
	if group.IsZero() {
		return nil, nil
	}
	reverted := make([]string, 0, len(group.Migrations))
	for _, m := range group.Migrations {
		reverted = append(reverted, m.Name)
	}
	return reverted, nil
}
