package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// Composite columns are nullable: rows written by older clients may hold
// NULL, which reads back as an empty collection.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS packages (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		version TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		main TEXT NOT NULL DEFAULT 'index.js',
		type TEXT NOT NULL DEFAULT 'module',
		license TEXT NOT NULL DEFAULT 'MIT',
		author TEXT NOT NULL DEFAULT '',
		is_private INTEGER NOT NULL DEFAULT 0,
		keywords TEXT,
		categories TEXT,
		scripts TEXT,
		dependencies TEXT,
		packages TEXT,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	);`,
	`CREATE INDEX IF NOT EXISTS idx_packages_created_at ON packages(created_at);`,
}

// Migrate creates the schema if it does not exist yet.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}
