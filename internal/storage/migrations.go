package storage

import (
	"context"
	"fmt"
)

// metadataSchema holds the process registry. name_key is the case-folded
// name; its uniqueness backs the case-insensitive duplicate check.
const metadataSchema = `
CREATE TABLE IF NOT EXISTS processes (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL UNIQUE,
    name_key TEXT NOT NULL UNIQUE,
    description TEXT NOT NULL DEFAULT '',
    start_at TEXT NOT NULL,
    end_at TEXT NOT NULL,
    status TEXT NOT NULL CHECK(status IN ('pending', 'in_progress', 'done')),
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`

// RunMigrations creates the metadata schema if it does not exist.
// Namespace tables are created on demand by NamespaceStore.
func (db *DB) RunMigrations(ctx context.Context) error {
	if _, err := db.ExecContext(ctx, metadataSchema); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
