package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rpggio/procboard/internal/namespace"
)

var _ namespace.Store = (*NamespaceStore)(nil)

// Column sets of each kind's namespace table.
var kindSchemas = map[namespace.Kind]string{
	namespace.KindLists: `(
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	namespace.KindCards: `(
    id TEXT PRIMARY KEY,
    list_id TEXT NOT NULL,
    title TEXT NOT NULL,
    assignee TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL,
    start_at TEXT,
    due_at TEXT,
    completed_at TEXT,
    completion_message TEXT,
    extra TEXT,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
	namespace.KindCharts: `(
    id TEXT PRIMARY KEY,
    chart_type TEXT NOT NULL DEFAULT '',
    filter_expr TEXT NOT NULL DEFAULT '',
    period TEXT NOT NULL DEFAULT '',
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
)`,
}

// NamespaceStore maps each namespace to one table.
type NamespaceStore struct {
	db *DB
}

// NewNamespaceStore creates a new NamespaceStore
func NewNamespaceStore(db *DB) *NamespaceStore {
	return &NamespaceStore{db: db}
}

// Exists reports whether the namespace table exists
func (s *NamespaceStore) Exists(ctx context.Context, ns string) (bool, error) {
	query := `SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ? COLLATE NOCASE`
	if s.db.driver == DriverPostgres {
		query = `SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = ?`
	}

	var count int
	if err := s.db.queryRow(ctx, query, ns).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to probe namespace %s: %w", ns, err)
	}
	return count > 0, nil
}

// Create creates the namespace table for kind if it does not exist
func (s *NamespaceStore) Create(ctx context.Context, ns string, kind namespace.Kind) error {
	schema, ok := kindSchemas[kind]
	if !ok {
		return fmt.Errorf("no schema for kind %q", kind)
	}
	if _, err := s.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS `+quote(ns)+` `+schema); err != nil {
		return fmt.Errorf("failed to create namespace %s: %w", ns, err)
	}
	return nil
}

// Rename renames the namespace table from -> to. SQLite treats names that
// differ only in case as the same table, so such a rename goes through a
// temporary name inside one transaction.
func (s *NamespaceStore) Rename(ctx context.Context, from, to string) error {
	if from == to || !strings.EqualFold(from, to) {
		if _, err := s.db.ExecContext(ctx, renameTable(from, to)); err != nil {
			return fmt.Errorf("failed to rename namespace %s to %s: %w", from, to, err)
		}
		return nil
	}

	tmp := "procboard_rename_" + strings.ReplaceAll(uuid.NewString(), "-", "")
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin rename of namespace %s: %w", from, err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{renameTable(from, tmp), renameTable(tmp, to)} {
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to rename namespace %s to %s: %w", from, to, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit rename of namespace %s: %w", from, err)
	}
	return nil
}

func renameTable(from, to string) string {
	return `ALTER TABLE ` + quote(from) + ` RENAME TO ` + quote(to)
}

// Drop drops the namespace table
func (s *NamespaceStore) Drop(ctx context.Context, ns string) error {
	if _, err := s.db.ExecContext(ctx, `DROP TABLE IF EXISTS `+quote(ns)); err != nil {
		return fmt.Errorf("failed to drop namespace %s: %w", ns, err)
	}
	return nil
}
