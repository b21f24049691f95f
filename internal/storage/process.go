package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/repository"
)

var _ process.Repository = (*ProcessRepository)(nil)

const processColumns = `id, name, description, start_at, end_at, status, created_at, updated_at`

// ProcessRepository implements process.Repository
type ProcessRepository struct {
	db *DB
}

// NewProcessRepository creates a new ProcessRepository
func NewProcessRepository(db *DB) *ProcessRepository {
	return &ProcessRepository{db: db}
}

// Create inserts a process. A name already taken, ignoring case, yields repository.ErrDuplicate.
func (r *ProcessRepository) Create(ctx context.Context, proc *process.Process) error {
	query := `
		INSERT INTO processes (id, name, name_key, description, start_at, end_at, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := r.db.exec(ctx, query,
		proc.ID,
		proc.Name,
		nameKey(proc.Name),
		proc.Description,
		formatTime(proc.Start),
		formatTime(proc.End),
		string(proc.Status),
		formatTime(proc.CreatedAt),
		formatTime(proc.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create process: %w", err)
	}
	return nil
}

// Get retrieves a process by name, ignoring case
func (r *ProcessRepository) Get(ctx context.Context, name string) (*process.Process, error) {
	row := r.db.queryRow(ctx, `SELECT `+processColumns+` FROM processes WHERE name_key = ?`, nameKey(name))
	return scanProcessRow(row, "get")
}

// List returns every process in creation order
func (r *ProcessRepository) List(ctx context.Context) ([]process.Process, error) {
	rows, err := r.db.query(ctx, `SELECT `+processColumns+` FROM processes ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}
	defer rows.Close()

	procs := []process.Process{}
	for rows.Next() {
		proc, err := scanProcess(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan process: %w", err)
		}
		procs = append(procs, *proc)
	}
	return procs, rows.Err()
}

// Update overwrites the row currently named currentName, ignoring case, with proc
func (r *ProcessRepository) Update(ctx context.Context, currentName string, proc *process.Process) error {
	query := `
		UPDATE processes
		SET name = ?, name_key = ?, description = ?, start_at = ?, end_at = ?, status = ?, updated_at = ?
		WHERE name_key = ?
	`
	result, err := r.db.exec(ctx, query,
		proc.Name,
		nameKey(proc.Name),
		proc.Description,
		formatTime(proc.Start),
		formatTime(proc.End),
		string(proc.Status),
		formatTime(proc.UpdatedAt),
		nameKey(currentName),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to update process: %w", err)
	}
	return expectAffected(result, "process")
}

// Delete removes the named process, ignoring case, and returns the removed row
func (r *ProcessRepository) Delete(ctx context.Context, name string) (*process.Process, error) {
	row := r.db.queryRow(ctx, `DELETE FROM processes WHERE name_key = ? RETURNING `+processColumns, nameKey(name))
	return scanProcessRow(row, "delete")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProcessRow(row *sql.Row, op string) (*process.Process, error) {
	proc, err := scanProcess(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to %s process: %w", op, err)
	}
	return proc, nil
}

func scanProcess(s scanner) (*process.Process, error) {
	var (
		proc                             process.Process
		status                           string
		start, end, createdAt, updatedAt string
	)
	if err := s.Scan(&proc.ID, &proc.Name, &proc.Description, &start, &end, &status, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	proc.Status = process.Status(status)

	var err error
	if proc.Start, err = parseTime(start); err != nil {
		return nil, err
	}
	if proc.End, err = parseTime(end); err != nil {
		return nil, err
	}
	if proc.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if proc.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &proc, nil
}

func nameKey(name string) string {
	return strings.ToLower(name)
}

func expectAffected(result sql.Result, entity string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check %s update: %w", entity, err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}
