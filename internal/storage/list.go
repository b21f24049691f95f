package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/repository"
)

var _ list.Repository = (*ListRepository)(nil)

// ListRepository implements list.Repository over lists namespace tables
type ListRepository struct {
	db *DB
}

// NewListRepository creates a new ListRepository
func NewListRepository(db *DB) *ListRepository {
	return &ListRepository{db: db}
}

// Create inserts a list
func (r *ListRepository) Create(ctx context.Context, ns string, l *list.List) error {
	query := `INSERT INTO ` + quote(ns) + ` (id, title, created_at, updated_at) VALUES (?, ?, ?, ?)`
	if _, err := r.db.exec(ctx, query, l.ID, l.Title, formatTime(l.CreatedAt), formatTime(l.UpdatedAt)); err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create list: %w", err)
	}
	return nil
}

// Get retrieves a list by ID
func (r *ListRepository) Get(ctx context.Context, ns, id string) (*list.List, error) {
	query := `SELECT id, title, created_at, updated_at FROM ` + quote(ns) + ` WHERE id = ?`
	l, err := scanList(r.db.queryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get list: %w", err)
	}
	return l, nil
}

// Exists reports whether a list with id exists
func (r *ListRepository) Exists(ctx context.Context, ns, id string) (bool, error) {
	var count int
	if err := r.db.queryRow(ctx, `SELECT COUNT(*) FROM `+quote(ns)+` WHERE id = ?`, id).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check list: %w", err)
	}
	return count > 0, nil
}

// List returns every list in creation order
func (r *ListRepository) List(ctx context.Context, ns string) ([]list.List, error) {
	rows, err := r.db.query(ctx, `SELECT id, title, created_at, updated_at FROM `+quote(ns)+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list lists: %w", err)
	}
	defer rows.Close()

	lists := []list.List{}
	for rows.Next() {
		l, err := scanList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, *l)
	}
	return lists, rows.Err()
}

// Update overwrites a list's title
func (r *ListRepository) Update(ctx context.Context, ns string, l *list.List) error {
	query := `UPDATE ` + quote(ns) + ` SET title = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.exec(ctx, query, l.Title, formatTime(l.UpdatedAt), l.ID)
	if err != nil {
		return fmt.Errorf("failed to update list: %w", err)
	}
	return expectAffected(result, "list")
}

// Delete removes a list
func (r *ListRepository) Delete(ctx context.Context, ns, id string) error {
	result, err := r.db.exec(ctx, `DELETE FROM `+quote(ns)+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}
	return expectAffected(result, "list")
}

func scanList(s scanner) (*list.List, error) {
	var (
		l                    list.List
		createdAt, updatedAt string
	)
	if err := s.Scan(&l.ID, &l.Title, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if l.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if l.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &l, nil
}
