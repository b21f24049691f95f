package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/repository"
)

var (
	_ card.Repository = (*CardRepository)(nil)
	_ card.ListIndex  = (*ListRepository)(nil)
	_ list.CardPurger = (*CardRepository)(nil)
)

const cardColumns = `id, list_id, title, assignee, description, status, start_at, due_at,
	completed_at, completion_message, extra, created_at, updated_at`

// CardRepository implements card.Repository over cards namespace tables.
// Attributes outside the typed columns are stored as a JSON object in extra.
type CardRepository struct {
	db *DB
}

// NewCardRepository creates a new CardRepository
func NewCardRepository(db *DB) *CardRepository {
	return &CardRepository{db: db}
}

// Create inserts a card
func (r *CardRepository) Create(ctx context.Context, ns string, c *card.Card) error {
	extra, err := encodeExtra(c.Extra)
	if err != nil {
		return err
	}
	query := `INSERT INTO ` + quote(ns) + ` (` + cardColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	_, err = r.db.exec(ctx, query,
		c.ID,
		c.ListID,
		c.Title,
		string(c.Assignee),
		c.Description,
		string(c.Status),
		formatTimePtr(c.Start),
		formatTimePtr(c.Due),
		formatTimePtr(c.CompletedAt),
		nullString(c.CompletionMessage),
		extra,
		formatTime(c.CreatedAt),
		formatTime(c.UpdatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create card: %w", err)
	}
	return nil
}

// Get retrieves a card by ID
func (r *CardRepository) Get(ctx context.Context, ns, id string) (*card.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM ` + quote(ns) + ` WHERE id = ?`
	c, err := scanCard(r.db.queryRow(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get card: %w", err)
	}
	return c, nil
}

// List returns cards in creation order, optionally of a single list
func (r *CardRepository) List(ctx context.Context, ns string, opts card.ListOptions) ([]card.Card, error) {
	query := `SELECT ` + cardColumns + ` FROM ` + quote(ns)
	var args []any
	if opts.ListID != "" {
		query += ` WHERE list_id = ?`
		args = append(args, opts.ListID)
	}
	query += ` ORDER BY created_at ASC, id ASC`

	rows, err := r.db.query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list cards: %w", err)
	}
	defer rows.Close()

	cards := []card.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

// Update overwrites every mutable column of a card
func (r *CardRepository) Update(ctx context.Context, ns string, c *card.Card) error {
	extra, err := encodeExtra(c.Extra)
	if err != nil {
		return err
	}
	query := `
		UPDATE ` + quote(ns) + `
		SET list_id = ?, title = ?, assignee = ?, description = ?, status = ?, start_at = ?, due_at = ?,
			completed_at = ?, completion_message = ?, extra = ?, updated_at = ?
		WHERE id = ?
	`
	result, err := r.db.exec(ctx, query,
		c.ListID,
		c.Title,
		string(c.Assignee),
		c.Description,
		string(c.Status),
		formatTimePtr(c.Start),
		formatTimePtr(c.Due),
		formatTimePtr(c.CompletedAt),
		nullString(c.CompletionMessage),
		extra,
		formatTime(c.UpdatedAt),
		c.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update card: %w", err)
	}
	return expectAffected(result, "card")
}

// Delete removes a card
func (r *CardRepository) Delete(ctx context.Context, ns, id string) error {
	result, err := r.db.exec(ctx, `DELETE FROM `+quote(ns)+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete card: %w", err)
	}
	return expectAffected(result, "card")
}

// DeleteByList removes every card of a list and returns how many were removed
func (r *CardRepository) DeleteByList(ctx context.Context, ns, listID string) (int64, error) {
	result, err := r.db.exec(ctx, `DELETE FROM `+quote(ns)+` WHERE list_id = ?`, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete cards of list: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count deleted cards: %w", err)
	}
	return n, nil
}

func scanCard(s scanner) (*card.Card, error) {
	var (
		c                       card.Card
		assignee, status        string
		start, due, completedAt sql.NullString
		message, extra          sql.NullString
		createdAt, updatedAt    string
	)
	err := s.Scan(&c.ID, &c.ListID, &c.Title, &assignee, &c.Description, &status,
		&start, &due, &completedAt, &message, &extra, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}
	c.Assignee = card.Assignee(assignee)
	c.Status = card.Status(status)
	if message.Valid {
		c.CompletionMessage = &message.String
	}

	if c.Start, err = parseTimePtr(start); err != nil {
		return nil, err
	}
	if c.Due, err = parseTimePtr(due); err != nil {
		return nil, err
	}
	if c.CompletedAt, err = parseTimePtr(completedAt); err != nil {
		return nil, err
	}
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	if extra.Valid && extra.String != "" {
		if err := json.Unmarshal([]byte(extra.String), &c.Extra); err != nil {
			return nil, fmt.Errorf("stored card extras: %w", err)
		}
	}
	return &c, nil
}

func encodeExtra(extra map[string]any) (sql.NullString, error) {
	if len(extra) == 0 {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(extra)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to encode card extras: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
