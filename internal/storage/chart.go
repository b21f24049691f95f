package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/repository"
)

var _ chart.Repository = (*ChartRepository)(nil)

const chartColumns = `id, chart_type, filter_expr, period, created_at, updated_at`

// ChartRepository implements chart.Repository over charts namespace tables
type ChartRepository struct {
	db *DB
}

// NewChartRepository creates a new ChartRepository
func NewChartRepository(db *DB) *ChartRepository {
	return &ChartRepository{db: db}
}

// Create inserts a chart
func (r *ChartRepository) Create(ctx context.Context, ns string, c *chart.Chart) error {
	query := `INSERT INTO ` + quote(ns) + ` (` + chartColumns + `) VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.exec(ctx, query, c.ID, c.ChartType, c.Filter, c.Period, formatTime(c.CreatedAt), formatTime(c.UpdatedAt))
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("failed to create chart: %w", err)
	}
	return nil
}

// Get retrieves a chart by ID
func (r *ChartRepository) Get(ctx context.Context, ns, id string) (*chart.Chart, error) {
	c, err := scanChart(r.db.queryRow(ctx, `SELECT `+chartColumns+` FROM `+quote(ns)+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get chart: %w", err)
	}
	return c, nil
}

// List returns every chart in creation order
func (r *ChartRepository) List(ctx context.Context, ns string) ([]chart.Chart, error) {
	rows, err := r.db.query(ctx, `SELECT `+chartColumns+` FROM `+quote(ns)+` ORDER BY created_at ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list charts: %w", err)
	}
	defer rows.Close()

	charts := []chart.Chart{}
	for rows.Next() {
		c, err := scanChart(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chart: %w", err)
		}
		charts = append(charts, *c)
	}
	return charts, rows.Err()
}

// Update overwrites a chart's attributes
func (r *ChartRepository) Update(ctx context.Context, ns string, c *chart.Chart) error {
	query := `UPDATE ` + quote(ns) + ` SET chart_type = ?, filter_expr = ?, period = ?, updated_at = ? WHERE id = ?`
	result, err := r.db.exec(ctx, query, c.ChartType, c.Filter, c.Period, formatTime(c.UpdatedAt), c.ID)
	if err != nil {
		return fmt.Errorf("failed to update chart: %w", err)
	}
	return expectAffected(result, "chart")
}

// Delete removes a chart
func (r *ChartRepository) Delete(ctx context.Context, ns, id string) error {
	result, err := r.db.exec(ctx, `DELETE FROM `+quote(ns)+` WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete chart: %w", err)
	}
	return expectAffected(result, "chart")
}

func scanChart(s scanner) (*chart.Chart, error) {
	var (
		c                    chart.Chart
		createdAt, updatedAt string
	)
	if err := s.Scan(&c.ID, &c.ChartType, &c.Filter, &c.Period, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	var err error
	if c.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if c.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &c, nil
}
