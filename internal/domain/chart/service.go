package chart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/procboard/internal/namespace"
	"github.com/rpggio/procboard/internal/repository"
)

// Service manages the charts of a process.
type Service struct {
	namespaces Namespaces
	repo       Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService creates a new chart service.
func NewService(namespaces Namespaces, repo Repository, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Service{namespaces: namespaces, repo: repo, logger: logger, now: time.Now}
}

// List returns the process's charts.
func (s *Service) List(ctx context.Context, process string) ([]Chart, error) {
	charts := []Chart{}
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindCharts)
		if err != nil || !ok {
			return err
		}
		found, err := s.repo.List(ctx, h.Namespace)
		if err != nil {
			return fmt.Errorf("listing charts: %w", err)
		}
		charts = append(charts, found...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return charts, nil
}

// Create stores a new chart.
func (s *Service) Create(ctx context.Context, process string, f Fields) (*Chart, error) {
	now := s.now().UTC()
	c := &Chart{
		ID:        uuid.NewString(),
		ChartType: f.ChartType,
		Filter:    f.Filter,
		Period:    f.Period,
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, err := scope.Ensure(ctx, namespace.KindCharts)
		if err != nil {
			return err
		}
		if err := s.repo.Create(ctx, h.Namespace, c); err != nil {
			return fmt.Errorf("creating chart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Update applies a partial patch to a chart.
func (s *Service) Update(ctx context.Context, process, id string, patch Patch) (*Chart, error) {
	var updated *Chart
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindCharts)
		if err != nil {
			return err
		}
		if !ok {
			return ErrChartNotFound
		}
		c, err := s.get(ctx, h.Namespace, id)
		if err != nil {
			return err
		}
		if patch.ChartType != nil {
			c.ChartType = *patch.ChartType
		}
		if patch.Filter != nil {
			c.Filter = *patch.Filter
		}
		if patch.Period != nil {
			c.Period = *patch.Period
		}
		c.UpdatedAt = s.now().UTC()
		if err := s.repo.Update(ctx, h.Namespace, c); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrChartNotFound
			}
			return fmt.Errorf("updating chart: %w", err)
		}
		updated = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// Delete removes a chart and returns it.
func (s *Service) Delete(ctx context.Context, process, id string) (*Chart, error) {
	var removed *Chart
	err := s.namespaces.Use(ctx, process, func(scope namespace.Scope) error {
		h, ok, err := scope.Lookup(ctx, namespace.KindCharts)
		if err != nil {
			return err
		}
		if !ok {
			return ErrChartNotFound
		}
		if removed, err = s.get(ctx, h.Namespace, id); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, h.Namespace, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return ErrChartNotFound
			}
			return fmt.Errorf("deleting chart: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (s *Service) get(ctx context.Context, ns, id string) (*Chart, error) {
	c, err := s.repo.Get(ctx, ns, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrChartNotFound
		}
		return nil, fmt.Errorf("getting chart: %w", err)
	}
	return c, nil
}
