package mocks

import (
	"context"

	"github.com/rpggio/procboard/internal/domain/card"
	"github.com/rpggio/procboard/internal/domain/chart"
	"github.com/rpggio/procboard/internal/domain/list"
	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/stretchr/testify/mock"
)

// ProcessRepository is a mock for process.Repository.
type ProcessRepository struct {
	mock.Mock
}

func (m *ProcessRepository) Create(ctx context.Context, proc *process.Process) error {
	args := m.Called(ctx, proc)
	return args.Error(0)
}

func (m *ProcessRepository) Get(ctx context.Context, name string) (*process.Process, error) {
	args := m.Called(ctx, name)
	if proc, ok := args.Get(0).(*process.Process); ok {
		return proc, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProcessRepository) List(ctx context.Context) ([]process.Process, error) {
	args := m.Called(ctx)
	if procs, ok := args.Get(0).([]process.Process); ok {
		return procs, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ProcessRepository) Update(ctx context.Context, currentName string, proc *process.Process) error {
	args := m.Called(ctx, currentName, proc)
	return args.Error(0)
}

func (m *ProcessRepository) Delete(ctx context.Context, name string) (*process.Process, error) {
	args := m.Called(ctx, name)
	if proc, ok := args.Get(0).(*process.Process); ok {
		return proc, args.Error(1)
	}
	return nil, args.Error(1)
}

// ListRepository is a mock for list.Repository and card.ListIndex.
type ListRepository struct {
	mock.Mock
}

func (m *ListRepository) Create(ctx context.Context, ns string, l *list.List) error {
	args := m.Called(ctx, ns, l)
	return args.Error(0)
}

func (m *ListRepository) Get(ctx context.Context, ns, id string) (*list.List, error) {
	args := m.Called(ctx, ns, id)
	if l, ok := args.Get(0).(*list.List); ok {
		return l, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListRepository) Exists(ctx context.Context, ns, id string) (bool, error) {
	args := m.Called(ctx, ns, id)
	return args.Bool(0), args.Error(1)
}

func (m *ListRepository) List(ctx context.Context, ns string) ([]list.List, error) {
	args := m.Called(ctx, ns)
	if lists, ok := args.Get(0).([]list.List); ok {
		return lists, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ListRepository) Update(ctx context.Context, ns string, l *list.List) error {
	args := m.Called(ctx, ns, l)
	return args.Error(0)
}

func (m *ListRepository) Delete(ctx context.Context, ns, id string) error {
	args := m.Called(ctx, ns, id)
	return args.Error(0)
}

// CardRepository is a mock for card.Repository and list.CardPurger.
type CardRepository struct {
	mock.Mock
}

func (m *CardRepository) Create(ctx context.Context, ns string, c *card.Card) error {
	args := m.Called(ctx, ns, c)
	return args.Error(0)
}

func (m *CardRepository) Get(ctx context.Context, ns, id string) (*card.Card, error) {
	args := m.Called(ctx, ns, id)
	if c, ok := args.Get(0).(*card.Card); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardRepository) List(ctx context.Context, ns string, opts card.ListOptions) ([]card.Card, error) {
	args := m.Called(ctx, ns, opts)
	if cards, ok := args.Get(0).([]card.Card); ok {
		return cards, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *CardRepository) Update(ctx context.Context, ns string, c *card.Card) error {
	args := m.Called(ctx, ns, c)
	return args.Error(0)
}

func (m *CardRepository) Delete(ctx context.Context, ns, id string) error {
	args := m.Called(ctx, ns, id)
	return args.Error(0)
}

func (m *CardRepository) DeleteByList(ctx context.Context, ns, listID string) (int64, error) {
	args := m.Called(ctx, ns, listID)
	return args.Get(0).(int64), args.Error(1)
}

// ChartRepository is a mock for chart.Repository.
type ChartRepository struct {
	mock.Mock
}

func (m *ChartRepository) Create(ctx context.Context, ns string, c *chart.Chart) error {
	args := m.Called(ctx, ns, c)
	return args.Error(0)
}

func (m *ChartRepository) Get(ctx context.Context, ns, id string) (*chart.Chart, error) {
	args := m.Called(ctx, ns, id)
	if c, ok := args.Get(0).(*chart.Chart); ok {
		return c, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChartRepository) List(ctx context.Context, ns string) ([]chart.Chart, error) {
	args := m.Called(ctx, ns)
	if charts, ok := args.Get(0).([]chart.Chart); ok {
		return charts, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *ChartRepository) Update(ctx context.Context, ns string, c *chart.Chart) error {
	args := m.Called(ctx, ns, c)
	return args.Error(0)
}

func (m *ChartRepository) Delete(ctx context.Context, ns, id string) error {
	args := m.Called(ctx, ns, id)
	return args.Error(0)
}
