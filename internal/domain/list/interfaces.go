package list

import (
	"context"

	"github.com/rpggio/procboard/internal/namespace"
)

// Repository persists lists inside a lists namespace.
type Repository interface {
	Create(ctx context.Context, ns string, l *List) error
	Get(ctx context.Context, ns, id string) (*List, error)
	List(ctx context.Context, ns string) ([]List, error)
	Update(ctx context.Context, ns string, l *List) error
	Delete(ctx context.Context, ns, id string) error
}

// CardPurger removes the cards that reference a list.
type CardPurger interface {
	DeleteByList(ctx context.Context, ns, listID string) (int64, error)
}

// Namespaces runs an operation against a process's namespaces.
// UseExclusive keeps every other resource operation on the process out
// until fn returns.
type Namespaces interface {
	Use(ctx context.Context, process string, fn func(namespace.Scope) error) error
	UseExclusive(ctx context.Context, process string, fn func(namespace.Scope) error) error
}
