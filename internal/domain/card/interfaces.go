package card

import (
	"context"

	"github.com/rpggio/procboard/internal/namespace"
)

// Repository persists cards inside a cards namespace.
type Repository interface {
	Create(ctx context.Context, ns string, c *Card) error
	Get(ctx context.Context, ns, id string) (*Card, error)
	List(ctx context.Context, ns string, opts ListOptions) ([]Card, error)
	Update(ctx context.Context, ns string, c *Card) error
	Delete(ctx context.Context, ns, id string) error
	DeleteByList(ctx context.Context, ns, listID string) (int64, error)
}

// ListIndex reports whether a list exists in a lists namespace.
type ListIndex interface {
	Exists(ctx context.Context, ns, id string) (bool, error)
}

// Namespaces runs an operation against a process's namespaces.
type Namespaces interface {
	Use(ctx context.Context, process string, fn func(namespace.Scope) error) error
}
