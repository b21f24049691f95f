package chart

import (
	"context"

	"github.com/rpggio/procboard/internal/namespace"
)

// Repository persists charts inside a charts namespace.
type Repository interface {
	Create(ctx context.Context, ns string, c *Chart) error
	Get(ctx context.Context, ns, id string) (*Chart, error)
	List(ctx context.Context, ns string) ([]Chart, error)
	Update(ctx context.Context, ns string, c *Chart) error
	Delete(ctx context.Context, ns, id string) error
}

// Namespaces runs an operation against a process's namespaces.
type Namespaces interface {
	Use(ctx context.Context, process string, fn func(namespace.Scope) error) error
}
