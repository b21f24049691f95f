package namespace

import (
	"context"
	"log/slog"

	"github.com/rpggio/procboard/internal/domain/process"
)

// Store manages physical namespaces. A namespace that does not exist yet is
// a normal state, reported by Exists rather than as an error.
type Store interface {
	Exists(ctx context.Context, namespace string) (bool, error)
	// Create materializes namespace with the shape of kind. Creating a
	// namespace that already exists is not an error.
	Create(ctx context.Context, namespace string, kind Kind) error
	Rename(ctx context.Context, from, to string) error
	Drop(ctx context.Context, namespace string) error
}

// Registry is the metadata registry the coordinator keeps namespaces
// consistent with.
type Registry interface {
	Get(ctx context.Context, name string) (*process.Process, error)
	Update(ctx context.Context, name string, patch process.Patch) (*process.Process, error)
	Delete(ctx context.Context, name string) (*process.Process, error)
}

var _ Registry = (*process.Service)(nil)

func kindAttrs(name string, kind Kind, ns string) []any {
	return []any{slog.String("process", name), slog.String("kind", string(kind)), slog.String("namespace", ns)}
}
