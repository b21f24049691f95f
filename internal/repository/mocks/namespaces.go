package mocks

import (
	"context"
	"sync"

	"github.com/rpggio/procboard/internal/domain/process"
	"github.com/rpggio/procboard/internal/namespace"
)

// Namespaces is an in-memory stand-in for the namespace coordinator.
// Registered processes get namespaces derived from their name; a kind is
// absent until Ensure is called for it or it is marked present.
type Namespaces struct {
	mu        sync.Mutex
	processes map[string]bool
	present   map[string]bool
	Ensured   []string
	Exclusive []string
}

// NewNamespaces registers processes with no materialized namespaces.
func NewNamespaces(names ...string) *Namespaces {
	n := &Namespaces{processes: make(map[string]bool), present: make(map[string]bool)}
	for _, name := range names {
		n.processes[name] = true
	}
	return n
}

// Materialize marks kinds as existing for the named process.
func (n *Namespaces) Materialize(name string, kinds ...namespace.Kind) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for _, k := range kinds {
		n.present[namespace.Derive(name, k)] = true
	}
}

// Use runs fn when name is registered.
func (n *Namespaces) Use(ctx context.Context, name string, fn func(namespace.Scope) error) error {
	n.mu.Lock()
	ok := n.processes[name]
	n.mu.Unlock()
	if !ok {
		return process.ErrProcessNotFound
	}
	return fn(&scope{n: n, name: name})
}

// UseExclusive runs fn like Use and records the process name.
func (n *Namespaces) UseExclusive(ctx context.Context, name string, fn func(namespace.Scope) error) error {
	n.mu.Lock()
	n.Exclusive = append(n.Exclusive, name)
	n.mu.Unlock()
	return n.Use(ctx, name, fn)
}

type scope struct {
	n    *Namespaces
	name string
}

func (s *scope) Process() string { return s.name }

func (s *scope) Ensure(_ context.Context, kind namespace.Kind) (namespace.Handle, error) {
	id := namespace.Derive(s.name, kind)
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	if !s.n.present[id] {
		s.n.present[id] = true
		s.n.Ensured = append(s.n.Ensured, id)
	}
	return namespace.Handle{Namespace: id, Kind: kind}, nil
}

func (s *scope) Lookup(_ context.Context, kind namespace.Kind) (namespace.Handle, bool, error) {
	id := namespace.Derive(s.name, kind)
	s.n.mu.Lock()
	defer s.n.mu.Unlock()
	if !s.n.present[id] {
		return namespace.Handle{}, false, nil
	}
	return namespace.Handle{Namespace: id, Kind: kind}, true, nil
}
