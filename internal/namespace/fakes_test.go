package namespace

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rpggio/procboard/internal/domain/process"
)

type fakeStore struct {
	mu          sync.Mutex
	namespaces  map[string]Kind
	creates     map[string]int
	failRename  map[string]error
	failDrop    map[string]error
	createDelay time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		namespaces: make(map[string]Kind),
		creates:    make(map[string]int),
		failRename: make(map[string]error),
		failDrop:   make(map[string]error),
	}
}

func (s *fakeStore) Exists(_ context.Context, ns string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.namespaces[ns]
	return ok, nil
}

func (s *fakeStore) Create(_ context.Context, ns string, kind Kind) error {
	time.Sleep(s.createDelay)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates[ns]++
	s.namespaces[ns] = kind
	return nil
}

func (s *fakeStore) Rename(_ context.Context, from, to string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failRename[from]; err != nil {
		return err
	}
	kind, ok := s.namespaces[from]
	if !ok {
		return fmt.Errorf("no such namespace: %s", from)
	}
	if _, taken := s.namespaces[to]; taken {
		return fmt.Errorf("namespace %s already exists", to)
	}
	delete(s.namespaces, from)
	s.namespaces[to] = kind
	return nil
}

func (s *fakeStore) Drop(_ context.Context, ns string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.failDrop[ns]; err != nil {
		return err
	}
	delete(s.namespaces, ns)
	return nil
}

func (s *fakeStore) seed(ns string, kind Kind) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.namespaces[ns] = kind
}

func (s *fakeStore) has(ns string) bool {
	ok, _ := s.Exists(context.Background(), ns)
	return ok
}

func (s *fakeStore) createCount(ns string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.creates[ns]
}

// fakeRegistry matches names ignoring case, like the SQL registry.
type fakeRegistry struct {
	mu    sync.Mutex
	procs map[string]*process.Process
}

func newFakeRegistry(names ...string) *fakeRegistry {
	r := &fakeRegistry{procs: make(map[string]*process.Process)}
	for _, n := range names {
		r.put(&process.Process{ID: "id-" + n, Name: n, Status: process.StatusPending})
	}
	return r
}

func (r *fakeRegistry) put(p *process.Process) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.procs[strings.ToLower(p.Name)] = p
}

func (r *fakeRegistry) Get(_ context.Context, name string) (*process.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.procs[strings.ToLower(name)]
	if !ok {
		return nil, process.ErrProcessNotFound
	}
	cp := *p
	return &cp, nil
}

func (r *fakeRegistry) Update(_ context.Context, name string, patch process.Patch) (*process.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.procs[strings.ToLower(name)]
	if !ok {
		return nil, process.ErrProcessNotFound
	}
	updated := *p
	if patch.Name != nil {
		newName := strings.TrimSpace(*patch.Name)
		if other, taken := r.procs[strings.ToLower(newName)]; taken && other.ID != p.ID {
			return nil, process.ErrDuplicateName
		}
		updated.Name = newName
	}
	if patch.Status != nil {
		updated.Status = *patch.Status
	}
	delete(r.procs, strings.ToLower(p.Name))
	r.procs[strings.ToLower(updated.Name)] = &updated
	cp := updated
	return &cp, nil
}

func (r *fakeRegistry) Delete(_ context.Context, name string) (*process.Process, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.procs[strings.ToLower(name)]
	if !ok {
		return nil, process.ErrProcessNotFound
	}
	delete(r.procs, strings.ToLower(name))
	return p, nil
}
