package namespace

import (
	"slices"
	"strings"
	"sync"
)

// lockTable hands out one RWMutex per process name. Entries are reference
// counted and removed once no caller holds or waits on them, so the table
// only grows with the number of names in flight.
//
// Names are keyed case-insensitively because the stores fold identifier case.
type lockTable struct {
	mu    sync.Mutex
	locks map[string]*nameLock
}

type nameLock struct {
	sync.RWMutex
	refs int
}

func newLockTable() *lockTable {
	return &lockTable{locks: make(map[string]*nameLock)}
}

func lockKey(name string) string {
	return strings.ToLower(name)
}

func (t *lockTable) acquire(name string) *nameLock {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := lockKey(name)
	l, ok := t.locks[key]
	if !ok {
		l = &nameLock{}
		t.locks[key] = l
	}
	l.refs++
	return l
}

func (t *lockTable) release(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	key := lockKey(name)
	l := t.locks[key]
	l.refs--
	if l.refs == 0 {
		delete(t.locks, key)
	}
}

// RLock takes the shared lock for name and returns its release func.
func (t *lockTable) RLock(name string) func() {
	l := t.acquire(name)
	l.RLock()
	return func() {
		l.RUnlock()
		t.release(name)
	}
}

// Lock takes the exclusive lock for every distinct name, in lexical order
// of their keys, and returns a func releasing all of them.
func (t *lockTable) Lock(names ...string) func() {
	keys := make(map[string]string, len(names))
	for _, n := range names {
		keys[lockKey(n)] = n
	}
	ordered := make([]string, 0, len(keys))
	for k := range keys {
		ordered = append(ordered, k)
	}
	slices.Sort(ordered)

	held := make([]*nameLock, 0, len(ordered))
	for _, k := range ordered {
		l := t.acquire(keys[k])
		l.Lock()
		held = append(held, l)
	}
	return func() {
		for i := len(held) - 1; i >= 0; i-- {
			held[i].Unlock()
			t.release(keys[ordered[i]])
		}
	}
}

// size reports how many names currently have a lock entry.
func (t *lockTable) size() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.locks)
}
