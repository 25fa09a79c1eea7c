// Package local provides an in-process Store backed by guarded maps.
// It is the default backend: no external services, no eviction.
package local

import (
	"context"
	"sort"
	"sync"

	"github.com/unkn0wn-root/offcache/store"
)

// Store keeps generations in-process. Safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	gens   map[string]*generation
	closed bool
}

var _ store.Store = (*Store)(nil)

func New() *Store {
	return &Store{gens: make(map[string]*generation)}
}

func (s *Store) Open(_ context.Context, name string) (store.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	g, ok := s.gens[name]
	if !ok {
		g = &generation{name: name, entries: make(map[string][]byte)}
		s.gens[name] = g
	}
	return g, nil
}

func (s *Store) Generations(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, store.ErrClosed
	}
	names := make([]string, 0, len(s.gens))
	for name := range s.gens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Delete detaches the generation. Writes through handles obtained before the
// delete still succeed but land in the detached copy, which no Open or
// Generations call can see again.
func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return store.ErrClosed
	}
	delete(s.gens, name)
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	s.closed = true
	s.gens = nil
	s.mu.Unlock()
	return nil
}

type generation struct {
	name    string
	mu      sync.RWMutex
	entries map[string][]byte
}

func (g *generation) Name() string { return g.name }

func (g *generation) Match(_ context.Context, key string) ([]byte, bool, error) {
	g.mu.RLock()
	b, ok := g.entries[key]
	g.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return b, true, nil
}

// Put copies value so later caller-side mutation cannot corrupt the entry.
func (g *generation) Put(_ context.Context, key string, value []byte) error {
	cp := make([]byte, len(value))
	copy(cp, value)
	g.mu.Lock()
	g.entries[key] = cp
	g.mu.Unlock()
	return nil
}

func (g *generation) Keys(_ context.Context) ([]string, error) {
	g.mu.RLock()
	keys := make([]string, 0, len(g.entries))
	for k := range g.entries {
		keys = append(keys, k)
	}
	g.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}
