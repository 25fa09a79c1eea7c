// Package ristretto provides a Store backed by dgraph-io/ristretto with
// cost-based admission (cost = entry size in bytes).
//
// Ristretto cannot enumerate its contents, so each generation tracks its own
// key index. The index reflects writes, not evictions: a key evicted or
// dropped by the admission policy may still be listed by Keys while Match on
// it misses.
package ristretto

import (
	"context"
	"errors"
	"sort"
	"sync"

	rc "github.com/dgraph-io/ristretto"

	"github.com/unkn0wn-root/offcache/store"
)

const keySep = "\x00"

type Store struct {
	c *rc.Cache

	mu   sync.RWMutex
	gens map[string]*generation
}

type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64
	Metrics     bool
}

func New(cfg Config) (*Store, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 || cfg.BufferItems <= 0 {
		return nil, errors.New("ristretto: invalid config")
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Store{c: c, gens: make(map[string]*generation)}, nil
}

// Open returns the same handle for the same name so the key index is shared.
func (s *Store) Open(_ context.Context, name string) (store.Generation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.gens == nil {
		return nil, store.ErrClosed
	}
	g, ok := s.gens[name]
	if !ok {
		g = &generation{c: s.c, name: name, prefix: name + keySep, keys: make(map[string]struct{})}
		s.gens[name] = g
	}
	return g, nil
}

func (s *Store) Generations(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.gens == nil {
		return nil, store.ErrClosed
	}
	names := make([]string, 0, len(s.gens))
	for name := range s.gens {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	if s.gens == nil {
		s.mu.Unlock()
		return store.ErrClosed
	}
	g, ok := s.gens[name]
	delete(s.gens, name)
	s.mu.Unlock()
	if !ok {
		return nil
	}

	g.mu.Lock()
	for k := range g.keys {
		s.c.Del(g.prefix + k)
	}
	g.keys = make(map[string]struct{})
	g.mu.Unlock()
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	if s.gens == nil {
		s.mu.Unlock()
		return nil
	}
	s.gens = nil
	s.mu.Unlock()
	s.c.Wait()
	s.c.Close()
	return nil
}

// Metrics exposes ristretto metrics if enabled in Config (not part of store.Store).
func (s *Store) Metrics() *rc.Metrics { return s.c.Metrics }

type generation struct {
	c      *rc.Cache
	name   string
	prefix string

	mu   sync.RWMutex
	keys map[string]struct{}
}

func (g *generation) Name() string { return g.name }

func (g *generation) Match(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := g.c.Get(g.prefix + key)
	if !ok {
		return nil, false, nil
	}
	b, _ := v.([]byte)
	if b == nil {
		// self-heal: drop unexpected entry shape
		g.c.Del(g.prefix + key)
		return nil, false, nil
	}
	return b, true, nil
}

// Put ignores the admission verdict: a dropped write degrades to a later
// miss, which callers already handle.
func (g *generation) Put(_ context.Context, key string, value []byte) error {
	g.c.Set(g.prefix+key, value, int64(len(value)))
	g.mu.Lock()
	g.keys[key] = struct{}{}
	g.mu.Unlock()
	return nil
}

func (g *generation) Keys(_ context.Context) ([]string, error) {
	g.mu.RLock()
	keys := make([]string, 0, len(g.keys))
	for k := range g.keys {
		keys = append(keys, k)
	}
	g.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}
