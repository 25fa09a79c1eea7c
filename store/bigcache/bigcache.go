// Package bigcache provides a Store backed by allegro/bigcache. Entries from
// all generations share one cache; composite keys carry the generation name.
// BigCache evicts by age (LifeWindow), so a very stale generation can thin
// out before purge. Evicted entries surface as misses.
package bigcache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	bc "github.com/allegro/bigcache/v3"

	"github.com/unkn0wn-root/offcache/store"
)

// keySep joins generation name and entry key. Names must not contain NUL.
const keySep = "\x00"

type Store struct {
	c *bc.BigCache

	mu    sync.RWMutex
	names map[string]struct{}
}

type Config struct {
	LifeWindow         time.Duration // 0 = 30 days; generations are purged explicitly, not aged out
	CleanWindow        time.Duration
	MaxEntriesInWindow int
	MaxEntrySize       int
	HardMaxCacheSizeMB int // ~ memory limit; 0 = unlimited
}

func New(cfg Config) (*Store, error) {
	lw := cfg.LifeWindow
	if lw <= 0 {
		lw = 720 * time.Hour
	}
	conf := bc.DefaultConfig(lw)
	if cfg.CleanWindow > 0 {
		conf.CleanWindow = cfg.CleanWindow
	}
	if cfg.MaxEntriesInWindow > 0 {
		conf.MaxEntriesInWindow = cfg.MaxEntriesInWindow
	}
	if cfg.MaxEntrySize > 0 {
		conf.MaxEntrySize = cfg.MaxEntrySize
	}
	if cfg.HardMaxCacheSizeMB > 0 {
		conf.HardMaxCacheSize = cfg.HardMaxCacheSizeMB
	}
	c, err := bc.NewBigCache(conf)
	if err != nil {
		return nil, err
	}
	return &Store{c: c, names: make(map[string]struct{})}, nil
}

func (s *Store) Open(_ context.Context, name string) (store.Generation, error) {
	s.mu.Lock()
	if s.names == nil {
		s.mu.Unlock()
		return nil, store.ErrClosed
	}
	s.names[name] = struct{}{}
	s.mu.Unlock()
	return &generation{c: s.c, name: name, prefix: name + keySep}, nil
}

func (s *Store) Generations(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.names == nil {
		return nil, store.ErrClosed
	}
	names := make([]string, 0, len(s.names))
	for name := range s.names {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

func (s *Store) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	if s.names == nil {
		s.mu.Unlock()
		return store.ErrClosed
	}
	delete(s.names, name)
	s.mu.Unlock()

	// collect first: deleting mid-iteration is not safe on shard locks
	prefix := name + keySep
	var doomed []string
	it := s.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			continue
		}
		if strings.HasPrefix(e.Key(), prefix) {
			doomed = append(doomed, e.Key())
		}
	}
	for _, k := range doomed {
		if err := s.c.Delete(k); err != nil && err != bc.ErrEntryNotFound {
			return err
		}
	}
	return nil
}

func (s *Store) Close(_ context.Context) error {
	s.mu.Lock()
	if s.names == nil {
		s.mu.Unlock()
		return nil
	}
	s.names = nil
	s.mu.Unlock()
	return s.c.Close()
}

type generation struct {
	c      *bc.BigCache
	name   string
	prefix string
}

func (g *generation) Name() string { return g.name }

func (g *generation) Match(_ context.Context, key string) ([]byte, bool, error) {
	b, err := g.c.Get(g.prefix + key)
	if err == bc.ErrEntryNotFound {
		return nil, false, nil
	}
	return b, err == nil, err
}

func (g *generation) Put(_ context.Context, key string, value []byte) error {
	return g.c.Set(g.prefix+key, value)
}

func (g *generation) Keys(_ context.Context) ([]string, error) {
	var keys []string
	it := g.c.Iterator()
	for it.SetNext() {
		e, err := it.Value()
		if err != nil {
			continue
		}
		if strings.HasPrefix(e.Key(), g.prefix) {
			keys = append(keys, strings.TrimPrefix(e.Key(), g.prefix))
		}
	}
	sort.Strings(keys)
	return keys, nil
}
