// Package redis provides a Store backed by Redis, for cache state shared
// across processes. Each generation is a hash; live generation names are
// tracked in a set so enumeration does not need SCAN.
package redis

import (
	"context"
	"errors"
	"sort"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/offcache/store"
)

var ErrNilClient = errors.New("redis store: nil client")

const defaultNamespace = "offcache"

type Redis struct {
	rdb         goredis.UniversalClient
	ns          string
	closeClient bool
}

var _ store.Store = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	Namespace   string // key prefix; defaults to "offcache"
	CloseClient bool   // set true only if this store exclusively owns the client
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	ns := cfg.Namespace
	if ns == "" {
		ns = defaultNamespace
	}
	return &Redis{rdb: cfg.Client, ns: ns, closeClient: cfg.CloseClient}, nil
}

func (s *Redis) genKey(name string) string { return s.ns + ":gen:" + name }
func (s *Redis) indexKey() string          { return s.ns + ":gens" }

func (s *Redis) Open(ctx context.Context, name string) (store.Generation, error) {
	if err := s.rdb.SAdd(ctx, s.indexKey(), name).Err(); err != nil {
		return nil, err
	}
	return &generation{rdb: s.rdb, name: name, hash: s.genKey(name)}, nil
}

func (s *Redis) Generations(ctx context.Context) ([]string, error) {
	names, err := s.rdb.SMembers(ctx, s.indexKey()).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the generation hash and its index entry atomically so a
// crashed purge never leaves a name pointing at surviving data.
func (s *Redis) Delete(ctx context.Context, name string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, s.genKey(name))
	pipe.SRem(ctx, s.indexKey(), name)
	_, err := pipe.Exec(ctx)
	return err
}

// Close releases the underlying redis client only when this store owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		if err := s.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}

type generation struct {
	rdb  goredis.UniversalClient
	name string
	hash string
}

func (g *generation) Name() string { return g.name }

func (g *generation) Match(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := g.rdb.HGet(ctx, g.hash, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (g *generation) Put(ctx context.Context, key string, value []byte) error {
	return g.rdb.HSet(ctx, g.hash, key, value).Err()
}

func (g *generation) Keys(ctx context.Context) ([]string, error) {
	keys, err := g.rdb.HKeys(ctx, g.hash).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(keys)
	return keys, nil
}
