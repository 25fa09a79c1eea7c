package offcache

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/unkn0wn-root/offcache/codec"
	"github.com/unkn0wn-root/offcache/internal/util"
	"github.com/unkn0wn-root/offcache/store"
	"github.com/unkn0wn-root/offcache/store/local"
)

// Cache intercepts outbound requests and applies the Bypass/API/Asset
// strategies. Exactly one response is returned per request; cache population
// is fire-and-forget and never blocks the response path.
type Cache struct {
	origin     *url.URL
	originHost string
	apiPrefix  string
	shellKey   string
	transport  http.RoundTripper
	store      store.Store
	codec      codec.Codec[Entry]
	log        Logger
	hooks      Hooks
	enabled    bool
	maxBytes   int64 // per-entry snapshot cap; 0 = unlimited

	lc *Lifecycle

	writeMu   sync.RWMutex
	closed    bool
	writeWg   sync.WaitGroup
	closeOnce sync.Once
	closeErr  error
}

var _ http.RoundTripper = (*Cache)(nil)

func newCache(opts Options) (*Cache, error) {
	if opts.Version == "" {
		return nil, fmt.Errorf("offcache: version is required")
	}
	if opts.Origin == "" {
		return nil, fmt.Errorf("offcache: origin is required")
	}
	origin, err := url.Parse(opts.Origin)
	if err != nil {
		return nil, fmt.Errorf("offcache: parse origin: %w", err)
	}
	if (origin.Scheme != "http" && origin.Scheme != "https") || origin.Host == "" {
		return nil, fmt.Errorf("offcache: origin must be an absolute http(s) URL")
	}

	c := &Cache{
		origin:     origin,
		originHost: util.CanonicalHost(origin.Scheme, origin.Host),
		enabled:    !opts.Disabled,
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.transport = coalesce[http.RoundTripper](opts.Transport, http.DefaultTransport)
	c.codec = coalesce[codec.Codec[Entry]](opts.Codec, WireCodec{})
	c.apiPrefix = coalesce(opts.APIPrefix, DefaultAPIPrefix)

	switch {
	case opts.MaxSnapshotBytes == 0:
		c.maxBytes = DefaultMaxSnapshotBytes
	case opts.MaxSnapshotBytes < 0:
		c.maxBytes = 0 // unlimited
	default:
		c.maxBytes = opts.MaxSnapshotBytes
	}

	if opts.Store != nil {
		c.store = opts.Store
	} else {
		// default to in-process generations
		c.store = local.New()
	}

	shell := coalesce(opts.ShellPath, DefaultShellPath)
	shellURL, err := url.Parse(shell)
	if err != nil {
		return nil, fmt.Errorf("offcache: parse shell path: %w", err)
	}
	c.shellKey = util.RequestKey(http.MethodGet, origin.ResolveReference(shellURL))

	c.lc = &Lifecycle{
		c:       c,
		version: opts.Version,
		seeds:   append([]string(nil), opts.Seeds...),
	}
	return c, nil
}

func (c *Cache) Enabled() bool { return c.enabled }

// Lifecycle returns the object owning the active-generation identity.
// Call its Install and Activate on deploy.
func (c *Cache) Lifecycle() *Lifecycle { return c.lc }

// Client returns an *http.Client whose requests route through the cache.
func (c *Cache) Client() *http.Client {
	return &http.Client{Transport: c}
}

// RoundTrip answers every request exactly once: forwarded untouched
// (Bypass), network-or-synthetic (API), or network-first with cache fallback
// (Asset). Transport errors escape to the caller only on the Bypass path.
func (c *Cache) RoundTrip(req *http.Request) (*http.Response, error) {
	if !c.enabled {
		return c.transport.RoundTrip(req)
	}
	switch c.classify(req) {
	case modeAPI:
		return c.apiRoundTrip(req)
	case modeAsset:
		return c.assetRoundTrip(req)
	default:
		return c.transport.RoundTrip(req)
	}
}

// lookup reads key from the active generation. Store errors and corrupt
// entries degrade to a miss; the strategies never see a read failure.
func (c *Cache) lookup(ctx context.Context, key string) (Entry, string, bool) {
	ag := c.lc.activeSnapshot()
	if ag == nil {
		return Entry{}, "", false
	}
	raw, ok, err := ag.gen.Match(ctx, key)
	if err != nil {
		c.log.Warn("cache read error", Fields{"key": key, "gen": ag.name, "err": err})
		c.hooks.EntrySkipped(key, "read_error")
		return Entry{}, "", false
	}
	if !ok {
		return Entry{}, "", false
	}
	e, err := c.codec.Decode(raw)
	if err != nil {
		c.log.Warn("corrupt cache entry", Fields{"key": key, "gen": ag.name, "err": err})
		c.hooks.EntrySkipped(key, "corrupt")
		return Entry{}, "", false
	}
	return e, ag.name, true
}

// storeAsync hands the snapshot to a background writer. The write is
// detached from the request context: a caller gone right after the response
// was served must not abort population.
func (c *Cache) storeAsync(ctx context.Context, key string, e Entry) {
	ag := c.lc.activeSnapshot()
	if ag == nil {
		return
	}
	c.writeMu.RLock()
	if c.closed {
		c.writeMu.RUnlock()
		return
	}
	c.writeWg.Add(1)
	c.writeMu.RUnlock()

	ctx = context.WithoutCancel(ctx)
	go func() {
		defer c.writeWg.Done()
		raw, err := c.codec.Encode(e)
		if err != nil {
			c.log.Error("snapshot encode failed", Fields{"key": key, "err": err})
			c.hooks.StoreWriteFailed(key, err)
			return
		}
		if err := ag.gen.Put(ctx, key, raw); err != nil {
			c.log.Warn("cache write failed", Fields{"key": key, "gen": ag.name, "err": err})
			c.hooks.StoreWriteFailed(key, err)
			return
		}
		c.log.Debug("snapshot stored", Fields{"key": key, "gen": ag.name, "size": len(raw)})
		c.hooks.SnapshotStored(key, len(raw))
	}()
}

// Close drains in-flight background writes, then closes the store.
// Subsequent calls return the first result.
func (c *Cache) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.writeMu.Lock()
		c.closed = true
		c.writeMu.Unlock()
		c.writeWg.Wait()
		c.closeErr = c.store.Close(ctx)
	})
	return c.closeErr
}
