package offcache

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"

	"github.com/unkn0wn-root/offcache/internal/util"
	"github.com/unkn0wn-root/offcache/store"
)

// Lifecycle owns the active-generation identity. Install seeds a fresh
// generation; Activate purges every other generation and routes subsequent
// lookups and writes through the new one. Exactly one generation is active
// at a time; before the first Activate nothing is active and every lookup
// misses.
type Lifecycle struct {
	c       *Cache
	version string
	seeds   []string

	active atomic.Pointer[activeGen]
}

// activeGen pins a generation name to its open handle so readers always see
// a consistent pair.
type activeGen struct {
	name string
	gen  store.Generation
}

// Version returns the generation name this lifecycle installs and activates.
func (l *Lifecycle) Version() string { return l.version }

// Active returns the name of the generation currently in control, or "" if
// none has been activated yet.
func (l *Lifecycle) Active() string {
	if ag := l.active.Load(); ag != nil {
		return ag.name
	}
	return ""
}

func (l *Lifecycle) activeSnapshot() *activeGen { return l.active.Load() }

// Install fetches every seed over the network and stores the snapshots in a
// newly opened generation named after Version. All-or-nothing: the first
// failing seed aborts the whole install and tears the generation down, so a
// partial seed set never becomes activatable. The previous generation, if
// any, stays in control. A successful Install makes the generation eligible
// for immediate Activate.
func (l *Lifecycle) Install(ctx context.Context) error {
	c := l.c
	gen, err := c.store.Open(ctx, l.version)
	if err != nil {
		return &InstallError{Version: l.version, Err: err}
	}

	for _, seed := range l.seeds {
		if ierr := l.installSeed(ctx, gen, seed); ierr != nil {
			if cerr := c.store.Delete(ctx, l.version); cerr != nil {
				ierr.CleanupErr = cerr
			}
			c.log.Error("install aborted", Fields{"version": l.version, "seed": ierr.Seed, "err": ierr})
			c.hooks.InstallAborted(l.version, ierr.Seed, ierr)
			return ierr
		}
	}
	c.log.Info("generation installed", Fields{"version": l.version, "seeds": len(l.seeds)})
	return nil
}

// installSeed fetches one seed through the inner transport. Lookups and
// synthetic fallbacks never apply here: a seed must come from the network or
// fail the install.
func (l *Lifecycle) installSeed(ctx context.Context, gen store.Generation, seed string) *InstallError {
	c := l.c
	u, err := url.Parse(seed)
	if err != nil {
		return &InstallError{Version: l.version, Seed: seed, Err: err}
	}
	target := c.origin.ResolveReference(u)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return &InstallError{Version: l.version, Seed: seed, Err: err}
	}
	resp, err := c.transport.RoundTrip(req)
	if err != nil {
		return &InstallError{Version: l.version, Seed: seed, Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return &InstallError{Version: l.version, Seed: seed, Status: resp.StatusCode}
	}
	body, more, err := readLimited(resp.Body, c.maxBytes)
	resp.Body.Close()
	if err != nil {
		return &InstallError{Version: l.version, Seed: seed, Err: err}
	}
	if more {
		return &InstallError{Version: l.version, Seed: seed, Err: fmt.Errorf("body exceeds %d bytes", c.maxBytes)}
	}

	e := Entry{Status: resp.StatusCode, Header: resp.Header.Clone(), Body: body}
	raw, err := c.codec.Encode(e)
	if err != nil {
		return &InstallError{Version: l.version, Seed: seed, Err: err}
	}
	if err := gen.Put(ctx, util.RequestKey(http.MethodGet, target), raw); err != nil {
		return &InstallError{Version: l.version, Seed: seed, Err: err}
	}
	return nil
}

// Activate deletes every generation whose name differs from Version, then
// takes control without waiting for in-flight requests. Purge failures are
// logged and hooked but do not block activation; a surviving stale
// generation is retried on the next install/activate cycle. Activate does
// not verify Install ran: activating a never-installed version claims an
// empty generation that serves no fallbacks.
func (l *Lifecycle) Activate(ctx context.Context) error {
	c := l.c
	gen, err := c.store.Open(ctx, l.version)
	if err != nil {
		return fmt.Errorf("offcache: activate %q: %w", l.version, err)
	}

	names, err := c.store.Generations(ctx)
	if err != nil {
		c.log.Warn("generation listing failed; stale generations kept", Fields{"version": l.version, "err": err})
	}
	for _, name := range names {
		if name == l.version {
			continue
		}
		if err := c.store.Delete(ctx, name); err != nil {
			c.log.Warn("purge failed", Fields{"gen": name, "err": err})
			c.hooks.PurgeFailed(name, err)
			continue
		}
		c.log.Info("generation purged", Fields{"gen": name})
		c.hooks.GenerationPurged(name)
	}

	l.active.Store(&activeGen{name: l.version, gen: gen})
	c.log.Info("generation activated", Fields{"version": l.version})
	c.hooks.GenerationActivated(l.version)
	return nil
}
