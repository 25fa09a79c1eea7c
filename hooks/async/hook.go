// usage:
//
// import (
//
//	"log/slog"
//
//	"github.com/unkn0wn-root/offcache"
//	"github.com/unkn0wn-root/offcache/hooks/async"
//	"github.com/unkn0wn-root/offcache/sloghooks"
//
// )
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    StoredEvery:   100, // sample logs: ~every 100th stored snapshot
//	    FallbackEvery: 1,   // log every fallback
//	})
//
// hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
// defer hooks.Close()
//
//	oc, _ := offcache.New(offcache.Options{
//	    Version: "v42",
//	    Origin:  "https://app.example.com",
//	    Seeds:   []string{"/", "/manifest.json"},
//	    Hooks:   hooks, // or `raw` if you don’t want async
//	})
package asynchook

import (
	"sync"

	"github.com/unkn0wn-root/offcache"
)

type Hooks struct {
	inner offcache.Hooks
	q     chan func()
	wg    sync.WaitGroup
	once  sync.Once
}

var _ offcache.Hooks = (*Hooks)(nil)

func New(inner offcache.Hooks, workers, qlen int) *Hooks {
	if workers <= 0 {
		workers = 1
	}
	if qlen <= 0 {
		qlen = 1024
	}

	h := &Hooks{inner: inner, q: make(chan func(), qlen)}
	h.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer h.wg.Done()
			for f := range h.q {
				f()
			}
		}()
	}
	return h
}

func (h *Hooks) Close() {
	h.once.Do(func() {
		close(h.q)
		h.wg.Wait()
	})
}

func (h *Hooks) try(f func()) {
	select {
	case h.q <- f:
	default: // drop
	}
}

func (h *Hooks) SnapshotStored(k string, n int)     { h.try(func() { h.inner.SnapshotStored(k, n) }) }
func (h *Hooks) SnapshotRejected(k, r string)       { h.try(func() { h.inner.SnapshotRejected(k, r) }) }
func (h *Hooks) EntrySkipped(k, r string)           { h.try(func() { h.inner.EntrySkipped(k, r) }) }
func (h *Hooks) FallbackServed(k, s string)         { h.try(func() { h.inner.FallbackServed(k, s) }) }
func (h *Hooks) GenerationActivated(v string)       { h.try(func() { h.inner.GenerationActivated(v) }) }
func (h *Hooks) GenerationPurged(n string)          { h.try(func() { h.inner.GenerationPurged(n) }) }
func (h *Hooks) StoreWriteFailed(k string, e error) { h.try(func() { h.inner.StoreWriteFailed(k, e) }) }
func (h *Hooks) PurgeFailed(n string, e error)      { h.try(func() { h.inner.PurgeFailed(n, e) }) }
func (h *Hooks) InstallAborted(v, s string, e error) {
	h.try(func() { h.inner.InstallAborted(v, s, e) })
}
