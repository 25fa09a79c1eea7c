package sloghooks

import (
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/offcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	StoredEvery   uint64
	RejectEvery   uint64
	FallbackEvery uint64
	// Optional key redactor for URLs whose query strings carry secrets.
	// Defaults to logging keys verbatim.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	storedCtr   atomic.Uint64
	rejectCtr   atomic.Uint64
	fallbackCtr atomic.Uint64
}

var _ offcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	return k
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) SnapshotStored(key string, size int) {
	if h.l == nil || !sample(h.opts.StoredEvery, &h.storedCtr) {
		return
	}
	h.l.Debug("offcache.snapshot_stored",
		"key", h.redact(key),
		"size", size)
}

func (h *Hooks) SnapshotRejected(key, reason string) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Info("offcache.snapshot_rejected",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) StoreWriteFailed(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("offcache.store_write_failed",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) EntrySkipped(key, reason string) {
	if h.l == nil {
		return
	}
	h.l.Warn("offcache.entry_skipped",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) FallbackServed(key, source string) {
	if h.l == nil || !sample(h.opts.FallbackEvery, &h.fallbackCtr) {
		return
	}
	h.l.Info("offcache.fallback_served",
		"key", h.redact(key),
		"source", source)
}

func (h *Hooks) InstallAborted(version, seed string, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("offcache.install_aborted",
		"version", version,
		"seed", seed,
		"err", err)
}

func (h *Hooks) GenerationActivated(version string) {
	if h.l == nil {
		return
	}
	h.l.Info("offcache.generation_activated",
		"version", version)
}

func (h *Hooks) GenerationPurged(name string) {
	if h.l == nil {
		return
	}
	h.l.Info("offcache.generation_purged",
		"gen", name)
}

func (h *Hooks) PurgeFailed(name string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("offcache.purge_failed",
		"gen", name,
		"err", err)
}
