package sloghook

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/duocache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	HitEvery     uint64
	InvalidEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	hitCtr     atomic.Uint64
	invalidCtr atomic.Uint64
}

var _ duocache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) CacheHit(key string) {
	if h.l == nil || !sample(h.opts.HitEvery, &h.hitCtr) {
		return
	}
	h.l.Debug("duocache.cache_hit",
		"key", h.redact(key))
}

func (h *Hooks) CacheInvalid(key, reason string) {
	if h.l == nil || !sample(h.opts.InvalidEvery, &h.invalidCtr) {
		return
	}
	h.l.Debug("duocache.cache_invalid",
		"key", h.redact(key),
		"reason", reason)
}

func (h *Hooks) CacheInconsistent(key string, err error) {
	if h.l == nil {
		return
	}
	h.l.Warn("duocache.cache_inconsistent",
		"key", h.redact(key),
		"err", err)
}

func (h *Hooks) InvalidateOutage(key string, valueErr, policyErr error) {
	if h.l == nil {
		return
	}
	h.l.Error("duocache.invalidate_outage",
		"key", h.redact(key),
		"value_err", valueErr,
		"policy_err", policyErr)
}

func (h *Hooks) PersistFailure(key string, valueErr, policyErr error) {
	if h.l == nil {
		return
	}
	h.l.Warn("duocache.persist_failure",
		"key", h.redact(key),
		"value_err", valueErr,
		"policy_err", policyErr)
}
