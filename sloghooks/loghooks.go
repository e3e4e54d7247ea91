// Package sloghooks logs objcache hook events through log/slog.
package sloghooks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/objcache"
	pr "github.com/unkn0wn-root/objcache/provider"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	TierFailedEvery uint64
	// Optional storage-key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	tierFailedCtr atomic.Uint64
}

var _ objcache.Hooks = (*Hooks)(nil)

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

func (h *Hooks) MemoryCleared(entries int, reason string) {
	if h.l == nil {
		return
	}
	h.l.Info("objcache.memory_cleared",
		"entries", entries,
		"reason", reason)
}

// TierFailed logs writes refused by a volatile store at Debug; everything
// else at Warn.
func (h *Hooks) TierFailed(op string, tier objcache.Location, storageKey string, err error) {
	if h.l == nil || !sample(h.opts.TierFailedEvery, &h.tierFailedCtr) {
		return
	}
	level := slog.LevelWarn
	if errors.Is(err, pr.ErrRejected) {
		level = slog.LevelDebug
	}
	h.l.Log(context.Background(), level, "objcache.tier_failed",
		"op", op,
		"tier", tier.String(),
		"key", h.redact(storageKey),
		"err", err)
}

func (h *Hooks) TransformPanicked(op, storageKey string, recovered any) {
	if h.l == nil {
		return
	}
	h.l.Error("objcache.transform_panicked",
		"op", op,
		"key", h.redact(storageKey),
		"panic", recovered)
}
