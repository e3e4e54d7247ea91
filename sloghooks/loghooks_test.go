package sloghooks

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/unkn0wn-root/objcache"
	pr "github.com/unkn0wn-root/objcache/provider"
)

func newBufLogger(level slog.Level) (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: level})), &buf
}

func TestTierFailedRedactsKey(t *testing.T) {
	l, buf := newBufLogger(slog.LevelDebug)
	h := New(l, Options{})

	h.TierFailed("save", objcache.File, "/home/me/.cache/objcache/secret", errors.New("disk full"))
	out := buf.String()
	if strings.Contains(out, "secret") {
		t.Fatalf("storage key leaked: %q", out)
	}
	if !strings.Contains(out, "level=WARN") || !strings.Contains(out, "op=save") || !strings.Contains(out, "tier=file") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestTierFailedRejectedIsDebug(t *testing.T) {
	l, buf := newBufLogger(slog.LevelInfo)
	h := New(l, Options{Redact: func(s string) string { return s }})
	h.TierFailed("save", objcache.File, "k", errors.Join(pr.ErrRejected, errors.New("too big")))
	if buf.Len() != 0 {
		t.Fatalf("rejected write logged above debug: %q", buf.String())
	}
}

func TestTierFailedSampling(t *testing.T) {
	l, buf := newBufLogger(slog.LevelDebug)
	h := New(l, Options{TierFailedEvery: 3})
	for i := 0; i < 9; i++ {
		h.TierFailed("load", objcache.File, "k", errors.New("x"))
	}
	if n := strings.Count(buf.String(), "objcache.tier_failed"); n != 3 {
		t.Fatalf("logged %d of 9, want 3", n)
	}
}

func TestMemoryClearedAndPanics(t *testing.T) {
	l, buf := newBufLogger(slog.LevelDebug)
	h := New(l, Options{})
	h.MemoryCleared(5, "pressure")
	h.TransformPanicked("decode", "k", "boom")

	out := buf.String()
	if !strings.Contains(out, "entries=5") || !strings.Contains(out, "reason=pressure") {
		t.Fatalf("memory_cleared line missing: %q", out)
	}
	if !strings.Contains(out, "level=ERROR") || !strings.Contains(out, "panic=boom") {
		t.Fatalf("transform_panicked line missing: %q", out)
	}
}

func TestNilLoggerIsSilent(t *testing.T) {
	h := New(nil, Options{})
	h.MemoryCleared(1, "explicit")
	h.TierFailed("load", objcache.File, "k", errors.New("x"))
	h.TransformPanicked("encode", "k", 1)
}
