package promhooks

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/unkn0wn-root/objcache"
	pr "github.com/unkn0wn-root/objcache/provider"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	h, err := New(reg, "test")
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	h.MemoryCleared(3, "pressure")
	h.MemoryCleared(2, "pressure")
	h.MemoryCleared(1, "explicit")
	h.TierFailed("save", objcache.File, "k", errors.Join(pr.ErrRejected, errors.New("full")))
	h.TierFailed("save", objcache.File, "k", errors.New("eio"))
	h.TierFailed("load", objcache.File, "k", errors.New("eio"))
	h.TransformPanicked("decode", "k", "boom")

	if got := testutil.ToFloat64(h.cleared.WithLabelValues("pressure")); got != 2 {
		t.Fatalf("pressure clears = %v, want 2", got)
	}
	if got := testutil.ToFloat64(h.clearedEntries.WithLabelValues("pressure")); got != 5 {
		t.Fatalf("pressure entries = %v, want 5", got)
	}
	if got := testutil.ToFloat64(h.failed.WithLabelValues("save", "file", "true")); got != 1 {
		t.Fatalf("rejected saves = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.failed.WithLabelValues("save", "file", "false")); got != 1 {
		t.Fatalf("failed saves = %v, want 1", got)
	}
	if got := testutil.ToFloat64(h.panicked.WithLabelValues("decode")); got != 1 {
		t.Fatalf("decode panics = %v, want 1", got)
	}
}

func TestDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	if _, err := New(reg, "dup"); err != nil {
		t.Fatalf("first New: %v", err)
	}
	if _, err := New(reg, "dup"); err == nil {
		t.Fatalf("expected AlreadyRegistered error")
	}
}
