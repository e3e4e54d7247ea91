package asynchook

import (
	"errors"
	"sync"
	"testing"

	"github.com/unkn0wn-root/objcache"
)

type countHooks struct {
	mu      sync.Mutex
	cleared int
	failed  int
	panics  int
	block   chan struct{}
}

func (c *countHooks) MemoryCleared(int, string) {
	if c.block != nil {
		<-c.block
	}
	c.mu.Lock()
	c.cleared++
	c.mu.Unlock()
}

func (c *countHooks) TierFailed(string, objcache.Location, string, error) {
	c.mu.Lock()
	c.failed++
	c.mu.Unlock()
}

func (c *countHooks) TransformPanicked(string, string, any) {
	c.mu.Lock()
	c.panics++
	c.mu.Unlock()
}

func TestForwardsAllEventsBeforeClose(t *testing.T) {
	inner := &countHooks{}
	h := New(inner, 2, 64)
	for i := 0; i < 10; i++ {
		h.MemoryCleared(i, "explicit")
		h.TierFailed("load", objcache.File, "k", errors.New("x"))
	}
	h.TransformPanicked("encode", "k", "boom")
	h.Close()

	if inner.cleared != 10 || inner.failed != 10 || inner.panics != 1 {
		t.Fatalf("forwarded cleared=%d failed=%d panics=%d", inner.cleared, inner.failed, inner.panics)
	}
	if h.Dropped() != 0 {
		t.Fatalf("dropped %d events with room in the queue", h.Dropped())
	}
}

func TestDropsWhenQueueFull(t *testing.T) {
	inner := &countHooks{block: make(chan struct{})}
	h := New(inner, 1, 1)

	h.MemoryCleared(1, "a") // taken by the worker, which then blocks
	for i := 0; i < 50; i++ {
		h.TierFailed("save", objcache.File, "k", nil)
	}
	if h.Dropped() == 0 {
		t.Fatalf("expected drops with a blocked worker and queue of 1")
	}
	close(inner.block)
	h.Close()
}

func TestAfterCloseIsDroppedNotPanicking(t *testing.T) {
	h := New(&countHooks{}, 1, 4)
	h.Close()
	h.Close()
	h.MemoryCleared(1, "explicit")
	if h.Dropped() != 1 {
		t.Fatalf("Dropped = %d, want 1", h.Dropped())
	}
}
