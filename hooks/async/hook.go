// usage:
//
//	raw := sloghooks.New(slog.Default(), sloghooks.Options{
//	    TierFailedEvery: 10, // sample logs: ~every 10th tier failure
//	})
//
//	hooks := asynchook.New(raw, 1, 1000) // 1 worker; queue 1000 events
//	defer hooks.Close()
//
//	cache, _ := objcache.New[string, User](objcache.Options[string, User]{
//	    Namespace: "users",
//	    Hooks:     hooks, // or `raw` if you don't want async
//	})
package asynchook

import (
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/objcache"
)

// Hooks forwards events to inner on worker goroutines. Events that do not
// fit in the queue are dropped and counted.
type Hooks struct {
	inner objcache.Hooks
	q     chan func()
	wg    sync.WaitGroup

	mu      sync.RWMutex
	closed  bool
	dropped atomic.Uint64
}

var _ objcache.Hooks = (*Hooks)(nil)

func New(inner objcache.Hooks, workers, qlen int) *Hooks {
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

// Close delivers queued events and stops the workers. Events after Close are dropped.
func (h *Hooks) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	close(h.q)
	h.mu.Unlock()
	h.wg.Wait()
}

// Dropped is the number of events discarded so far.
func (h *Hooks) Dropped() uint64 { return h.dropped.Load() }

func (h *Hooks) try(f func()) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.closed {
		h.dropped.Add(1)
		return
	}
	select {
	case h.q <- f:
	default:
		h.dropped.Add(1)
	}
}

func (h *Hooks) MemoryCleared(n int, r string) { h.try(func() { h.inner.MemoryCleared(n, r) }) }
func (h *Hooks) TierFailed(op string, tier objcache.Location, k string, err error) {
	h.try(func() { h.inner.TierFailed(op, tier, k, err) })
}
func (h *Hooks) TransformPanicked(op, k string, v any) {
	h.try(func() { h.inner.TransformPanicked(op, k, v) })
}
