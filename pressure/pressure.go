// Package pressure delivers memory-pressure notifications to subscribers.
//
// A Source is anything a cache can subscribe to. Signal is the in-process
// implementation; CgroupWatcher turns cgroup v2 memory.events updates into
// Signal emissions.
package pressure

import (
	"sort"
	"sync"
)

// Source delivers memory-pressure notifications. Subscribe returns a func
// that removes the subscription; calling it more than once is harmless.
type Source interface {
	Subscribe(fn func()) (unsubscribe func())
}

// Signal is a broadcast Source. The zero value is ready to use.
type Signal struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]func()
}

var _ Source = (*Signal)(nil)

// Default is the process-wide signal caches subscribe to when they are not
// given a Source of their own. Emit on it from whatever notices pressure.
var Default = NewSignal()

func NewSignal() *Signal { return &Signal{} }

func (s *Signal) Subscribe(fn func()) func() {
	s.mu.Lock()
	if s.subs == nil {
		s.subs = make(map[uint64]func())
	}
	id := s.next
	s.next++
	s.subs[id] = fn
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// Emit calls every current subscriber, in subscription order, on the
// calling goroutine, and returns how many were notified.
func (s *Signal) Emit() int {
	s.mu.Lock()
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	fns := make([]func(), 0, len(ids))
	for _, id := range ids {
		fns = append(fns, s.subs[id])
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Subscribers is the number of live subscriptions.
func (s *Signal) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}
