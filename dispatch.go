package objcache

import "github.com/unkn0wn-root/objcache/internal/runq"

// Dispatcher runs File tier completion callbacks. Implementations must run
// every submitted func exactly once.
type Dispatcher interface {
	Dispatch(fn func())
}

// DispatcherFunc adapts a function, e.g. a GUI toolkit's "run on main loop".
type DispatcherFunc func(fn func())

func (f DispatcherFunc) Dispatch(fn func()) { f(fn) }

// Inline runs callbacks directly on the disk worker that produced them.
func Inline() Dispatcher { return DispatcherFunc(func(fn func()) { fn() }) }

// serialDispatcher is the default: one goroutine, FIFO.
type serialDispatcher struct{ q *runq.Queue }

func newSerialDispatcher() *serialDispatcher {
	return &serialDispatcher{q: runq.New(1)}
}

func (d *serialDispatcher) Dispatch(fn func()) {
	if !d.q.Submit(fn) {
		fn()
	}
}

func (d *serialDispatcher) close() { d.q.Close() }
