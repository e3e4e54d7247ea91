// Package runq runs submitted funcs on a fixed set of goroutines.
//
// Unlike hooks/async, Submit never drops work and never blocks: the queue is
// unbounded. With one worker, funcs run one at a time in submission order.
package runq

import "sync"

type Queue struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []func()
	closed bool
	wg     sync.WaitGroup
}

func New(workers int) *Queue {
	if workers <= 0 {
		workers = 1
	}
	q := &Queue{}
	q.cond = sync.NewCond(&q.mu)
	q.wg.Add(workers)
	for i := 0; i < workers; i++ {
		go q.loop()
	}
	return q
}

// Submit enqueues f. It returns false if the queue is closed; f is then not
// run.
func (q *Queue) Submit(f func()) bool {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return false
	}
	q.items = append(q.items, f)
	q.mu.Unlock()
	q.cond.Signal()
	return true
}

// Close stops accepting work, runs everything already queued and waits for
// the workers to exit. Safe to call more than once.
func (q *Queue) Close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
	q.wg.Wait()
}

// Len is the number of queued funcs not yet picked up by a worker.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}

func (q *Queue) loop() {
	defer q.wg.Done()
	for {
		q.mu.Lock()
		for len(q.items) == 0 && !q.closed {
			q.cond.Wait()
		}
		if len(q.items) == 0 { // closed and drained
			q.mu.Unlock()
			return
		}
		f := q.items[0]
		q.items[0] = nil
		q.items = q.items[1:]
		q.mu.Unlock()

		f()
	}
}
