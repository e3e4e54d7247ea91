package objcache

import (
	"context"
	"sync"
)

// LoadAsync is Load with the result delivered on a channel. The channel is
// buffered, receives exactly one result and is then closed.
func LoadAsync[K comparable, V any](ctx context.Context, c Cache[K, V], key K, locs Location) <-chan LoadResult[V] {
	ch := make(chan LoadResult[V], 1)
	c.Load(ctx, key, locs, func(r LoadResult[V]) {
		ch <- r
		close(ch)
	})
	return ch
}

// SaveAsync is Save with results delivered on a channel: one per requested
// tier, then the channel is closed. A None mask yields a closed channel.
func SaveAsync[K comparable, V any](ctx context.Context, c Cache[K, V], key K, value V, locs Location) <-chan Result {
	ch, deliver := fanIn[Result](locs)
	c.Save(ctx, key, value, locs, deliver)
	return ch
}

// ExistsAsync is the channel form of Exists.
func ExistsAsync[K comparable, V any](ctx context.Context, c Cache[K, V], key K, locs Location) <-chan ExistsResult {
	ch, deliver := fanIn[ExistsResult](locs)
	c.Exists(ctx, key, locs, deliver)
	return ch
}

// RemoveAsync is the channel form of Remove.
func RemoveAsync[K comparable, V any](ctx context.Context, c Cache[K, V], key K, locs Location) <-chan Result {
	ch, deliver := fanIn[Result](locs)
	c.Remove(ctx, key, locs, deliver)
	return ch
}

// fanIn returns a channel sized for one result per tier in locs and a
// callback that closes it after the last one.
func fanIn[R any](locs Location) (<-chan R, func(R)) {
	n := locs.Count()
	ch := make(chan R, n)
	if n == 0 {
		close(ch)
		return ch, func(R) {}
	}
	var (
		mu   sync.Mutex
		left = n
	)
	return ch, func(r R) {
		mu.Lock()
		defer mu.Unlock()
		if left == 0 {
			return
		}
		ch <- r
		left--
		if left == 0 {
			close(ch)
		}
	}
}
