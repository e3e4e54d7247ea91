package objcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/unkn0wn-root/objcache/internal/runq"
	"github.com/unkn0wn-root/objcache/internal/wire"
	"github.com/unkn0wn-root/objcache/pressure"
	pr "github.com/unkn0wn-root/objcache/provider"
	"github.com/unkn0wn-root/objcache/provider/fs"
)

type cache[K comparable, V any] struct {
	dir     string
	keyText func(K) string
	locFn   LocationFunc[K]

	mem  *memoryTier[K, V]
	file *fileTier[K, V]

	provider pr.Provider
	framer   *wire.Framer
	disk     *runq.Queue
	disp     Dispatcher
	ownDisp  *serialDispatcher // nil when the caller supplied a Dispatcher
	log      Logger
	hooks    Hooks
	promote  bool

	pmu   sync.Mutex
	src   pressure.Source
	purge bool
	unsub func()

	closed    atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

var _ Cache[string, []byte] = (*cache[string, []byte])(nil)

func newCache[K comparable, V any](opts Options[K, V]) (*cache[K, V], error) {
	c := &cache[K, V]{
		locFn:   opts.LocationFunc,
		mem:     newMemoryTier[K, V](),
		promote: opts.PromoteOnFileHit,
	}

	// defaults
	c.log = coalesce[Logger](opts.Logger, NopLogger{})
	c.hooks = coalesce[Hooks](opts.Hooks, NopHooks{})
	c.src = coalesce[pressure.Source](opts.Pressure, pressure.Default)
	c.provider = opts.Provider
	if c.provider == nil {
		c.provider = fs.New(fs.Config{})
	}
	c.keyText = opts.KeyText
	if c.keyText == nil {
		c.keyText = func(k K) string { return KeyText(k) }
	}
	tr := opts.Transformer
	if tr == nil {
		tr = DefaultTransformer[K, V]()
	}

	c.dir = opts.Dir
	if c.dir == "" {
		d, err := DefaultDir(opts.Namespace)
		if err != nil {
			return nil, err
		}
		c.dir = d
	}

	threshold := coalesce(opts.CompressThreshold, defaultCompressThreshold)
	framer, err := wire.NewFramer(threshold, opts.CompressLevel)
	if err != nil {
		return nil, fmt.Errorf("objcache: %w", err)
	}
	c.framer = framer

	c.file = &fileTier[K, V]{
		p:      c.provider,
		framer: framer,
		tr:     tr,
		locate: c.locate,
		log:    c.log,
		hooks:  c.hooks,
	}

	c.disk = runq.New(coalesce(opts.Workers, defaultWorkers))
	if opts.Dispatcher != nil {
		c.disp = opts.Dispatcher
	} else {
		c.ownDisp = newSerialDispatcher()
		c.disp = c.ownDisp
	}

	c.SetPurgeOnMemoryPressure(!opts.DisablePressurePurge)
	return c, nil
}

func (c *cache[K, V]) FileLocation(key K) string {
	if c.locFn != nil {
		if loc := c.locFn(key); loc != "" {
			return loc
		}
	}
	return StandardFileLocation(c.keyText(key), c.dir)
}

// locate is FileLocation for disk work: a panicking LocationFunc or KeyText
// becomes an ErrLocationFailure TierError.
func (c *cache[K, V]) locate(op string, key K) (loc string, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.hooks.TransformPanicked("locate", "", r)
			c.log.Warn("file location panicked", Fields{"op": op, "panic": fmt.Sprint(r)})
			loc, err = "", fileError(op, "", ErrLocationFailure, fmt.Errorf("location panicked: %v", r))
		}
	}()
	return c.FileLocation(key), nil
}

func (c *cache[K, V]) Load(ctx context.Context, key K, locs Location, done func(LoadResult[V])) {
	done = orNop(done)

	if locs.Has(Memory) {
		if v, ok := c.mem.get(key); ok {
			done(LoadResult[V]{Value: v, Found: true, Location: Memory})
			return
		}
	}
	if !locs.Has(File) {
		r := LoadResult[V]{}
		if locs.Has(Memory) {
			r.Location = Memory
		}
		done(r)
		return
	}

	c.goFile(ctx, "load", key, func(ctx context.Context) func() {
		v, ok, err := c.file.load(ctx, key)
		if err != nil {
			c.tierFailed("load", err)
		}
		if ok && c.promote && locs.Has(Memory) {
			c.mem.put(key, v)
		}
		return func() { done(LoadResult[V]{Value: v, Found: ok, Location: File, Err: err}) }
	}, func(err error) {
		done(LoadResult[V]{Location: File, Err: err})
	})
}

func (c *cache[K, V]) Save(ctx context.Context, key K, value V, locs Location, done func(Result)) {
	done = orNop(done)

	if locs.Has(Memory) {
		c.mem.put(key, value)
		done(Result{Location: Memory})
	}
	if !locs.Has(File) {
		return
	}
	c.goFile(ctx, "save", key, func(ctx context.Context) func() {
		err := c.file.save(ctx, key, value)
		if err != nil {
			c.tierFailed("save", err)
		}
		return func() { done(Result{Location: File, Err: err}) }
	}, func(err error) {
		done(Result{Location: File, Err: err})
	})
}

func (c *cache[K, V]) Exists(ctx context.Context, key K, locs Location, done func(ExistsResult)) {
	done = orNop(done)

	if locs.Has(Memory) {
		done(ExistsResult{Location: Memory, Exists: c.mem.exists(key)})
	}
	if !locs.Has(File) {
		return
	}
	c.goFile(ctx, "exists", key, func(ctx context.Context) func() {
		ok, err := c.file.exists(ctx, key)
		if err != nil {
			c.tierFailed("exists", err)
		}
		return func() { done(ExistsResult{Location: File, Exists: ok, Err: err}) }
	}, func(err error) {
		done(ExistsResult{Location: File, Err: err})
	})
}

func (c *cache[K, V]) Remove(ctx context.Context, key K, locs Location, done func(Result)) {
	done = orNop(done)

	if locs.Has(Memory) {
		c.mem.remove(key)
		done(Result{Location: Memory})
	}
	if !locs.Has(File) {
		return
	}
	c.goFile(ctx, "remove", key, func(ctx context.Context) func() {
		err := c.file.remove(ctx, key)
		if err != nil {
			c.tierFailed("remove", err)
		}
		return func() { done(Result{Location: File, Err: err}) }
	}, func(err error) {
		done(Result{Location: File, Err: err})
	})
}

// goFile runs job on the disk pool and hands the callback it returns to the
// dispatcher. Once the cache is closed, closed is called synchronously with
// an ErrClosed TierError instead.
func (c *cache[K, V]) goFile(ctx context.Context, op string, key K, job func(context.Context) func(), closed func(error)) {
	if !c.closed.Load() {
		ctx = context.WithoutCancel(ctx)
		if c.disk.Submit(func() { c.disp.Dispatch(job(ctx)) }) {
			return
		}
	}
	loc, _ := c.locate(op, key)
	closed(fileError(op, loc, ErrClosed, nil))
}

func (c *cache[K, V]) tierFailed(op string, err error) {
	var te *TierError
	if !errors.As(err, &te) {
		return
	}
	c.hooks.TierFailed(op, te.Location, te.StorageKey, err)
	c.log.Debug("tier operation failed", Fields{"op": op, "tier": te.Location.String(), "location": te.StorageKey, "err": err})
}

func (c *cache[K, V]) ClearMemory() int {
	n := c.mem.clear()
	c.hooks.MemoryCleared(n, "explicit")
	return n
}

func (c *cache[K, V]) onPressure() {
	n := c.mem.clear()
	c.hooks.MemoryCleared(n, "pressure")
	c.log.Debug("memory tier purged on pressure", Fields{"entries": n})
}

func (c *cache[K, V]) SetPurgeOnMemoryPressure(on bool) {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	c.purge = on
	switch {
	case on && c.unsub == nil && c.src != nil && !c.closed.Load():
		c.unsub = c.src.Subscribe(c.onPressure)
	case !on && c.unsub != nil:
		c.unsub()
		c.unsub = nil
	}
}

func (c *cache[K, V]) PurgesOnMemoryPressure() bool {
	c.pmu.Lock()
	defer c.pmu.Unlock()
	return c.purge
}

// Close stops the pressure subscription, finishes queued disk work and its
// callbacks, then releases the provider. Memory operations keep working.
func (c *cache[K, V]) Close(ctx context.Context) error {
	c.closeOnce.Do(func() {
		c.closed.Store(true)

		c.pmu.Lock()
		if c.unsub != nil {
			c.unsub()
			c.unsub = nil
		}
		c.pmu.Unlock()

		c.disk.Close()
		if c.ownDisp != nil {
			c.ownDisp.close()
		}
		c.framer.Close()
		c.closeErr = c.provider.Close(ctx)
		c.log.Info("cache closed", Fields{"dir": c.dir, "memoryEntries": c.mem.len()})
	})
	return c.closeErr
}

func orNop[R any](fn func(R)) func(R) {
	if fn == nil {
		return func(R) {}
	}
	return fn
}
