package objcache

import (
	"context"

	"github.com/unkn0wn-root/objcache/pressure"
	pr "github.com/unkn0wn-root/objcache/provider"
)

// Cache is a two-tier object cache. Every operation takes the set of tiers
// it should touch; tiers are visited Memory first, then File.
//
// Memory results are delivered synchronously, before the call returns.
// File results are delivered on the Dispatcher once the disk work is done.
// A nil callback is allowed.
type Cache[K comparable, V any] interface {
	// Load calls done exactly once: with the Memory hit if there is one,
	// otherwise with the File outcome, otherwise with Found=false.
	Load(ctx context.Context, key K, locs Location, done func(LoadResult[V]))

	// Save, Exists and Remove call done once per requested tier.
	Save(ctx context.Context, key K, value V, locs Location, done func(Result))
	Exists(ctx context.Context, key K, locs Location, done func(ExistsResult))
	Remove(ctx context.Context, key K, locs Location, done func(Result))

	// ClearMemory empties the Memory tier and returns the number of entries dropped.
	ClearMemory() int
	SetPurgeOnMemoryPressure(on bool)
	PurgesOnMemoryPressure() bool

	// FileLocation is the storage location the File tier uses for key.
	FileLocation(key K) string

	Close(ctx context.Context) error
}

// LocationFunc maps a key to a File tier storage location. Returning ""
// selects the standard location.
type LocationFunc[K comparable] func(key K) string

// Options configure a Cache. The zero value is usable: files go under the
// user cache directory and values are stored as CBOR.
type Options[K comparable, V any] struct {
	Namespace string // subdirectory of the default container; "" => "default"
	Dir       string // container directory; overrides the default one

	Provider     pr.Provider       // nil => filesystem provider
	Transformer  Transformer[K, V] // nil => CBOR
	LocationFunc LocationFunc[K]   // nil => standard location
	KeyText      func(K) string    // nil => KeyText

	Logger     Logger     // if nil, NopLogger is used
	Hooks      Hooks      // if nil, NopHooks is used
	Dispatcher Dispatcher // nil => one owned goroutine, FIFO
	Workers    int        // disk goroutines; 0 => 4

	Pressure             pressure.Source // nil => pressure.Default
	DisablePressurePurge bool            // default false (purge on pressure)
	PromoteOnFileHit     bool            // copy File hits into Memory when Memory was requested

	CompressThreshold int // zstd for payloads >= this; 0 => 1024, <0 => never
	CompressLevel     int // zstd level; 0 => library default
}

func New[K comparable, V any](opts Options[K, V]) (Cache[K, V], error) {
	return newCache[K, V](opts)
}
