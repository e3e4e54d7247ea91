// Package provider defines the byte store behind objcache's File tier.
//
// Keys are storage locations produced by objcache (by default
// "<container>/<sha1-hex>"), or by a caller-supplied location func.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly
// the []byte previously passed to Set for a key. objcache frames and
// optionally compresses values itself; stores must not add their own
// metadata to the returned bytes.
package provider

import (
	"context"
	"errors"
)

// ErrRejected is returned by Set when a volatile store refuses a write
// (admission policy, entry too large).
var ErrRejected = errors.New("provider: write rejected")

// Provider is a minimal persistent byte store. Must be safe for concurrent
// use. No TTLs, no eviction contract.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key, replacing any previous value and creating
	// whatever containers (directories) the key needs.
	Set(ctx context.Context, key string, value []byte) error

	// Has reports presence without reading or validating the value.
	Has(ctx context.Context, key string) (bool, error)

	// Del removes key. A missing key is not an error.
	Del(ctx context.Context, key string) error

	// Close releases resources.
	Close(ctx context.Context) error
}
