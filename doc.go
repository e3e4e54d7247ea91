// Package objcache implements a two-tier object cache: an unbounded
// in-process Memory tier and a persistent File tier, behind one API where
// every call names the tiers it wants.
//
// Components:
//   - Memory tier: map keyed by K, purged on memory pressure (see pressure).
//   - File tier: Transformer[K,V] turns values into bytes, which are framed
//     (optionally zstd-compressed) and handed to a provider.Provider.
//     The default provider writes one file per key under the user cache dir.
//   - Dispatcher: where File tier callbacks run. One goroutine by default.
//
// Locations:
//
//	<container>/<sha1-hex of the key text>   - default File tier location
//	<user cache dir>/objcache/<namespace>    - default container
//
// Callback contract:
//
//	c.Load(ctx, k, objcache.Local, func(r objcache.LoadResult[V]) { ... }) // exactly once
//	c.Save(ctx, k, v, objcache.Local, func(r objcache.Result) { ... })     // once per tier
//
// Memory results arrive before the call returns; File results arrive on the
// Dispatcher. Use LoadAsync and friends for a channel-based API.
package objcache
