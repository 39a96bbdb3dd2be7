// Package cache defines the storage contract and snapshot encodings used by
// the cache-aside coordinator.
//
// # Overview
//
// The package exports two small abstractions:
//
//   - Store: a byte-level key/value store with TTLs (get, set-with-expiry,
//     delete) and nothing else: no retries, no fallbacks, no knowledge of
//     what is being cached
//   - Codec: the encoding applied to the collection snapshot before it is
//     handed to a Store (JSON by default, msgpack as an alternative)
//
// Keeping the Store contract this narrow is deliberate. The coordinator in
// package usercache owns every decision about when cached data is trusted,
// refreshed, or invalidated; a Store implementation only moves bytes. That
// split is what lets tests substitute an in-memory fake for redis without
// changing any consistency behaviour.
//
// # Implementations
//
// Production backends live in internal/cacheinfra: a redis adapter built on
// go-redis and an in-process adapter built on sturdyc. Both satisfy Store and
// are selected through Config.Backend.
//
// # Miss semantics
//
// A miss is not an error. Get returns (nil, false, nil) for an absent or
// expired key and reserves the error return for transport and server
// failures, so callers can always distinguish "not cached" from "cache
// unavailable".
package cache
