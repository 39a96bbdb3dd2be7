// Package usercache is the cache-aside coordinator for the user collection.
//
// # Overview
//
// This package implements the decorator pattern to put a caching layer in
// front of the persistent user store. CachedStore wraps a base store and
// intercepts reads to serve them cache-first, while writes go straight to
// the store transactionally and invalidate the cached snapshot afterwards.
//
// # Key Features
//
//   - **Cache-hit short-circuit**: a valid snapshot answers a read with a single cache round-trip
//   - **Whole-collection snapshot**: one well-known key holds the entire serialized collection
//   - **Persist-then-invalidate writes**: the snapshot is deleted only after a successful commit
//   - **Atomic batches**: all upserts in a call share one transaction; any failure rolls everything back
//   - **Bounded staleness**: the snapshot self-expires, so a lost invalidation heals within the TTL
//
// # Basic Usage
//
// Create a coordinator by wrapping a store with a cache backend:
//
//	base := store.NewUsers(db)
//	backend, _ := cacheinfra.NewMemory(cacheinfra.DefaultMemoryConfig(60 * time.Second))
//
//	coordinator := usercache.New(base, backend, cache.JSONCodec{}, 60*time.Second, logger)
//
//	all, err := coordinator.FetchAll(ctx)
//	count, err := coordinator.UpsertMany(ctx, batch)
//
// # Read Path
//
//  1. Probe the cache for the snapshot key
//  2. On a hit that decodes, return it verbatim; the store is not consulted
//  3. On a miss, fetch every row from the store in id order
//  4. Populate the cache with the encoded result and the snapshot TTL
//  5. Return the freshly fetched result
//
// An empty persisted collection is a valid snapshot: it is cached and
// returned as an empty sequence.
//
// # Write Path
//
//  1. Validate the batch before any connection is acquired
//  2. Apply every upsert in input order inside one transaction
//  3. Commit, or roll back fully on the first failure
//  4. After a successful commit, delete the snapshot key
//  5. Return the accepted input count
//
// A failed deletion in step 4 is logged and swallowed; the write already
// committed and the snapshot TTL bounds the resulting staleness.
//
// # Concurrency
//
// CachedStore is safe for concurrent use. No cross-request locking is
// performed: a read racing a write may populate a snapshot that is briefly
// pre-write, which the following invalidation or the TTL clears. Both
// hazards are accepted and bounded by the snapshot TTL.
package usercache
