package cache

import (
	"context"
	"time"
)

// Store is the minimal byte store the coordinator talks to. Implementations
// must be safe for concurrent use and byte-for-byte transparent: Get returns
// exactly the value previously passed to Set for the same key.
//
// There are no retries and no fallback behaviour at this layer. Any failure
// is surfaced to the caller as-is; deciding what a cache error means for a
// request is the coordinator's job.
type Store interface {
	// Get returns (value, true, nil) on a hit and (nil, false, nil) on a
	// miss. Transport or server errors come back as (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value under key with the given TTL. Backends with a fixed
	// client-wide TTL may ignore the argument; see their constructors.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
