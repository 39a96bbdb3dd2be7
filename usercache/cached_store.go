package usercache

import (
	"context"
	"fmt"
	"time"

	"github.com/puzpuzpuz/xsync/v3"
	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/goliatone/go-user-store/cache"
	"github.com/goliatone/go-user-store/users"
)

// SnapshotKey is the well-known cache key holding the serialized collection.
const SnapshotKey = "users:all"

// DefaultSnapshotTTL bounds how stale a populated snapshot may get when no
// write invalidates it first.
const DefaultSnapshotTTL = 60 * time.Second

// Store is the persistent side the coordinator orchestrates. *store.Users
// satisfies it; tests substitute fakes.
type Store interface {
	FetchAll(ctx context.Context) ([]users.User, error)
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx bun.IDB) error) error
	UpsertTx(ctx context.Context, tx bun.IDB, u users.User) error
}

// CachedStore decorates a persistent Store with cache-aside reads and
// persist-then-invalidate writes. It exclusively owns the decision of when
// the snapshot is read, written or deleted; the two adapters it coordinates
// carry no business logic.
type CachedStore struct {
	store Store
	cache cache.Store
	codec cache.Codec
	ttl   time.Duration
	log   *zap.Logger

	// keys tracks every snapshot key this process has populated so that
	// invalidation stays uniform if keys ever become namespaced.
	keys *xsync.MapOf[string, struct{}]
}

// New creates a coordinator over the given adapters. A nil codec defaults to
// JSON, a non-positive ttl to DefaultSnapshotTTL and a nil logger to a no-op.
func New(store Store, cacheStore cache.Store, codec cache.Codec, ttl time.Duration, log *zap.Logger) *CachedStore {
	if codec == nil {
		codec = cache.JSONCodec{}
	}
	if ttl <= 0 {
		ttl = DefaultSnapshotTTL
	}
	if log == nil {
		log = zap.NewNop()
	}

	return &CachedStore{
		store: store,
		cache: cacheStore,
		codec: codec,
		ttl:   ttl,
		log:   log,
		keys:  xsync.NewMapOf[string, struct{}](),
	}
}

// FetchAll returns the full user collection, cache-first.
//
// A present snapshot that decodes is returned verbatim and the store is never
// consulted, so a hit costs exactly one cache round-trip. On a miss the store
// is read in full, the result is cached with the snapshot TTL and returned.
// An empty collection is a valid result: it is cached and returned as an
// empty sequence.
//
// Failure policy: any failure in this sequence (probe, store read, encode,
// populate, or a snapshot that will not decode) fails the request. There is
// no fallback to the store on cache failure; the fail-fast choice and the
// rejected degraded-read alternative are recorded in DESIGN.md.
func (c *CachedStore) FetchAll(ctx context.Context) ([]users.User, error) {
	raw, hit, err := c.cache.Get(ctx, SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("usercache: snapshot probe: %w", err)
	}

	if hit {
		snapshot := make([]users.User, 0)
		if err := c.codec.Unmarshal(raw, &snapshot); err != nil {
			return nil, fmt.Errorf("usercache: snapshot decode: %w", err)
		}
		c.log.Debug("snapshot hit", zap.String("key", SnapshotKey), zap.Int("records", len(snapshot)))
		return snapshot, nil
	}

	rows, err := c.store.FetchAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("usercache: store fetch: %w", err)
	}

	encoded, err := c.codec.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("usercache: snapshot encode: %w", err)
	}
	if err := c.cache.Set(ctx, SnapshotKey, encoded, c.ttl); err != nil {
		return nil, fmt.Errorf("usercache: snapshot populate: %w", err)
	}
	c.keys.Store(SnapshotKey, struct{}{})

	c.log.Debug("snapshot populated", zap.String("key", SnapshotKey), zap.Int("records", len(rows)))
	return rows, nil
}

// UpsertMany persists the batch atomically, then invalidates the snapshot.
//
// The batch is validated before any connection is acquired: it must be
// non-empty and every record must carry an id. All upserts run inside one
// transaction in input order; a batch with duplicate ids ends with the last
// occurrence's values stored. Any upsert failure rolls the whole batch back.
//
// The returned count is the number of accepted input records, not distinct
// ids or rows affected. A failed invalidation after a successful commit does
// not fail the call: persistence already succeeded and the snapshot still
// ages out via its TTL, so the caller sees success while the miss is logged.
func (c *CachedStore) UpsertMany(ctx context.Context, batch []users.User) (int, error) {
	if err := users.ValidateBatch(batch); err != nil {
		return 0, err
	}

	err := c.store.RunInTx(ctx, func(ctx context.Context, tx bun.IDB) error {
		for i, u := range batch {
			if err := c.store.UpsertTx(ctx, tx, u); err != nil {
				return fmt.Errorf("usercache: upsert record %d (id %q): %w", i, u.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	c.invalidate(ctx)
	return len(batch), nil
}

// invalidate deletes the snapshot and any other key this process populated.
// Errors are logged and swallowed: the write already committed.
func (c *CachedStore) invalidate(ctx context.Context) {
	c.deleteKey(ctx, SnapshotKey)
	c.keys.Range(func(key string, _ struct{}) bool {
		if key != SnapshotKey {
			c.deleteKey(ctx, key)
		}
		return true
	})
}

func (c *CachedStore) deleteKey(ctx context.Context, key string) {
	if err := c.cache.Delete(ctx, key); err != nil {
		c.log.Warn("snapshot invalidation failed, entry will age out via TTL",
			zap.String("key", key), zap.Error(err))
		return
	}
	c.keys.Delete(key)
}
