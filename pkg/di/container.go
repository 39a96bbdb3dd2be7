package di

import (
	"net/http"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/goliatone/go-user-store/cache"
	"github.com/goliatone/go-user-store/internal/cacheinfra"
	"github.com/goliatone/go-user-store/internal/httpapi"
	"github.com/goliatone/go-user-store/store"
	"github.com/goliatone/go-user-store/usercache"
)

// Config aggregates the settings for every long-lived resource.
type Config struct {
	Store store.Config
	Cache cache.Config
}

// Container wires the process-wide singletons: the database pool, the cache
// backend and the coordinator on top of them. Everything is constructed once
// and injected; handlers and tests receive interfaces, never globals.
type Container struct {
	cfg         Config
	log         *zap.Logger
	db          *store.Users
	cacheStore  cache.Store
	redisStore  *cacheinfra.Redis
	coordinator *usercache.CachedStore
	server      *httpapi.Server
}

// NewContainer validates the configuration and constructs the object graph.
// A nil logger defaults to a no-op.
func NewContainer(cfg Config, log *zap.Logger) (*Container, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if err := cfg.Store.Validate(); err != nil {
		return nil, err
	}
	if err := cfg.Cache.Validate(); err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Store)
	if err != nil {
		return nil, err
	}
	userStore := store.NewUsers(db)

	c := &Container{cfg: cfg, log: log, db: userStore}

	switch cfg.Cache.Backend {
	case cache.BackendRedis:
		client := goredis.NewClient(&goredis.Options{Addr: cfg.Cache.Addr})
		redisStore, err := cacheinfra.NewRedis(cacheinfra.RedisConfig{Client: client, CloseClient: true})
		if err != nil {
			db.Close()
			return nil, err
		}
		c.redisStore = redisStore
		c.cacheStore = redisStore
	default:
		memory, err := cacheinfra.NewMemory(cacheinfra.DefaultMemoryConfig(cfg.Cache.SnapshotTTL))
		if err != nil {
			db.Close()
			return nil, err
		}
		c.cacheStore = memory
	}

	codec := cache.CodecByName(cfg.Cache.Codec)
	c.coordinator = usercache.New(userStore, c.cacheStore, codec, cfg.Cache.SnapshotTTL, log)
	c.server = httpapi.New(c.coordinator, userStore, log)

	return c, nil
}

// NewContainerWithDefaults builds a container with the default cache settings
// for the given store configuration. Convenience for local development.
func NewContainerWithDefaults(storeCfg store.Config) (*Container, error) {
	return NewContainer(Config{Store: storeCfg, Cache: cache.DefaultConfig()}, nil)
}

// Store returns the persistent store adapter singleton.
func (c *Container) Store() *store.Users { return c.db }

// CacheStore returns the cache backend singleton.
func (c *Container) CacheStore() cache.Store { return c.cacheStore }

// Coordinator returns the cache-aside coordinator singleton.
func (c *Container) Coordinator() *usercache.CachedStore { return c.coordinator }

// Handler returns the HTTP surface bound to the coordinator.
func (c *Container) Handler() http.Handler { return c.server.Handler() }

// Config returns a copy of the configuration used by this container.
func (c *Container) Config() Config { return c.cfg }

// Close releases the database pool and, when the container owns one, the
// redis client. Safe to call once at shutdown.
func (c *Container) Close() error {
	var firstErr error
	if c.redisStore != nil {
		if err := c.redisStore.Close(); err != nil {
			firstErr = err
		}
	}
	if err := c.db.DB().Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
