package cacheinfra

import (
	"context"
	"time"

	"github.com/viccon/sturdyc"
)

// MemoryConfig holds the settings for the in-process cache backend.
type MemoryConfig struct {
	// Capacity defines the maximum number of entries the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Must be greater than 0.
	NumShards int

	// TTL is the time-to-live applied to every entry. sturdyc fixes the TTL
	// at client construction, so the Store's per-call TTL argument is
	// ignored by this backend; the container constructs it with the
	// snapshot TTL.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict when
	// the cache reaches capacity. Must be between 1-100.
	EvictionPercentage int
}

// DefaultMemoryConfig returns settings sized for a single-aggregate cache.
func DefaultMemoryConfig(ttl time.Duration) MemoryConfig {
	return MemoryConfig{
		Capacity:           64,
		NumShards:          2,
		TTL:                ttl,
		EvictionPercentage: 10,
	}
}

// Validate checks if the configuration values are valid.
func (c MemoryConfig) Validate() error {
	if c.Capacity <= 0 {
		return &ConfigError{Field: "Capacity", Message: "must be greater than 0"}
	}
	if c.NumShards <= 0 {
		return &ConfigError{Field: "NumShards", Message: "must be greater than 0"}
	}
	if c.TTL <= 0 {
		return &ConfigError{Field: "TTL", Message: "must be greater than 0"}
	}
	if c.EvictionPercentage < 1 || c.EvictionPercentage > 100 {
		return &ConfigError{Field: "EvictionPercentage", Message: "must be between 1 and 100"}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// Memory is a cache.Store backed by a sturdyc client. It keeps entries in
// process memory, which makes it the zero-dependency choice for development
// and for deployments that run a single replica.
type Memory struct {
	client *sturdyc.Client[[]byte]
}

// NewMemory creates the in-process cache backend.
func NewMemory(cfg MemoryConfig) (*Memory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[[]byte](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
	)

	return &Memory{client: client}, nil
}

// Get returns the stored bytes for key, reporting expired or absent entries
// as a miss rather than an error.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, bool, error) {
	value, ok := m.client.Get(key)
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

// Set stores value under key. The ttl argument is ignored; entries expire
// after the TTL the client was constructed with.
func (m *Memory) Set(ctx context.Context, key string, value []byte, _ time.Duration) error {
	m.client.Set(key, value)
	return nil
}

// Delete removes key from the cache.
func (m *Memory) Delete(ctx context.Context, key string) error {
	m.client.Delete(key)
	return nil
}
