package cache

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Backend selects which Store implementation the container builds.
const (
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Config holds cache settings shared by every backend.
type Config struct {
	// Backend is either "redis" or "memory".
	Backend string

	// Addr is the redis address. Ignored by the memory backend.
	Addr string

	// SnapshotTTL bounds how stale a cached collection snapshot may get.
	SnapshotTTL time.Duration

	// Codec names the snapshot encoding: "json" or "msgpack".
	Codec string
}

// DefaultConfig returns the settings used when nothing is configured:
// in-process memory cache, 60 second snapshots, JSON payloads.
func DefaultConfig() Config {
	return Config{
		Backend:     BackendMemory,
		SnapshotTTL: 60 * time.Second,
		Codec:       "json",
	}
}

// Validate checks whether the configuration values are usable.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendRedis, BackendMemory)),
		validation.Field(&c.Codec, validation.In("json", "msgpack")),
	)
	if err != nil {
		return err
	}
	if c.SnapshotTTL <= 0 {
		return &ConfigError{Field: "SnapshotTTL", Message: "must be greater than 0"}
	}
	if c.Backend == BackendRedis && c.Addr == "" {
		return &ConfigError{Field: "Addr", Message: "required for the redis backend"}
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
