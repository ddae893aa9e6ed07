package cacheinfra

import (
	"time"

	"github.com/viccon/sturdyc"
)

// Backend selects the storage engine behind the cache store.
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
	BackendTiered Backend = "tiered"
)

// Config holds the configuration for the cache store backends.
type Config struct {
	// Backend selects memory, redis or tiered (memory L1 over redis L2).
	Backend Backend

	// Capacity defines the maximum number of entries the memory store keeps.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of shards of the memory store.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is the physical lifetime of entries in the memory store. Entries
	// written with a longer per-entry TTL are still evicted after this
	// duration, so it should be at least the longest TTL callers use.
	// Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the memory store reaches its capacity. Must be between 1-100.
	EvictionPercentage int

	// EvictionInterval sets how often the memory store sweeps expired entries.
	// Zero value uses the sturdyc default.
	EvictionInterval time.Duration

	// Redis holds connection settings for the redis and tiered backends.
	Redis RedisConfig

	// L1TTL caps the lifetime of entries in the memory tier of the tiered
	// backend. Default: 10s
	L1TTL time.Duration
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// DefaultKeyPrefix namespaces every key the redis store writes.
const DefaultKeyPrefix = "storefront:cache:"

// DefaultConfig returns a Config with sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Backend:            BackendMemory,
		Capacity:           10000,
		NumShards:          256,
		TTL:                time.Hour,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			KeyPrefix: DefaultKeyPrefix,
		},
		L1TTL: 10 * time.Second,
	}
}

// ToSturdycOptions converts the Config to sturdyc.Option slice.
// Capacity, NumShards, TTL, and EvictionPercentage are passed directly
// to sturdyc.New() and are not included in the options.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	switch c.Backend {
	case BackendMemory, BackendRedis, BackendTiered:
	default:
		return &ConfigError{Field: "Backend", Message: "must be one of memory, redis, tiered"}
	}

	if c.Backend != BackendRedis {
		if err := c.validateMemory(); err != nil {
			return err
		}
	}

	if c.Backend != BackendMemory && c.Redis.Addr == "" {
		return &ConfigError{Field: "Redis.Addr", Message: "must not be empty"}
	}

	if c.Backend == BackendTiered && c.L1TTL <= 0 {
		return &ConfigError{Field: "L1TTL", Message: "must be greater than 0"}
	}

	return nil
}

func (c Config) validateMemory() error {
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

	if c.EvictionInterval < 0 {
		return &ConfigError{Field: "EvictionInterval", Message: "must be non-negative"}
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
