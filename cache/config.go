package cache

import (
	"log/slog"
	"time"

	"github.com/Adyime/DadapperDaze-sub001/internal/cacheinfra"
)

// Backend selects the Store implementation built by NewStore.
type Backend = cacheinfra.Backend

const (
	BackendMemory = cacheinfra.BackendMemory
	BackendRedis  = cacheinfra.BackendRedis
	BackendTiered = cacheinfra.BackendTiered
)

// Config exposes store configuration options for consumers of the cache package.
type Config struct {
	Backend Backend

	// In-process store. TTL is the physical lifetime of every entry and
	// must be at least as long as the longest TTL passed to GetOrFetch.
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
	EvictionInterval   time.Duration

	Redis RedisConfig

	// L1TTL caps how long the tiered backend keeps entries in memory.
	L1TTL time.Duration
}

// RedisConfig holds the connection settings for the Redis backend.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// NewStore constructs the configured Store. The caller owns it and must
// Close it.
func NewStore(cfg Config, logger *slog.Logger) (Store, error) {
	return cacheinfra.NewStore(cfg.toInternal(), logger)
}

// MatchesPrefix reports whether key falls under prefix on a segment
// boundary, so "product:1" does not match "product:10".
func MatchesPrefix(key, prefix string) bool {
	return cacheinfra.MatchesPrefix(key, prefix)
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Backend:            c.Backend,
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		Redis: cacheinfra.RedisConfig{
			Addr:      c.Redis.Addr,
			Password:  c.Redis.Password,
			DB:        c.Redis.DB,
			KeyPrefix: c.Redis.KeyPrefix,
		},
		L1TTL: c.L1TTL,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Backend:            cfg.Backend,
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
		Redis: RedisConfig{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			KeyPrefix: cfg.Redis.KeyPrefix,
		},
		L1TTL: cfg.L1TTL,
	}
}
