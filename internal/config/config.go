// Package config loads the storefront configuration: defaults, then an
// optional YAML file, then STOREFRONT_* environment overrides.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"gopkg.in/yaml.v3"

	"github.com/Adyime/DadapperDaze-sub001/cache"
)

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the SQL driver. Driver is "sqlite3" or "postgres".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
	Debug  bool   `yaml:"debug"`
}

// RedisConfig holds Redis connection settings.
type RedisConfig struct {
	Addr      string `yaml:"addr"`
	Password  string `yaml:"password"`
	DB        int    `yaml:"db"`
	KeyPrefix string `yaml:"key_prefix"`
}

// CacheConfig covers the store engine and the per-entity TTLs.
type CacheConfig struct {
	Backend            string        `yaml:"backend"`
	Codec              string        `yaml:"codec"`
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	TTL                time.Duration `yaml:"ttl"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	EvictionInterval   time.Duration `yaml:"eviction_interval"`
	L1TTL              time.Duration `yaml:"l1_ttl"`
	Redis              RedisConfig   `yaml:"redis"`

	// CategoryTTL bounds how stale category listings and product counts may be.
	CategoryTTL time.Duration `yaml:"category_ttl"`
	ProductTTL  time.Duration `yaml:"product_ttl"`
}

// LogConfig configures the process logger.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// AdminConfig gates the admin API.
type AdminConfig struct {
	APIKey string `yaml:"api_key"`
}

// MetricsConfig controls the Prometheus endpoint.
type MetricsConfig struct {
	Enabled   bool   `yaml:"enabled"`
	Namespace string `yaml:"namespace"`
}

// Config is the central configuration struct.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Cache    CacheConfig    `yaml:"cache"`
	Log      LogConfig      `yaml:"log"`
	Admin    AdminConfig    `yaml:"admin"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	engine := cache.DefaultConfig()
	return &Config{
		HTTP: HTTPConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "file:storefront.db?cache=shared&_foreign_keys=on",
		},
		Cache: CacheConfig{
			Backend:            string(engine.Backend),
			Codec:              "msgpack",
			Capacity:           engine.Capacity,
			NumShards:          engine.NumShards,
			TTL:                engine.TTL,
			EvictionPercentage: engine.EvictionPercentage,
			EvictionInterval:   engine.EvictionInterval,
			L1TTL:              engine.L1TTL,
			Redis: RedisConfig{
				Addr:      engine.Redis.Addr,
				DB:        engine.Redis.DB,
				KeyPrefix: engine.Redis.KeyPrefix,
			},
			CategoryTTL: 30 * time.Minute,
			ProductTTL:  5 * time.Minute,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Enabled:   true,
			Namespace: "storefront",
		},
	}
}

// Load builds the configuration from defaults, the YAML file at path (when
// non-empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		var err error
		if cfg, err = LoadFromFile(path); err != nil {
			return nil, err
		}
	}
	if err := LoadFromEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFromFile loads configuration from a YAML file over the defaults.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadFromEnv applies environment variable overrides to the config.
func LoadFromEnv(cfg *Config) error {
	str := map[string]*string{
		"STOREFRONT_HTTP_ADDR":         &cfg.HTTP.Addr,
		"STOREFRONT_DB_DRIVER":         &cfg.Database.Driver,
		"STOREFRONT_DB_DSN":            &cfg.Database.DSN,
		"STOREFRONT_CACHE_BACKEND":     &cfg.Cache.Backend,
		"STOREFRONT_CACHE_CODEC":       &cfg.Cache.Codec,
		"STOREFRONT_REDIS_ADDR":        &cfg.Cache.Redis.Addr,
		"STOREFRONT_REDIS_PASSWORD":    &cfg.Cache.Redis.Password,
		"STOREFRONT_REDIS_KEY_PREFIX":  &cfg.Cache.Redis.KeyPrefix,
		"STOREFRONT_LOG_LEVEL":         &cfg.Log.Level,
		"STOREFRONT_LOG_FORMAT":        &cfg.Log.Format,
		"STOREFRONT_ADMIN_API_KEY":     &cfg.Admin.APIKey,
		"STOREFRONT_METRICS_NAMESPACE": &cfg.Metrics.Namespace,
	}
	for env, dst := range str {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}

	durations := map[string]*time.Duration{
		"STOREFRONT_CACHE_TTL":          &cfg.Cache.TTL,
		"STOREFRONT_CACHE_L1_TTL":       &cfg.Cache.L1TTL,
		"STOREFRONT_CACHE_CATEGORY_TTL": &cfg.Cache.CategoryTTL,
		"STOREFRONT_CACHE_PRODUCT_TTL":  &cfg.Cache.ProductTTL,
	}
	for env, dst := range durations {
		if v := os.Getenv(env); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				return fmt.Errorf("%s: %w", env, err)
			}
			*dst = d
		}
	}

	if v := os.Getenv("STOREFRONT_REDIS_DB"); v != "" {
		db, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("STOREFRONT_REDIS_DB: %w", err)
		}
		cfg.Cache.Redis.DB = db
	}
	if v := os.Getenv("STOREFRONT_METRICS_ENABLED"); v != "" {
		enabled, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("STOREFRONT_METRICS_ENABLED: %w", err)
		}
		cfg.Metrics.Enabled = enabled
	}
	return nil
}

// Validate checks the storefront settings and the cache engine settings.
func (c *Config) Validate() error {
	err := validation.ValidateStruct(c,
		validation.Field(&c.HTTP),
		validation.Field(&c.Database),
		validation.Field(&c.Cache),
		validation.Field(&c.Log),
	)
	if err != nil {
		return err
	}
	return c.Cache.Engine().Validate()
}

func (h HTTPConfig) Validate() error {
	return validation.ValidateStruct(&h,
		validation.Field(&h.Addr, validation.Required),
		validation.Field(&h.ShutdownTimeout, validation.Min(time.Duration(0))),
	)
}

func (d DatabaseConfig) Validate() error {
	return validation.ValidateStruct(&d,
		validation.Field(&d.Driver, validation.Required, validation.In("sqlite3", "postgres")),
		validation.Field(&d.DSN, validation.Required),
	)
}

func (c CacheConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Codec, validation.In("", "msgpack", "json")),
		validation.Field(&c.CategoryTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.ProductTTL, validation.Required, validation.Min(time.Second)),
		validation.Field(&c.TTL, validation.By(func(any) error {
			if c.CategoryTTL > c.TTL || c.ProductTTL > c.TTL {
				return validation.NewError("validation_ttl_too_short", "must be at least as long as category_ttl and product_ttl")
			}
			return nil
		})),
	)
}

func (l LogConfig) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "warning", "error")),
		validation.Field(&l.Format, validation.In("text", "json")),
	)
}

// Engine converts the cache section to the store engine configuration.
func (c CacheConfig) Engine() cache.Config {
	return cache.Config{
		Backend:            cache.Backend(c.Backend),
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
		L1TTL:              c.L1TTL,
		Redis: cache.RedisConfig{
			Addr:      c.Redis.Addr,
			Password:  c.Redis.Password,
			DB:        c.Redis.DB,
			KeyPrefix: c.Redis.KeyPrefix,
		},
	}
}
