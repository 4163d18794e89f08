package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/ajitpratap0/leadsegment/internal/geo"
	"github.com/ajitpratap0/leadsegment/internal/kmeans"
	"github.com/ajitpratap0/leadsegment/internal/segment"
)

const (
	// DefaultHighEngagementQuantile is the per-tier engagement threshold for
	// the geographic segmentation.
	DefaultHighEngagementQuantile = 0.70

	// DefaultCacheTTLMinutes is how long a segmentation result stays cached.
	DefaultCacheTTLMinutes = 60

	// DefaultMaxUploadMB caps the CSV body accepted by the HTTP API.
	DefaultMaxUploadMB = 64
)

// Cache backends.
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds all configuration for leadsegment.
type Config struct {
	Geo     geo.Config    `mapstructure:"geo"`
	Segment SegmentConfig `mapstructure:"segment"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
	API     APIConfig     `mapstructure:"api"`
}

// SegmentConfig holds the cohort and clustering settings shared by every
// cluster.
type SegmentConfig struct {
	OwnershipTag            string   `mapstructure:"ownership_tag"`
	ExcludedLifecycleStages []string `mapstructure:"excluded_lifecycle_stages"`
	HighEngagementQuantile  float64  `mapstructure:"high_engagement_quantile"`
	KMeansSeed              uint64   `mapstructure:"kmeans_seed"`
	KMeansInits             int      `mapstructure:"kmeans_inits"`
}

// Options converts the section into segment options.
func (s SegmentConfig) Options() segment.Options {
	km := kmeans.DefaultOptions()
	km.Seed = s.KMeansSeed
	km.Inits = s.KMeansInits
	return segment.Options{
		OwnershipTag:            s.OwnershipTag,
		ExcludedLifecycleStages: s.ExcludedLifecycleStages,
		HighEngagementQuantile:  s.HighEngagementQuantile,
		KMeans:                  km,
	}
}

// CacheConfig selects and configures the result cache.
type CacheConfig struct {
	Backend       string `mapstructure:"backend"`
	TTLMinutes    int    `mapstructure:"ttl_minutes"`
	RedisAddr     string `mapstructure:"redis_addr"`
	RedisPassword string `mapstructure:"redis_password"`
	RedisDB       int    `mapstructure:"redis_db"`
	RedisPrefix   string `mapstructure:"redis_prefix"`
}

// TTL returns the cache entry lifetime.
func (c CacheConfig) TTL() time.Duration {
	return time.Duration(c.TTLMinutes) * time.Minute
}

// String returns a safe representation of CacheConfig with the Redis
// password masked.
func (c CacheConfig) String() string {
	return fmt.Sprintf("CacheConfig{Backend:%s, TTLMinutes:%d, RedisAddr:%s, RedisPassword:%s, RedisDB:%d}",
		c.Backend, c.TTLMinutes, c.RedisAddr, maskSecret(c.RedisPassword), c.RedisDB)
}

// maskSecret shows first 4 + last 4 chars, replacing the middle with asterisks.
func maskSecret(key string) string {
	const visible = 4
	if len(key) <= visible*2 {
		return "***"
	}
	return key[:visible] + "****" + key[len(key)-visible:]
}

// APIConfig holds HTTP API server settings.
type APIConfig struct {
	ListenAddr  string `mapstructure:"listen_addr"`
	AuthToken   string `mapstructure:"auth_token"`
	MaxUploadMB int    `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the request body limit in bytes.
func (a APIConfig) MaxUploadBytes() int64 {
	return int64(a.MaxUploadMB) << 20
}

// LoggingConfig holds structured logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from the default locations and environment
// variables.
func Load() (*Config, error) {
	return LoadFile("")
}

// LoadFile reads configuration from path, or from config.yaml in
// ~/.leadsegment or the working directory when path is empty.
func LoadFile(path string) (*Config, error) {
	v := viper.New()

	// Defaults
	def := geo.DefaultConfig()
	v.SetDefault("geo.home_country", def.HomeCountry)
	v.SetDefault("geo.home_country_aliases", def.HomeAliases)
	v.SetDefault("geo.local_region", def.LocalRegion)
	v.SetDefault("geo.local_aliases", def.LocalAliases)

	opts := segment.DefaultOptions()
	v.SetDefault("segment.ownership_tag", opts.OwnershipTag)
	v.SetDefault("segment.excluded_lifecycle_stages", opts.ExcludedLifecycleStages)
	v.SetDefault("segment.high_engagement_quantile", DefaultHighEngagementQuantile)
	v.SetDefault("segment.kmeans_seed", opts.KMeans.Seed)
	v.SetDefault("segment.kmeans_inits", opts.KMeans.Inits)

	v.SetDefault("cache.backend", CacheMemory)
	v.SetDefault("cache.ttl_minutes", DefaultCacheTTLMinutes)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.redis_prefix", "leadsegment:")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	v.SetDefault("api.listen_addr", ":8080")
	v.SetDefault("api.auth_token", "")
	v.SetDefault("api.max_upload_mb", DefaultMaxUploadMB)

	// Config file
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(filepath.Join(homeDir(), ".leadsegment"))
		v.AddConfigPath(".")
	}

	// Environment variables
	v.SetEnvPrefix("LEADSEGMENT")
	v.AutomaticEnv()

	// Map specific env vars
	_ = v.BindEnv("geo.home_country", "LEADSEGMENT_GEO_HOME_COUNTRY")
	_ = v.BindEnv("geo.local_region", "LEADSEGMENT_GEO_LOCAL_REGION")
	_ = v.BindEnv("cache.backend", "LEADSEGMENT_CACHE_BACKEND")
	_ = v.BindEnv("cache.redis_addr", "LEADSEGMENT_CACHE_REDIS_ADDR")
	_ = v.BindEnv("cache.redis_password", "LEADSEGMENT_CACHE_REDIS_PASSWORD")
	_ = v.BindEnv("api.listen_addr", "LEADSEGMENT_API_LISTEN_ADDR")
	_ = v.BindEnv("api.auth_token", "LEADSEGMENT_API_AUTH_TOKEN")
	_ = v.BindEnv("logging.level", "LEADSEGMENT_LOGGING_LEVEL")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK: use defaults + env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// Validate checks that required configuration fields are set and consistent.
func (c *Config) Validate() error {
	if err := c.Geo.Validate(); err != nil {
		return err
	}
	if q := c.Segment.HighEngagementQuantile; q <= 0 || q >= 1 {
		return fmt.Errorf("segment.high_engagement_quantile must be between 0 and 1 (exclusive)")
	}
	if c.Segment.KMeansInits <= 0 {
		return fmt.Errorf("segment.kmeans_inits must be greater than 0")
	}
	switch c.Cache.Backend {
	case CacheMemory, CacheNone:
	case CacheRedis:
		if c.Cache.RedisAddr == "" {
			return fmt.Errorf("cache.redis_addr must not be empty for the redis backend")
		}
	default:
		return fmt.Errorf("cache.backend must be one of memory, redis, none (got %q)", c.Cache.Backend)
	}
	if c.Cache.TTLMinutes < 0 {
		return fmt.Errorf("cache.ttl_minutes must be >= 0")
	}
	if c.API.MaxUploadMB <= 0 {
		return fmt.Errorf("api.max_upload_mb must be greater than 0")
	}
	switch c.Logging.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error (got %q)", c.Logging.Level)
	}
	return nil
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
