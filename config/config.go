// Package config loads objcache settings from a config file and OBJCACHE_*
// environment variables, and builds cache Options from them.
//
// Precedence, lowest first: built-in defaults, config file, environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	gap "github.com/muesli/go-app-paths"
	"github.com/spf13/viper"
)

const appName = "objcache"

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "OBJCACHE_"

type Config struct {
	Namespace string `mapstructure:"namespace"`
	Dir       string `mapstructure:"dir"`

	Provider string `mapstructure:"provider"` // fs, redis, bigcache, ristretto
	Codec    string `mapstructure:"codec"`    // cbor, json, msgpack

	Workers              int  `mapstructure:"workers"`
	CompressThreshold    int  `mapstructure:"compress_threshold"`
	CompressLevel        int  `mapstructure:"compress_level"`
	PromoteOnFileHit     bool `mapstructure:"promote_on_file_hit"`
	DisablePressurePurge bool `mapstructure:"disable_pressure_purge"`

	// CgroupEvents is a cgroup v2 memory.events path to watch for pressure.
	// "" disables the watcher; "auto" selects pressure.DefaultCgroupEvents.
	CgroupEvents string `mapstructure:"cgroup_events"`

	LogLevel string `mapstructure:"log_level"`

	Redis     RedisConfig     `mapstructure:"redis"`
	Bigcache  BigcacheConfig  `mapstructure:"bigcache"`
	Ristretto RistrettoConfig `mapstructure:"ristretto"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type BigcacheConfig struct {
	LifeWindow         time.Duration `mapstructure:"life_window"`
	HardMaxCacheSizeMB int           `mapstructure:"hard_max_cache_size_mb"`
}

type RistrettoConfig struct {
	NumCounters int64 `mapstructure:"num_counters"`
	MaxCost     int64 `mapstructure:"max_cost"`
	BufferItems int64 `mapstructure:"buffer_items"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Namespace:         "default",
		Provider:          "fs",
		Codec:             "cbor",
		Workers:           4,
		CompressThreshold: 1024,
		LogLevel:          "info",
		Redis: RedisConfig{
			Addr:   "localhost:6379",
			Prefix: "objcache:",
		},
		Bigcache: BigcacheConfig{
			LifeWindow: 24 * time.Hour,
		},
		Ristretto: RistrettoConfig{
			NumCounters: 1e6,
			MaxCost:     256 << 20,
			BufferItems: 64,
		},
	}
}

// envOverrides mirrors Config; nil pointers mean "not set".
type envOverrides struct {
	Namespace            *string        `env:"NAMESPACE"`
	Dir                  *string        `env:"DIR"`
	Provider             *string        `env:"PROVIDER"`
	Codec                *string        `env:"CODEC"`
	Workers              *int           `env:"WORKERS"`
	CompressThreshold    *int           `env:"COMPRESS_THRESHOLD"`
	CompressLevel        *int           `env:"COMPRESS_LEVEL"`
	PromoteOnFileHit     *bool          `env:"PROMOTE_ON_FILE_HIT"`
	DisablePressurePurge *bool          `env:"DISABLE_PRESSURE_PURGE"`
	CgroupEvents         *string        `env:"CGROUP_EVENTS"`
	LogLevel             *string        `env:"LOG_LEVEL"`
	RedisAddr            *string        `env:"REDIS_ADDR"`
	RedisPassword        *string        `env:"REDIS_PASSWORD"`
	RedisDB              *int           `env:"REDIS_DB"`
	RedisPrefix          *string        `env:"REDIS_PREFIX"`
	BigcacheLifeWindow   *time.Duration `env:"BIGCACHE_LIFE_WINDOW"`
	BigcacheHardMaxMB    *int           `env:"BIGCACHE_HARD_MAX_CACHE_SIZE_MB"`
	RistrettoMaxCost     *int64         `env:"RISTRETTO_MAX_COST"`
}

// Load reads path (YAML, JSON or TOML by extension) and applies environment
// overrides. An empty path searches the user config directories for an
// "objcache" file; finding none is not an error.
func Load(path string) (Config, error) {
	return load(path, nil)
}

// load is Load with an explicit environment; nil means the process environment.
func load(path string, environ map[string]string) (Config, error) {
	cfg := Default()

	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else {
		dirs, err := gap.NewScope(gap.User, appName).ConfigDirs()
		if err == nil {
			for _, d := range dirs {
				v.AddConfigPath(d)
			}
		}
		v.SetConfigName(appName)
		if err := v.ReadInConfig(); err != nil {
			var nf viper.ConfigFileNotFoundError
			if !errors.As(err, &nf) {
				return cfg, fmt.Errorf("config: %w", err)
			}
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("config: decode: %w", err)
	}

	ov, err := env.ParseAsWithOptions[envOverrides](env.Options{
		Prefix:      EnvPrefix,
		Environment: environ,
	})
	if err != nil {
		return cfg, fmt.Errorf("config: env: %w", err)
	}
	ov.apply(&cfg)

	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper, d Config) {
	v.SetDefault("namespace", d.Namespace)
	v.SetDefault("provider", d.Provider)
	v.SetDefault("codec", d.Codec)
	v.SetDefault("workers", d.Workers)
	v.SetDefault("compress_threshold", d.CompressThreshold)
	v.SetDefault("log_level", d.LogLevel)
	v.SetDefault("redis.addr", d.Redis.Addr)
	v.SetDefault("redis.prefix", d.Redis.Prefix)
	v.SetDefault("bigcache.life_window", d.Bigcache.LifeWindow)
	v.SetDefault("ristretto.num_counters", d.Ristretto.NumCounters)
	v.SetDefault("ristretto.max_cost", d.Ristretto.MaxCost)
	v.SetDefault("ristretto.buffer_items", d.Ristretto.BufferItems)
}

func (o envOverrides) apply(c *Config) {
	set(&c.Namespace, o.Namespace)
	set(&c.Dir, o.Dir)
	set(&c.Provider, o.Provider)
	set(&c.Codec, o.Codec)
	set(&c.Workers, o.Workers)
	set(&c.CompressThreshold, o.CompressThreshold)
	set(&c.CompressLevel, o.CompressLevel)
	set(&c.PromoteOnFileHit, o.PromoteOnFileHit)
	set(&c.DisablePressurePurge, o.DisablePressurePurge)
	set(&c.CgroupEvents, o.CgroupEvents)
	set(&c.LogLevel, o.LogLevel)
	set(&c.Redis.Addr, o.RedisAddr)
	set(&c.Redis.Password, o.RedisPassword)
	set(&c.Redis.DB, o.RedisDB)
	set(&c.Redis.Prefix, o.RedisPrefix)
	set(&c.Bigcache.LifeWindow, o.BigcacheLifeWindow)
	set(&c.Bigcache.HardMaxCacheSizeMB, o.BigcacheHardMaxMB)
	set(&c.Ristretto.MaxCost, o.RistrettoMaxCost)
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

// Validate rejects unknown provider and codec names and negative pool sizes.
func (c Config) Validate() error {
	switch strings.ToLower(c.Provider) {
	case "fs", "redis", "bigcache", "ristretto":
	default:
		return fmt.Errorf("config: unknown provider %q", c.Provider)
	}
	switch strings.ToLower(c.Codec) {
	case "", "cbor", "json", "msgpack":
	default:
		return fmt.Errorf("config: unknown codec %q", c.Codec)
	}
	if c.Workers < 0 {
		return fmt.Errorf("config: workers must be >= 0, got %d", c.Workers)
	}
	return nil
}
