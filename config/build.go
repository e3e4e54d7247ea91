package config

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/objcache"
	"github.com/unkn0wn-root/objcache/codec"
	"github.com/unkn0wn-root/objcache/log/charm"
	"github.com/unkn0wn-root/objcache/pressure"
	pr "github.com/unkn0wn-root/objcache/provider"
	"github.com/unkn0wn-root/objcache/provider/bigcache"
	"github.com/unkn0wn-root/objcache/provider/fs"
	"github.com/unkn0wn-root/objcache/provider/redis"
	"github.com/unkn0wn-root/objcache/provider/ristretto"
)

// Resources owns what Build created beside the provider (which the cache
// closes). Close it after closing the cache.
type Resources struct {
	watcher *pressure.CgroupWatcher
}

func (r *Resources) Close() error {
	if r == nil || r.watcher == nil {
		return nil
	}
	return r.watcher.Close()
}

// Build turns cfg into cache Options: provider, codec-backed transform,
// charm logger on logOut (stderr when nil) and, if configured, a cgroup
// pressure watcher.
func Build[K comparable, V any](cfg Config, logOut io.Writer) (objcache.Options[K, V], *Resources, error) {
	var opts objcache.Options[K, V]
	if err := cfg.Validate(); err != nil {
		return opts, nil, err
	}
	if logOut == nil {
		logOut = os.Stderr
	}
	logger := charm.New(logOut, cfg.LogLevel)

	c, err := codec.ByName[V](strings.ToLower(cfg.Codec))
	if err != nil {
		return opts, nil, fmt.Errorf("config: %w", err)
	}

	p, err := buildProvider(cfg)
	if err != nil {
		return opts, nil, err
	}

	opts = objcache.Options[K, V]{
		Namespace:            cfg.Namespace,
		Dir:                  cfg.Dir,
		Provider:             p,
		Transformer:          objcache.WithCodec[K, V](c),
		Logger:               logger,
		Workers:              cfg.Workers,
		DisablePressurePurge: cfg.DisablePressurePurge,
		PromoteOnFileHit:     cfg.PromoteOnFileHit,
		CompressThreshold:    cfg.CompressThreshold,
		CompressLevel:        cfg.CompressLevel,
	}
	// Remote and in-memory stores key by "<namespace>/<digest>" rather
	// than a path under the user cache dir.
	if opts.Dir == "" && !strings.EqualFold(cfg.Provider, "fs") {
		opts.Dir = cfg.Namespace
	}

	res := &Resources{}
	if cfg.CgroupEvents != "" {
		path := cfg.CgroupEvents
		if path == "auto" {
			path = pressure.DefaultCgroupEvents
		}
		w, err := pressure.WatchCgroup(path, func(err error) {
			logger.Warn("cgroup watcher error", objcache.Fields{"err": err})
		})
		if err != nil {
			_ = p.Close(context.Background())
			return opts, nil, fmt.Errorf("config: %w", err)
		}
		res.watcher = w
		opts.Pressure = w
	}
	return opts, res, nil
}

func buildProvider(cfg Config) (pr.Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "fs":
		return fs.New(fs.Config{}), nil
	case "redis":
		rdb := goredis.NewClient(&goredis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		p, err := redis.New(redis.Config{Client: rdb, Prefix: cfg.Redis.Prefix, CloseClient: true})
		if err != nil {
			_ = rdb.Close()
			return nil, fmt.Errorf("config: redis: %w", err)
		}
		return p, nil
	case "bigcache":
		p, err := bigcache.New(bigcache.Config{
			LifeWindow:         cfg.Bigcache.LifeWindow,
			HardMaxCacheSizeMB: cfg.Bigcache.HardMaxCacheSizeMB,
		})
		if err != nil {
			return nil, fmt.Errorf("config: bigcache: %w", err)
		}
		return p, nil
	case "ristretto":
		p, err := ristretto.New(ristretto.Config{
			NumCounters: cfg.Ristretto.NumCounters,
			MaxCost:     cfg.Ristretto.MaxCost,
			BufferItems: cfg.Ristretto.BufferItems,
		})
		if err != nil {
			return nil, fmt.Errorf("config: ristretto: %w", err)
		}
		return p, nil
	}
	return nil, fmt.Errorf("config: unknown provider %q", cfg.Provider)
}
