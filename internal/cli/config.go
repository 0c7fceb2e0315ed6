package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/xereo/gdn-go/pkg/cache"
	"github.com/xereo/gdn-go/pkg/gdn"
)

// config holds CLI configuration, loaded from a TOML file. Flags override
// individual fields after loading.
type config struct {
	Endpoint string      `toml:"endpoint"`
	Cache    cacheConfig `toml:"cache"`
	Redis    redisConfig `toml:"redis"`
	Mongo    mongoConfig `toml:"mongo"`
}

type cacheConfig struct {
	Backend string `toml:"backend"` // file, memory, redis, mongo, none
	TTL     string `toml:"ttl"`     // Go duration string, e.g. "24h"
	Dir     string `toml:"dir"`     // file backend directory, "" for default
}

type redisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

type mongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// defaultConfig is the configuration used when no file exists: the public
// endpoint with a day of file-backed response caching.
func defaultConfig() config {
	return config{
		Endpoint: gdn.DefaultEndpoint,
		Cache:    cacheConfig{Backend: "file", TTL: "24h"},
	}
}

// defaultConfigPath returns ~/.config/gdn/config.toml.
func defaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "gdn", "config.toml"), nil
}

// cacheDir returns the default file-cache directory, ~/.cache/gdn.
func cacheDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", "gdn"), nil
}

// loadConfig reads the config file at path, or the default location when path
// is empty. A missing file yields the defaults; a malformed file is an error.
func loadConfig(path string) (config, error) {
	cfg := defaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := defaultConfigPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		if explicit {
			return cfg, fmt.Errorf("config file not found: %s", path)
		}
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// cacheTTL parses the configured TTL, falling back to 24 hours.
func (c config) cacheTTL() time.Duration {
	if c.Cache.TTL == "" {
		return 24 * time.Hour
	}
	ttl, err := time.ParseDuration(c.Cache.TTL)
	if err != nil {
		return 24 * time.Hour
	}
	return ttl
}

// openCache constructs the configured cache backend.
func openCache(ctx context.Context, cfg config) (cache.Cache, error) {
	switch cfg.Cache.Backend {
	case "", "none":
		return cache.NewNullCache(), nil
	case "memory":
		return cache.NewMemoryCache(), nil
	case "file":
		dir := cfg.Cache.Dir
		if dir == "" {
			d, err := cacheDir()
			if err != nil {
				return nil, err
			}
			dir = d
		}
		return cache.NewFileCache(dir)
	case "redis":
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case "mongo":
		return cache.NewMongoCache(ctx, cache.MongoConfig{
			URI:      cfg.Mongo.URI,
			Database: cfg.Mongo.Database,
		})
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}
}

// newClient builds a gdn client from the loaded config and root flags.
func newClient(ctx context.Context, opts *rootOpts) (*gdn.Client, error) {
	cfg, err := loadConfig(opts.config)
	if err != nil {
		return nil, err
	}

	backend, err := openCache(ctx, cfg)
	if err != nil {
		return nil, err
	}

	client := gdn.NewClient(backend, cfg.cacheTTL(), nil)
	client.SetLogger(loggerFromContext(ctx))

	endpoint := cfg.Endpoint
	if opts.endpoint != "" {
		endpoint = opts.endpoint
	}
	if endpoint != "" {
		client.SetEndpoint(endpoint)
	}
	return client, nil
}
