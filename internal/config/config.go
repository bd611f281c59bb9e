// Package config loads dagboard configuration from a TOML file with
// environment-variable overrides for secrets.
//
// The configuration covers the server listen address, which persistence
// backend to use, and cache settings. Everything has a working default so
// `dagboard serve` runs without any config file at all (in-memory store,
// no shared cache).
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

// Store backend names accepted in [Store].Backend.
const (
	BackendMemory   = "memory"
	BackendMongo    = "mongo"
	BackendPostgres = "postgres"
)

// Cache backend names accepted in [Cache].Backend.
const (
	CacheNone  = "none"
	CacheFile  = "file"
	CacheRedis = "redis"
)

// Config is the root configuration.
type Config struct {
	Listen  string  `toml:"listen"`
	Store   Store   `toml:"store"`
	Cache   Cache   `toml:"cache"`
	History History `toml:"history"`
}

// Store selects and configures the persistence backend.
type Store struct {
	Backend     string `toml:"backend"`      // memory | mongo | postgres
	MongoURI    string `toml:"mongo_uri"`    // overridden by DAGBOARD_MONGO_URI
	MongoDB     string `toml:"mongo_db"`     // database name, defaults to "dagboard"
	PostgresURL string `toml:"postgres_url"` // overridden by DAGBOARD_POSTGRES_URL
}

// Cache selects and configures the derived-artifact cache.
type Cache struct {
	Backend string   `toml:"backend"` // none | file | redis
	Dir     string   `toml:"dir"`     // file backend: cache directory
	Redis   string   `toml:"redis"`   // redis backend: host:port
	RedisDB int      `toml:"redis_db"`
	TTL     duration `toml:"ttl"` // e.g. "1h"; 0 means no expiry
}

// History configures the undo/redo snapshot buffer.
type History struct {
	Limit int `toml:"limit"` // max retained snapshots
}

// duration wraps time.Duration for TOML string decoding ("30s", "1h").
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen: ":8432",
		Store:  Store{Backend: BackendMemory, MongoDB: "dagboard"},
		Cache:  Cache{Backend: CacheNone, TTL: duration{time.Hour}},
		History: History{
			Limit: 50,
		},
	}
}

// Load reads the TOML config at path, merged over defaults. An empty path
// returns the defaults. Environment variables DAGBOARD_MONGO_URI and
// DAGBOARD_POSTGRES_URL override the corresponding file values so
// credentials can stay out of the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return Config{}, fmt.Errorf("load config %s: %w", path, err)
		}
	}

	if v := os.Getenv("DAGBOARD_MONGO_URI"); v != "" {
		cfg.Store.MongoURI = v
	}
	if v := os.Getenv("DAGBOARD_POSTGRES_URL"); v != "" {
		cfg.Store.PostgresURL = v
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// CacheTTL returns the configured cache entry lifetime.
func (c Config) CacheTTL() time.Duration { return c.Cache.TTL.Duration }

func (c Config) validate() error {
	switch c.Store.Backend {
	case BackendMemory:
	case BackendMongo:
		if c.Store.MongoURI == "" {
			return fmt.Errorf("store backend %q requires mongo_uri (or DAGBOARD_MONGO_URI)", c.Store.Backend)
		}
	case BackendPostgres:
		if c.Store.PostgresURL == "" {
			return fmt.Errorf("store backend %q requires postgres_url (or DAGBOARD_POSTGRES_URL)", c.Store.Backend)
		}
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case CacheNone, CacheFile:
	case CacheRedis:
		if c.Cache.Redis == "" {
			return fmt.Errorf("cache backend %q requires redis address", c.Cache.Backend)
		}
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}

	if c.History.Limit < 1 {
		return fmt.Errorf("history limit must be at least 1, got %d", c.History.Limit)
	}
	return nil
}
