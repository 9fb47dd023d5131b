// Package config loads kinship settings.
//
// Settings are layered, later sources winning:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (kinship.toml)
//  3. a .env file in the working directory
//  4. KINSHIP_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// Example kinship.toml:
//
//	[match]
//	threshold = 6.0
//	last_name = 3.0
//
//	[store]
//	backend = "neo4j"
//	neo4j_uri = "neo4j://localhost:7687"
//
//	[cache]
//	backend = "redis"
//	redis_addr = "localhost:6379"
//	ttl = "12h"
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/matzehuels/kinship/pkg/cache"
	kerrors "github.com/matzehuels/kinship/pkg/errors"
	"github.com/matzehuels/kinship/pkg/match"
	"github.com/matzehuels/kinship/pkg/store"
)

// FileName is the config file looked up in the user config directory.
const FileName = "kinship.toml"

// Cache backend names.
const (
	CacheFile  = "file"
	CacheRedis = "redis"
	CacheNone  = "none"
)

// Config is the complete kinship configuration.
type Config struct {
	Match MatchConfig  `toml:"match"`
	Store store.Config `toml:"store"`
	Cache CacheConfig  `toml:"cache"`
}

// MatchConfig holds identity resolution settings. The weight keys sit
// directly in the [match] table.
type MatchConfig struct {
	match.Weights
	Threshold float64 `toml:"threshold"`
}

// CacheConfig selects the cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`

	// Dir is the file cache directory. Empty means the user cache directory.
	Dir string `toml:"dir"`

	RedisURL      string `toml:"redis_url"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`

	// TTL overrides the per-stage default expiry when positive.
	TTL time.Duration `toml:"ttl"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Match: MatchConfig{
			Weights:   match.DefaultWeights(),
			Threshold: match.DefaultThreshold,
		},
		Store: store.DefaultConfig(),
		Cache: CacheConfig{
			Backend:   CacheFile,
			RedisAddr: "localhost:6379",
		},
	}
}

// Load builds the configuration from defaults, the TOML file at path, .env
// and the environment. An empty path uses [DefaultPath] and tolerates a
// missing file; an explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}
	if path != "" {
		if err := decodeFile(path, &cfg); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	_ = godotenv.Load()
	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// DefaultPath returns $XDG_CONFIG_HOME/kinship/kinship.toml, falling back to
// the platform user config directory. It returns "" when neither is known.
func DefaultPath() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "kinship", FileName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "kinship", FileName)
}

func decodeFile(path string, cfg *Config) error {
	md, err := toml.DecodeFile(path, cfg)
	if errors.Is(err, fs.ErrNotExist) {
		return err
	}
	if err != nil {
		return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return kerrors.New(kerrors.ErrCodeInvalidConfig, "%s: unknown keys: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// applyEnv overlays KINSHIP_* variables.
func applyEnv(cfg *Config) error {
	setString := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	setString("KINSHIP_STORE", &cfg.Store.Backend)
	setString("KINSHIP_STORE_PATH", &cfg.Store.Path)
	setString("KINSHIP_MONGO_URI", &cfg.Store.MongoURI)
	setString("KINSHIP_MONGO_DATABASE", &cfg.Store.MongoDatabase)
	setString("KINSHIP_NEO4J_URI", &cfg.Store.Neo4jURI)
	setString("KINSHIP_NEO4J_USER", &cfg.Store.Neo4jUser)
	setString("KINSHIP_NEO4J_PASSWORD", &cfg.Store.Neo4jPassword)
	setString("KINSHIP_CACHE", &cfg.Cache.Backend)
	setString("KINSHIP_CACHE_DIR", &cfg.Cache.Dir)
	setString("KINSHIP_REDIS_URL", &cfg.Cache.RedisURL)
	setString("KINSHIP_REDIS_ADDR", &cfg.Cache.RedisAddr)
	setString("KINSHIP_REDIS_PASSWORD", &cfg.Cache.RedisPassword)

	if v := os.Getenv("KINSHIP_THRESHOLD"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return kerrors.Wrap(kerrors.ErrCodeInvalidConfig, err, "KINSHIP_THRESHOLD")
		}
		cfg.Match.Threshold = f
	}
	return nil
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := kerrors.ValidateThreshold(c.Match.Threshold); err != nil {
		return err
	}
	w := c.Match.Weights
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"last_name", w.LastName},
		{"maiden_name", w.MaidenName},
		{"first_name", w.FirstName},
		{"birth_year_exact", w.BirthYearExact},
		{"birth_year_near", w.BirthYearNear},
		{"birth_year_close", w.BirthYearClose},
		{"place", w.Place},
		{"external_id", w.ExternalID},
	} {
		if err := kerrors.ValidateWeight(f.name, f.value); err != nil {
			return err
		}
	}
	if err := c.Store.Validate(); err != nil {
		return err
	}
	return kerrors.ValidateChoice("cache backend", c.Cache.Backend, CacheFile, CacheRedis, CacheNone)
}

// Policy returns the match acceptance policy.
func (c Config) Policy() match.Policy {
	return match.Policy{Threshold: c.Match.Threshold}
}

// Resolver returns a resolver using the configured weights.
func (c Config) Resolver() *match.Resolver {
	return match.NewResolver(c.Match.Weights)
}

// RedisConfig returns the Redis connection settings for the cache.
func (c Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		URL:      c.Cache.RedisURL,
		Addr:     c.Cache.RedisAddr,
		Password: c.Cache.RedisPassword,
		DB:       c.Cache.RedisDB,
		Prefix:   "kinship:",
	}
}
