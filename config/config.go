// Package config loads nscache settings from the environment, with an
// optional .env file underneath.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	goredis "github.com/redis/go-redis/v9"
	"github.com/xhit/go-str2duration/v2"
	"go.uber.org/zap/zapcore"

	"github.com/unkn0wn-root/nscache"
	"github.com/unkn0wn-root/nscache/codec"
	pr "github.com/unkn0wn-root/nscache/provider"
	rp "github.com/unkn0wn-root/nscache/provider/redis"
)

const (
	EnvConnection      = "REDIS_CONNECTION"
	EnvDefaultLifetime = "NSCACHE_DEFAULT_LIFETIME"
	EnvExtendOnGet     = "NSCACHE_EXTEND_ON_GET"
	EnvFormat          = "NSCACHE_FORMAT"
	EnvLogLevel        = "NSCACHE_LOG_LEVEL"
)

type Config struct {
	Connection      string        // StackExchange-style target or redis:// URL
	DefaultLifetime time.Duration // accepts "1d", "2w" besides time.ParseDuration units
	ExtendOnGet     bool
	Format          string // json | msgpack | cbor | protobuf
	LogLevel        zapcore.Level
}

// Default returns the settings used when nothing is configured.
func Default() Config {
	return Config{
		Connection:      "localhost",
		DefaultLifetime: nscache.DefaultLifetime,
		ExtendOnGet:     true,
		Format:          codec.JSON{}.Name(),
		LogLevel:        zapcore.InfoLevel,
	}
}

// Load reads files (".env" when none are given) into the process environment
// without overriding variables that are already set, then parses it. A missing
// default .env is not an error; a missing explicit file is.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(files...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return FromEnv()
}

// FromEnv parses the current environment. All invalid values are reported together.
func FromEnv() (Config, error) {
	cfg := Default()
	var errs []error

	cfg.Connection = getEnv(EnvConnection, cfg.Connection)

	if v, ok := lookup(EnvDefaultLifetime); ok {
		d, err := str2duration.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvDefaultLifetime, err))
		}
		cfg.DefaultLifetime = d
	}
	if v, ok := lookup(EnvExtendOnGet); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvExtendOnGet, err))
		}
		cfg.ExtendOnGet = b
	}
	if v, ok := lookup(EnvFormat); ok {
		cfg.Format = strings.ToLower(v)
		if _, known := codec.Lookup(cfg.Format); !known {
			errs = append(errs, fmt.Errorf("%s: %w: %q", EnvFormat, codec.ErrUnknownFormat, v))
		}
	}
	if v, ok := lookup(EnvLogLevel); ok {
		lvl, err := zapcore.ParseLevel(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", EnvLogLevel, err))
		}
		cfg.LogLevel = lvl
	}

	if err := errors.Join(errs...); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// RedisOptions parses Connection into go-redis client options.
func (c Config) RedisOptions() (*goredis.UniversalOptions, error) {
	return rp.ParseConnection(c.Connection)
}

// Codec returns the codec writing Format. Unknown names fall back to JSON;
// FromEnv has already rejected them.
func (c Config) Codec() codec.Codec {
	f, ok := codec.Lookup(c.Format)
	if !ok {
		return codec.Codec{}
	}
	return codec.Codec{Format: f}
}

// Options builds cache options for store bound to namespace.
func (c Config) Options(store pr.Store, namespace string) nscache.Options {
	lifetime := c.DefaultLifetime
	if lifetime == 0 {
		lifetime = -1 // an explicit 0 means "never expire", not "use the default"
	}
	return nscache.Options{
		Store:              store,
		Namespace:          namespace,
		DefaultLifetime:    lifetime,
		DisableExtendOnGet: !c.ExtendOnGet,
		Codec:              c.Codec(),
	}
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

func getEnv(key, def string) string {
	if v, ok := lookup(key); ok {
		return v
	}
	return def
}
