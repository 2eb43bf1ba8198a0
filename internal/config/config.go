// Package config loads server configuration from a TOML file with
// environment variable overrides.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/labelforge/labelforge/pkg/errors"
)

// Defaults applied when a field is absent from the file and environment.
const (
	DefaultAddr       = ":8080"
	DefaultOutputDir  = "output"
	DefaultSessionTTL = 24 * time.Hour
	DefaultMaxCount   = 5000
)

// Config holds the full server configuration.
type Config struct {
	// Addr is the listen address, e.g. ":8080".
	Addr string `toml:"addr"`

	// OutputDir is where generated workbooks and PDFs are written.
	OutputDir string `toml:"output_dir"`

	// SessionTTL is how long login sessions stay valid.
	SessionTTL duration `toml:"session_ttl"`

	Limits LimitsConfig `toml:"limits"`
	Redis  RedisConfig  `toml:"redis"`
	Mongo  MongoConfig  `toml:"mongo"`
}

// LimitsConfig bounds request sizes.
type LimitsConfig struct {
	// MaxCount caps the number of barcodes per batch.
	MaxCount int `toml:"max_count"`
}

// RedisConfig configures the optional redis session store. Sessions fall
// back to an in-memory store when Addr is empty.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// MongoConfig configures the optional mongo-backed user and batch stores.
// Both fall back to in-memory stores when URI is empty.
type MongoConfig struct {
	URI      string `toml:"uri"`
	Database string `toml:"database"`
}

// duration wraps time.Duration so TOML files can use strings like "24h".
type duration struct {
	time.Duration
}

func (d *duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	return &Config{
		Addr:       DefaultAddr,
		OutputDir:  DefaultOutputDir,
		SessionTTL: duration{DefaultSessionTTL},
		Limits:     LimitsConfig{MaxCount: DefaultMaxCount},
		Mongo:      MongoConfig{Database: "labelforge"},
	}
}

// Load reads the TOML file at path, applies defaults for missing fields,
// then applies environment variable overrides. A missing file is not an
// error; the defaults and environment are used alone.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config file")
			}
		} else if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config file")
		}
	}

	applyEnv(cfg)

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values with LABELFORGE_* environment variables.
func applyEnv(cfg *Config) {
	if v := os.Getenv("LABELFORGE_ADDR"); v != "" {
		cfg.Addr = v
	}
	if v := os.Getenv("LABELFORGE_OUTPUT_DIR"); v != "" {
		cfg.OutputDir = v
	}
	if v := os.Getenv("LABELFORGE_SESSION_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.SessionTTL = duration{d}
		}
	}
	if v := os.Getenv("LABELFORGE_MAX_COUNT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Limits.MaxCount = n
		}
	}
	if v := os.Getenv("LABELFORGE_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("LABELFORGE_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("LABELFORGE_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = n
		}
	}
	if v := os.Getenv("LABELFORGE_MONGO_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("LABELFORGE_MONGO_DATABASE"); v != "" {
		cfg.Mongo.Database = v
	}
}

func (c *Config) validate() error {
	if c.Addr == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "addr must not be empty")
	}
	if c.OutputDir == "" {
		return errors.New(errors.ErrCodeInvalidConfig, "output_dir must not be empty")
	}
	if c.SessionTTL.Duration <= 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "session_ttl must be positive")
	}
	if c.Limits.MaxCount < 1 {
		return errors.New(errors.ErrCodeInvalidConfig, "limits.max_count must be at least 1")
	}
	return nil
}
