// Package config loads cakeledger settings from an optional YAML file
// with CAKELEDGER_* environment overrides.
//
// Environment keys are the config keys upper-cased with dots replaced by
// underscores, e.g. CAKELEDGER_REMOTE_ENDPOINT or CAKELEDGER_CACHE_DRIVER.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// DefaultPath is read when Load is given no path. It may be absent.
const DefaultPath = "cakeledger.yaml"

const envPrefix = "CAKELEDGER"

type Config struct {
	Remote Remote `mapstructure:"remote"`
	Cache  Cache  `mapstructure:"cache"`
	Images Images `mapstructure:"images"`
	Kafka  Kafka  `mapstructure:"kafka"`
	Log    Log    `mapstructure:"log"`
}

type Remote struct {
	Endpoint       string        `mapstructure:"endpoint"`
	SpreadsheetID  string        `mapstructure:"spreadsheet_id"`
	Timeout        time.Duration `mapstructure:"timeout"`
	ImageMode      string        `mapstructure:"image_mode"`
	ImageCellLimit int           `mapstructure:"image_cell_limit"`
}

// Configured reports whether both endpoint and spreadsheet id are set.
func (r Remote) Configured() bool {
	return r.Endpoint != "" && r.SpreadsheetID != ""
}

type Cache struct {
	Driver string `mapstructure:"driver"`
	Path   string `mapstructure:"path"`
	DSN    string `mapstructure:"dsn"`
}

type Images struct {
	MaxInlineBytes int `mapstructure:"max_inline_bytes"`
	S3             S3  `mapstructure:"s3"`
}

type S3 struct {
	Bucket        string `mapstructure:"bucket"`
	Region        string `mapstructure:"region"`
	Prefix        string `mapstructure:"prefix"`
	PublicBaseURL string `mapstructure:"public_base_url"`
}

type Kafka struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type Log struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// defaults lists every key. Viper only resolves environment overrides
// for keys it already knows, so keys without a real default are
// registered with their zero value.
var defaults = map[string]any{
	"remote.endpoint":           "",
	"remote.spreadsheet_id":     "",
	"remote.timeout":            "60s",
	"remote.image_mode":         "flag",
	"remote.image_cell_limit":   50000,
	"cache.driver":              "sqlite",
	"cache.path":                "cakeledger.db",
	"cache.dsn":                 "",
	"images.max_inline_bytes":   45000,
	"images.s3.bucket":          "",
	"images.s3.region":          "",
	"images.s3.prefix":          "orders/",
	"images.s3.public_base_url": "",
	"kafka.enabled":             false,
	"kafka.brokers":             "localhost:9092",
	"kafka.topic":               "cakeledger.collections",
	"log.level":                 "info",
	"log.format":                "text",
}

// Load reads path, or DefaultPath when path is empty. A missing default
// file is not an error; a missing explicit file is.
func Load(path string) (*Config, error) {
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	} else if explicit || !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	var cfg Config
	hook := viper.DecoderConfigOption(func(dc *mapstructure.DecoderConfig) {
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	})
	if err := v.Unmarshal(&cfg, hook); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.Remote.ImageMode {
	case "flag", "inline":
	default:
		return fmt.Errorf("remote.image_mode: unknown mode %q (want flag or inline)", c.Remote.ImageMode)
	}
	switch c.Cache.Driver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("cache.driver: unknown driver %q (want sqlite, postgres or memory)", c.Cache.Driver)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format: unknown format %q (want text or json)", c.Log.Format)
	}
	if c.Remote.Timeout < 0 {
		return fmt.Errorf("remote.timeout: must not be negative")
	}

	brokers := c.Kafka.Brokers[:0]
	for _, b := range c.Kafka.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Kafka.Brokers = brokers
	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka.brokers: required when kafka.enabled is set")
	}
	return nil
}
