// Package config loads runtime settings from .env files, an optional YAML
// file and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds every runtime setting of the inspector.
type Config struct {
	Port     string `mapstructure:"port"`
	GinMode  string `mapstructure:"gin_mode"`
	DevMode  bool   `mapstructure:"dev_mode"`
	LogLevel string `mapstructure:"log_level"`
	DataDir  string `mapstructure:"data_dir"`

	FetchBackend string        `mapstructure:"fetch_backend"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
	ProbeTimeout time.Duration `mapstructure:"probe_timeout"`
	UserAgent    string        `mapstructure:"user_agent"`

	// requests per second and bucket size per client IP
	RateLimit float64 `mapstructure:"rate_limit"`
	RateBurst int     `mapstructure:"rate_burst"`
}

var defaults = map[string]any{
	"port":          "8082",
	"gin_mode":      "release",
	"dev_mode":      false,
	"log_level":     "info",
	"data_dir":      "data",
	"fetch_backend": "http",
	"fetch_timeout": 15 * time.Second,
	"probe_timeout": 5 * time.Second,
	"user_agent":    "SEOInspector/1.0",
	"rate_limit":    2.0,
	"rate_burst":    5,
}

// loadEnv loads .env.development first (local development), then .env.
// Missing files are not an error.
func loadEnv() error {
	for _, name := range []string{".env.development", ".env"} {
		if err := godotenv.Load(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", name, err)
		}
	}
	return nil
}

// Load reads configuration. path may be empty; when set it names a YAML file
// whose values sit between defaults and environment variables.
func Load(path string) (*Config, error) {
	if err := loadEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("config: port is empty")
	}
	if c.FetchTimeout <= 0 || c.ProbeTimeout <= 0 {
		return errors.New("config: timeouts must be positive")
	}
	if c.RateLimit <= 0 || c.RateBurst <= 0 {
		return errors.New("config: rate limit and burst must be positive")
	}
	return nil
}
