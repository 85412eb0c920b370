// Package common provides shared utilities for Catch-Collect
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for Catch-Collect
type Config struct {
	Environment     string        `toml:"environment"`
	DisplayCurrency string        `toml:"display_currency"` // Currency code used for valuation output (default "EUR")
	Server          ServerConfig  `toml:"server"`
	Storage         StorageConfig `toml:"storage"`
	Pricing         PricingConfig `toml:"pricing"`
	Logging         LoggingConfig `toml:"logging"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host      string  `toml:"host"`
	Port      int     `toml:"port"`
	RateLimit float64 `toml:"rate_limit"` // requests per second, 0 disables limiting
	RateBurst int     `toml:"rate_burst"`
}

// StorageConfig holds SurrealDB connection configuration
type StorageConfig struct {
	Address   string `toml:"address"`
	Username  string `toml:"username"`
	Password  string `toml:"password"`
	Namespace string `toml:"namespace"`
	Database  string `toml:"database"`
}

// PricingConfig holds resolution and series tuning knobs
type PricingConfig struct {
	DefaultLocale string `toml:"default_locale"` // preferred locale when a request carries none
	CacheTTL      string `toml:"cache_ttl"`      // duration string for valuation cache entries
}

// GetCacheTTL parses and returns the valuation cache TTL
func (c *PricingConfig) GetCacheTTL() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil {
		return 5 * time.Minute
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment:     "development",
		DisplayCurrency: "EUR",
		Server: ServerConfig{
			Host:      "0.0.0.0",
			Port:      8080,
			RateLimit: 50,
			RateBurst: 100,
		},
		Storage: StorageConfig{
			Address:   "ws://localhost:8000/rpc",
			Username:  "root",
			Password:  "root",
			Namespace: "catchcollect",
			Database:  "main",
		},
		Pricing: PricingConfig{
			DefaultLocale: "en",
			CacheTTL:      "5m",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue // Skip missing files
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("COLLECT_ENV"); env != "" {
		config.Environment = env
	}

	if host := os.Getenv("COLLECT_HOST"); host != "" {
		config.Server.Host = host
	}

	if port := os.Getenv("COLLECT_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	if level := os.Getenv("COLLECT_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if addr := os.Getenv("COLLECT_STORAGE_ADDRESS"); addr != "" {
		config.Storage.Address = addr
	}
	if user := os.Getenv("COLLECT_STORAGE_USERNAME"); user != "" {
		config.Storage.Username = user
	}
	if pass := os.Getenv("COLLECT_STORAGE_PASSWORD"); pass != "" {
		config.Storage.Password = pass
	}
	if ns := os.Getenv("COLLECT_STORAGE_NAMESPACE"); ns != "" {
		config.Storage.Namespace = ns
	}
	if db := os.Getenv("COLLECT_STORAGE_DATABASE"); db != "" {
		config.Storage.Database = db
	}

	if dc := os.Getenv("COLLECT_DISPLAY_CURRENCY"); dc != "" {
		config.DisplayCurrency = strings.ToUpper(dc)
	}

	if loc := os.Getenv("COLLECT_DEFAULT_LOCALE"); loc != "" {
		config.Pricing.DefaultLocale = loc
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
