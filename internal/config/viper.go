// Package config provides Viper-based hierarchical configuration management
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Cache backends
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// Fetch fallback policies applied when the remote list cannot be fetched.
const (
	FallbackCache  = "cache"
	FallbackMemory = "memory"
)

// Config represents the complete application configuration
type Config struct {
	Log        LogConfig        `mapstructure:"log" yaml:"log"`
	Remote     RemoteConfig     `mapstructure:"remote" yaml:"remote"`
	Cache      CacheConfig      `mapstructure:"cache" yaml:"cache"`
	Sync       SyncConfig       `mapstructure:"sync" yaml:"sync"`
	AI         AIConfig         `mapstructure:"ai" yaml:"ai"`
	Export     ExportConfig     `mapstructure:"export" yaml:"export"`
	Server     ServerConfig     `mapstructure:"server" yaml:"server"`
	Categories CategoriesConfig `mapstructure:"categories" yaml:"categories"`
}

// LogConfig configures the logrus logger.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
}

// RemoteConfig points at the spreadsheet web-app endpoint.
type RemoteConfig struct {
	URL            string `mapstructure:"url" yaml:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// CacheConfig selects where the local snapshot lives.
type CacheConfig struct {
	Backend   string `mapstructure:"backend" yaml:"backend"`
	Directory string `mapstructure:"directory" yaml:"directory"`
	Key       string `mapstructure:"key" yaml:"key"`
	RedisAddr string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisDB   int    `mapstructure:"redis_db" yaml:"redis_db"`
}

// SyncConfig holds the synchronization policies.
type SyncConfig struct {
	FetchFallback string `mapstructure:"fetch_fallback" yaml:"fetch_fallback"`
}

// AIConfig configures the insights model.
type AIConfig struct {
	Enabled           bool   `mapstructure:"enabled" yaml:"enabled"`
	Model             string `mapstructure:"model" yaml:"model"`
	RequestsPerMinute int    `mapstructure:"requests_per_minute" yaml:"requests_per_minute"`
	TimeoutSeconds    int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	APIKey            string `mapstructure:"api_key" yaml:"-"` // Never serialize API key
}

// ExportConfig configures the CSV and text reports.
type ExportConfig struct {
	Delimiter      string `mapstructure:"delimiter" yaml:"delimiter"`
	IncludeBOM     bool   `mapstructure:"include_bom" yaml:"include_bom"`
	CurrencySymbol string `mapstructure:"currency_symbol" yaml:"currency_symbol"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr           string   `mapstructure:"addr" yaml:"addr"`
	AllowedOrigins []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
}

// CategoriesConfig points at an optional category catalog override.
type CategoriesConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading.
// configFile, when not empty, replaces the search path lookup.
func InitializeConfig(configFile string) (*Config, error) {
	v := viper.New()

	// 1. Set defaults
	setDefaults(v)

	// 2. Config file locations
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("$HOME/.finance-peres")
		v.AddConfigPath(".finance-peres")
		v.AddConfigPath(".")
	}

	// 3. Environment variables
	v.SetEnvPrefix("FINANCE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// 4. Read config file (optional unless given explicitly)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file %s: %w", v.ConfigFileUsed(), err)
		}
	}

	// 5. Unprefixed variables kept from the web app's environment
	if err := v.BindEnv("ai.api_key", "FINANCE_AI_API_KEY", "GEMINI_API_KEY", "API_KEY"); err != nil {
		return nil, fmt.Errorf("failed to bind AI API key: %w", err)
	}
	if err := v.BindEnv("remote.url", "FINANCE_REMOTE_URL", "SHEETS_API_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind remote URL: %w", err)
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// 6. Validate configuration
	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("remote.url", "")
	v.SetDefault("remote.timeout_seconds", 30)

	v.SetDefault("cache.backend", CacheBackendFile)
	v.SetDefault("cache.directory", "")
	v.SetDefault("cache.key", "ff_transactions")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_db", 0)

	v.SetDefault("sync.fetch_fallback", FallbackCache)

	v.SetDefault("ai.enabled", false)
	v.SetDefault("ai.model", "gemini-2.0-flash")
	v.SetDefault("ai.requests_per_minute", 10)
	v.SetDefault("ai.timeout_seconds", 30)

	v.SetDefault("export.delimiter", ";")
	v.SetDefault("export.include_bom", true)
	v.SetDefault("export.currency_symbol", "R$")

	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.allowed_origins", []string{"*"})

	v.SetDefault("categories.file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.Remote.TimeoutSeconds < 0 || config.Remote.TimeoutSeconds > 300 {
		return fmt.Errorf("remote.timeout_seconds must be between 0 and 300, got: %d", config.Remote.TimeoutSeconds)
	}

	switch config.Cache.Backend {
	case CacheBackendFile, CacheBackendRedis:
	default:
		return fmt.Errorf("cache.backend must be 'file' or 'redis', got: %s", config.Cache.Backend)
	}

	if strings.TrimSpace(config.Cache.Key) == "" {
		return fmt.Errorf("cache.key must not be empty")
	}

	switch config.Sync.FetchFallback {
	case FallbackCache, FallbackMemory:
	default:
		return fmt.Errorf("sync.fetch_fallback must be 'cache' or 'memory', got: %s", config.Sync.FetchFallback)
	}

	if config.AI.Enabled {
		if config.AI.APIKey == "" {
			return fmt.Errorf("GEMINI_API_KEY required when AI is enabled")
		}

		if config.AI.RequestsPerMinute < 1 || config.AI.RequestsPerMinute > 1000 {
			return fmt.Errorf("ai.requests_per_minute must be between 1 and 1000, got: %d", config.AI.RequestsPerMinute)
		}

		if config.AI.TimeoutSeconds < 1 || config.AI.TimeoutSeconds > 300 {
			return fmt.Errorf("ai.timeout_seconds must be between 1 and 300, got: %d", config.AI.TimeoutSeconds)
		}
	}

	if len([]rune(config.Export.Delimiter)) != 1 {
		return fmt.Errorf("export delimiter must be a single character, got: %s", config.Export.Delimiter)
	}

	return nil
}
