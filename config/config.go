package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Catalog   CatalogConfig
	Matching  MatchingConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CatalogConfig holds the catalog store configuration: the remote API is
// the primary backend, the SQLite file the fallback.
type CatalogConfig struct {
	RemoteURL    string `mapstructure:"remote_url"`
	RemoteAPIKey string `mapstructure:"remote_api_key"`
	SQLitePath   string `mapstructure:"sqlite_path"`
}

// MatchingConfig holds configuration for the line matcher
type MatchingConfig struct {
	Workers            int  `mapstructure:"workers"`
	EnableDebugLogging bool `mapstructure:"enable_debug_logging"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/pozmatch/")

	// Environment variable settings. The replacer maps nested keys like
	// catalog.remote_url to POZMATCH_CATALOG_REMOTE_URL.
	v.SetEnvPrefix("POZMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:5173"})

	// Catalog defaults: no remote URL means the local SQLite file is the
	// only backend, which is the offline development setup. The empty
	// defaults register the keys so AutomaticEnv picks them up.
	v.SetDefault("catalog.remote_url", "")
	v.SetDefault("catalog.remote_api_key", "")
	v.SetDefault("catalog.sqlite_path", "./catalog.sqlite")

	// Matching defaults (workers 0 = one per CPU)
	v.SetDefault("matching.workers", 0)
	v.SetDefault("matching.enable_debug_logging", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Catalog.SQLitePath == "" {
		return fmt.Errorf("catalog SQLite path is required (set POZMATCH_CATALOG_SQLITE_PATH)")
	}

	if config.Catalog.RemoteURL != "" && config.Catalog.RemoteAPIKey == "" {
		return fmt.Errorf("catalog remote API key is required when a remote URL is set (set POZMATCH_CATALOG_REMOTE_API_KEY)")
	}

	if config.RateLimit.PerIP <= 0 {
		return fmt.Errorf("ratelimit.per_ip must be positive, got: %d", config.RateLimit.PerIP)
	}

	return nil
}
