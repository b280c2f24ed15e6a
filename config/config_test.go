package config

import (
	"os"
	"testing"
)

func TestLoad(t *testing.T) {
	// Clean up environment before tests
	cleanupEnv := func() {
		os.Unsetenv("POZMATCH_SERVER_PORT")
		os.Unsetenv("POZMATCH_SERVER_ENVIRONMENT")
		os.Unsetenv("POZMATCH_SERVER_ALLOWED_ORIGINS")
		os.Unsetenv("POZMATCH_CATALOG_REMOTE_URL")
		os.Unsetenv("POZMATCH_CATALOG_REMOTE_API_KEY")
		os.Unsetenv("POZMATCH_CATALOG_SQLITE_PATH")
		os.Unsetenv("POZMATCH_MATCHING_WORKERS")
		os.Unsetenv("POZMATCH_MATCHING_ENABLE_DEBUG_LOGGING")
		os.Unsetenv("POZMATCH_RATELIMIT_PER_IP")
	}

	t.Run("loads with defaults when no env vars set", func(t *testing.T) {
		cleanupEnv()
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		// Check defaults
		if cfg.Server.Port != "8080" {
			t.Errorf("Server.Port = %s, want 8080", cfg.Server.Port)
		}
		if cfg.Server.Environment != "development" {
			t.Errorf("Server.Environment = %s, want development", cfg.Server.Environment)
		}
		if cfg.Catalog.SQLitePath != "./catalog.sqlite" {
			t.Errorf("Catalog.SQLitePath = %s, want ./catalog.sqlite", cfg.Catalog.SQLitePath)
		}
		if cfg.Catalog.RemoteURL != "" {
			t.Errorf("Catalog.RemoteURL = %s, want empty by default", cfg.Catalog.RemoteURL)
		}
		if cfg.Matching.Workers != 0 {
			t.Errorf("Matching.Workers = %d, want 0 (one per CPU)", cfg.Matching.Workers)
		}
		if cfg.RateLimit.PerIP != 60 {
			t.Errorf("RateLimit.PerIP = %d, want 60", cfg.RateLimit.PerIP)
		}
	})

	t.Run("loads custom values from environment variables", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("POZMATCH_SERVER_PORT", "9090")
		os.Setenv("POZMATCH_CATALOG_REMOTE_URL", "https://catalog.example.com")
		os.Setenv("POZMATCH_CATALOG_REMOTE_API_KEY", "test-key")
		os.Setenv("POZMATCH_RATELIMIT_PER_IP", "120")
		defer cleanupEnv()

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v, want nil", err)
		}

		if cfg.Server.Port != "9090" {
			t.Errorf("Server.Port = %s, want 9090", cfg.Server.Port)
		}
		if cfg.Catalog.RemoteURL != "https://catalog.example.com" {
			t.Errorf("Catalog.RemoteURL = %s, want https://catalog.example.com", cfg.Catalog.RemoteURL)
		}
		if cfg.RateLimit.PerIP != 120 {
			t.Errorf("RateLimit.PerIP = %d, want 120", cfg.RateLimit.PerIP)
		}
	})

	t.Run("rejects a remote URL without an API key", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("POZMATCH_CATALOG_REMOTE_URL", "https://catalog.example.com")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want validation failure")
		}
	})

	t.Run("rejects a non-positive rate limit", func(t *testing.T) {
		cleanupEnv()
		os.Setenv("POZMATCH_RATELIMIT_PER_IP", "0")
		defer cleanupEnv()

		if _, err := Load(); err == nil {
			t.Error("Load() error = nil, want validation failure")
		}
	})
}
