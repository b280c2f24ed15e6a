package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/pozmatch/backend/config"
	httpDelivery "github.com/pozmatch/backend/internal/delivery/http"
	"github.com/pozmatch/backend/internal/domain"
	"github.com/pozmatch/backend/internal/infrastructure/cache"
	"github.com/pozmatch/backend/internal/infrastructure/store"
	"github.com/pozmatch/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting PozMatch Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)

	// Catalog backends: remote API first when configured, local SQLite as
	// the fallback (or as the only backend in offline setups).
	sqliteStore, err := store.NewSQLiteStore(cfg.Catalog.SQLitePath)
	if err != nil {
		log.Fatalf("Failed to open SQLite catalog: %v", err)
	}
	defer sqliteStore.Close()

	var backends []domain.CatalogStore
	var names []string
	if cfg.Catalog.RemoteURL != "" {
		remoteStore := store.NewRemoteStore(cfg.Catalog.RemoteAPIKey, cfg.Catalog.RemoteURL)
		if cfg.Server.Environment == "development" {
			remoteStore.SetDebug(true)
		}
		backends = append(backends, remoteStore)
		names = append(names, "remote")
		log.Printf("Catalog remote API configured: %s", cfg.Catalog.RemoteURL)
	} else {
		log.Printf("WARNING: no remote catalog URL configured, running on SQLite only")
	}
	backends = append(backends, sqliteStore)
	names = append(names, "sqlite")

	catalogStore := store.NewFallback(backends, names)
	catalogCache := cache.NewCatalogCache(catalogStore)

	// Warm the cache; a failure here is not fatal, the match path retries
	// the reload lazily on first use.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if count, err := catalogCache.Reload(ctx); err != nil {
		log.Printf("WARNING: initial catalog load failed: %v", err)
	} else {
		log.Printf("Catalog loaded with %d items", count)
	}
	cancel()

	// Initialize usecase layer
	matchService := usecase.NewMatchService(catalogCache, usecase.MatchConfig{
		Workers:            cfg.Matching.Workers,
		EnableDebugLogging: cfg.Matching.EnableDebugLogging,
	})
	adminService := usecase.NewAdminService(catalogStore, catalogCache)

	log.Printf("Matching: workers=%d, debug=%v", cfg.Matching.Workers, cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(matchService, adminService, catalogCache)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
