package http

import (
	"github.com/gin-gonic/gin"
	"github.com/pozmatch/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Matching is the CPU-heavy path, so it carries the per-IP limiter.
		v1.POST("/match", RateLimitMiddleware(cfg.RateLimit.PerIP), handler.MatchLines)

		catalog := v1.Group("/catalog")
		{
			catalog.GET("", handler.ListCatalog)
			catalog.POST("/reload", handler.ReloadCatalog)
			catalog.PUT("/items", handler.UpsertItem)
			catalog.POST("/items/bulk", handler.BulkUpsert)
			catalog.DELETE("/items/:code", handler.DeleteItem)
		}
	}

	return router
}
