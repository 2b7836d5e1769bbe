package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/use-agent/pricescout/aggregate"
	"github.com/use-agent/pricescout/api/handler"
	"github.com/use-agent/pricescout/api/middleware"
	"github.com/use-agent/pricescout/config"
	"github.com/use-agent/pricescout/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(agg *aggregate.Aggregator, sc *scraper.Scraper, sourceNames []string, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sc, sourceNames, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Compare
	protected.POST("/compare", handler.Compare(agg))

	// Batch
	protected.POST("/batch/compare", handler.PostBatch(agg, cfg.Batch.WebhookSecret, cfg.Batch.MaxConcurrent))
	protected.GET("/batch/:id", handler.GetBatch())

	return r
}
