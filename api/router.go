package api

import (
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/harvest/api/handler"
	"github.com/use-agent/harvest/api/middleware"
	"github.com/use-agent/harvest/config"
	"github.com/use-agent/harvest/scraper"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health and the static presentation page stay outside auth so probes and
// the bundled UI always work.
func NewRouter(sc *scraper.Scraper, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	// Presentation layer: a static page that talks to the JSON API. The
	// core has no knowledge of it; disable via config for headless use.
	if cfg.Static.Enabled {
		r.StaticFile("/", filepath.Join(cfg.Static.Dir, "index.html"))
		r.Static("/static", cfg.Static.Dir)
	}

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(sc, startTime))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Synchronous batch scrape: waits for every URL to settle.
	protected.POST("/scrape", handler.Scrape(sc, cfg.Scraper))

	// Asynchronous jobs: submit now, poll for outcomes.
	protected.POST("/jobs", handler.PostJob(sc, cfg.Scraper))
	protected.GET("/jobs/:id", handler.GetJob())

	return r
}
