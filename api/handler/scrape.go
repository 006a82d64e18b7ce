package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/harvest/config"
	"github.com/use-agent/harvest/models"
	"github.com/use-agent/harvest/scraper"
)

// Scrape returns a handler for POST /api/v1/scrape.
//
// The request body carries an ordered URL list; the response is the ordered
// outcome list, one entry per requested URL. The handler blocks until the
// slowest URL settles — per-URL failures are data, not HTTP errors, so the
// call itself succeeds whenever the request shape is valid.
func Scrape(sc *scraper.Scraper, cfg config.ScraperConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		urls, ok := bindURLs(c, cfg)
		if !ok {
			return
		}

		outcomes := sc.ScrapeAll(c.Request.Context(), urls)
		c.JSON(http.StatusOK, outcomes)
	}
}

// bindURLs parses and validates the shared URL-list request body. On
// failure it writes the 400 response and returns ok=false; the core is
// never invoked for malformed input.
func bindURLs(c *gin.Context, cfg config.ScraperConfig) ([]string, bool) {
	var req models.ScrapeRequest
	if err := c.ShouldBindJSON(&req); err != nil || len(req.URLs) == 0 {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: &models.ErrorDetail{
				Code:    models.ErrCodeInvalidInput,
				Message: models.MsgMissingURLs,
			},
		})
		return nil, false
	}

	if cfg.MaxBatchSize > 0 && len(req.URLs) > cfg.MaxBatchSize {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: &models.ErrorDetail{
				Code:    models.ErrCodeInvalidInput,
				Message: fmt.Sprintf("maximum %d URLs per batch", cfg.MaxBatchSize),
			},
		})
		return nil, false
	}

	return req.URLs, true
}
