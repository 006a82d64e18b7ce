package handler

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/harvest/config"
	"github.com/use-agent/harvest/models"
	"github.com/use-agent/harvest/scraper"
)

// jobStore holds all in-flight and completed jobs.
var jobStore sync.Map

func init() {
	// Background goroutine to expire jobs older than 1 hour.
	go func() {
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for range ticker.C {
			cutoff := time.Now().Add(-1 * time.Hour).Unix()
			jobStore.Range(func(key, value any) bool {
				job := value.(*models.Job)
				if job.CreatedAt < cutoff {
					jobStore.Delete(key)
				}
				return true
			})
		}
	}()
}

// PostJob returns a handler for POST /api/v1/jobs.
//
// It validates the request, creates a job with one outcome slot per URL,
// and launches the scrape in the background. The caller polls GET
// /api/v1/jobs/:id for progress and, once settled, the outcome list.
func PostJob(sc *scraper.Scraper, cfg config.ScraperConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		urls, ok := bindURLs(c, cfg)
		if !ok {
			return
		}

		jobID := "job-" + randomID()
		job := models.NewJob(jobID, len(urls), time.Now().Unix())
		jobStore.Store(jobID, job)

		go runJob(sc, job, urls, cfg.MaxConcurrent)

		c.JSON(http.StatusOK, models.JobResponse{
			ID:     jobID,
			Status: models.JobProcessing,
			Total:  len(urls),
		})
	}
}

// GetJob returns a handler for GET /api/v1/jobs/:id.
func GetJob() gin.HandlerFunc {
	return func(c *gin.Context) {
		jobID := c.Param("id")
		val, ok := jobStore.Load(jobID)
		if !ok {
			c.JSON(http.StatusNotFound, models.ErrorResponse{
				Error: &models.ErrorDetail{
					Code:    models.ErrCodeInvalidInput,
					Message: "job not found",
				},
			})
			return
		}

		job := val.(*models.Job)
		c.JSON(http.StatusOK, job.Snapshot())
	}
}

// runJob scrapes all URLs of a job concurrently, recording each outcome as
// it lands. A worker that fails outside the scraper's own recovery fills
// its slot with a placeholder failure so the job still settles.
func runJob(sc *scraper.Scraper, job *models.Job, urls []string, maxConcurrent int) {
	var sem chan struct{}
	if maxConcurrent > 0 {
		sem = make(chan struct{}, maxConcurrent)
	}

	var wg sync.WaitGroup
	for i, rawURL := range urls {
		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("job slot failed unexpectedly", "job", job.ID, "index", idx, "panic", r)
					job.RecordOutcome(idx, models.Failure(
						models.UnknownSlotURL, fmt.Sprintf("%v", r)))
				}
			}()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			// Jobs outlive the submitting request, so scrape off a
			// background context rather than the request's.
			job.RecordOutcome(idx, sc.Scrape(context.Background(), target))
		}(i, rawURL)
	}
	wg.Wait()

	status := job.Finish()
	slog.Info("job finished", "id", job.ID, "status", status, "total", job.Total)
}

// randomID generates a short random hex string for job IDs.
func randomID() string {
	b := make([]byte, 8)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
