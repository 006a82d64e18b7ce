// Package scraper implements the per-URL scrape and the concurrent batch
// orchestrator. A scrape never escapes its boundary: every failure mode is
// folded into a failed outcome for that URL, so one bad URL cannot abort
// the rest of a batch.
package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/harvest/config"
	"github.com/use-agent/harvest/models"
	"github.com/use-agent/harvest/policy"
)

// Scraper fetches pages and turns them into per-URL outcomes.
type Scraper struct {
	fetcher       *fetcher
	registry      *policy.Registry
	timeout       time.Duration
	maxConcurrent int

	inFlight atomic.Int64
}

// New creates a Scraper from config, selecting policies from reg.
func New(cfg config.ScraperConfig, reg *policy.Registry) *Scraper {
	return &Scraper{
		fetcher:       newFetcher(cfg.UserAgent, cfg.MaxBodyBytes),
		registry:      reg,
		timeout:       cfg.FetchTimeout,
		maxConcurrent: cfg.MaxConcurrent,
	}
}

// InFlight reports the number of fetches currently outstanding.
func (s *Scraper) InFlight() int64 {
	return s.inFlight.Load()
}

// Scrape fetches one URL, parses the body and applies the matching
// extraction policy. It produces exactly one outcome and never panics past
// its boundary.
func (s *Scraper) Scrape(ctx context.Context, rawURL string) (out models.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("scrape panicked", "url", rawURL, "panic", r)
			out = models.Failure(rawURL, fmt.Sprintf("%v", r))
		}
	}()

	s.inFlight.Add(1)
	defer s.inFlight.Add(-1)

	// Independent per-URL deadline: one slow page times out without
	// touching its siblings.
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	body, err := s.fetcher.fetch(ctx, rawURL)
	if err != nil {
		var serr *models.ScrapeError
		msg := err.Error()
		if errors.As(err, &serr) {
			msg = serr.Message
		}
		slog.Debug("fetch failed",
			"url", rawURL,
			"error", err,
			"elapsed_ms", time.Since(start).Milliseconds(),
		)
		return models.Failure(rawURL, msg)
	}

	// goquery builds a best-effort tree from malformed markup, so parse
	// errors here are I/O-level only.
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return models.Failure(rawURL, err.Error())
	}

	base, err := url.Parse(rawURL)
	if err != nil {
		return models.Failure(rawURL, err.Error())
	}

	pol := s.registry.For(base)
	records := pol.Extract(doc, base)

	slog.Debug("scraped",
		"url", rawURL,
		"policy", pol.Name(),
		"records", len(records),
		"title", pageTitle(body),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return models.Success(rawURL, records)
}

// ScrapeAll scrapes every URL concurrently and waits for all of them to
// settle. The returned slice has one outcome per input slot, in input
// order regardless of completion order, so out[i].URL == urls[i]. Total
// latency tracks the slowest member, not the sum.
//
// If a worker fails outside Scrape's own recovery (which should not
// happen), its slot is substituted with a placeholder failure instead of
// aborting the batch.
func (s *Scraper) ScrapeAll(ctx context.Context, urls []string) []models.Outcome {
	outcomes := make([]models.Outcome, len(urls))

	var sem chan struct{}
	if s.maxConcurrent > 0 {
		sem = make(chan struct{}, s.maxConcurrent)
	}

	start := time.Now()
	var wg sync.WaitGroup
	for i, rawURL := range urls {
		wg.Add(1)
		go func(idx int, target string) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					slog.Error("batch slot failed unexpectedly", "index", idx, "panic", r)
					outcomes[idx] = models.Failure(models.UnknownSlotURL, fmt.Sprintf("%v", r))
				}
			}()
			if sem != nil {
				sem <- struct{}{}
				defer func() { <-sem }()
			}
			outcomes[idx] = s.Scrape(ctx, target)
		}(i, rawURL)
	}
	wg.Wait()

	succeeded := 0
	for _, out := range outcomes {
		if out.Status == models.StatusSuccess {
			succeeded++
		}
	}
	slog.Info("batch settled",
		"total", len(urls),
		"succeeded", succeeded,
		"failed", len(urls)-succeeded,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)

	return outcomes
}
