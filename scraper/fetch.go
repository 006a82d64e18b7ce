package scraper

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"github.com/use-agent/harvest/models"
)

// fetcher performs context-bounded HTTP GETs and classifies failures into
// typed scrape errors so callers can map them straight onto outcomes.
type fetcher struct {
	client       *http.Client
	userAgent    string
	maxBodyBytes int64
}

func newFetcher(userAgent string, maxBodyBytes int64) *fetcher {
	return &fetcher{
		client:       &http.Client{},
		userAgent:    userAgent,
		maxBodyBytes: maxBodyBytes,
	}
}

// timedOutMessage is the exact failure text for a fetch that exceeded its
// deadline. Callers match on outcome messages, so this string is part of
// the API contract.
const timedOutMessage = "Request timed out"

// fetch retrieves targetURL and returns the response body. All failure
// modes come back as *models.ScrapeError:
//
//	FETCH_TIMEOUT     — ctx deadline fired before the body was read
//	FETCH_HTTP_ERROR  — response status outside 200–299
//	FETCH_NETWORK_ERROR — everything else (DNS, connect, TLS, read)
func (f *fetcher) fetch(ctx context.Context, targetURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, models.NewScrapeError(models.ErrCodeNetwork, err.Error(), err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := f.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, models.NewScrapeError(models.ErrCodeTimeout, timedOutMessage, err)
		}
		return nil, models.NewScrapeError(models.ErrCodeNetwork, err.Error(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := fmt.Sprintf("Failed to fetch %s: %d %s",
			targetURL, resp.StatusCode, http.StatusText(resp.StatusCode))
		return nil, models.NewScrapeError(models.ErrCodeHTTPStatus, msg, nil)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodyBytes))
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, models.NewScrapeError(models.ErrCodeTimeout, timedOutMessage, err)
		}
		return nil, models.NewScrapeError(models.ErrCodeNetwork, err.Error(), err)
	}

	return body, nil
}

// pageTitle extracts the <title> content from raw HTML bytes. Used for
// debug logging only; extraction policies work on the parsed document.
func pageTitle(body []byte) string {
	tokenizer := html.NewTokenizer(bytes.NewReader(body))
	for {
		tt := tokenizer.Next()
		switch tt {
		case html.ErrorToken:
			return ""
		case html.StartTagToken:
			tn, _ := tokenizer.TagName()
			if string(tn) == "title" {
				if tokenizer.Next() == html.TextToken {
					return strings.TrimSpace(string(tokenizer.Text()))
				}
				return ""
			}
		}
	}
}
