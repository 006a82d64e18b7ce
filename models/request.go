package models

// ScrapeRequest is the payload for POST /api/v1/scrape and POST /api/v1/jobs.
type ScrapeRequest struct {
	// URLs is the ordered list of target pages to scrape. Required.
	// Duplicates are allowed and scraped independently.
	URLs []string `json:"urls"`
}

// MsgMissingURLs is the client-facing validation message when the request
// body has no usable URL array.
const MsgMissingURLs = "Please provide an array of URLs in the request body."
