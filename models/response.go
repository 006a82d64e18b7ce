package models

// Outcome status values.
const (
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

// Record is one structured item extracted from a page. The field set is
// fixed per extraction policy (title/price/link for the catalog policy,
// title/source for the generic fallback) rather than schema-wide.
type Record map[string]string

// Outcome is the terminal result for one URL's scrape attempt.
//
// URL always echoes the originally requested string, even on failure, so
// the caller can correlate the outcome with its request slot. Records is
// present on every success (as [] when the page yielded nothing) and
// absent on failure; Error is the reverse. omitzero keeps that contract:
// it drops the nil slice of a failure but serialises the empty non-nil
// slice of a zero-record success.
type Outcome struct {
	URL     string   `json:"url"`
	Status  string   `json:"status"` // "success" or "failed"
	Records []Record `json:"records,omitzero"`
	Error   string   `json:"error,omitempty"`
}

// UnknownSlotURL is substituted for a batch slot whose worker failed
// outside the per-URL scrape's own recovery, where the requested URL can
// no longer be attributed reliably.
const UnknownSlotURL = "Unknown URL (unexpected error)"

// Success builds a successful outcome. A nil record slice is normalised to
// an empty one so the JSON field serialises as [] instead of being dropped.
func Success(url string, records []Record) Outcome {
	if records == nil {
		records = []Record{}
	}
	return Outcome{URL: url, Status: StatusSuccess, Records: records}
}

// Failure builds a failed outcome carrying the error message text.
func Failure(url, message string) Outcome {
	return Outcome{URL: url, Status: StatusFailed, Error: message}
}

// ErrorResponse is the envelope for request-level failures (bad input,
// auth, rate limiting). Per-URL failures never use it; they are returned
// as failed outcomes inside the result list.
type ErrorResponse struct {
	Error *ErrorDetail `json:"error"`
}

// HealthResponse is the response for GET /api/v1/health.
type HealthResponse struct {
	Status   string `json:"status"` // "healthy"
	Uptime   string `json:"uptime"`
	InFlight int64  `json:"in_flight_fetches"`
	Version  string `json:"version"`
}
