package policy

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/harvest/models"
)

// GenericSource labels records produced by the fallback policy.
const GenericSource = "Generic H1 scrape"

// Generic is the unconditional fallback policy: it takes the document's
// first top-level heading as a single record. Pages without an h1 (or with
// an empty one) yield zero records, which is still a successful scrape.
type Generic struct{}

func (Generic) Name() string { return "generic" }

func (Generic) Extract(doc *goquery.Document, _ *url.URL) []models.Record {
	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		return []models.Record{}
	}
	return []models.Record{{
		"title":  title,
		"source": GenericSource,
	}}
}
