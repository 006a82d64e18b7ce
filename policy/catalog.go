package policy

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/use-agent/harvest/models"
)

// Compiled once; selection runs on every scraped page.
var (
	productSel = cascadia.MustCompile("article.product_pod")
	titleSel   = cascadia.MustCompile("h3 a")
	priceSel   = cascadia.MustCompile(".price_color")
)

// Catalog extracts product records from books.toscrape.com listing pages.
//
// Each product container yields a record with title, price and an absolute
// link. Containers missing any of the three required fields are skipped
// rather than failing the page.
type Catalog struct{}

func (Catalog) Name() string { return "catalog" }

func (Catalog) Extract(doc *goquery.Document, base *url.URL) []models.Record {
	records := []models.Record{}

	doc.FindMatcher(productSel).Each(func(_ int, s *goquery.Selection) {
		link := s.FindMatcher(titleSel).First()

		// The full title lives in the anchor's title attribute; the
		// anchor text is truncated with an ellipsis on listing pages.
		title := strings.TrimSpace(link.AttrOr("title", ""))
		if title == "" {
			title = strings.TrimSpace(link.Text())
		}

		price := strings.TrimSpace(s.FindMatcher(priceSel).First().Text())

		href, ok := link.Attr("href")
		if title == "" || price == "" || !ok || strings.TrimSpace(href) == "" {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}

		records = append(records, models.Record{
			"title": title,
			"price": price,
			"link":  resolved.String(),
		})
	})

	return records
}
