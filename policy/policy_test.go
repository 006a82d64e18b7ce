package policy

import (
	"net/url"
	"reflect"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func mustDoc(t *testing.T, rawHTML string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		t.Fatalf("parse fixture: %v", err)
	}
	return doc
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse url %q: %v", raw, err)
	}
	return u
}

const catalogPage = `<html><body>
<article class="product_pod">
  <h3><a href="catalogue/a-light-in-the-attic_1000/index.html" title="A Light in the Attic">A Light in the ...</a></h3>
  <p class="price_color">£51.77</p>
</article>
<article class="product_pod">
  <h3><a href="catalogue/tipping-the-velvet_999/index.html" title="Tipping the Velvet">Tipping the Velvet</a></h3>
  <p class="price_color">£53.74</p>
</article>
<article class="product_pod">
  <h3><a href="catalogue/soumission_998/index.html" title="Soumission">Soumission</a></h3>
  <p class="price_color">£50.10</p>
</article>
</body></html>`

func TestRegistry_Selection(t *testing.T) {
	reg := Default()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{"catalog host", "https://books.toscrape.com/", "catalog"},
		{"catalog subpage", "https://books.toscrape.com/catalogue/page-2.html", "catalog"},
		{"unknown host", "https://example.com/", "generic"},
		{"unknown host with h1", "http://news.ycombinator.com/", "generic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := reg.For(mustURL(t, tt.url)).Name()
			if got != tt.want {
				t.Errorf("For(%q) selected %q, want %q", tt.url, got, tt.want)
			}
		})
	}
}

func TestRegistry_ForURL_Unparseable(t *testing.T) {
	reg := Default()
	if got := reg.ForURL("://not-a-url").Name(); got != "generic" {
		t.Errorf("unparseable URL selected %q, want the fallback", got)
	}
}

func TestCatalog_ExtractsAllWellFormedContainers(t *testing.T) {
	doc := mustDoc(t, catalogPage)
	base := mustURL(t, "https://books.toscrape.com/")

	records := Catalog{}.Extract(doc, base)
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}

	for i, rec := range records {
		if rec["title"] == "" || rec["price"] == "" || rec["link"] == "" {
			t.Errorf("record %d has empty required field: %v", i, rec)
		}
		if !strings.HasPrefix(rec["link"], "https://books.toscrape.com/catalogue/") {
			t.Errorf("record %d link not resolved to absolute: %q", i, rec["link"])
		}
	}

	if records[0]["title"] != "A Light in the Attic" {
		t.Errorf("title = %q, want full title from the anchor attribute", records[0]["title"])
	}
	if records[0]["price"] != "£51.77" {
		t.Errorf("price = %q, want £51.77", records[0]["price"])
	}
}

func TestCatalog_SkipsIncompleteContainers(t *testing.T) {
	tests := []struct {
		name string
		html string
		want int
	}{
		{
			"missing price",
			`<article class="product_pod"><h3><a href="x.html" title="X">X</a></h3></article>` +
				`<article class="product_pod"><h3><a href="y.html" title="Y">Y</a></h3><p class="price_color">£9.99</p></article>`,
			1,
		},
		{
			"missing link",
			`<article class="product_pod"><h3><a title="X">X</a></h3><p class="price_color">£9.99</p></article>`,
			0,
		},
		{
			"missing title",
			`<article class="product_pod"><h3><a href="x.html" title=""> </a></h3><p class="price_color">£9.99</p></article>`,
			0,
		},
	}

	base := mustURL(t, "https://books.toscrape.com/")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Catalog{}.Extract(mustDoc(t, tt.html), base)
			if len(records) != tt.want {
				t.Errorf("got %d records, want %d: %v", len(records), tt.want, records)
			}
		})
	}
}

func TestGeneric_FirstHeading(t *testing.T) {
	tests := []struct {
		name  string
		html  string
		want  int
		title string
	}{
		{"plain h1", `<html><body><h1>Example Domain</h1></body></html>`, 1, "Example Domain"},
		{"whitespace trimmed", `<h1>
			Example Domain
		</h1>`, 1, "Example Domain"},
		{"first of several", `<h1>First</h1><h1>Second</h1>`, 1, "First"},
		{"no h1", `<html><body><h2>Only a subheading</h2></body></html>`, 0, ""},
		{"empty h1", `<h1>   </h1>`, 0, ""},
	}

	base := mustURL(t, "https://example.com/")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records := Generic{}.Extract(mustDoc(t, tt.html), base)
			if len(records) != tt.want {
				t.Fatalf("got %d records, want %d", len(records), tt.want)
			}
			if tt.want == 1 {
				if records[0]["title"] != tt.title {
					t.Errorf("title = %q, want %q", records[0]["title"], tt.title)
				}
				if records[0]["source"] != GenericSource {
					t.Errorf("source = %q, want %q", records[0]["source"], GenericSource)
				}
			}
		})
	}
}

// Policies are stateless: extracting the same document twice must yield
// identical record sequences.
func TestPolicies_Idempotent(t *testing.T) {
	base := mustURL(t, "https://books.toscrape.com/")
	doc := mustDoc(t, catalogPage)

	first := Catalog{}.Extract(doc, base)
	second := Catalog{}.Extract(doc, base)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("catalog extraction not idempotent:\nfirst:  %v\nsecond: %v", first, second)
	}

	gdoc := mustDoc(t, `<h1>Example Domain</h1>`)
	gbase := mustURL(t, "https://example.com/")
	gfirst := Generic{}.Extract(gdoc, gbase)
	gsecond := Generic{}.Extract(gdoc, gbase)
	if !reflect.DeepEqual(gfirst, gsecond) {
		t.Errorf("generic extraction not idempotent:\nfirst:  %v\nsecond: %v", gfirst, gsecond)
	}
}
