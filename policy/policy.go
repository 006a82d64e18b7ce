// Package policy maps parsed HTML documents to structured records.
//
// Each extraction policy is a stateless transform from (document, source URL)
// to an ordered record list. Policies are selected through an ordered rule
// list: the first rule whose predicate matches the source URL wins, and the
// final rule is an unconditional fallback so selection always resolves.
package policy

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/use-agent/harvest/models"
)

// Policy extracts records from a parsed document. Implementations must be
// stateless: the same document and base URL always yield the same records.
type Policy interface {
	// Name identifies the policy in logs.
	Name() string

	// Extract pulls records out of doc. Relative links are resolved
	// against base. A page with nothing to extract returns an empty
	// slice, not an error.
	Extract(doc *goquery.Document, base *url.URL) []models.Record
}

// Rule pairs a URL predicate with the policy applied when it matches.
type Rule struct {
	Match  func(u *url.URL) bool
	Policy Policy
}

// Registry is an ordered rule list evaluated front to back.
type Registry struct {
	rules []Rule
}

// NewRegistry builds a registry from rules. The last rule should match
// unconditionally; it is used whenever no earlier rule matches.
func NewRegistry(rules ...Rule) *Registry {
	return &Registry{rules: rules}
}

// Default returns the built-in rule set: the catalog-site policy for
// books.toscrape.com, then the generic H1 fallback for everything else.
func Default() *Registry {
	return NewRegistry(
		Rule{Match: HostContains("books.toscrape.com"), Policy: Catalog{}},
		Rule{Match: MatchAny, Policy: Generic{}},
	)
}

// For selects the policy for u. Falls back to the last rule's policy when
// no predicate matches.
func (r *Registry) For(u *url.URL) Policy {
	for _, rule := range r.rules {
		if rule.Match(u) {
			return rule.Policy
		}
	}
	return r.rules[len(r.rules)-1].Policy
}

// ForURL is a convenience wrapper around For that parses raw first.
// Unparseable input selects the fallback policy.
func (r *Registry) ForURL(raw string) Policy {
	u, err := url.Parse(raw)
	if err != nil {
		return r.rules[len(r.rules)-1].Policy
	}
	return r.For(u)
}

// HostContains returns a predicate matching URLs whose host contains sub.
func HostContains(sub string) func(*url.URL) bool {
	sub = strings.ToLower(sub)
	return func(u *url.URL) bool {
		return strings.Contains(strings.ToLower(u.Host), sub)
	}
}

// MatchAny matches every URL. Used for the fallback rule.
func MatchAny(*url.URL) bool { return true }
