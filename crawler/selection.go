package crawler

import (
	"strings"

	"github.com/MarcelloLins/WebCrawling101/internal/urlutil"
)

// DefaultMinLinkLength drops empty, "#" and "/" hrefs.
const DefaultMinLinkLength = 1

// SelectionPolicy keeps links that look relative to the crawled site and
// turns them into absolute URLs on Origin.
//
// A link is in scope when it is longer than MinLinkLength and contains
// neither "//" nor "http". The check is textual: a relative path with "http"
// in its query string is dropped, and protocol-relative links are rejected
// only through the "//" test.
type SelectionPolicy struct {
	Origin        string
	MinLinkLength int
}

// NewSelectionPolicy returns a policy for origin. A non-positive minLength
// falls back to DefaultMinLinkLength, so "/" is never in scope.
func NewSelectionPolicy(origin string, minLength int) SelectionPolicy {
	if minLength <= 0 {
		minLength = DefaultMinLinkLength
	}

	return SelectionPolicy{
		Origin:        origin,
		MinLinkLength: minLength,
	}
}

// InScope reports whether link passes the filter.
func (p SelectionPolicy) InScope(link string) bool {
	return len(link) > p.MinLinkLength &&
		!strings.Contains(link, "//") &&
		!strings.Contains(link, "http")
}

// Select filters rawLinks and returns absolute URLs in discovery order.
// Duplicates are kept; deduplication belongs to the re-visit policy.
func (p SelectionPolicy) Select(rawLinks []string) []string {
	urls := make([]string, 0, len(rawLinks))
	for _, link := range rawLinks {
		if !p.InScope(link) {
			continue
		}

		urls = append(urls, urlutil.JoinOrigin(p.Origin, link))
	}

	return urls
}
