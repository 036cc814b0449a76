package crawler

import (
	"slices"
	"sync/atomic"

	"github.com/MarcelloLins/WebCrawling101/internal/cache"
	"github.com/MarcelloLins/WebCrawling101/internal/urlutil"
)

// CrawlState is the mutable state of one crawl. The controller owns it;
// policies get it for the duration of a call and must not keep it.
type CrawlState struct {
	homepageURL     string
	origin          string
	visited         *cache.Cache[struct{}]
	candidateURLs   []string
	totalLinksFound int
	totalTagCount   atomic.Int64
}

// NewCrawlState creates an empty state rooted at homepageURL.
func NewCrawlState(homepageURL string) (*CrawlState, error) {
	origin, err := urlutil.Origin(homepageURL)
	if err != nil {
		return nil, err
	}

	return &CrawlState{
		homepageURL:   homepageURL,
		origin:        origin,
		visited:       cache.New[struct{}](),
		candidateURLs: []string{},
	}, nil
}

func (s *CrawlState) HomepageURL() string { return s.homepageURL }

// Origin is the scheme and host every candidate is built on.
func (s *CrawlState) Origin() string { return s.origin }

// MarkVisited records url and reports whether it was new.
func (s *CrawlState) MarkVisited(url string) bool {
	return s.visited.SetIfAbsent(url, struct{}{})
}

func (s *CrawlState) IsVisited(url string) bool {
	_, ok := s.visited.Get(url)

	return ok
}

func (s *CrawlState) VisitedCount() int { return s.visited.Len() }

// Visited returns the visited URLs in lexical order.
func (s *CrawlState) Visited() []string { return s.visited.Keys() }

// Candidates returns a copy of the filtered seed links.
func (s *CrawlState) Candidates() []string { return slices.Clone(s.candidateURLs) }

func (s *CrawlState) TotalLinksFound() int { return s.totalLinksFound }

func (s *CrawlState) TotalTagCount() int { return int(s.totalTagCount.Load()) }

func (s *CrawlState) setSeedLinks(totalLinks int, candidates []string) {
	s.totalLinksFound = totalLinks
	s.candidateURLs = slices.Clone(candidates)
}

func (s *CrawlState) addTags(count int) {
	if count <= 0 {
		return
	}

	s.totalTagCount.Add(int64(count))
}
