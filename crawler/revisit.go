package crawler

// RevisitPolicy decides whether a candidate should be fetched.
// Returning true must also record url in state in the same step.
type RevisitPolicy interface {
	ShouldVisit(state *CrawlState, url string) bool
}

// NoRevisit fetches every URL at most once per crawl.
type NoRevisit struct{}

func (NoRevisit) ShouldVisit(state *CrawlState, url string) bool {
	return state.MarkVisited(url)
}
