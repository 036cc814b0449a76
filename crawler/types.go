package crawler

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/MarcelloLins/WebCrawling101/internal/limiter"
	"github.com/MarcelloLins/WebCrawling101/internal/retry"
)

// Options configures one crawl.
// Delay is the fixed pause after each candidate; RPS > 0 replaces it with a
// token bucket. Politeness, Revisit and Reporter override the built-in policies.
// A nil SeedRetry uses DefaultSeedRetry; a policy with MaxAttempts 0 retries
// the home page forever.
type Options struct {
	URL           string
	Tag           string
	MinLinkLength int
	Delay         time.Duration
	RPS           float64
	Burst         int
	Workers       int
	Timeout       time.Duration
	UserAgent     string
	MaxBodyBytes  int64
	SeedRetry     *retry.Policy
	HTTPClient    *http.Client
	Clock         limiter.Timer
	Logger        *zerolog.Logger
	Politeness    Politeness
	Revisit       RevisitPolicy
	Reporter      Reporter
}

// Summary is the outcome of a crawl.
// AverageTagsPerPage is zero when no page was visited.
type Summary struct {
	HomepageURL        string  `json:"homepage_url"`
	Tag                string  `json:"tag"`
	GeneratedAt        string  `json:"generated_at"`
	SeedAttempts       int     `json:"seed_attempts"`
	TotalLinksFound    int     `json:"total_links_found"`
	CandidateCount     int     `json:"candidate_count"`
	VisitedCount       int     `json:"visited_count"`
	SkippedCount       int     `json:"skipped_count"`
	FailedCount        int     `json:"failed_count"`
	TotalTagCount      int     `json:"total_tag_count"`
	AverageTagsPerPage float64 `json:"average_tags_per_page"`
	Pages              []Page  `json:"pages"`
}

// Page describes one candidate in discovery order.
type Page struct {
	URL        string `json:"url"`
	HTTPStatus int    `json:"http_status"`
	Status     string `json:"status"`
	TagCount   int    `json:"tag_count"`
	Title      string `json:"title"`
	Error      string `json:"error"`
}

const (
	statusOK      = "ok"
	statusError   = "error"
	statusSkipped = "skipped"
)

// Phase is a step of the crawl state machine.
type Phase int

const (
	PhaseFetchingSeed Phase = iota
	PhaseParsingSeed
	PhaseFiltering
	PhaseIterating
	PhaseSummarizing
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseFetchingSeed:
		return "fetching_seed"
	case PhaseParsingSeed:
		return "parsing_seed"
	case PhaseFiltering:
		return "filtering"
	case PhaseIterating:
		return "iterating"
	case PhaseSummarizing:
		return "summarizing"
	case PhaseDone:
		return "done"
	default:
		return "unknown"
	}
}
