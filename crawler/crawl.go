package crawler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/MarcelloLins/WebCrawling101/internal/fetcher"
	"github.com/MarcelloLins/WebCrawling101/internal/limiter"
	"github.com/MarcelloLins/WebCrawling101/internal/parser"
	"github.com/MarcelloLins/WebCrawling101/internal/retry"
)

const (
	defaultSeedAttempts   = 10
	defaultSeedBackoff    = 100 * time.Millisecond
	defaultSeedMaxBackoff = 2 * time.Second
)

// DefaultSeedRetry is used when Options.SeedRetry is nil.
func DefaultSeedRetry() retry.Policy {
	return retry.Policy{
		MaxAttempts: defaultSeedAttempts,
		Backoff:     retry.Exponential(defaultSeedBackoff, defaultSeedMaxBackoff),
	}
}

// Crawl fetches the home page, follows every in-scope link on it once and
// counts Options.Tag elements on each page.
//
// Candidate failures only cost their contribution. The returned error is set
// when options are invalid, the home page stays unavailable, or ctx ends; in
// the last case the partial summary is still reported and returned.
func Crawl(ctx context.Context, opts Options) (Summary, error) {
	c, err := newController(opts)
	if err != nil {
		return Summary{HomepageURL: opts.URL, Pages: []Page{}}, err
	}

	return c.run(ctx)
}

type controller struct {
	log        zerolog.Logger
	clock      limiter.Timer
	fetch      *fetcher.Fetcher
	seedRetry  retry.Policy
	selection  SelectionPolicy
	revisit    RevisitPolicy
	politeness Politeness
	gate       bool
	reporter   Reporter
	tag        string
	workers    int

	state        *CrawlState
	seedAttempts int
	skipped      atomic.Int64
	failed       atomic.Int64
	pages        []Page
}

func newController(opts Options) (*controller, error) {
	if opts.URL == "" {
		return nil, ErrURLRequired
	}

	state, err := NewCrawlState(opts.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid url: %w", err)
	}

	if opts.HTTPClient == nil {
		return nil, ErrHTTPClientRequired
	}

	clock := opts.Clock
	if clock == nil {
		clock = limiter.NewClock()
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	tag := opts.Tag
	if tag == "" {
		tag = parser.DefaultTag
	}

	seedRetry := DefaultSeedRetry()
	if opts.SeedRetry != nil {
		seedRetry = *opts.SeedRetry
	}

	var revisit RevisitPolicy = NoRevisit{}
	if opts.Revisit != nil {
		revisit = opts.Revisit
	}

	reporter := opts.Reporter
	if reporter == nil {
		reporter = nopReporter{}
	}

	politeness := newPoliteness(opts, workers, clock)

	return &controller{
		log:   logger,
		clock: clock,
		fetch: fetcher.New(opts.HTTPClient, fetcher.Config{
			Timeout:      opts.Timeout,
			UserAgent:    opts.UserAgent,
			MaxBodyBytes: opts.MaxBodyBytes,
		}),
		seedRetry:  seedRetry,
		selection:  NewSelectionPolicy(state.Origin(), opts.MinLinkLength),
		revisit:    revisit,
		politeness: politeness,
		gate:       isPermitGate(politeness),
		reporter:   reporter,
		tag:        tag,
		workers:    workers,
		state:      state,
	}, nil
}

func (c *controller) run(ctx context.Context) (Summary, error) {
	body, err := c.fetchSeed(ctx)
	if err != nil {
		c.enter(PhaseDone)

		return c.buildSummary(), err
	}

	links := c.parseSeed(body)
	c.filter(links)
	iterErr := c.iterate(ctx)

	summary := c.summarize()
	c.enter(PhaseDone)

	return summary, iterErr
}

func (c *controller) enter(phase Phase) {
	c.log.Debug().Stringer("phase", phase).Msg("crawl phase")
}

func (c *controller) fetchSeed(ctx context.Context) ([]byte, error) {
	c.enter(PhaseFetchingSeed)

	homepage := c.state.HomepageURL()
	if c.seedRetry.Unbounded() {
		c.log.Warn().Str("url", homepage).Msg("home page retry is unbounded; an unreachable site blocks forever")
	}

	var body []byte
	attempts, err := retry.Do(ctx, c.clock, c.seedRetry, func(ctx context.Context, attempt int) error {
		c.log.Info().Str("url", homepage).Int("attempt", attempt).Msg("requesting home page")

		result, err := c.fetch.Fetch(ctx, homepage)
		if err == nil {
			err = fetcher.CheckStatus(result)
		}

		if err != nil {
			if fetcher.IsPermanent(err) {
				return retry.Permanent(err)
			}

			c.log.Warn().Err(err).Str("url", homepage).Int("attempt", attempt).Msg("home page request failed, retrying")

			return err
		}

		body = result.Body

		return nil
	})
	c.seedAttempts = attempts

	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		c.log.Warn().Err(ctxErr).Str("url", homepage).Int("attempts", attempts).Msg("home page request interrupted")

		return nil, ctxErr
	}

	if err != nil {
		c.log.Error().Err(err).Str("url", homepage).Int("attempts", attempts).Msg("giving up on home page")

		return nil, fmt.Errorf("%w: %w", ErrSeedUnavailable, err)
	}

	return body, nil
}

func (c *controller) parseSeed(body []byte) []string {
	c.enter(PhaseParsingSeed)

	parsed, err := parser.ParseHTML(body, c.tag)
	if err != nil {
		c.log.Warn().Err(err).Str("url", c.state.HomepageURL()).Msg("home page is not parseable, continuing without links")

		return []string{}
	}

	return parsed.Links
}

func (c *controller) filter(links []string) {
	c.enter(PhaseFiltering)

	candidates := c.selection.Select(links)
	c.state.setSeedLinks(len(links), candidates)
	c.pages = make([]Page, len(candidates))

	c.log.Info().
		Int("links", len(links)).
		Int("candidates", len(candidates)).
		Msgf("found a total of %d links on the home page", len(links))
}

// iterate walks the candidates in order. The re-visit decision and the
// politeness wait stay on this goroutine; with more than one worker only
// fetch and parse are handed to the errgroup. A permit gate is waited on
// before each candidate, any other policy after it.
func (c *controller) iterate(ctx context.Context) error {
	c.enter(PhaseIterating)

	var group errgroup.Group
	group.SetLimit(c.workers)

	var loopErr error
	for idx, candidate := range c.state.Candidates() {
		if loopErr = ctx.Err(); loopErr != nil {
			break
		}

		if c.gate {
			if loopErr = c.politeness.Wait(ctx); loopErr != nil {
				break
			}
		}

		switch {
		case !c.revisit.ShouldVisit(c.state, candidate):
			c.skip(idx, candidate)
		case c.workers == 1:
			c.process(ctx, idx, candidate)
		default:
			group.Go(func() error {
				c.process(ctx, idx, candidate)

				return nil
			})
		}

		if !c.gate {
			if loopErr = c.politeness.Wait(ctx); loopErr != nil {
				break
			}
		}
	}

	_ = group.Wait()

	if loopErr != nil {
		c.log.Warn().Err(loopErr).Msg("crawl interrupted")
	}

	return loopErr
}

func (c *controller) skip(idx int, candidate string) {
	c.skipped.Add(1)
	c.pages[idx] = Page{URL: candidate, Status: statusSkipped}

	c.log.Warn().Str("url", candidate).Msg("duplicated url found, skipping it due to re-visit policy")
}

// process fetches a visited candidate once. Any failure is logged and leaves
// the tag total untouched.
func (c *controller) process(ctx context.Context, idx int, pageURL string) {
	page := Page{URL: pageURL, Status: statusOK}

	result, err := c.fetch.Fetch(ctx, pageURL)
	page.HTTPStatus = result.StatusCode
	if err == nil {
		err = fetcher.CheckStatus(result)
	}

	var parsed parser.ParseResult
	if err == nil {
		parsed, err = parser.ParseHTML(result.Body, c.tag)
		if err != nil {
			err = fmt.Errorf("parse html: %w", err)
		}
	}

	if err != nil {
		c.failed.Add(1)
		page.Status = statusError
		page.Error = err.Error()
		c.pages[idx] = page

		event := c.log.Warn()
		if errors.Is(err, context.Canceled) {
			event = c.log.Debug()
		}
		event.Err(err).Str("url", pageURL).Int("status", result.StatusCode).Msg("page failed, counting zero tags")

		return
	}

	c.state.addTags(parsed.TagCount)
	page.TagCount = parsed.TagCount
	page.Title = parsed.Title
	c.pages[idx] = page

	c.log.Info().
		Str("url", pageURL).
		Str("tag", c.tag).
		Int("tag_count", parsed.TagCount).
		Msgf("found %d <%s> tags", parsed.TagCount, c.tag)
}

func (c *controller) summarize() Summary {
	c.enter(PhaseSummarizing)

	summary := c.buildSummary()
	c.report(summary)

	return summary
}

// report shields the crawl result from misbehaving reporters.
func (c *controller) report(summary Summary) {
	defer func() {
		if recovered := recover(); recovered != nil {
			c.log.Error().Interface("panic", recovered).Msg("reporter failed")
		}
	}()

	c.reporter.Report(summary)
}

func (c *controller) buildSummary() Summary {
	visited := c.state.VisitedCount()
	total := c.state.TotalTagCount()

	average := 0.0
	if visited > 0 {
		average = float64(total) / float64(visited)
	}

	pages := make([]Page, 0, len(c.pages))
	for _, page := range c.pages {
		if page.URL == "" {
			continue
		}

		pages = append(pages, page)
	}

	return Summary{
		HomepageURL:        c.state.HomepageURL(),
		Tag:                c.tag,
		GeneratedAt:        c.clock.Now().UTC().Format(time.RFC3339),
		SeedAttempts:       c.seedAttempts,
		TotalLinksFound:    c.state.TotalLinksFound(),
		CandidateCount:     len(c.state.candidateURLs),
		VisitedCount:       visited,
		SkippedCount:       int(c.skipped.Load()),
		FailedCount:        int(c.failed.Load()),
		TotalTagCount:      total,
		AverageTagsPerPage: average,
		Pages:              pages,
	}
}
