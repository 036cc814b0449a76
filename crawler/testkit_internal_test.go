package crawler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"
)

const fixtureBaseURL = "http://edition.cnn.com"

var fixtureTime = time.Date(2024, time.June, 1, 12, 34, 56, 0, time.UTC)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return fn(req) }

// roundTripResponder is used by route-based fixture clients.
type roundTripResponder func(*http.Request) (*http.Response, error)

// fixtureSite routes requests for edition.cnn.com by path and counts hits.
// Unknown paths and other hosts answer 404.
type fixtureSite struct {
	mu     sync.Mutex
	routes map[string]roundTripResponder
	hits   map[string]int
}

func newFixtureSite(routes map[string]roundTripResponder) *fixtureSite {
	return &fixtureSite{routes: routes, hits: map[string]int{}}
}

func (s *fixtureSite) client() *http.Client {
	return &http.Client{
		Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
			path := req.URL.EscapedPath()
			if path == "" {
				path = "/"
			}

			s.mu.Lock()
			s.hits[path]++
			handler, ok := s.routes[path]
			s.mu.Unlock()

			if !strings.EqualFold(req.URL.Host, "edition.cnn.com") || !ok {
				return responseForRequest(req, http.StatusNotFound, "not found"), nil
			}

			return handler(req)
		}),
	}
}

func (s *fixtureSite) hitCount(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.hits[path]
}

func (s *fixtureSite) totalHits() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := 0
	for _, n := range s.hits {
		total += n
	}

	return total
}

func htmlPage(body string) roundTripResponder {
	return func(req *http.Request) (*http.Response, error) {
		return responseForRequest(req, http.StatusOK, body), nil
	}
}

func statusPage(status int) roundTripResponder {
	return func(req *http.Request) (*http.Response, error) {
		return responseForRequest(req, status, http.StatusText(status)), nil
	}
}

func brokenConnection() roundTripResponder {
	return func(*http.Request) (*http.Response, error) {
		return nil, errors.New("connection reset by peer")
	}
}

func imagesPage(title string, images int) roundTripResponder {
	var b strings.Builder
	b.WriteString("<html><head><title>" + title + "</title></head><body>")
	for range images {
		b.WriteString(`<img src="/i.png">`)
	}
	b.WriteString("</body></html>")

	return htmlPage(b.String())
}

func responseForRequest(req *http.Request, status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/html"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
		Request:    req,
	}
}

// testClock never blocks and records every requested sleep.
type testClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func newTestClock() *testClock { return &testClock{now: fixtureTime} }

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Sleep(ctx context.Context, d time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, d)
	c.now = c.now.Add(d)
	c.mu.Unlock()

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return nil
	}
}

func (c *testClock) sleepDurations() []time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]time.Duration, len(c.sleeps))
	copy(out, c.sleeps)

	return out
}

// recordingReporter keeps every summary it receives.
type recordingReporter struct {
	mu        sync.Mutex
	summaries []Summary
}

func (r *recordingReporter) Report(summary Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.summaries = append(r.summaries, summary)
}

func (r *recordingReporter) all() []Summary {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]Summary(nil), r.summaries...)
}
