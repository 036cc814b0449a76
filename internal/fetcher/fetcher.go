package fetcher

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// ErrInvalidRequest marks failures that no retry can fix.
var ErrInvalidRequest = errors.New("invalid request")

// Result contains the HTTP response data.
type Result struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Config tunes a Fetcher. Zero values disable the corresponding limit.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
}

// Fetcher performs single-attempt HTTP GET requests.
// Retry and pacing are the caller's concern.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
}

// New creates a Fetcher with the provided configuration.
func New(client *http.Client, cfg Config) *Fetcher {
	if client == nil {
		client = http.DefaultClient
	}

	return &Fetcher{
		client:       client,
		timeout:      cfg.Timeout,
		userAgent:    cfg.UserAgent,
		maxBodyBytes: cfg.MaxBodyBytes,
	}
}

// Fetch performs one GET request. Any HTTP status is returned as a Result
// without error; use CheckStatus to classify it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	requestCtx := ctx
	if f.timeout > 0 {
		var cancel context.CancelFunc
		requestCtx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return Result{}, fmt.Errorf("%w: %q is not absolute", ErrInvalidRequest, rawURL)
	}

	if parsedURL.Path == "" {
		parsedURL.Path = "/"
	}

	request, err := http.NewRequestWithContext(requestCtx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if f.userAgent != "" {
		request.Header.Set("User-Agent", f.userAgent)
	}

	response, err := f.client.Do(request)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	var reader io.Reader = response.Body
	if f.maxBodyBytes > 0 {
		reader = io.LimitReader(response.Body, f.maxBodyBytes)
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		return Result{StatusCode: response.StatusCode, Header: response.Header}, fmt.Errorf("read body: %w", err)
	}

	return Result{StatusCode: response.StatusCode, Header: response.Header, Body: body}, nil
}

// StatusError reports a response outside the 2xx range.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return statusText(e.StatusCode)
}

// IsSuccess reports whether statusCode is 2xx.
func IsSuccess(statusCode int) bool {
	return statusCode >= http.StatusOK && statusCode < http.StatusMultipleChoices
}

// CheckStatus returns a *StatusError for non-2xx results.
func CheckStatus(result Result) error {
	if IsSuccess(result.StatusCode) {
		return nil
	}

	return &StatusError{StatusCode: result.StatusCode}
}

// IsPermanent reports failures that retrying cannot fix: malformed requests
// and cancellation. A per-request timeout is transient; the caller's own
// deadline is detected by the caller checking its context.
func IsPermanent(err error) bool {
	if err == nil {
		return false
	}

	return errors.Is(err, ErrInvalidRequest) || errors.Is(err, context.Canceled)
}

func statusText(statusCode int) string {
	text := http.StatusText(statusCode)
	if text == "" {
		return fmt.Sprintf("http status %d", statusCode)
	}

	return fmt.Sprintf("http status %d: %s", statusCode, text)
}
