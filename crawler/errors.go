package crawler

import "errors"

var (
	// ErrURLRequired is returned when Options.URL is empty.
	ErrURLRequired = errors.New("url is required")
	// ErrHTTPClientRequired is returned when Options.HTTPClient is nil.
	ErrHTTPClientRequired = errors.New("http client is required")
	// ErrSeedUnavailable wraps the last failure once the home page retry gives up.
	ErrSeedUnavailable = errors.New("home page unavailable")
)
