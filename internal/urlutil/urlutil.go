package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

var errMissingSchemeOrHost = errors.New("missing scheme or host")

// Origin returns "scheme://host[:port]" of an absolute HTTP(S) URL.
func Origin(rawURL string) (string, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", err
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errMissingSchemeOrHost
	}

	if !isSupportedScheme(parsed.Scheme) {
		return "", errors.New("unsupported scheme " + parsed.Scheme)
	}

	return strings.ToLower(parsed.Scheme) + "://" + parsed.Host, nil
}

// JoinOrigin appends a scope-relative link to origin.
// A link without a leading "/" gets one so the result is always origin + path.
func JoinOrigin(origin, link string) string {
	origin = strings.TrimSuffix(origin, "/")
	if !strings.HasPrefix(link, "/") {
		link = "/" + link
	}

	return origin + link
}

func isSupportedScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)

	return scheme == "http" || scheme == "https"
}
