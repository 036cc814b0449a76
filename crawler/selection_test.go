package crawler

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSelectionPolicy_ScenarioA(t *testing.T) {
	t.Parallel()

	policy := NewSelectionPolicy("http://edition.cnn.com", 0)
	got := policy.Select([]string{"/weather", "http://commercial.cnn.com/x", "#", "/sport"})

	require.Equal(t, []string{"http://edition.cnn.com/weather", "http://edition.cnn.com/sport"}, got)
}

func TestSelectionPolicy_InScope(t *testing.T) {
	t.Parallel()

	policy := NewSelectionPolicy(fixtureBaseURL, DefaultMinLinkLength)

	tests := []struct {
		name string
		link string
		want bool
	}{
		{name: "relative path", link: "/weather", want: true},
		{name: "relative without slash", link: "sport/live", want: true},
		{name: "empty", link: "", want: false},
		{name: "anchor only", link: "#", want: false},
		{name: "root", link: "/", want: false},
		{name: "two chars", link: "/a", want: true},
		{name: "absolute same domain", link: "http://edition.cnn.com/x", want: false},
		{name: "absolute https", link: "https://money.cnn.com/x", want: false},
		{name: "protocol relative", link: "//cdn.cnn.com/app.js", want: false},
		{name: "http inside query is a known false negative", link: "/redirect?to=http-docs", want: false},
		{name: "double slash inside path", link: "/a//b", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tt.want, policy.InScope(tt.link))
		})
	}
}

func TestSelectionPolicy_MinLinkLength(t *testing.T) {
	t.Parallel()

	policy := NewSelectionPolicy(fixtureBaseURL, 10)
	got := policy.Select([]string{"/weather", "/politics/2024"})

	require.Equal(t, []string{fixtureBaseURL + "/politics/2024"}, got)
}

func TestSelectionPolicy_NormalizesMissingSlash(t *testing.T) {
	t.Parallel()

	policy := NewSelectionPolicy(fixtureBaseURL+"/", 0)
	got := policy.Select([]string{"weather", "/sport"})

	require.Equal(t, []string{fixtureBaseURL + "/weather", fixtureBaseURL + "/sport"}, got)
}

func TestSelectionPolicy_Properties(t *testing.T) {
	t.Parallel()

	inputs := [][]string{
		{},
		{"#", "", "/"},
		{"/a", "/a", "/b"},
		{"/weather", "http://commercial.cnn.com/x", "#", "/sport", "//x.com", "mailto:x@y", "/travel?x=1"},
		{"javascript:void(0)", "/world/africa", "https://edition.cnn.com/us"},
	}

	policy := NewSelectionPolicy(fixtureBaseURL, DefaultMinLinkLength)

	for _, raw := range inputs {
		first := policy.Select(raw)
		second := policy.Select(raw)

		require.LessOrEqual(t, len(first), len(raw))
		require.Equal(t, first, second, "selection must be a pure function of its input")

		for _, u := range first {
			require.True(t, strings.HasPrefix(u, fixtureBaseURL+"/"), "url %q must start with origin", u)
		}
	}
}

func TestSelectionPolicy_KeepsDuplicatesInOrder(t *testing.T) {
	t.Parallel()

	policy := NewSelectionPolicy(fixtureBaseURL, 0)
	got := policy.Select([]string{"/b", "/a", "/b"})

	require.Equal(t, []string{fixtureBaseURL + "/b", fixtureBaseURL + "/a", fixtureBaseURL + "/b"}, got)
}
