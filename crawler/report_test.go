package crawler

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func sampleSummary() Summary {
	return Summary{
		HomepageURL:        fixtureBaseURL,
		Tag:                "img",
		GeneratedAt:        "2024-06-01T12:34:56Z",
		SeedAttempts:       1,
		TotalLinksFound:    7,
		CandidateCount:     5,
		VisitedCount:       4,
		SkippedCount:       1,
		FailedCount:        2,
		TotalTagCount:      5,
		AverageTagsPerPage: 1.25,
		Pages: []Page{
			{URL: fixtureBaseURL + "/weather", HTTPStatus: 200, Status: statusOK, TagCount: 5, Title: "Weather"},
		},
	}
}

func TestMarshalSummary(t *testing.T) {
	t.Parallel()

	for _, indent := range []bool{true, false} {
		data := MarshalSummary(sampleSummary(), indent)
		require.True(t, bytes.HasSuffix(data, []byte("\n")))
		require.Equal(t, indent, bytes.Contains(data, []byte("\n  ")))

		var decoded map[string]any
		require.NoError(t, json.Unmarshal(data, &decoded))
		require.Equal(t, float64(5), decoded["total_tag_count"])
		require.Equal(t, 1.25, decoded["average_tags_per_page"])
		require.Len(t, decoded["pages"], 1)
	}
}

func TestMarshalSummaryNilPagesIsEmptyArray(t *testing.T) {
	t.Parallel()

	data := MarshalSummary(Summary{}, false)
	require.Contains(t, string(data), `"pages":[]`)
}

func TestJSONReporter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	JSONReporter{Writer: &buf, Indent: true}.Report(sampleSummary())

	require.Equal(t, string(MarshalSummary(sampleSummary(), true)), buf.String())
}

func TestJSONReporterWriteFailureIsLogged(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	reporter := JSONReporter{Writer: failingWriter{}, Logger: zerolog.New(&logs)}

	require.NotPanics(t, func() { reporter.Report(sampleSummary()) })
	require.Contains(t, logs.String(), "disk full")

	require.NotPanics(t, func() { JSONReporter{}.Report(sampleSummary()) })
}

func TestLogReporter(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	LogReporter{Logger: zerolog.New(&logs)}.Report(sampleSummary())

	out := logs.String()
	require.Contains(t, out, "Total Page Links Found: 7")
	require.Contains(t, out, "Valid Links (Selection Policy OK): 5")
	require.Contains(t, out, "Visited Links (Re-visit Policy OK): 4")
	require.Contains(t, out, "Total <img> tags found on all pages: 5")
	require.Contains(t, out, "Average <img> tags found per page: 1.25")
}

func TestMultiReporter(t *testing.T) {
	t.Parallel()

	first := &recordingReporter{}
	second := &recordingReporter{}

	MultiReporter{first, nil, second}.Report(sampleSummary())

	require.Len(t, first.all(), 1)
	require.Len(t, second.all(), 1)
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }
