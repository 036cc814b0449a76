package crawler

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
)

// Reporter receives the summary at the end of a crawl. It cannot fail the crawl.
type Reporter interface {
	Report(summary Summary)
}

// ReporterFunc adapts a function to Reporter.
type ReporterFunc func(summary Summary)

func (fn ReporterFunc) Report(summary Summary) { fn(summary) }

// MultiReporter hands the summary to each reporter in turn.
type MultiReporter []Reporter

func (m MultiReporter) Report(summary Summary) {
	for _, reporter := range m {
		if reporter != nil {
			reporter.Report(summary)
		}
	}
}

// LogReporter writes the summary as log lines.
type LogReporter struct {
	Logger zerolog.Logger
}

func (r LogReporter) Report(summary Summary) {
	r.Logger.Info().Int("total_links", summary.TotalLinksFound).
		Msgf("Total Page Links Found: %d", summary.TotalLinksFound)
	r.Logger.Info().Int("candidates", summary.CandidateCount).
		Msgf("Valid Links (Selection Policy OK): %d", summary.CandidateCount)
	r.Logger.Info().Int("visited", summary.VisitedCount).
		Msgf("Visited Links (Re-visit Policy OK): %d", summary.VisitedCount)
	r.Logger.Info().Int("total_tag_count", summary.TotalTagCount).
		Msgf("Total <%s> tags found on all pages: %d", summary.Tag, summary.TotalTagCount)
	r.Logger.Info().Float64("average", summary.AverageTagsPerPage).
		Msgf("Average <%s> tags found per page: %.2f", summary.Tag, summary.AverageTagsPerPage)
}

// JSONReporter writes the summary as JSON to Writer. Write errors are logged.
type JSONReporter struct {
	Writer io.Writer
	Indent bool
	Logger zerolog.Logger
}

func (r JSONReporter) Report(summary Summary) {
	if r.Writer == nil {
		return
	}

	if _, err := r.Writer.Write(MarshalSummary(summary, r.Indent)); err != nil {
		r.Logger.Error().Err(err).Msg("write json summary")
	}
}

// MarshalSummary encodes summary as JSON. The output always ends with a newline.
func MarshalSummary(summary Summary, indent bool) []byte {
	if summary.Pages == nil {
		summary.Pages = []Page{}
	}

	var (
		data []byte
		err  error
	)

	if indent {
		data, err = json.MarshalIndent(summary, "", "  ")
	} else {
		data, err = json.Marshal(summary)
	}

	if err != nil {
		data = []byte(`{"error":"failed to marshal summary"}`)
	}

	return ensureNewline(data)
}

func ensureNewline(data []byte) []byte {
	if len(data) == 0 || data[len(data)-1] != '\n' {
		return append(data, '\n')
	}

	return data
}

type nopReporter struct{}

func (nopReporter) Report(Summary) {}
