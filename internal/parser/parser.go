package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultTag is the element counted when no tag is configured.
const DefaultTag = "img"

// ParseResult aggregates HTML analysis results.
type ParseResult struct {
	Links    []string
	TagCount int
	Title    string
}

// ParseHTML parses HTML once and extracts anchor hrefs, the number of tag
// elements and the page title. Text is HTML-decoded.
func ParseHTML(body []byte, tag string) (ParseResult, error) {
	doc, err := newDocument(body)
	if err != nil {
		return ParseResult{Links: []string{}}, err
	}

	return ParseResult{
		Links:    parseLinks(doc),
		TagCount: countTag(doc, tag),
		Title:    parseTitle(doc),
	}, nil
}

// ExtractLinks returns every anchor href in document order.
// Unparseable input yields an empty slice.
func ExtractLinks(body []byte) []string {
	doc, err := newDocument(body)
	if err != nil {
		return []string{}
	}

	return parseLinks(doc)
}

// CountTag returns the number of tag elements. Unparseable input yields zero.
func CountTag(body []byte, tag string) int {
	doc, err := newDocument(body)
	if err != nil {
		return 0
	}

	return countTag(doc, tag)
}

func newDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}

func parseLinks(doc *goquery.Document) []string {
	links := []string{}
	doc.Find("a[href]").Each(func(_ int, selection *goquery.Selection) {
		href, ok := selection.Attr("href")
		if !ok {
			return
		}

		links = append(links, strings.TrimSpace(href))
	})

	return links
}

func countTag(doc *goquery.Document, tag string) int {
	return doc.Find(normalizeTag(tag)).Length()
}

func parseTitle(doc *goquery.Document) string {
	titleSelection := doc.Find("title").First()
	if titleSelection.Length() == 0 {
		return ""
	}

	return cleanHumanText(titleSelection.Text())
}
