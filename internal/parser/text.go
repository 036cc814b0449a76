package parser

import (
	"html"
	"strings"
)

// cleanHumanText decodes entities and folds every run of whitespace into a
// single space.
func cleanHumanText(value string) string {
	return strings.Join(strings.Fields(html.UnescapeString(value)), " ")
}

// normalizeTag turns a configured tag name into a goquery element selector.
func normalizeTag(tag string) string {
	tag = strings.ToLower(strings.TrimSpace(tag))
	tag = strings.TrimSuffix(strings.TrimPrefix(tag, "<"), ">")
	if tag == "" {
		return DefaultTag
	}

	return tag
}
