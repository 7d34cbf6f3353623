package ingest

import (
	"regexp"
	"strings"
)

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// junkTitles are boilerplate headlines long enough to pass the length check
// but still worthless: section labels and dashboard chrome that scraped
// pages keep presenting as content.
var junkTitles = map[string]bool{
	"current accounts":                true,
	"crypto investigations":           true,
	"crypto compliance":               true,
	"crypto security fraud":           true,
	"cumulative repo count over time": true,
	"cumulative star count over time": true,
	"subscribe to our newsletter":     true,
	"latest posts and updates":        true,
}

// isJunk reports whether a title is too short or matches known boilerplate.
func isJunk(title string) bool {
	norm := strings.TrimSpace(nonWord.ReplaceAllString(strings.ToLower(title), ""))
	if len(norm) < 15 {
		return true
	}
	return junkTitles[norm]
}
