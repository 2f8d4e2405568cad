// Package normalize turns raw document text into a canonical comparable
// form: markup removed, whitespace collapsed, optionally URLs removed.
package normalize

import (
	"regexp"
	"strings"
)

var (
	tagRe   = regexp.MustCompile(`<[^>]+>`)
	urlRe   = regexp.MustCompile(`[a-zA-Z][a-zA-Z0-9+.-]*://\S+`)
	spaceRe = regexp.MustCompile(`\s+`)
)

// Clean strips HTML/XML-like tags, collapses whitespace runs (including
// newlines) to a single space and trims. Idempotent.
func Clean(raw string) string {
	text := tagRe.ReplaceAllString(raw, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanDropURLs is Clean with URL-shaped substrings removed as well.
// Callers that compare URLs separately must collect them with ExtractURLs
// BEFORE normalizing, since the URLs are gone afterwards.
func CleanDropURLs(raw string) string {
	text := tagRe.ReplaceAllString(raw, " ")
	text = urlRe.ReplaceAllString(text, " ")
	text = spaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// ExtractURLs returns every URL-shaped substring (scheme:// followed by a
// non-whitespace run) in raw text, in order of appearance.
func ExtractURLs(raw string) []string {
	return urlRe.FindAllString(raw, -1)
}
