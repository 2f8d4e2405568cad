// Package pdf extracts the reviewable content of a legal-review PDF:
// normalized full text, reviewer annotation comments in document order,
// and URLs found in the raw page text.
package pdf

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"email-qa/pkg/models"
	"email-qa/pkg/normalize"

	lpdf "github.com/ledongthuc/pdf"
)

// Service extracts content from PDF documents.
type Service struct{}

// NewService creates a new PDF extraction service.
func NewService() *Service {
	return &Service{}
}

// Extract parses pdf bytes into an ExtractedDocument. A document that
// cannot be parsed at all fails with a models.ParseError; pages that fail
// individually contribute nothing and extraction continues.
func (s *Service) Extract(data []byte) (doc *models.ExtractedDocument, err error) {
	// The PDF library can panic on malformed input; treat that as a
	// whole-document parse failure.
	defer func() {
		if r := recover(); r != nil {
			doc = nil
			err = models.NewParseError("pdf", fmt.Errorf("malformed pdf: %v", r))
		}
	}()

	quality, err := preflight(data)
	if err != nil {
		return nil, models.NewParseError("pdf", err)
	}

	reader, err := lpdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, models.NewParseError("pdf", err)
	}

	var (
		text     strings.Builder
		rawText  strings.Builder
		comments []string
		urls     []string
	)

	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		// Per-page panic guard so one broken page does not lose the rest.
		func() {
			defer func() {
				if r := recover(); r != nil {
					slog.Warn("skipping unreadable pdf page", "page", i, "panic", r)
				}
			}()

			page := reader.Page(i)
			if page.V.IsNull() {
				return
			}

			raw, err := page.GetPlainText(nil)
			if err != nil {
				slog.Warn("skipping page with unreadable text", "page", i, "error", err)
				raw = ""
			}
			rawText.WriteString(raw)
			urls = append(urls, normalize.ExtractURLs(raw)...)
			// Pages run together: no separator between them.
			text.WriteString(normalize.CleanDropURLs(raw))

			comments = append(comments, pageComments(page)...)
		}()
	}

	quality.CharsPerPage = charsPerPage(rawText.String(), quality.PageCount)
	quality.PrintableRatio = printableRatio(rawText.String())
	quality.WordlikeRatio = wordlikeRatio(rawText.String())
	if quality.NeedsOCR() {
		slog.Warn("pdf text layer looks unusable, document may be a scan",
			"chars_per_page", quality.CharsPerPage,
			"printable_ratio", quality.PrintableRatio)
	}

	return &models.ExtractedDocument{
		Text:     text.String(),
		Comments: comments,
		URLs:     urls,
		Quality:  quality,
	}, nil
}

// pageComments walks the page's annotation array in document order and
// collects every annotation whose contents are non-empty after trimming.
// Annotations with empty or absent contents are skipped silently.
func pageComments(page lpdf.Page) []string {
	annots := page.V.Key("Annots")
	if annots.Kind() != lpdf.Array {
		return nil
	}

	var comments []string
	for i := 0; i < annots.Len(); i++ {
		contents := annots.Index(i).Key("Contents")
		if contents.Kind() != lpdf.String {
			continue
		}
		if c := strings.TrimSpace(contents.RawString()); c != "" {
			comments = append(comments, c)
		}
	}
	return comments
}
