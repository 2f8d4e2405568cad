// Package compare implements the comparison engine: a Ratcliff/Obershelp
// sequence alignment between the review PDF text and the delivered email
// text, a structured diff of unmatched spans and URLs, and per-annotation
// implementation verdicts.
package compare

import (
	"strings"

	"email-qa/pkg/models"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultCommentThreshold is the similarity ratio above which a reviewer
// comment counts as implemented. A policy choice with user-visible
// consequences; keep it in one place.
const DefaultCommentThreshold = 0.6

// Engine compares extracted documents. Pure and deterministic.
type Engine struct {
	// CommentThreshold classifies a comment as implemented when its ratio
	// is strictly greater than this value.
	CommentThreshold float64
}

// New returns an Engine with the default comment threshold.
func New() *Engine {
	return &Engine{CommentThreshold: DefaultCommentThreshold}
}

// runes splits s into one-rune strings so the sequence matcher aligns at
// character granularity.
func runes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// Ratio returns the Ratcliff/Obershelp similarity of two strings,
// case-folded, in [0,1].
func (e *Engine) Ratio(a, b string) float64 {
	m := difflib.NewMatcher(runes(strings.ToLower(a)), runes(strings.ToLower(b)))
	return m.Ratio()
}

// Compare aligns the PDF text against the combined email text (body plus
// OCR text, as joined by ExtractedDocument.CombinedText) and collects the
// overall score, the textual diff and the missing URLs.
func (e *Engine) Compare(pdfDoc *models.ExtractedDocument, emailText string, emailURLs []string) models.ComparisonResult {
	pdfText := pdfDoc.Text

	pdfRunes := []rune(pdfText)
	m := difflib.NewMatcher(runes(strings.ToLower(pdfText)), runes(strings.ToLower(emailText)))
	score := m.Ratio() * 100

	var diffs []models.DiffEntry
	for _, op := range m.GetOpCodes() {
		if op.Tag == 'e' || op.I1 == op.I2 {
			continue
		}
		// Spans are reported verbatim from the original-case PDF text.
		diffs = append(diffs, models.DiffEntry{
			Kind:      models.DiffKindText,
			Source:    "pdf",
			Extracted: string(pdfRunes[op.I1:op.I2]),
			Status:    models.StatusNotFoundInEmail,
		})
	}

	diffs = append(diffs, missingURLs(pdfDoc.URLs, emailURLs)...)

	return models.ComparisonResult{
		Score:    score,
		Diffs:    diffs,
		Comments: e.CommentVerdicts(pdfDoc.Comments, emailText),
	}
}

// missingURLs reports each distinct PDF URL with no byte-identical match in
// the email URL list, in first-occurrence order. Set membership, not fuzzy:
// a single-character difference counts as missing.
func missingURLs(pdfURLs, emailURLs []string) []models.DiffEntry {
	present := make(map[string]struct{}, len(emailURLs))
	for _, u := range emailURLs {
		present[u] = struct{}{}
	}

	var entries []models.DiffEntry
	seen := make(map[string]struct{}, len(pdfURLs))
	for _, u := range pdfURLs {
		if _, ok := present[u]; ok {
			continue
		}
		if _, dup := seen[u]; dup {
			continue
		}
		seen[u] = struct{}{}
		entries = append(entries, models.DiffEntry{
			Kind:      models.DiffKindURL,
			Source:    "pdf",
			Extracted: u,
			Status:    models.StatusMissingInEmail,
		})
	}
	return entries
}

// CommentVerdicts scores each reviewer comment against the combined email
// text, preserving document order. A comment is implemented only when its
// ratio is strictly above the threshold; a ratio exactly at the threshold
// is not implemented.
func (e *Engine) CommentVerdicts(comments []string, emailText string) []models.CommentVerdict {
	verdicts := make([]models.CommentVerdict, 0, len(comments))
	for _, comment := range comments {
		ratio := e.Ratio(comment, emailText)
		verdicts = append(verdicts, models.CommentVerdict{
			Comment:     comment,
			Implemented: ratio > e.CommentThreshold,
			Ratio:       ratio,
		})
	}
	return verdicts
}
