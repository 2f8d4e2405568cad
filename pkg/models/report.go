package models

import "fmt"

// ExtractedDocument holds the normalized content pulled out of one input
// document. Comments is only populated for PDFs, ImageText only for emails.
type ExtractedDocument struct {
	Text      string             `json:"text"`
	Comments  []string           `json:"comments,omitempty"`
	URLs      []string           `json:"urls,omitempty"`
	ImageText string             `json:"image_text,omitempty"`
	Quality   *ExtractionQuality `json:"quality,omitempty"`
}

// CombinedText joins body text and OCR text with a single space, even when
// one side is empty. The overall match score is defined against this string.
func (d *ExtractedDocument) CombinedText() string {
	return d.Text + " " + d.ImageText
}

// DiffKind identifies what a diff entry refers to.
type DiffKind string

const (
	DiffKindText DiffKind = "text"
	DiffKindURL  DiffKind = "url"
)

// DiffStatus describes how the extracted content is missing from the email.
type DiffStatus string

const (
	StatusNotFoundInEmail DiffStatus = "not_found_in_email"
	StatusMissingInEmail  DiffStatus = "missing_in_email"
)

// DiffEntry is one PDF-side span or URL that has no counterpart in the
// delivered email. Entries keep discovery order.
type DiffEntry struct {
	Kind      DiffKind   `json:"kind"`
	Source    string     `json:"source"`
	Extracted string     `json:"extracted"`
	Status    DiffStatus `json:"status"`
}

// CommentVerdict records whether one reviewer annotation appears to have
// been implemented in the email, with its similarity ratio.
type CommentVerdict struct {
	Comment     string  `json:"comment"`
	Implemented bool    `json:"implemented"`
	Ratio       float64 `json:"ratio"`
}

// ComparisonResult aggregates the outcome of one comparison run.
type ComparisonResult struct {
	Score    float64          `json:"score"`
	Diffs    []DiffEntry      `json:"diffs"`
	Comments []CommentVerdict `json:"comments"`
}

// ExtractionQuality captures metrics about PDF text extraction quality.
type ExtractionQuality struct {
	PageCount       int     `json:"page_count"`
	CharsPerPage    float64 `json:"chars_per_page"`
	PrintableRatio  float64 `json:"printable_ratio"`
	WordlikeRatio   float64 `json:"wordlike_ratio"`
	HasImageStreams bool    `json:"has_image_streams"`
}

// NeedsOCR reports whether the PDF text layer is likely unusable and the
// document should be re-submitted as a scan through an OCR pass.
func (q *ExtractionQuality) NeedsOCR() bool {
	return (q.CharsPerPage < 50 && q.HasImageStreams) || q.PrintableRatio < 0.85
}

// Report is the full payload returned to the presentation layer.
type Report struct {
	ComparisonResult
	PDFText    string             `json:"pdf_text"`
	EmailText  string             `json:"email_text"`
	PDFQuality *ExtractionQuality `json:"pdf_quality,omitempty"`
	Review     string             `json:"review,omitempty"`
}

// ParseError means a whole input document could not be parsed. It aborts
// the comparison run; no partial results are produced.
type ParseError struct {
	Doc string // "pdf" or "email"
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s document: %v", e.Doc, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// NewParseError wraps err as a fatal parse failure for the named document.
func NewParseError(doc string, err error) *ParseError {
	return &ParseError{Doc: doc, Err: err}
}
