// Package pipeline runs one full comparison: extract both documents,
// compare, and optionally collect the semantic reviewer's commentary.
package pipeline

import (
	"context"
	"log/slog"

	"email-qa/pkg/models"
	"email-qa/pkg/services/compare"
	emailsvc "email-qa/pkg/services/email"
	pdfsvc "email-qa/pkg/services/pdf"
	"email-qa/pkg/services/review"

	"golang.org/x/sync/errgroup"
)

// Pipeline wires the extractors, the comparison engine and the optional
// reviewer together. No state is shared between runs; every invocation
// rebuilds its results from scratch.
type Pipeline struct {
	pdf      *pdfsvc.Service
	email    *emailsvc.Service
	engine   *compare.Engine
	reviewer *review.Reviewer
}

// New creates a Pipeline. The reviewer may be disabled; it is skipped in
// that case and the Report carries no review text.
func New(pdf *pdfsvc.Service, email *emailsvc.Service, engine *compare.Engine, reviewer *review.Reviewer) *Pipeline {
	return &Pipeline{pdf: pdf, email: email, engine: engine, reviewer: reviewer}
}

// Run executes one comparison. The two extractions have no data
// dependency and run in parallel; a ParseError on either aborts the run
// with no partial results. The reviewer runs concurrently with the
// deterministic comparison so its latency or failure never blocks it.
func (p *Pipeline) Run(ctx context.Context, pdfBytes, emlBytes []byte) (*models.Report, error) {
	var (
		pdfDoc   *models.ExtractedDocument
		emailDoc *models.ExtractedDocument
	)

	eg, egCtx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		doc, err := p.pdf.Extract(pdfBytes)
		if err != nil {
			return err
		}
		pdfDoc = doc
		return nil
	})
	eg.Go(func() error {
		doc, err := p.email.Extract(egCtx, emlBytes)
		if err != nil {
			return err
		}
		emailDoc = doc
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	emailText := emailDoc.CombinedText()

	reviewCh := make(chan string, 1)
	if p.reviewer != nil && p.reviewer.Enabled() {
		go func() {
			reviewCh <- p.reviewer.Review(ctx, pdfDoc.Text, emailText)
		}()
	} else {
		reviewCh <- ""
	}

	result := p.engine.Compare(pdfDoc, emailText, emailDoc.URLs)
	slog.Info("comparison complete",
		"score", result.Score,
		"diff_entries", len(result.Diffs),
		"comments", len(result.Comments))

	return &models.Report{
		ComparisonResult: result,
		PDFText:          pdfDoc.Text,
		EmailText:        emailText,
		PDFQuality:       pdfDoc.Quality,
		Review:           <-reviewCh,
	}, nil
}
