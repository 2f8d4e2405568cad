// Package email extracts the delivered content of an RFC 5322 / MIME
// email: normalized body text (plain and HTML parts), OCR text from
// embedded images, and URLs found in the raw part content.
package email

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"

	"email-qa/pkg/models"
	"email-qa/pkg/normalize"
	"email-qa/pkg/services/ocr"

	"github.com/jhillyerd/enmime"
)

// Service extracts content from .eml documents. The OCR engine is
// injected; a nil engine means image parts contribute no text.
type Service struct {
	ocr ocr.Engine
}

// NewService creates a new email extraction service.
func NewService(engine ocr.Engine) *Service {
	return &Service{ocr: engine}
}

// Extract parses eml bytes into an ExtractedDocument. A MIME structure
// that cannot be parsed at all fails with a models.ParseError. An OCR
// failure on a single image part is not fatal: that part contributes
// empty text and the walk continues.
func (s *Service) Extract(ctx context.Context, data []byte) (*models.ExtractedDocument, error) {
	env, err := enmime.ReadEnvelope(bytes.NewReader(data))
	if err != nil {
		return nil, models.NewParseError("email", err)
	}
	// enmime parses dirty input leniently; a message without a single
	// header field is not an email at all.
	if env.Root == nil || len(env.Root.Header) == 0 {
		return nil, models.NewParseError("email", errors.New("no mime headers found"))
	}

	var (
		text      strings.Builder
		imageText strings.Builder
		urls      []string
	)

	walkParts(env.Root, func(p *enmime.Part) {
		switch {
		case p.ContentType == "text/plain" || p.ContentType == "text/html":
			raw := string(p.Content)
			urls = append(urls, normalize.ExtractURLs(raw)...)
			text.WriteString(normalize.CleanDropURLs(raw))

		case strings.HasPrefix(p.ContentType, "image/"):
			if s.ocr == nil {
				slog.Debug("no ocr engine configured, skipping image part",
					"content_type", p.ContentType)
				return
			}
			recognized, err := s.ocr.Recognize(ctx, p.Content)
			if err != nil {
				// One bad attachment never fails the whole comparison.
				slog.Warn("ocr failed for image part, contributing empty text",
					"content_type", p.ContentType, "error", err)
				return
			}
			imageText.WriteString(normalize.Clean(recognized))
		}
	})

	return &models.ExtractedDocument{
		Text:      text.String(),
		URLs:      urls,
		ImageText: imageText.String(),
	}, nil
}

// walkParts visits the MIME part tree depth-first in document order.
func walkParts(p *enmime.Part, visit func(*enmime.Part)) {
	if p == nil {
		return
	}
	visit(p)
	walkParts(p.FirstChild, visit)
	walkParts(p.NextSibling, visit)
}
