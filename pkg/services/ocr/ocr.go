// Package ocr recognizes text in image bytes. The Engine interface is the
// seam to the external OCR collaborator; AzureService implements it with
// Azure Computer Vision.
package ocr

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/services/cognitiveservices/v3.0/computervision"
	"github.com/Azure/go-autorest/autorest"
	"github.com/disintegration/imaging"
)

// Engine recognizes printed text in an image.
type Engine interface {
	Recognize(ctx context.Context, image []byte) (string, error)
}

// Compile-time interface check.
var _ Engine = (*AzureService)(nil)

// AzureService handles OCR operations against Azure Computer Vision.
type AzureService struct {
	client      *computervision.BaseClient
	apiEndpoint string
	apiKey      string
}

// NewAzureService creates a new OCR service.
func NewAzureService(endpoint, apiKey string) *AzureService {
	client := computervision.New(endpoint)
	auth := autorest.NewCognitiveServicesAuthorizer(apiKey)
	client.Authorizer = auth

	return &AzureService{
		client:      &client,
		apiEndpoint: endpoint,
		apiKey:      apiKey,
	}
}

// Recognize performs OCR on image bytes and returns the extracted text.
// The image is enhanced first; if enhancement fails (unsupported format,
// truncated data) the original bytes are sent as-is.
func (s *AzureService) Recognize(ctx context.Context, image []byte) (string, error) {
	enhanced, err := enhanceForOCR(image)
	if err != nil {
		enhanced = image
	}

	reader := io.NopCloser(bytes.NewReader(enhanced))
	result, err := s.client.RecognizePrintedTextInStream(
		ctx,
		true,
		reader,
		computervision.OcrLanguages(computervision.En),
	)
	if err != nil {
		return "", fmt.Errorf("failed to extract text: %w", err)
	}

	return flattenOCRResult(result), nil
}

// enhanceForOCR applies a series of image processing operations to make
// embedded text more readable before recognition.
func enhanceForOCR(data []byte) ([]byte, error) {
	src, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	// 1. Convert to grayscale for better contrast
	img := imaging.Grayscale(src)

	// 2. Increase contrast
	img = imaging.AdjustContrast(img, 30)

	// 3. Sharpen the image to make text more readable
	img = imaging.Sharpen(img, 1.5)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, imaging.JPEG); err != nil {
		return nil, fmt.Errorf("failed to encode processed image: %w", err)
	}
	return buf.Bytes(), nil
}

// flattenOCRResult joins the recognized regions, lines and words into a
// single plain-text string in reading order.
func flattenOCRResult(result computervision.OcrResult) string {
	var b strings.Builder
	if result.Regions == nil {
		return ""
	}
	for _, region := range *result.Regions {
		if region.Lines == nil {
			continue
		}
		for _, line := range *region.Lines {
			if line.Words == nil {
				continue
			}
			for _, word := range *line.Words {
				if word.Text == nil {
					continue
				}
				if b.Len() > 0 {
					b.WriteByte(' ')
				}
				b.WriteString(*word.Text)
			}
		}
	}
	return b.String()
}
