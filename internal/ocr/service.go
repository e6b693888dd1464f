// Package ocr extracts text from scanned invoice PDFs using the Google
// Cloud Vision API.
//
// Unlike a plain text dump, the result is split per page with the
// average detection confidence attached, because the downstream
// extraction pipeline classifies and reconciles each page on its own
// and the field validators weigh their outcome by OCR confidence.
//
// Required Environment Variables:
//   - GOOGLE_APPLICATION_CREDENTIALS: Path to service account JSON file, OR
//   - GOOGLE_CREDENTIALS: Inline JSON credentials string
//
// Cloud Vision API Limitations:
//   - Maximum file size: 20MB for synchronous processing
//   - Maximum pages: 5 pages for synchronous processing
//   - For larger documents, consider asynchronous processing via Cloud Storage
package ocr

import (
	"context"
	"io"
	"time"
)

// Service defines the interface for OCR text extraction.
type Service interface {
	// ProcessPDF extracts per-page text from a PDF document.
	ProcessPDF(ctx context.Context, pdfData io.Reader) (*Result, error)

	// Close releases the underlying client.
	Close() error
}

// PageResult is the OCR outcome for one physical page.
type PageResult struct {
	// Number is the 1-based page index.
	Number int `json:"number"`

	// Text is the detected page text in reading order.
	Text string `json:"text"`

	// Confidence is the average detection confidence in [0,100].
	Confidence float64 `json:"confidence"`
}

// Result contains the OCR output for a whole document.
type Result struct {
	// Pages holds the per-page results in page order.
	Pages []PageResult `json:"pages"`

	// Confidence is the average confidence across all pages in [0,100].
	Confidence float64 `json:"confidence"`

	// LanguageCodes contains the detected languages in the document.
	LanguageCodes []string `json:"language_codes,omitempty"`

	// ProcessedAt is the timestamp when processing completed.
	ProcessedAt time.Time `json:"processed_at"`

	// ProcessingDuration is how long the OCR processing took.
	ProcessingDuration time.Duration `json:"processing_duration"`
}

// Text returns the concatenated text of all pages.
func (r *Result) Text() string {
	var out string
	for i, page := range r.Pages {
		if i > 0 {
			out += "\n\n"
		}
		out += page.Text
	}
	return out
}
