package ocr

import (
	"errors"
	"fmt"
)

// Sentinel errors for OCR processing. Callers match them with
// errors.Is to decide between user-facing hints (file too large,
// missing credentials) and hard failures.
var (
	// ErrPDFTooLarge reports a PDF above the 20MB synchronous limit.
	ErrPDFTooLarge = errors.New("PDF file size exceeds the maximum limit (20MB)")

	// ErrInvalidPDF reports data that is not a PDF document.
	ErrInvalidPDF = errors.New("invalid or corrupted PDF document")

	// ErrOCRFailed reports a Vision API failure.
	ErrOCRFailed = errors.New("OCR processing failed")

	// ErrMissingCredentials reports that neither GOOGLE_APPLICATION_CREDENTIALS
	// nor GOOGLE_CREDENTIALS is configured.
	ErrMissingCredentials = errors.New("missing Google Cloud credentials: set GOOGLE_APPLICATION_CREDENTIALS or GOOGLE_CREDENTIALS environment variable")

	// ErrTooManyPages reports a PDF above the 5-page synchronous limit.
	ErrTooManyPages = errors.New("PDF has too many pages (maximum 5 pages for synchronous processing)")

	// ErrEmptyDocument reports a document with no readable text on any page.
	ErrEmptyDocument = errors.New("document contains no readable text")
)

// OCRError carries the failing operation and context alongside the
// underlying error.
type OCRError struct {
	// Op is the operation that failed (e.g., "ProcessPDF").
	Op string

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

func (e *OCRError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("ocr: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("ocr: %s failed: %v", e.Op, e.Err)
}

func (e *OCRError) Unwrap() error {
	return e.Err
}

// Is matches against the underlying error so sentinels survive wrapping.
func (e *OCRError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewOCRError creates an OCRError for the given operation.
func NewOCRError(op string, err error, details string) *OCRError {
	return &OCRError{
		Op:      op,
		Err:     err,
		Details: details,
	}
}

// WrapOCRError wraps an error as an OCRError unless it already is one.
func WrapOCRError(op string, err error, details string) error {
	if err == nil {
		return nil
	}

	var ocrErr *OCRError
	if errors.As(err, &ocrErr) {
		return err
	}

	return NewOCRError(op, err, details)
}
