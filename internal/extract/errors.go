package extract

import (
	"errors"
	"fmt"
)

// Common extraction errors
var (
	// ErrEmptyPage is returned when a page carries neither text nor tables.
	ErrEmptyPage = errors.New("page contains no text or tables")

	// ErrNoLineItems is returned when a page parsed cleanly but no line
	// item passed the accept policy.
	ErrNoLineItems = errors.New("no line items found on page")

	// ErrUnknownFormat is returned when a page matches none of the
	// known invoice formats.
	ErrUnknownFormat = errors.New("page matches no known invoice format")
)

// ExtractError wraps errors with context about the failing extraction step.
type ExtractError struct {
	// Op is the operation that failed (e.g., "ParseBereitschaft").
	Op string

	// Page is the 1-based page number, 0 when not page-scoped.
	Page int

	// Err is the underlying error.
	Err error

	// Details provides additional context about the failure.
	Details string
}

// Error implements the error interface.
func (e *ExtractError) Error() string {
	if e.Page > 0 {
		if e.Details != "" {
			return fmt.Sprintf("extract: %s failed on page %d: %s: %v", e.Op, e.Page, e.Details, e.Err)
		}
		return fmt.Sprintf("extract: %s failed on page %d: %v", e.Op, e.Page, e.Err)
	}
	if e.Details != "" {
		return fmt.Sprintf("extract: %s failed: %s: %v", e.Op, e.Details, e.Err)
	}
	return fmt.Sprintf("extract: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *ExtractError) Unwrap() error {
	return e.Err
}

// Is implements error matching for errors.Is.
func (e *ExtractError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewExtractError creates a new ExtractError.
func NewExtractError(op string, page int, err error, details string) *ExtractError {
	return &ExtractError{
		Op:      op,
		Page:    page,
		Err:     err,
		Details: details,
	}
}

// WrapExtractError wraps an error as an ExtractError if it isn't already one.
func WrapExtractError(op string, page int, err error, details string) error {
	if err == nil {
		return nil
	}

	var exErr *ExtractError
	if errors.As(err, &exErr) {
		return err // Already wrapped
	}

	return NewExtractError(op, page, err, details)
}
