// Package extracterror defines the error taxonomy of the extraction pipeline.
//
// Fatal conditions (unreadable input, bad arguments) are reported with
// InputError and ErrInvalidArguments. Data anomalies are normally logged and
// skipped; DataExtractionError carries them when strict mode promotes an
// anomaly to a fatal error.
package extracterror

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingTraceID is returned when a line matched the merchant/product
	// filter but carries no extractable trace id.
	ErrMissingTraceID = errors.New("trace id not found on filter-matched line")

	// ErrInvalidArguments is returned for bad command-line input.
	ErrInvalidArguments = errors.New("invalid arguments")
)

// maxSnippet bounds the raw text quoted in error messages.
const maxSnippet = 120

// InputError wraps an I/O failure on the input file.
type InputError struct {
	FilePath string
	Op       string // "open", "read", "decompress"
	Err      error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s input file '%s': %v", e.Op, e.FilePath, e.Err)
}

func (e *InputError) Unwrap() error {
	return e.Err
}

// DataExtractionError represents required data that could not be extracted
// from a specific line of the input.
type DataExtractionError struct {
	FilePath       string
	LineNumber     int
	FieldName      string
	RawDataSnippet string
	Err            error
}

func (e *DataExtractionError) Error() string {
	msg := fmt.Sprintf("data extraction failed in file '%s' at line %d for field '%s': %v",
		e.FilePath, e.LineNumber, e.FieldName, e.Err)
	if e.RawDataSnippet != "" {
		msg += fmt.Sprintf(". Raw data snippet: '%s'", Snippet(e.RawDataSnippet))
	}
	return msg
}

func (e *DataExtractionError) Unwrap() error {
	return e.Err
}

// PatternError reports a filter pattern that failed to compile.
type PatternError struct {
	Pattern string
	Err     error
}

func (e *PatternError) Error() string {
	return fmt.Sprintf("invalid pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternError) Unwrap() error {
	return e.Err
}

// Snippet truncates s for inclusion in a diagnostic.
func Snippet(s string) string {
	if len(s) <= maxSnippet {
		return s
	}
	return s[:maxSnippet] + "..."
}
