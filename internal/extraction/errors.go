package extraction

import (
	"errors"
	"fmt"
)

// ErrNoText is the cause of an ExtractionError for documents without text.
var ErrNoText = errors.New("document contains no text")

// UnsupportedFormatError is returned for files that are neither PDF nor Word.
type UnsupportedFormatError struct {
	FileName string
}

func (e *UnsupportedFormatError) Error() string {
	return "Unsupported file format. Please upload PDF or DOCX files."
}

// ExtractionError is returned when a supported document yields no usable text.
type ExtractionError struct {
	Format string
	Cause  error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("could not extract text from %s: %v", e.Format, e.Cause)
}

func (e *ExtractionError) Unwrap() error {
	return e.Cause
}

// PartitionError is returned when the partition API call fails.
type PartitionError struct {
	StatusCode int
	Message    string
	Cause      error
}

func (e *PartitionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("partition API error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("partition API error (status %d): %s", e.StatusCode, e.Message)
}

func (e *PartitionError) Unwrap() error {
	return e.Cause
}
