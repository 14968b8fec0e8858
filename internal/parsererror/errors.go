// Package parsererror holds the typed errors shared by the intake pipeline.
package parsererror

import (
	"errors"
	"fmt"
)

// ErrUnsupportedFormat is returned when no document adapter handles a file.
var ErrUnsupportedFormat = errors.New("unsupported document format")

// ParseError represents a value that could not be parsed.
type ParseError struct {
	Parser string
	Field  string
	Value  string
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: failed to parse %s='%s': %v",
		e.Parser, e.Field, e.Value, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FieldError is a single field-level validation failure.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// InvalidFormatError represents an input file that does not conform to the
// format its extension claims.
type InvalidFormatError struct {
	FilePath             string
	ExpectedFormat       string
	ActualContentSnippet string
	Msg                  string
}

func (e *InvalidFormatError) Error() string {
	if e.ActualContentSnippet != "" {
		return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s. Content snippet: '%s'",
			e.FilePath, e.Msg, e.ExpectedFormat, e.ActualContentSnippet)
	}
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// DataExtractionError represents a readable file from which no usable content
// could be extracted.
type DataExtractionError struct {
	FilePath  string
	FieldName string
	Reason    string
	Err       error
}

func (e *DataExtractionError) Error() string {
	msg := fmt.Sprintf("data extraction failed in file '%s'", e.FilePath)
	if e.FieldName != "" {
		msg += fmt.Sprintf(" for '%s'", e.FieldName)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

func (e *DataExtractionError) Unwrap() error {
	return e.Err
}

// SchemaError reports malformed bank schema configuration. It is only
// returned while loading the registry.
type SchemaError struct {
	Bank   string
	Reason string
}

func (e *SchemaError) Error() string {
	if e.Bank == "" {
		return "invalid bank schema: " + e.Reason
	}
	return fmt.Sprintf("invalid bank schema %s: %s", e.Bank, e.Reason)
}

// FileTooLargeError is returned for uploads above the configured cap.
type FileTooLargeError struct {
	FilePath string
	Size     int64
	Limit    int64
}

func (e *FileTooLargeError) Error() string {
	return fmt.Sprintf("file '%s' is %d bytes, limit is %d bytes", e.FilePath, e.Size, e.Limit)
}
