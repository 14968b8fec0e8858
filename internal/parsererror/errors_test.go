package parsererror

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseError(t *testing.T) {
	cause := errors.New("month out of range")
	err := &ParseError{Parser: "dateutils", Field: "expired", Value: "2025-13-01", Err: cause}

	assert.Equal(t, "dateutils: failed to parse expired='2025-13-01': month out of range", err.Error())
	assert.True(t, errors.Is(err, cause))
}

func TestFieldError(t *testing.T) {
	err := &FieldError{Field: "nik", Reason: "must be exactly 16 digits"}
	assert.Equal(t, "nik: must be exactly 16 digits", err.Error())
}

func TestInvalidFormatError(t *testing.T) {
	tests := []struct {
		name     string
		err      *InvalidFormatError
		expected string
	}{
		{
			name:     "without snippet",
			err:      &InvalidFormatError{FilePath: "a.pdf", ExpectedFormat: "pdf", Msg: "missing %PDF header"},
			expected: "invalid format in file 'a.pdf': missing %PDF header. Expected: pdf",
		},
		{
			name:     "with snippet",
			err:      &InvalidFormatError{FilePath: "b.docx", ExpectedFormat: "docx", Msg: "not a zip archive", ActualContentSnippet: "hello"},
			expected: "invalid format in file 'b.docx': not a zip archive. Expected: docx. Content snippet: 'hello'",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestDataExtractionError(t *testing.T) {
	cause := errors.New("exit status 1")
	err := &DataExtractionError{FilePath: "scan.pdf", Reason: "pdftotext failed", Err: cause}

	assert.Equal(t, "data extraction failed in file 'scan.pdf': pdftotext failed: exit status 1", err.Error())
	assert.ErrorIs(t, err, cause)

	withField := &DataExtractionError{FilePath: "x.xlsx", FieldName: "sheet", Reason: "no sheets"}
	assert.Equal(t, "data extraction failed in file 'x.xlsx' for 'sheet': no sheets", withField.Error())
}

func TestSchemaError(t *testing.T) {
	assert.Equal(t, "invalid bank schema BRI: alias used twice", (&SchemaError{Bank: "BRI", Reason: "alias used twice"}).Error())
	assert.Equal(t, "invalid bank schema: no banks", (&SchemaError{Reason: "no banks"}).Error())

	var target *SchemaError
	wrapped := fmt.Errorf("load: %w", &SchemaError{Bank: "BCA", Reason: "x"})
	assert.True(t, errors.As(wrapped, &target))
	assert.Equal(t, "BCA", target.Bank)
}

func TestFileTooLargeError(t *testing.T) {
	err := &FileTooLargeError{FilePath: "big.pdf", Size: 20, Limit: 10}
	assert.Contains(t, err.Error(), "big.pdf")
	assert.Contains(t, err.Error(), "limit is 10 bytes")
}
