// Package document defines the uniform result shape produced by every
// document adapter and the detection of formats from file names.
package document

import (
	"context"
	"path/filepath"
	"strings"
)

// Format identifies a supported ingest format.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDOCX Format = "docx"
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// SupportedFormats lists every format an adapter exists for.
func SupportedFormats() []Format {
	return []Format{FormatPDF, FormatDOCX, FormatXLSX, FormatXLS, FormatCSV}
}

// DetectFormat maps a file name to its format by extension. The second
// return value is false for unsupported extensions.
func DetectFormat(filename string) (Format, bool) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	for _, f := range SupportedFormats() {
		if string(f) == ext {
			return f, true
		}
	}
	return "", false
}

// Status tags the outcome of an extraction.
type Status int

const (
	// StatusOK means text (and possibly table rows) were extracted.
	StatusOK Status = iota
	// StatusDegraded means no text could be recovered; Text holds
	// PlaceholderText and downstream treats the file as empty.
	StatusDegraded
	// StatusFailed means the data is not a readable document of its format.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusDegraded:
		return "degraded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// PlaceholderText is returned as the text of a degraded extraction.
const PlaceholderText = "[text extraction unavailable]"

// Result is what an adapter returns for one document.
type Result struct {
	Status    Status
	Format    Format
	Text      string
	TableRows [][]string
	Err       error
}

// Success reports whether usable text was produced.
func (r Result) Success() bool {
	return r.Status == StatusOK
}

// OK builds a successful result.
func OK(format Format, text string, rows [][]string) Result {
	return Result{Status: StatusOK, Format: format, Text: text, TableRows: rows}
}

// Degraded builds a degraded result carrying the placeholder text.
func Degraded(format Format, err error) Result {
	return Result{Status: StatusDegraded, Format: format, Text: PlaceholderText, Err: err}
}

// Failed builds a failed result.
func Failed(format Format, err error) Result {
	return Result{Status: StatusFailed, Format: format, Err: err}
}

// Adapter extracts text and tables from the raw bytes of one document.
// Implementations never panic on malformed input and return within bounded
// time.
type Adapter interface {
	Extract(ctx context.Context, name string, data []byte) Result
}

// JoinRows tab-joins table rows into pseudo-text, one row per line. Empty
// rows are skipped.
func JoinRows(rows [][]string) string {
	var b strings.Builder
	for _, row := range rows {
		line := strings.TrimRight(strings.Join(row, "\t"), "\t ")
		if strings.TrimSpace(line) == "" {
			continue
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}
