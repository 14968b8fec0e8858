// Package pdfparser extracts text from PDF documents. Extraction goes through
// pdftotext first and falls back to scanning the raw content streams for
// text-show operators. When neither yields text the result is degraded
// rather than failed.
package pdfparser

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"
)

// DefaultTimeout bounds a single pdftotext run.
const DefaultTimeout = 15 * time.Second

var pdfHeader = []byte("%PDF")

var (
	tjPattern       = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)\s*Tj`)
	tjArrayPattern  = regexp.MustCompile(`\[((?:\s*(?:\((?:\\.|[^\\)])*\)|<[0-9A-Fa-f\s]*>|[-+]?[0-9.]+))*)\s*\]\s*TJ`)
	tjArrayStrings  = regexp.MustCompile(`\(((?:\\.|[^\\)])*)\)`)
	errNoTextInPDF  = errors.New("no text-show operators found")
	pdfEscapeMapper = strings.NewReplacer(`\n`, "\n", `\r`, "\r", `\t`, "\t", `\(`, "(", `\)`, ")", `\\`, `\`)
)

// Adapter implements document.Adapter for PDF files.
type Adapter struct {
	logger    logging.Logger
	extractor TextExtractor
	timeout   time.Duration
}

// NewAdapter creates a PDF adapter. A nil extractor uses pdftotext from PATH;
// a non-positive timeout uses DefaultTimeout.
func NewAdapter(logger logging.Logger, extractor TextExtractor, timeout time.Duration) *Adapter {
	if extractor == nil {
		extractor = NewPdftotextExtractor("")
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Adapter{
		logger:    logging.OrDefault(logger),
		extractor: extractor,
		timeout:   timeout,
	}
}

// Extract implements document.Adapter.
func (a *Adapter) Extract(ctx context.Context, name string, data []byte) document.Result {
	if !bytes.HasPrefix(bytes.TrimLeft(data, "\x00\t\r\n "), pdfHeader) {
		return document.Failed(document.FormatPDF, &parsererror.InvalidFormatError{
			FilePath:             name,
			ExpectedFormat:       "PDF",
			ActualContentSnippet: snippet(data),
			Msg:                  "missing %PDF header",
		})
	}

	text, err := a.runExtractor(ctx, name, data)
	if err == nil && strings.TrimSpace(text) != "" {
		a.logger.Debug("Extracted PDF text with pdftotext",
			logging.F(logging.FieldFile, name))
		return document.OK(document.FormatPDF, text, nil)
	}
	if err != nil {
		a.logger.WithError(err).Warn("pdftotext failed, scanning content streams",
			logging.F(logging.FieldFile, name))
	}

	text, scanErr := ScanTextOperators(data)
	if scanErr == nil {
		a.logger.Info("Recovered PDF text from content streams",
			logging.F(logging.FieldFile, name))
		return document.OK(document.FormatPDF, text, nil)
	}

	a.logger.Warn("PDF text extraction unavailable",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldStatus, document.StatusDegraded.String()))
	if err == nil {
		err = scanErr
	}
	return document.Degraded(document.FormatPDF, &parsererror.DataExtractionError{
		FilePath: name,
		Reason:   "no extractable text",
		Err:      err,
	})
}

// runExtractor writes data to a temp file and hands it to the extractor under
// the adapter timeout.
func (a *Adapter) runExtractor(ctx context.Context, name string, data []byte) (string, error) {
	tempFile, err := os.CreateTemp("", "intake-*.pdf")
	if err != nil {
		return "", fmt.Errorf("failed to create temporary PDF file: %w", err)
	}
	defer func() {
		if err := os.Remove(tempFile.Name()); err != nil {
			a.logger.WithError(err).Warn("Failed to remove temporary file",
				logging.F(logging.FieldFile, tempFile.Name()))
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return "", fmt.Errorf("failed to write temporary PDF file: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		return "", fmt.Errorf("failed to close temporary PDF file: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()
	return a.extractor.ExtractText(ctx, tempFile.Name())
}

// ScanTextOperators recovers text from uncompressed content streams by
// collecting the operands of Tj and TJ operators. Each operator contributes
// one line.
func ScanTextOperators(data []byte) (string, error) {
	type hit struct {
		pos  int
		text string
	}
	var hits []hit
	for _, m := range tjPattern.FindAllSubmatchIndex(data, -1) {
		hits = append(hits, hit{m[0], unescape(data[m[2]:m[3]])})
	}
	for _, m := range tjArrayPattern.FindAllSubmatchIndex(data, -1) {
		var b strings.Builder
		for _, s := range tjArrayStrings.FindAllSubmatch(data[m[2]:m[3]], -1) {
			b.WriteString(unescape(s[1]))
		}
		hits = append(hits, hit{m[0], b.String()})
	}
	if len(hits) == 0 {
		return "", errNoTextInPDF
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].pos < hits[j].pos })

	var b strings.Builder
	for _, h := range hits {
		if strings.TrimSpace(h.text) == "" {
			continue
		}
		b.WriteString(h.text)
		b.WriteByte('\n')
	}
	if b.Len() == 0 {
		return "", errNoTextInPDF
	}
	return b.String(), nil
}

func unescape(raw []byte) string {
	return pdfEscapeMapper.Replace(string(raw))
}

func snippet(data []byte) string {
	const max = 32
	if len(data) > max {
		data = data[:max]
	}
	return strings.ToValidUTF8(string(data), "?")
}
