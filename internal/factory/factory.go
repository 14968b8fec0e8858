package factory

import (
	"fmt"
	"time"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/docxparser"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/pdfparser"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/sheetparser"
)

// Options configures the adapters built by the factory.
type Options struct {
	// PDFExtractor replaces the pdftotext runner. Nil uses PDFToTextPath.
	PDFExtractor  pdfparser.TextExtractor
	PDFToTextPath string
	PDFTimeout    time.Duration
}

// GetAdapter returns a document adapter for the given format with default
// options.
func GetAdapter(format document.Format, logger logging.Logger) (document.Adapter, error) {
	return GetAdapterWithOptions(format, logger, Options{})
}

// GetAdapterWithOptions returns a document adapter for the given format.
func GetAdapterWithOptions(format document.Format, logger logging.Logger, opts Options) (document.Adapter, error) {
	switch format {
	case document.FormatPDF:
		extractor := opts.PDFExtractor
		if extractor == nil {
			extractor = pdfparser.NewPdftotextExtractor(opts.PDFToTextPath)
		}
		return pdfparser.NewAdapter(logger, extractor, opts.PDFTimeout), nil
	case document.FormatDOCX:
		return docxparser.NewAdapter(logger), nil
	case document.FormatXLSX, document.FormatXLS, document.FormatCSV:
		return sheetparser.NewAdapter(logger, format)
	default:
		return nil, fmt.Errorf("%w: %q", parsererror.ErrUnsupportedFormat, format)
	}
}

// GetAdapterForFile detects the format from the file name and returns its
// adapter.
func GetAdapterForFile(filename string, logger logging.Logger, opts Options) (document.Adapter, document.Format, error) {
	format, ok := document.DetectFormat(filename)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s", parsererror.ErrUnsupportedFormat, filename)
	}
	adapter, err := GetAdapterWithOptions(format, logger, opts)
	return adapter, format, err
}
