// Package docxparser reads Word (.docx) documents. The flattened paragraph
// text feeds free-text extraction and table rows feed header-mapped import.
package docxparser

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/xmlutils"
	"gopkg.in/xmlpath.v2"
)

const documentPart = "word/document.xml"

// maxPartSize caps the decompressed size of the document part.
const maxPartSize = 64 << 20

// Adapter implements document.Adapter for .docx files.
type Adapter struct {
	logger logging.Logger
}

// NewAdapter creates a docx adapter.
func NewAdapter(logger logging.Logger) *Adapter {
	return &Adapter{logger: logging.OrDefault(logger)}
}

// Extract implements document.Adapter.
func (a *Adapter) Extract(_ context.Context, name string, data []byte) document.Result {
	part, err := readDocumentPart(data)
	if err != nil {
		a.logger.WithError(err).Warn("Failed to open Word document",
			logging.F(logging.FieldFile, name))
		return document.Failed(document.FormatDOCX, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: "DOCX",
			Msg:            err.Error(),
		})
	}

	root, err := xmlutils.ParseXML(bytes.NewReader(part))
	if err != nil {
		return document.Failed(document.FormatDOCX, &parsererror.DataExtractionError{
			FilePath: name,
			Reason:   "malformed document part",
			Err:      err,
		})
	}

	paragraphs, err := xmlutils.ExtractFromXML(root, xmlutils.WordML.Paragraph)
	if err != nil {
		return document.Failed(document.FormatDOCX, err)
	}
	rows, err := tableRows(root)
	if err != nil {
		return document.Failed(document.FormatDOCX, err)
	}

	var b strings.Builder
	for _, p := range paragraphs {
		if strings.TrimSpace(p) == "" {
			continue
		}
		b.WriteString(strings.TrimRight(p, " \t"))
		b.WriteByte('\n')
	}

	a.logger.Debug("Extracted Word document",
		logging.F(logging.FieldFile, name),
		logging.F(logging.FieldCount, len(rows)))
	return document.OK(document.FormatDOCX, b.String(), rows)
}

func readDocumentPart(data []byte) ([]byte, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("not a zip archive: %w", err)
	}
	for _, f := range zr.File {
		if f.Name != documentPart {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", documentPart, err)
		}
		defer rc.Close()
		part, err := io.ReadAll(io.LimitReader(rc, maxPartSize))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", documentPart, err)
		}
		return part, nil
	}
	return nil, fmt.Errorf("%s not found", documentPart)
}

// tableRows returns every table row as cell texts. Paragraphs inside a cell
// are joined by a space.
func tableRows(root *xmlpath.Node) ([][]string, error) {
	rowNodes, err := xmlutils.SelectNodes(root, xmlutils.WordML.TableRow)
	if err != nil {
		return nil, err
	}
	rows := make([][]string, 0, len(rowNodes))
	for _, rowNode := range rowNodes {
		cellNodes, err := xmlutils.SelectNodes(rowNode, xmlutils.WordML.Cell)
		if err != nil {
			return nil, err
		}
		row := make([]string, 0, len(cellNodes))
		for _, cell := range cellNodes {
			paras, err := xmlutils.ExtractFromXML(cell, xmlutils.WordML.CellParagraph)
			if err != nil {
				return nil, err
			}
			row = append(row, xmlutils.CleanText(strings.Join(paras, " ")))
		}
		rows = append(rows, row)
	}
	return rows, nil
}
