// Package sheetparser reads spreadsheet documents (.xlsx, .xls and .csv)
// into table rows. Rows are exposed directly for header-mapped import and
// tab-joined into pseudo-text for free-text extraction.
package sheetparser

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/extrame/xls"
	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"
)

// sheetHints are lowercase fragments of sheet names that hold product data.
var sheetHints = []string{"product", "produk", "data"}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Adapter implements document.Adapter for one spreadsheet format.
type Adapter struct {
	logger logging.Logger
	format document.Format
}

// NewAdapter creates a spreadsheet adapter for xlsx, xls or csv.
func NewAdapter(logger logging.Logger, format document.Format) (*Adapter, error) {
	switch format {
	case document.FormatXLSX, document.FormatXLS, document.FormatCSV:
	default:
		return nil, fmt.Errorf("%w: %s is not a spreadsheet format", parsererror.ErrUnsupportedFormat, format)
	}
	return &Adapter{logger: logging.OrDefault(logger), format: format}, nil
}

// Format returns the format this adapter reads.
func (a *Adapter) Format() document.Format {
	return a.format
}

// Extract implements document.Adapter. Reader panics on malformed binary
// workbooks are turned into a failed result.
func (a *Adapter) Extract(_ context.Context, name string, data []byte) (res document.Result) {
	defer func() {
		if r := recover(); r != nil {
			a.logger.Error("Spreadsheet reader panicked",
				logging.F(logging.FieldFile, name),
				logging.F(logging.FieldError, fmt.Sprint(r)))
			res = document.Failed(a.format, &parsererror.DataExtractionError{
				FilePath: name,
				Reason:   fmt.Sprintf("unreadable %s workbook: %v", a.format, r),
			})
		}
	}()

	var (
		rows  [][]string
		sheet string
		err   error
	)
	switch a.format {
	case document.FormatXLSX:
		rows, sheet, err = readXLSX(data)
	case document.FormatXLS:
		rows, sheet, err = readXLS(data)
	default:
		rows, err = ReadCSVRows(data)
	}
	if err != nil {
		a.logger.WithError(err).Warn("Failed to read spreadsheet",
			logging.F(logging.FieldFile, name),
			logging.F(logging.FieldFormat, string(a.format)))
		return document.Failed(a.format, &parsererror.InvalidFormatError{
			FilePath:       name,
			ExpectedFormat: strings.ToUpper(string(a.format)),
			Msg:            err.Error(),
		})
	}

	rows = trimRows(rows)
	a.logger.Debug("Read spreadsheet rows",
		logging.F(logging.FieldFile, name),
		logging.F("sheet", sheet),
		logging.F(logging.FieldCount, len(rows)))
	return document.OK(a.format, document.JoinRows(rows), rows)
}

// PickSheet chooses the sheet whose name hints at product data, or the
// first sheet.
func PickSheet(names []string) string {
	for _, n := range names {
		lower := strings.ToLower(n)
		for _, hint := range sheetHints {
			if strings.Contains(lower, hint) {
				return n
			}
		}
	}
	if len(names) == 0 {
		return ""
	}
	return names[0]
}

func readXLSX(data []byte) ([][]string, string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := PickSheet(f.GetSheetList())
	if sheet == "" {
		return nil, "", fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, sheet, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, sheet, nil
}

func readXLS(data []byte) ([][]string, string, error) {
	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, "", fmt.Errorf("failed to open workbook: %w", err)
	}

	names := make([]string, 0, wb.NumSheets())
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil {
			names = append(names, s.Name)
		}
	}
	picked := PickSheet(names)
	var sheet *xls.WorkSheet
	for i := 0; i < wb.NumSheets(); i++ {
		if s := wb.GetSheet(i); s != nil && s.Name == picked {
			sheet = s
			break
		}
	}
	if sheet == nil {
		return nil, "", fmt.Errorf("workbook has no sheets")
	}

	var rows [][]string
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, 0, row.LastCol())
		for j := 0; j < row.LastCol(); j++ {
			if j < row.FirstCol() {
				cells = append(cells, "")
				continue
			}
			cells = append(cells, row.Col(j))
		}
		rows = append(rows, cells)
	}
	return rows, sheet.Name, nil
}

// ReadCSVRows parses CSV bytes into rows. Comma, semicolon and tab
// delimiters are detected from the first line; rows may have differing
// widths.
func ReadCSVRows(data []byte) ([][]string, error) {
	data = bytes.TrimPrefix(data, utf8BOM)
	reader := gocsv.LazyCSVReader(bytes.NewReader(data))
	if cr, ok := reader.(*csv.Reader); ok {
		cr.FieldsPerRecord = -1
		cr.Comma = sniffDelimiter(data)
	}
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	best, bestCount := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestCount {
			best, bestCount = d, n
		}
	}
	return best
}

// trimRows trims every cell and drops trailing empty rows.
func trimRows(rows [][]string) [][]string {
	out := make([][]string, 0, len(rows))
	for _, row := range rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.TrimSpace(c)
		}
		out = append(out, cells)
	}
	for len(out) > 0 && isEmptyRow(out[len(out)-1]) {
		out = out[:len(out)-1]
	}
	return out
}

func isEmptyRow(row []string) bool {
	for _, c := range row {
		if c != "" {
			return false
		}
	}
	return true
}
