package sheetparser

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"
)

func buildWorkbook(t *testing.T, sheets map[string][][]interface{}, order []string) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	for i, name := range order {
		if i == 0 {
			require.NoError(t, f.SetSheetName("Sheet1", name))
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}
		for r, row := range sheets[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			require.NoError(t, err)
			row := row
			require.NoError(t, f.SetSheetRow(name, cell, &row))
		}
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

func TestNewAdapter_RejectsNonSpreadsheet(t *testing.T) {
	_, err := NewAdapter(nil, document.FormatPDF)
	assert.True(t, errors.Is(err, parsererror.ErrUnsupportedFormat))

	a, err := NewAdapter(nil, document.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, document.FormatCSV, a.Format())
}

func TestExtract_XLSXPrefersProductSheet(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Summary": {{"Total", 2}},
		"Data Produk": {
			{"No Order", "Bank", "Nama"},
			{"X1", "BCA", "Budi"},
			{"X2", "BRI", " Sari "},
		},
	}, []string{"Summary", "Data Produk"})

	a, err := NewAdapter(logging.NewMockLogger(), document.FormatXLSX)
	require.NoError(t, err)
	res := a.Extract(context.Background(), "orders.xlsx", data)

	require.True(t, res.Success(), "err: %v", res.Err)
	assert.Equal(t, [][]string{
		{"No Order", "Bank", "Nama"},
		{"X1", "BCA", "Budi"},
		{"X2", "BRI", "Sari"},
	}, res.TableRows)
	assert.Equal(t, "No Order\tBank\tNama\nX1\tBCA\tBudi\nX2\tBRI\tSari\n", res.Text)
}

func TestExtract_XLSXFirstSheetFallback(t *testing.T) {
	data := buildWorkbook(t, map[string][][]interface{}{
		"Orders": {{"No Order", "Bank"}, {"X1", "BCA"}},
		"Notes":  {{"ignore"}},
	}, []string{"Orders", "Notes"})

	a, _ := NewAdapter(nil, document.FormatXLSX)
	res := a.Extract(context.Background(), "orders.xlsx", data)

	require.True(t, res.Success())
	assert.Equal(t, [][]string{{"No Order", "Bank"}, {"X1", "BCA"}}, res.TableRows)
}

func TestExtract_XLSXInvalid(t *testing.T) {
	a, _ := NewAdapter(nil, document.FormatXLSX)
	res := a.Extract(context.Background(), "broken.xlsx", []byte("not a workbook"))

	assert.Equal(t, document.StatusFailed, res.Status)
	var formatErr *parsererror.InvalidFormatError
	assert.ErrorAs(t, res.Err, &formatErr)
}

func TestExtract_XLSInvalid(t *testing.T) {
	a, _ := NewAdapter(logging.NewMockLogger(), document.FormatXLS)
	res := a.Extract(context.Background(), "broken.xls", []byte("definitely not OLE2"))

	assert.Equal(t, document.StatusFailed, res.Status)
	assert.Error(t, res.Err)
}

func TestExtract_CSV(t *testing.T) {
	a, _ := NewAdapter(nil, document.FormatCSV)
	data := []byte("\xEF\xBB\xBFNo Order;Bank;Nama\nX1;BCA;Budi\nX2;BNI\n\n")

	res := a.Extract(context.Background(), "orders.csv", data)

	require.True(t, res.Success(), "err: %v", res.Err)
	assert.Equal(t, [][]string{
		{"No Order", "Bank", "Nama"},
		{"X1", "BCA", "Budi"},
		{"X2", "BNI"},
	}, res.TableRows)
}

func TestReadCSVRows_Delimiters(t *testing.T) {
	tests := []struct {
		name string
		data string
		want [][]string
	}{
		{"comma", "a,b\n1,2\n", [][]string{{"a", "b"}, {"1", "2"}}},
		{"semicolon", "a;b\n1;2\n", [][]string{{"a", "b"}, {"1", "2"}}},
		{"tab", "a\tb\n1\t2\n", [][]string{{"a", "b"}, {"1", "2"}}},
		{"quoted", "a,\"b, c\"\n", [][]string{{"a", "b, c"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := ReadCSVRows([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows)
		})
	}
}

func TestPickSheet(t *testing.T) {
	assert.Equal(t, "PRODUCTS", PickSheet([]string{"Cover", "PRODUCTS"}))
	assert.Equal(t, "Cover", PickSheet([]string{"Cover", "Notes"}))
	assert.Equal(t, "", PickSheet(nil))
}
