package extract

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/batch"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/intake"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/report"
)

func record(file, bank, noRek string) models.Record {
	r := models.NewRecord(models.FromFile(file))
	r.Set(models.FieldBank, bank)
	r.Set(models.FieldNoRek, noRek)
	r.Set(models.FieldNama, "Budi")
	return r
}

func TestExtractCommand_Metadata(t *testing.T) {
	assert.Equal(t, "extract [files or directories...]", Cmd.Use)
	assert.Contains(t, Cmd.Short, "Extract product records")
	assert.Contains(t, Cmd.Example, "--split-by-bank")
	assert.NotNil(t, Cmd.RunE)
	assert.Error(t, Cmd.Args(Cmd, []string{}))
	assert.NoError(t, Cmd.Args(Cmd, []string{"uploads/"}))
}

func TestExtractCommand_Flags(t *testing.T) {
	for _, name := range []string{"output", "split-by-bank", "report", "format", "commit"} {
		assert.NotNil(t, Cmd.Flags().Lookup(name), name)
	}
	assert.Equal(t, "o", Cmd.Flags().Lookup("output").Shorthand)
	assert.Equal(t, "false", Cmd.Flags().Lookup("commit").DefValue)
	assert.Equal(t, "json", Cmd.Flags().Lookup("format").DefValue)
}

func TestWriteReport(t *testing.T) {
	result := &intake.BatchResult{
		Files:   []intake.FileResult{{Name: "a.csv", Status: "success", Records: 1}},
		Records: []models.Record{record("a.csv", "BCA", "111")},
		Validation: models.ValidationResult{
			ValidRecords: []models.Record{record("a.csv", "BCA", "111")},
		},
	}
	generator := report.NewReportGenerator(logging.NewMockLogger())

	var buf bytes.Buffer
	require.NoError(t, writeReport(&buf, generator, result))
	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Contains(t, decoded, "files")
	assert.NotContains(t, decoded, "reconciliation")

	reportFile = filepath.Join(t.TempDir(), "report.txt")
	reportFmt = "text"
	t.Cleanup(func() { reportFile, reportFmt = "", "json" })

	buf.Reset()
	require.NoError(t, writeReport(&buf, generator, result))
	assert.Zero(t, buf.Len())
	content, err := os.ReadFile(reportFile)
	require.NoError(t, err)
	assert.Contains(t, string(content), "Validation: 0 total")
}

func TestWriteBankFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	aggregator := batch.NewBatchAggregator(logging.NewMockLogger())
	now := time.Date(2026, 3, 5, 10, 0, 0, 0, time.UTC)
	records := []models.Record{
		record("b.pdf", "bca", "111"),
		record("a.csv", "BRI", "222"),
		record("a.csv", "BCA", "333"),
	}

	logger := logging.NewMockLogger()
	require.NoError(t, WriteBankFiles(aggregator, records, dir, now, logger))

	bca, err := os.ReadFile(filepath.Join(dir, "products_BCA_2026-03-05.csv"))
	require.NoError(t, err)
	content := string(bca)
	assert.True(t, strings.HasPrefix(content, "# Consolidated from sources:\n# - a.csv\n# - b.pdf\n"))
	assert.Contains(t, content, "111")
	assert.Contains(t, content, "333")
	assert.NotContains(t, content, "222")

	_, err = os.Stat(filepath.Join(dir, "products_BRI_2026-03-05.csv"))
	assert.NoError(t, err)
	assert.Len(t, logger.GetEntriesByLevel("INFO"), 2)
}
