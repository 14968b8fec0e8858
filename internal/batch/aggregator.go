// Package batch collects input files for a run and groups extracted product
// records by bank for export.
package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/filestore"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/intake"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/textnorm"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/validation"
)

// UnknownBank groups records without a bank value.
const UnknownBank = "UNKNOWN"

// BankGroup holds the records of one bank.
type BankGroup struct {
	Bank        string          // Bank code, or UnknownBank
	Records     []models.Record // Records in input order
	SourceFiles []string        // Distinct source file names, sorted
}

// BatchAggregator gathers inputs and groups results.
type BatchAggregator struct {
	logger logging.Logger
}

// NewBatchAggregator creates a new BatchAggregator instance
func NewBatchAggregator(logger logging.Logger) *BatchAggregator {
	return &BatchAggregator{
		logger: logging.OrDefault(logger),
	}
}

// CollectFiles expands directories (one level deep) and keeps files with a
// supported document extension. Paths are made absolute; the result is sorted
// and free of duplicates.
// Explicitly named files with an unsupported extension are kept so that the
// pipeline reports them.
func (ba *BatchAggregator) CollectFiles(paths []string) ([]string, error) {
	seen := make(map[string]bool)
	var files []string
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			files = append(files, p)
		}
	}

	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		p = abs
		if err := validation.IsValidPath(p); err != nil {
			return nil, err
		}
		info, err := os.Stat(p)
		if err != nil {
			return nil, fmt.Errorf("failed to access %s: %w", p, err)
		}
		if !info.IsDir() {
			add(p)
			continue
		}
		entries, err := os.ReadDir(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read directory %s: %w", p, err)
		}
		for _, e := range entries {
			if e.IsDir() {
				continue
			}
			if _, ok := document.DetectFormat(e.Name()); !ok {
				ba.logger.Debug("Skipping unsupported file", logging.F(logging.FieldFile, e.Name()))
				continue
			}
			add(filepath.Join(p, e.Name()))
		}
	}

	sort.Strings(files)
	ba.logger.Info("Collected input files", logging.F(logging.FieldCount, len(files)))
	return files, nil
}

// LoadInputs reads files into pipeline inputs named by their base name.
func (ba *BatchAggregator) LoadInputs(files []string) ([]intake.Input, error) {
	inputs := make([]intake.Input, 0, len(files))
	for _, f := range files {
		data, err := os.ReadFile(f) // #nosec G304 -- paths come from the operator's command line
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		inputs = append(inputs, intake.Input{Name: filepath.Base(f), Data: data})
	}
	return inputs, nil
}

// GroupRecordsByBank groups records by their bank code. Groups are sorted
// by bank code; records keep their input order.
func (ba *BatchAggregator) GroupRecordsByBank(records []models.Record) []BankGroup {
	groups := make(map[string]*BankGroup)
	sources := make(map[string]map[string]bool)

	for _, rec := range records {
		bank := strings.ToUpper(strings.TrimSpace(rec.Value(models.FieldBank)))
		if models.IsBlank(bank) {
			bank = UnknownBank
		}
		group, exists := groups[bank]
		if !exists {
			group = &BankGroup{Bank: bank}
			groups[bank] = group
			sources[bank] = make(map[string]bool)
		}
		group.Records = append(group.Records, rec)
		if src := sourceName(rec); src != "" && !sources[bank][src] {
			sources[bank][src] = true
			group.SourceFiles = append(group.SourceFiles, src)
		}
	}

	result := make([]BankGroup, 0, len(groups))
	for _, g := range groups {
		sort.Strings(g.SourceFiles)
		result = append(result, *g)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Bank < result[j].Bank
	})

	ba.logger.Info("Grouped records by bank",
		logging.F(logging.FieldCount, len(records)),
		logging.F("bank_groups", len(result)))
	return result
}

func sourceName(rec models.Record) string {
	if rec.Provenance.Source == models.SourceChat {
		return "chat:" + rec.Provenance.ChatID
	}
	return rec.Provenance.SourceFile
}

// DetectDuplicateAccounts logs account numbers that occur more than once in
// the batch and returns how many extra occurrences were found. Records are
// kept; the store-level duplicate check happens during reconciliation.
func (ba *BatchAggregator) DetectDuplicateAccounts(records []models.Record) int {
	counts := make(map[string]int)
	var order []string
	for _, rec := range records {
		account := textnorm.StripSeparators(rec.Value(models.FieldNoRek))
		if models.IsBlank(account) {
			continue
		}
		if counts[account] == 0 {
			order = append(order, account)
		}
		counts[account]++
	}

	duplicates := 0
	for _, account := range order {
		if n := counts[account]; n > 1 {
			duplicates += n - 1
			ba.logger.Warn("Account number repeated in batch",
				logging.F("account", account),
				logging.F(logging.FieldCount, n))
		}
	}
	return duplicates
}

// GenerateOutputFilename creates a filename for a bank's export:
// products_{bank}_{date}.csv
func (ba *BatchAggregator) GenerateOutputFilename(bank string, date time.Time) string {
	name := filestore.SanitizeName(bank)
	if date.IsZero() {
		return fmt.Sprintf("products_%s.csv", name)
	}
	return fmt.Sprintf("products_%s_%s.csv", name, date.Format("2006-01-02"))
}

// GenerateSourceFileHeader creates a header comment listing source files
func (ba *BatchAggregator) GenerateSourceFileHeader(sourceFiles []string, generated time.Time) string {
	if len(sourceFiles) == 0 {
		return ""
	}

	var header strings.Builder
	header.WriteString("# Consolidated from sources:\n")
	for _, file := range sourceFiles {
		header.WriteString(fmt.Sprintf("# - %s\n", file))
	}
	header.WriteString("# Generated on: ")
	header.WriteString(generated.Format("2006-01-02 15:04:05"))
	header.WriteString("\n#\n")

	return header.String()
}
