// Package extract implements the extract command
package extract

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/cmd/root"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/batch"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/common"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/intake"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/report"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/validation"
)

var (
	outputFile  string
	splitDir    string
	reportFile  string
	reportFmt   string
	commitSaved bool
)

// Cmd represents the extract command
var Cmd = &cobra.Command{
	Use:   "extract [files or directories...]",
	Short: "Extract product records from uploaded documents",
	Long: `Extract product records from PDF, Word, Excel and CSV files.

Every file is processed independently: a file that cannot be read is reported
and the rest of the batch continues. Records are validated, reconciled against
the reference data and optionally committed to the database.

A report of the batch is written to stdout unless --report is given.`,
	Example: `  product-intake extract uploads/
  product-intake extract form.pdf sheet.xlsx --output products.csv
  product-intake extract uploads/ --split-by-bank out/ --commit`,
	Args: cobra.MinimumNArgs(1),
	RunE: run,
}

func init() {
	Cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Write accepted records to this CSV file")
	Cmd.Flags().StringVar(&splitDir, "split-by-bank", "", "Write one CSV per bank into this directory")
	Cmd.Flags().StringVar(&reportFile, "report", "", "Write the batch report to this file (default: stdout)")
	Cmd.Flags().StringVarP(&reportFmt, "format", "f", report.FormatJSON, "Report format (json, yaml, text)")
	Cmd.Flags().BoolVar(&commitSaved, "commit", false, "Save accepted records to the database")
}

func run(cmd *cobra.Command, args []string) error {
	if err := validation.IsValidOutputFormat(reportFmt); err != nil {
		return err
	}
	ctx := cmd.Context()
	c, err := root.GetContainer(ctx)
	if err != nil {
		return err
	}
	logger := c.GetLogger()
	aggregator := c.GetAggregator()

	files, err := aggregator.CollectFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no supported files found in %v", args)
	}
	inputs, err := aggregator.LoadInputs(files)
	if err != nil {
		return err
	}

	result, processErr := c.GetPipeline().ProcessFiles(ctx, inputs)
	if processErr != nil {
		logger.WithError(processErr).Error("Batch processing incomplete")
		if result == nil {
			return processErr
		}
	}
	aggregator.DetectDuplicateAccounts(result.Records)

	accepted := result.CommitCandidates()
	if outputFile != "" {
		if err := common.WriteRecordsToCSV(accepted, outputFile, logger); err != nil {
			return err
		}
	}
	if splitDir != "" {
		if err := WriteBankFiles(aggregator, accepted, splitDir, time.Now(), logger); err != nil {
			return err
		}
	}

	switch {
	case commitSaved && processErr != nil:
		logger.Warn("Skipping commit of an incomplete batch")
	case commitSaved:
		ids, commitErr := c.GetPipeline().Commit(ctx, result)
		logger.WithFields(logging.F(logging.FieldCount, len(ids))).Info("Committed records")
		if commitErr != nil {
			logger.WithError(commitErr).Error("Some records could not be saved")
		}
	}

	if err := writeReport(cmd.OutOrStdout(), report.NewReportGenerator(logger), result); err != nil {
		return err
	}
	if failed := result.FailedFiles(); failed > 0 {
		logger.WithFields(
			logging.F(logging.FieldCount, failed),
		).Warn("Some files failed to process")
	}
	return processErr
}

func writeReport(stdout io.Writer, generator *report.ReportGenerator, result *intake.BatchResult) error {
	out, err := generator.GenerateReport(result, reportFmt)
	if err != nil {
		return err
	}
	if reportFile == "" {
		_, err = stdout.Write(out)
		return err
	}
	if err := os.WriteFile(reportFile, out, 0600); err != nil {
		return fmt.Errorf("failed to write report file: %w", err)
	}
	return nil
}

// WriteBankFiles writes one CSV per bank group into dir. Each file starts
// with a comment header listing the source files.
func WriteBankFiles(aggregator *batch.BatchAggregator, records []models.Record, dir string, now time.Time, logger logging.Logger) error {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	for _, group := range aggregator.GroupRecordsByBank(records) {
		path := filepath.Join(dir, aggregator.GenerateOutputFilename(group.Bank, now))
		if err := writeGroup(path, aggregator.GenerateSourceFileHeader(group.SourceFiles, now), group); err != nil {
			return err
		}
		logger.WithFields(
			logging.F(logging.FieldBank, group.Bank),
			logging.F(logging.FieldCount, len(group.Records)),
			logging.F(logging.FieldOutputFile, path),
		).Info("Wrote bank file")
	}
	return nil
}

func writeGroup(path, header string, group batch.BankGroup) (err error) {
	f, err := os.Create(path) // #nosec G304 -- path is built from the output directory
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	if _, err = io.WriteString(f, header); err != nil {
		return err
	}
	return common.WriteRecords(f, group.Records)
}
