// Package intake runs the document pipeline (adapter, extraction, validation,
// reconciliation) over uploaded files and accepts single records submitted
// by the chat collector.
package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/bankschema"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/extraction"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/factory"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/reconciler"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/textnorm"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/validation"
)

// DefaultMaxFileSize is the upload cap used when none is configured.
const DefaultMaxFileSize int64 = 10 << 20

var (
	// ErrRejected wraps the validation messages of a refused submission.
	ErrRejected = errors.New("record rejected")
	// ErrDuplicate is returned when the account number is already stored.
	ErrDuplicate = errors.New("account number already registered")
	// ErrDuplicateUnchecked is returned when the duplicate lookup failed.
	ErrDuplicateUnchecked = errors.New("duplicate check unavailable")
	// ErrNoSaver is returned by Commit and Submit without a RecordSaver.
	ErrNoSaver = errors.New("no record saver configured")
)

// RecordReconciler checks records against reference data.
type RecordReconciler interface {
	Reconcile(ctx context.Context, records []models.Record) (*reconciler.Report, error)
}

// Options configures a Pipeline.
type Options struct {
	MaxFileSize int64
	Adapters    factory.Options
}

// Pipeline orchestrates extraction, validation and reconciliation.
type Pipeline struct {
	registry   *bankschema.Registry
	engine     *extraction.Engine
	validator  *validation.Validator
	reconciler RecordReconciler
	saver      RecordSaver
	opts       Options
	logger     logging.Logger
}

// New creates a Pipeline. A nil reconciler skips reconciliation; a nil saver
// makes Commit and Submit fail with ErrNoSaver.
func New(registry *bankschema.Registry, engine *extraction.Engine, validator *validation.Validator,
	rec RecordReconciler, saver RecordSaver, opts Options, logger logging.Logger) *Pipeline {
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = DefaultMaxFileSize
	}
	logger = logging.OrDefault(logger)
	if validator == nil {
		validator = validation.NewValidator(logger)
	}
	return &Pipeline{
		registry:   registry,
		engine:     engine,
		validator:  validator,
		reconciler: rec,
		saver:      saver,
		opts:       opts,
		logger:     logger,
	}
}

// ProcessFiles extracts records from every input, validates them all and
// reconciles the valid ones. Files are processed one after another; a file
// that fails is reported in its FileResult and does not affect the others.
// An error is returned only for cancellation or a failed reference snapshot,
// together with the partial result.
func (p *Pipeline) ProcessFiles(ctx context.Context, inputs []Input) (*BatchResult, error) {
	start := time.Now()
	result := &BatchResult{
		Files:    make([]FileResult, 0, len(inputs)),
		Records:  []models.Record{},
		Warnings: []MandatoryWarning{},
	}

	for _, in := range inputs {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		fr, records := p.processFile(ctx, in)
		result.Files = append(result.Files, fr)
		result.Records = append(result.Records, records...)
	}

	result.Validation = p.validator.Validate(result.Records)
	result.Warnings = p.mandatoryWarnings(result.Validation.ValidRecords)

	if p.reconciler != nil && len(result.Validation.ValidRecords) > 0 {
		report, err := p.reconciler.Reconcile(ctx, result.Validation.ValidRecords)
		if err != nil {
			return result, fmt.Errorf("reconciliation failed: %w", err)
		}
		result.Reconciliation = report
	}

	p.logger.Info("Processed batch",
		logging.F("files", len(inputs)),
		logging.F("failed_files", result.FailedFiles()),
		logging.F(logging.FieldCount, len(result.Records)),
		logging.F(logging.FieldDuration, time.Since(start).Milliseconds()))
	return result, nil
}

func (p *Pipeline) processFile(ctx context.Context, in Input) (fr FileResult, records []models.Record) {
	fr = FileResult{Name: in.Name, Status: document.StatusFailed.String()}
	log := p.logger.WithField(logging.FieldFile, in.Name)

	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic while processing file", logging.F("panic", r))
			fr.Status = document.StatusFailed.String()
			fr.Records = 0
			fr.Error = fmt.Sprintf("internal error: %v", r)
			records = nil
		}
	}()

	if size := int64(len(in.Data)); size > p.opts.MaxFileSize {
		err := &parsererror.FileTooLargeError{FilePath: in.Name, Size: size, Limit: p.opts.MaxFileSize}
		log.WithError(err).Warn("Rejected oversized file")
		fr.Error = err.Error()
		return fr, nil
	}

	adapter, format, err := factory.GetAdapterForFile(in.Name, p.logger, p.opts.Adapters)
	fr.Format = format
	if err != nil {
		log.WithError(err).Warn("No adapter for file")
		fr.Error = err.Error()
		return fr, nil
	}

	res := adapter.Extract(ctx, in.Name, in.Data)
	fr.Status = res.Status.String()
	if res.Err != nil {
		fr.Error = res.Err.Error()
	}
	if res.Status == document.StatusFailed {
		log.WithError(res.Err).Warn("Document extraction failed")
		return fr, nil
	}

	records = p.recordsFrom(res, models.FromFile(in.Name))
	fr.Records = len(records)
	log.Debug("Processed file",
		logging.F(logging.FieldFormat, string(format)),
		logging.F(logging.FieldStatus, fr.Status),
		logging.F(logging.FieldCount, fr.Records))
	return fr, records
}

// recordsFrom prefers a header-mapped table import and falls back to
// free-text extraction.
func (p *Pipeline) recordsFrom(res document.Result, prov models.Provenance) []models.Record {
	if len(res.TableRows) > 0 {
		rows := make([][]string, len(res.TableRows))
		for i, row := range res.TableRows {
			rows[i] = make([]string, len(row))
			for j, cell := range row {
				rows[i][j] = textnorm.Normalize(cell)
			}
		}
		if records, ok := p.engine.RecordsFromTable(rows, prov); ok {
			return records
		}
	}
	return p.engine.ExtractRecords(textnorm.Normalize(res.Text), prov)
}

// mandatoryWarnings applies each record's bank policy. Indexes refer to the
// valid records.
func (p *Pipeline) mandatoryWarnings(records []models.Record) []MandatoryWarning {
	warnings := []MandatoryWarning{}
	if p.registry == nil {
		return warnings
	}
	for i, rec := range records {
		schema := p.registry.Resolve(rec.Value(models.FieldBank))
		missing := schema.MissingMandatory(rec.Value(models.FieldJenisRekening), rec)
		if len(missing) == 0 {
			continue
		}
		warnings = append(warnings, MandatoryWarning{RecordIndex: i, Bank: schema.Code, Missing: missing})
	}
	return warnings
}

// Commit saves the batch's valid, non-duplicate records and returns their
// ids. Records whose duplicate lookup failed are not saved. Save failures are joined into the returned error; the remaining
// records are still saved.
func (p *Pipeline) Commit(ctx context.Context, result *BatchResult) ([]string, error) {
	if p.saver == nil {
		return nil, ErrNoSaver
	}
	if result == nil {
		return nil, nil
	}

	ids := []string{}
	var errs []error
	for _, rec := range result.CommitCandidates() {
		if err := ctx.Err(); err != nil {
			return ids, err
		}
		id, err := p.saver.Save(ctx, rec)
		if err != nil {
			errs = append(errs, fmt.Errorf("save %s: %w", describe(rec), err))
			continue
		}
		ids = append(ids, id)
	}

	p.logger.Info("Committed records",
		logging.F(logging.FieldCount, len(ids)),
		logging.F("failed", len(errs)))
	return ids, errors.Join(errs...)
}

// Submit validates, reconciles and saves one record. Records with
// validation errors, an already registered account number or a failed
// duplicate lookup are refused.
func (p *Pipeline) Submit(ctx context.Context, rec models.Record) (string, error) {
	if p.saver == nil {
		return "", ErrNoSaver
	}
	log := p.logger.WithFields(
		logging.F(logging.FieldChatID, rec.Provenance.ChatID),
		logging.F(logging.FieldOperation, "submit"))

	res := p.validator.Validate([]models.Record{rec})
	if len(res.Errors) > 0 {
		log.Info("Submission rejected by validation", logging.F(logging.FieldCount, len(res.Errors[0].FieldErrors)))
		return "", fmt.Errorf("%w: %s", ErrRejected, strings.Join(res.Errors[0].FieldErrors, "; "))
	}
	toSave := res.ValidRecords[0]

	if p.reconciler != nil {
		report, err := p.reconciler.Reconcile(ctx, res.ValidRecords)
		if err != nil {
			return "", fmt.Errorf("reconciliation failed: %w", err)
		}
		if o := report.Outcomes[0]; o.DuplicateUnchecked {
			log.Warn("Submission refused, duplicate check failed", logging.F(logging.FieldError, o.LookupError))
			return "", fmt.Errorf("%w: %s", ErrDuplicateUnchecked, o.LookupError)
		}
		if report.Outcomes[0].IsDuplicate {
			log.Info("Submission rejected as duplicate")
			return "", fmt.Errorf("%w: %s", ErrDuplicate, rec.Value(models.FieldNoRek))
		}
		if !report.IsAllValid {
			log.Warn("Submitted record references unknown data",
				logging.F("missing_customers", report.MissingCustomers),
				logging.F("missing_orders", report.MissingOrders),
				logging.F("missing_field_staff", report.MissingFieldStaff))
		}
		toSave = report.Records[0]
	}

	id, err := p.saver.Save(ctx, toSave)
	if err != nil {
		return "", fmt.Errorf("failed to save record: %w", err)
	}
	log.Info("Record accepted", logging.F("product_id", id))
	return id, nil
}

func describe(rec models.Record) string {
	if v := rec.Value(models.FieldNoRek); v != "" {
		return "account " + v
	}
	if v := rec.Value(models.FieldNoOrder); v != "" {
		return "order " + v
	}
	return "record from " + rec.Provenance.SourceFile
}
