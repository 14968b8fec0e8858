// Package validation checks product records against the global field rules
// and validates CLI inputs.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/textnorm"
)

// SecondaryPinFields are the channel PINs. At least one must be present; the
// one a record carries depends on the bank's mobile channel.
var SecondaryPinFields = []models.FieldKey{
	models.FieldMobilePin,
	models.FieldPinMBca,
	models.FieldMyBCAPin,
	models.FieldIBPin,
	models.FieldPinWondr,
}

// RequiredFields is the global required list. It does not depend on the
// bank; per-bank completeness is checked by bankschema.
var RequiredFields = []models.FieldKey{
	models.FieldNIK,
	models.FieldNama,
	models.FieldNoRek,
	models.FieldNoATM,
	models.FieldNoHP,
	models.FieldPinATM,
	models.FieldEmail,
	models.FieldExpired,
}

var (
	phonePattern    = regexp.MustCompile(`^(\+62|62|0)8\d{7,10}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phoneSeparators = strings.NewReplacer(" ", "", "-", "", ".", "", "(", "", ")", "")
)

// Validator partitions records into valid ones and rejections.
type Validator struct {
	logger logging.Logger
}

// NewValidator creates a Validator.
func NewValidator(logger logging.Logger) *Validator {
	return &Validator{logger: logging.OrDefault(logger)}
}

// Validate checks every record. Valid records are returned as copies.
func (v *Validator) Validate(records []models.Record) models.ValidationResult {
	result := models.ValidationResult{
		ValidRecords: []models.Record{},
		Errors:       []models.RecordError{},
	}
	for i, rec := range records {
		errs := v.CheckRecord(rec)
		if len(errs) == 0 {
			result.ValidRecords = append(result.ValidRecords, rec.Clone())
			continue
		}
		msgs := make([]string, len(errs))
		for j, e := range errs {
			msgs[j] = e.Error()
		}
		result.Errors = append(result.Errors, models.RecordError{Index: i, FieldErrors: msgs, Record: rec.Clone()})
		v.logger.Debug("Record failed validation",
			logging.F(logging.FieldRecordIndex, i),
			logging.F(logging.FieldCount, len(errs)))
	}

	result.Summary = models.ValidationSummary{
		Total:   len(records),
		Valid:   len(result.ValidRecords),
		Invalid: len(result.Errors),
	}
	v.logger.Info("Validated records",
		logging.F(logging.FieldCount, result.Summary.Total),
		logging.F("valid", result.Summary.Valid),
		logging.F("invalid", result.Summary.Invalid))
	return result
}

// CheckRecord returns every field error of one record, in a stable order.
func (v *Validator) CheckRecord(rec models.Record) []*parsererror.FieldError {
	var errs []*parsererror.FieldError
	fail := func(k models.FieldKey, format string, args ...interface{}) {
		errs = append(errs, &parsererror.FieldError{Field: string(k), Reason: fmt.Sprintf(format, args...)})
	}

	for _, k := range RequiredFields {
		if !present(rec, k) {
			fail(k, "is required")
		}
	}
	if !anyPresent(rec, SecondaryPinFields) {
		errs = append(errs, &parsererror.FieldError{
			Field:  "secondaryPin",
			Reason: fmt.Sprintf("one of %s is required", joinKeys(SecondaryPinFields)),
		})
	}

	if s, ok := value(rec, models.FieldNIK); ok && !digitsBetween(s, 16, 16) {
		fail(models.FieldNIK, "must be exactly 16 digits")
	}
	if s, ok := value(rec, models.FieldNoRek); ok && !digitsBetween(s, 10, 18) {
		fail(models.FieldNoRek, "must be 10 to 18 digits")
	}
	if s, ok := value(rec, models.FieldNoATM); ok && !digitsBetween(s, 16, 16) {
		fail(models.FieldNoATM, "must be exactly 16 digits")
	}
	if s, ok := value(rec, models.FieldNoHP); ok && !phonePattern.MatchString(phoneSeparators.Replace(s)) {
		fail(models.FieldNoHP, "must be a mobile number starting with +62, 62 or 08")
	}
	for _, k := range append([]models.FieldKey{models.FieldPinATM}, SecondaryPinFields...) {
		if s, ok := value(rec, k); ok && !digitsBetween(s, 4, 6) {
			fail(k, "must be 4 to 6 digits")
		}
	}
	if s, ok := value(rec, models.FieldEmail); ok && !emailPattern.MatchString(s) {
		fail(models.FieldEmail, "must be a valid email address")
	}
	return errs
}

func present(rec models.Record, k models.FieldKey) bool {
	v, ok := rec.Get(k)
	return ok && !models.IsBlank(v)
}

func anyPresent(rec models.Record, keys []models.FieldKey) bool {
	for _, k := range keys {
		if present(rec, k) {
			return true
		}
	}
	return false
}

// value returns the trimmed value of k when it is present and not blank.
func value(rec models.Record, k models.FieldKey) (string, bool) {
	if !present(rec, k) {
		return "", false
	}
	return strings.TrimSpace(rec.Value(k)), true
}

func digitsBetween(s string, min, max int) bool {
	return textnorm.DigitsOnly(s) && len(s) >= min && len(s) <= max
}

func joinKeys(keys []models.FieldKey) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = string(k)
	}
	return strings.Join(parts, ", ")
}
