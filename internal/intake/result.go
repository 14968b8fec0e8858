package intake

import (
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/reconciler"
)

// Input is one uploaded file.
type Input struct {
	Name string
	Data []byte
}

// FileResult summarises the processing of one file.
type FileResult struct {
	Name    string          `json:"name"`
	Format  document.Format `json:"format,omitempty"`
	Status  string          `json:"status"`
	Records int             `json:"records"`
	Error   string          `json:"error,omitempty"`
}

// MandatoryWarning lists the per-bank mandatory fields a valid record lacks.
type MandatoryWarning struct {
	RecordIndex int               `json:"recordIndex"`
	Bank        string            `json:"bank"`
	Missing     []models.FieldKey `json:"missing"`
}

// BatchResult is the outcome of one ProcessFiles call.
type BatchResult struct {
	Files []FileResult `json:"files"`
	// Records holds every extracted record in file order.
	Records        []models.Record         `json:"-"`
	Validation     models.ValidationResult `json:"validation"`
	Reconciliation *reconciler.Report      `json:"reconciliation,omitempty"`
	Warnings       []MandatoryWarning      `json:"warnings"`
}

// CommitCandidates returns the records Commit would persist: reconciled
// valid records known not to be duplicates. A record whose duplicate lookup
// failed does not qualify. Without a reconciliation report every valid
// record qualifies.
func (b *BatchResult) CommitCandidates() []models.Record {
	if b.Reconciliation == nil {
		out := make([]models.Record, 0, len(b.Validation.ValidRecords))
		for _, r := range b.Validation.ValidRecords {
			out = append(out, r.Clone())
		}
		return out
	}
	var out []models.Record
	for i, rec := range b.Reconciliation.Records {
		if o := b.Reconciliation.Outcomes[i]; o.IsDuplicate || o.DuplicateUnchecked {
			continue
		}
		out = append(out, rec.Clone())
	}
	return out
}

// FailedFiles counts files whose processing failed.
func (b *BatchResult) FailedFiles() int {
	n := 0
	for _, f := range b.Files {
		if f.Status == document.StatusFailed.String() {
			n++
		}
	}
	return n
}
