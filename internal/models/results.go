package models

// RecordError lists the field errors of one rejected record.
type RecordError struct {
	Index       int      `json:"recordIndex"`
	FieldErrors []string `json:"fieldErrors"`
	Record      Record   `json:"record"`
}

// ValidationSummary counts a validation run.
type ValidationSummary struct {
	Total   int `json:"total"`
	Valid   int `json:"valid"`
	Invalid int `json:"invalid"`
}

// ValidationResult partitions a batch into valid records and rejections.
type ValidationResult struct {
	ValidRecords []Record          `json:"validRecords"`
	Errors       []RecordError     `json:"errors"`
	Summary      ValidationSummary `json:"summary"`
}

// ReconciliationOutcome annotates one record after reconciliation.
type ReconciliationOutcome struct {
	CustomerResolved   bool   `json:"customerResolved"`
	OrderResolved      bool   `json:"orderResolved"`
	FieldStaffResolved bool   `json:"fieldStaffResolved"`
	IsDuplicate        bool   `json:"isDuplicate"`
	// DuplicateUnchecked is set when the account-number lookup failed.
	DuplicateUnchecked bool   `json:"duplicateUnchecked,omitempty"`
	LookupError        string `json:"lookupError,omitempty"`
	CorrectedRecord    Record `json:"correctedRecord"`
}
