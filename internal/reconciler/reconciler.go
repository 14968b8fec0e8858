// Package reconciler checks extracted records against reference data. Known
// customer codes and order numbers are rewritten to their stored spelling,
// unknown ones are collected for review and account numbers are checked for
// duplicates. Nothing is persisted here.
package reconciler

import (
	"context"
	"fmt"
	"strings"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/textnorm"
)

// EmptySentinel stands in for a blank value in the missing lists.
const EmptySentinel = "(empty)"

// Report is the result of reconciling one batch.
type Report struct {
	// Records are corrected copies, index-aligned with the input.
	Records           []models.Record                `json:"records"`
	Outcomes          []models.ReconciliationOutcome `json:"outcomes"`
	MissingCustomers  []string                       `json:"missingCustomers"`
	MissingOrders     []string                       `json:"missingOrders"`
	MissingFieldStaff []string                       `json:"missingFieldStaff"`
	Duplicates        int                            `json:"duplicates"`
	LookupErrors      int                            `json:"lookupErrors"`
	IsAllValid        bool                           `json:"isAllValid"`
}

// Reconciler annotates records using a ReferenceSource.
type Reconciler struct {
	source ReferenceSource
	logger logging.Logger
}

// New creates a Reconciler.
func New(source ReferenceSource, logger logging.Logger) *Reconciler {
	return &Reconciler{source: source, logger: logging.OrDefault(logger)}
}

// Reconcile corrects and annotates records. Reference snapshots are fetched
// on every call. A failing snapshot fetch aborts the call; a failing
// per-record lookup is recorded on that record's outcome.
func (r *Reconciler) Reconcile(ctx context.Context, records []models.Record) (*Report, error) {
	customers, err := r.customerSnapshot(ctx, records)
	if err != nil {
		return nil, err
	}
	orders, err := r.orderSnapshot(ctx, records)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Records:           make([]models.Record, 0, len(records)),
		Outcomes:          make([]models.ReconciliationOutcome, 0, len(records)),
		MissingCustomers:  []string{},
		MissingOrders:     []string{},
		MissingFieldStaff: []string{},
	}
	missingCustomers := newMissingSet(&report.MissingCustomers)
	missingOrders := newMissingSet(&report.MissingOrders)
	missingStaff := newMissingSet(&report.MissingFieldStaff)
	staffCache := make(map[string]*models.FieldStaff)

	for i, in := range records {
		rec := in.Clone()
		var out models.ReconciliationOutcome

		raw := rec.Value(models.FieldCustomer)
		if c, ok := customers[textnorm.CustomerKey(raw)]; ok && !models.IsBlank(raw) {
			rec.Set(models.FieldCustomer, c.Code)
			out.CustomerResolved = true
		} else {
			missingCustomers.add(raw)
		}

		raw = rec.Value(models.FieldNoOrder)
		if o, ok := orders[textnorm.OrderKey(raw)]; ok && !models.IsBlank(raw) {
			rec.Set(models.FieldNoOrder, o.Number)
			out.OrderResolved = true
		} else {
			missingOrders.add(raw)
		}

		var lookupErrs []string
		raw = rec.Value(models.FieldFieldStaff)
		if models.IsBlank(raw) {
			missingStaff.add(raw)
		} else {
			staff, err := r.lookupStaff(ctx, raw, staffCache)
			switch {
			case err != nil:
				lookupErrs = append(lookupErrs, fmt.Sprintf("field staff lookup: %v", err))
			case staff != nil:
				out.FieldStaffResolved = true
			default:
				missingStaff.add(raw)
			}
		}

		if account := rec.Value(models.FieldNoRek); !models.IsBlank(account) {
			existing, err := r.source.FindProductByAccountNumber(ctx, account)
			if err != nil {
				lookupErrs = append(lookupErrs, fmt.Sprintf("duplicate lookup: %v", err))
				out.DuplicateUnchecked = true
			} else if existing != nil {
				out.IsDuplicate = true
				report.Duplicates++
			}
		}

		if len(lookupErrs) > 0 {
			out.LookupError = strings.Join(lookupErrs, "; ")
			report.LookupErrors++
			r.logger.Warn("Reference lookup failed",
				logging.F(logging.FieldRecordIndex, i),
				logging.F(logging.FieldError, out.LookupError))
		}

		out.CorrectedRecord = rec
		report.Records = append(report.Records, rec)
		report.Outcomes = append(report.Outcomes, out)
	}

	report.IsAllValid = len(report.MissingCustomers) == 0 &&
		len(report.MissingOrders) == 0 &&
		len(report.MissingFieldStaff) == 0 &&
		report.Duplicates == 0

	r.logger.Info("Reconciled records",
		logging.F(logging.FieldCount, len(records)),
		logging.F("missing_customers", len(report.MissingCustomers)),
		logging.F("missing_orders", len(report.MissingOrders)),
		logging.F("missing_field_staff", len(report.MissingFieldStaff)),
		logging.F("duplicates", report.Duplicates))
	return report, nil
}

func (r *Reconciler) customerSnapshot(ctx context.Context, records []models.Record) (map[string]models.Customer, error) {
	codes := distinctValues(records, models.FieldCustomer)
	snapshot := make(map[string]models.Customer)
	if len(codes) == 0 {
		return snapshot, nil
	}
	found, err := r.source.FindCustomersByCode(ctx, codes)
	if err != nil {
		return nil, fmt.Errorf("failed to load customers: %w", err)
	}
	for _, c := range found {
		snapshot[textnorm.CustomerKey(c.Code)] = c
	}
	return snapshot, nil
}

func (r *Reconciler) orderSnapshot(ctx context.Context, records []models.Record) (map[string]models.Order, error) {
	numbers := distinctValues(records, models.FieldNoOrder)
	snapshot := make(map[string]models.Order)
	if len(numbers) == 0 {
		return snapshot, nil
	}
	found, err := r.source.FindOrdersByNumber(ctx, numbers)
	if err != nil {
		return nil, fmt.Errorf("failed to load orders: %w", err)
	}
	for _, o := range found {
		snapshot[textnorm.OrderKey(o.Number)] = o
	}
	return snapshot, nil
}

// lookupStaff matches a field-staff code exactly. Results are cached for the
// duration of one Reconcile call.
func (r *Reconciler) lookupStaff(ctx context.Context, code string, cache map[string]*models.FieldStaff) (*models.FieldStaff, error) {
	if staff, ok := cache[code]; ok {
		return staff, nil
	}
	staff, err := r.source.FindFieldStaffByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	cache[code] = staff
	return staff, nil
}

// distinctValues returns the non-blank values of k in first-seen order.
func distinctValues(records []models.Record, k models.FieldKey) []string {
	seen := make(map[string]bool)
	var out []string
	for _, rec := range records {
		v := rec.Value(k)
		if models.IsBlank(v) || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}

// missingSet appends each distinct value once, blanks as EmptySentinel.
type missingSet struct {
	seen map[string]bool
	list *[]string
}

func newMissingSet(list *[]string) missingSet {
	return missingSet{seen: make(map[string]bool), list: list}
}

func (m missingSet) add(raw string) {
	v := raw
	if models.IsBlank(v) {
		v = EmptySentinel
	}
	if m.seen[v] {
		return
	}
	m.seen[v] = true
	*m.list = append(*m.list, v)
}
