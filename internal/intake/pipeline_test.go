package intake_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/bankschema"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/document"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/extraction"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/factory"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/intake"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/intake/mocks"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/pdfparser"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/reconciler"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/store"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/validation"
)

const productsCSV = "No Order,Bank,Nama,NIK,No Rek,No ATM,No HP,PIN ATM,Mobile PIN,Email,Expired,Customer,Field Staff\n" +
	"ord-1,BCA,Budi  Santoso,3201010101010001,1234567890,6019001234567890,0812-3456-7890,123456,654321,budi@example.com,2027-01-31,cust 01,FS01\n" +
	"ORD-2,BRI,Sari,123,1234567891,6019001234567891,081234567891,123456,654321,sari@example.com,2027-01-31,CUST-01,FS01\n"

const productText = `No. Order: ORD-9
Bank: BCA
Nama: Rina Wati
NIK: 3201010101010002
No. Rekening: 9876543210
No. ATM: 6019009876543210
No. HP: 081298765432
PIN ATM: 112233
PIN Mobile: 445566
Email: rina@example.com
Expired: 2027-06-30
`

type harness struct {
	pipeline *intake.Pipeline
	refs     *store.MemoryStore
	accounts *accountLookup
	logger   *logging.MockLogger
}

// accountLookup fails account-number lookups while err is set.
type accountLookup struct {
	*store.MemoryStore
	err error
}

func (a *accountLookup) FindProductByAccountNumber(ctx context.Context, number string) (*models.Product, error) {
	if a.err != nil {
		return nil, a.err
	}
	return a.MemoryStore.FindProductByAccountNumber(ctx, number)
}

func newHarness(t *testing.T, saver intake.RecordSaver, opts intake.Options) harness {
	t.Helper()
	registry, err := bankschema.LoadDefault("BCA")
	require.NoError(t, err)
	logger := logging.NewMockLogger()
	refs := store.NewMemoryStore()
	ctx := context.Background()
	_, err = refs.UpsertCustomers(ctx, []models.Customer{{Code: "CUST-01", DisplayName: "PT Satu"}})
	require.NoError(t, err)
	_, err = refs.UpsertOrders(ctx, []models.Order{{Number: "ORD-1"}, {Number: "ORD-9"}})
	require.NoError(t, err)
	_, err = refs.UpsertFieldStaff(ctx, []models.FieldStaff{{Code: "FS01", Name: "Andi"}})
	require.NoError(t, err)

	accounts := &accountLookup{MemoryStore: refs}
	engine := extraction.NewEngine(registry, extraction.Options{}, logger)
	p := intake.New(registry, engine, validation.NewValidator(logger), reconciler.New(accounts, logger), saver, opts, logger)
	return harness{pipeline: p, refs: refs, accounts: accounts, logger: logger}
}

func TestProcessFiles_TableImport(t *testing.T) {
	h := newHarness(t, nil, intake.Options{})

	result, err := h.pipeline.ProcessFiles(context.Background(), []intake.Input{
		{Name: "products.csv", Data: []byte(productsCSV)},
	})
	require.NoError(t, err)

	require.Len(t, result.Files, 1)
	assert.Equal(t, document.FormatCSV, result.Files[0].Format)
	assert.Equal(t, "ok", result.Files[0].Status)
	assert.Equal(t, 2, result.Files[0].Records)
	require.Len(t, result.Records, 2)

	assert.Equal(t, 2, result.Validation.Summary.Total)
	assert.Equal(t, 1, result.Validation.Summary.Valid)
	require.Len(t, result.Validation.Errors, 1)
	assert.Equal(t, 1, result.Validation.Errors[0].Index)

	require.NotNil(t, result.Reconciliation)
	assert.True(t, result.Reconciliation.IsAllValid)
	rec := result.Reconciliation.Records[0]
	assert.Equal(t, "CUST-01", rec.Value(models.FieldCustomer))
	assert.Equal(t, "ORD-1", rec.Value(models.FieldNoOrder))
	assert.Equal(t, "Budi Santoso", rec.Value(models.FieldNama))
	assert.Equal(t, "081234567890", rec.Value(models.FieldNoHP))
	assert.Equal(t, "products.csv", rec.Provenance.SourceFile)

	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "BCA", result.Warnings[0].Bank)
	assert.Contains(t, result.Warnings[0].Missing, models.FieldKodeAkses)
	assert.Contains(t, result.Warnings[0].Missing, models.FieldPinMBca)
}

func TestProcessFiles_FreeTextPDF(t *testing.T) {
	h := newHarness(t, nil, intake.Options{
		Adapters: factory.Options{PDFExtractor: pdfparser.NewMockTextExtractor(productText, nil)},
	})

	result, err := h.pipeline.ProcessFiles(context.Background(), []intake.Input{
		{Name: "scan.PDF", Data: []byte("%PDF-1.4 fake")},
	})
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "Rina Wati", result.Records[0].Value(models.FieldNama))
	assert.Equal(t, "ORD-9", result.Records[0].Value(models.FieldNoOrder))
	assert.Equal(t, 1, result.Validation.Summary.Valid)
	require.NotNil(t, result.Reconciliation)
	assert.Equal(t, []string{reconciler.EmptySentinel}, result.Reconciliation.MissingCustomers)
}

type panickingExtractor struct{}

func (panickingExtractor) ExtractText(context.Context, string) (string, error) {
	panic("boom")
}

func TestProcessFiles_IsolatesFailures(t *testing.T) {
	h := newHarness(t, nil, intake.Options{
		MaxFileSize: 1024,
		Adapters:    factory.Options{PDFExtractor: panickingExtractor{}},
	})

	result, err := h.pipeline.ProcessFiles(context.Background(), []intake.Input{
		{Name: "broken.pdf", Data: []byte("this is not a pdf")},
		{Name: "notes.txt", Data: []byte("hello")},
		{Name: "huge.csv", Data: make([]byte, 2048)},
		{Name: "crash.pdf", Data: []byte("%PDF-1.7")},
		{Name: "products.csv", Data: []byte(productsCSV)},
	})
	require.NoError(t, err)
	require.Len(t, result.Files, 5)

	for _, f := range result.Files[:4] {
		assert.Equal(t, "failed", f.Status, f.Name)
		assert.NotEmpty(t, f.Error, f.Name)
		assert.Zero(t, f.Records, f.Name)
	}
	assert.Contains(t, result.Files[1].Error, "unsupported")
	assert.Contains(t, result.Files[2].Error, "limit is 1024 bytes")
	assert.Contains(t, result.Files[3].Error, "boom")
	assert.True(t, h.logger.HasEntry("ERROR", "Recovered from panic while processing file"))

	assert.Equal(t, "ok", result.Files[4].Status)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 4, result.FailedFiles())
}

func TestProcessFiles_DegradedPDF(t *testing.T) {
	h := newHarness(t, nil, intake.Options{
		Adapters: factory.Options{PDFExtractor: pdfparser.NewMockTextExtractor("", errors.New("no pdftotext"))},
	})

	result, err := h.pipeline.ProcessFiles(context.Background(), []intake.Input{
		{Name: "image-only.pdf", Data: []byte("%PDF-1.4\nbinary")},
	})
	require.NoError(t, err)
	assert.Equal(t, "degraded", result.Files[0].Status)
	assert.NotEmpty(t, result.Files[0].Error)
	assert.Empty(t, result.Records)
	assert.Nil(t, result.Reconciliation)
}

type failingReconciler struct{}

func (failingReconciler) Reconcile(context.Context, []models.Record) (*reconciler.Report, error) {
	return nil, errors.New("database unavailable")
}

func TestProcessFiles_SnapshotFailure(t *testing.T) {
	registry, err := bankschema.LoadDefault("BCA")
	require.NoError(t, err)
	p := intake.New(registry, extraction.NewEngine(registry, extraction.Options{}, nil), nil,
		failingReconciler{}, nil, intake.Options{}, nil)

	result, err := p.ProcessFiles(context.Background(), []intake.Input{{Name: "p.csv", Data: []byte(productsCSV)}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database unavailable")
	require.NotNil(t, result)
	assert.Len(t, result.Records, 2)
}

func TestProcessFiles_Cancelled(t *testing.T) {
	h := newHarness(t, nil, intake.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := h.pipeline.ProcessFiles(ctx, []intake.Input{{Name: "p.csv", Data: []byte(productsCSV)}})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Files)
}

func TestCommit_SkipsDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	saver := mocks.NewMockRecordSaver(ctrl)
	h := newHarness(t, saver, intake.Options{
		Adapters: factory.Options{PDFExtractor: pdfparser.NewMockTextExtractor(productText, nil)},
	})
	ctx := context.Background()

	existing := models.NewRecord(models.FromFile("old.csv"))
	existing.Set(models.FieldNoRek, "9876543210")
	_, err := h.refs.Save(ctx, existing)
	require.NoError(t, err)

	result, err := h.pipeline.ProcessFiles(ctx, []intake.Input{
		{Name: "products.csv", Data: []byte(productsCSV)},
		{Name: "scan.pdf", Data: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)
	require.Equal(t, 1, result.Reconciliation.Duplicates)

	saver.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, rec models.Record) (string, error) {
		assert.Equal(t, "1234567890", rec.Value(models.FieldNoRek))
		return "id-1", nil
	})

	ids, err := h.pipeline.Commit(ctx, result)
	require.NoError(t, err)
	assert.Equal(t, []string{"id-1"}, ids)
}

func TestCommit_SkipsUncheckedDuplicates(t *testing.T) {
	ctrl := gomock.NewController(t)
	saver := mocks.NewMockRecordSaver(ctrl)
	h := newHarness(t, saver, intake.Options{
		Adapters: factory.Options{PDFExtractor: pdfparser.NewMockTextExtractor(productText, nil)},
	})
	ctx := context.Background()

	existing := models.NewRecord(models.FromFile("old.csv"))
	existing.Set(models.FieldNoRek, "9876543210")
	_, err := h.refs.Save(ctx, existing)
	require.NoError(t, err)
	h.accounts.err = errors.New("db down")

	result, err := h.pipeline.ProcessFiles(ctx, []intake.Input{
		{Name: "products.csv", Data: []byte(productsCSV)},
		{Name: "scan.pdf", Data: []byte("%PDF-1.4")},
	})
	require.NoError(t, err)
	require.NotNil(t, result.Reconciliation)
	assert.Zero(t, result.Reconciliation.Duplicates)
	for _, o := range result.Reconciliation.Outcomes {
		assert.True(t, o.DuplicateUnchecked)
		assert.Equal(t, "duplicate lookup: db down", o.LookupError)
	}
	assert.Empty(t, result.CommitCandidates())

	// No Save expectation: any call fails the test.
	ids, err := h.pipeline.Commit(ctx, result)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCommit_CollectsSaveErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	saver := mocks.NewMockRecordSaver(ctrl)
	h := newHarness(t, saver, intake.Options{})
	ctx := context.Background()

	result, err := h.pipeline.ProcessFiles(ctx, []intake.Input{{Name: "products.csv", Data: []byte(productsCSV)}})
	require.NoError(t, err)

	saver.EXPECT().Save(ctx, gomock.Any()).Return("", errors.New("disk full"))
	ids, err := h.pipeline.Commit(ctx, result)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "account 1234567890")
	assert.Empty(t, ids)
}

func TestCommit_WithoutSaver(t *testing.T) {
	h := newHarness(t, nil, intake.Options{})
	_, err := h.pipeline.Commit(context.Background(), &intake.BatchResult{})
	assert.ErrorIs(t, err, intake.ErrNoSaver)
}

func chatRecord() models.Record {
	rec := models.NewRecord(models.FromChat("chat-1"))
	for k, v := range map[models.FieldKey]string{
		models.FieldNoOrder:    "ord-9",
		models.FieldBank:       "BCA",
		models.FieldNama:       "Rina",
		models.FieldNIK:        "3201010101010002",
		models.FieldNoRek:      "9876543210",
		models.FieldNoATM:      "6019009876543210",
		models.FieldNoHP:       "081298765432",
		models.FieldPinATM:     "112233",
		models.FieldPinMBca:    "445566",
		models.FieldEmail:      "rina@example.com",
		models.FieldExpired:    "2027-06-30",
		models.FieldFieldStaff: "FS01",
	} {
		rec.Set(k, v)
	}
	return rec
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()

	t.Run("accepts and saves the corrected record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		saver := mocks.NewMockRecordSaver(ctrl)
		h := newHarness(t, saver, intake.Options{})

		saver.EXPECT().Save(ctx, gomock.Any()).DoAndReturn(func(_ context.Context, rec models.Record) (string, error) {
			assert.Equal(t, "ORD-9", rec.Value(models.FieldNoOrder))
			assert.Equal(t, models.SourceChat, rec.Provenance.Source)
			return "prod-42", nil
		})

		id, err := h.pipeline.Submit(ctx, chatRecord())
		require.NoError(t, err)
		assert.Equal(t, "prod-42", id)
		assert.True(t, h.logger.HasEntry("WARN", "Submitted record references unknown data"))
	})

	t.Run("rejects invalid record", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := newHarness(t, mocks.NewMockRecordSaver(ctrl), intake.Options{})

		rec := chatRecord()
		rec.Set(models.FieldNIK, "12")
		rec.Delete(models.FieldEmail)

		_, err := h.pipeline.Submit(ctx, rec)
		require.ErrorIs(t, err, intake.ErrRejected)
		assert.True(t, strings.Contains(err.Error(), "nik"))
		assert.True(t, strings.Contains(err.Error(), "email"))
	})

	t.Run("rejects duplicate account", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := newHarness(t, mocks.NewMockRecordSaver(ctrl), intake.Options{})
		_, err := h.refs.Save(ctx, chatRecord())
		require.NoError(t, err)

		_, err = h.pipeline.Submit(ctx, chatRecord())
		require.ErrorIs(t, err, intake.ErrDuplicate)
		assert.Contains(t, err.Error(), "9876543210")
	})

	t.Run("refuses when duplicate lookup fails", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		h := newHarness(t, mocks.NewMockRecordSaver(ctrl), intake.Options{})
		_, err := h.refs.Save(ctx, chatRecord())
		require.NoError(t, err)
		h.accounts.err = errors.New("db down")

		_, err = h.pipeline.Submit(ctx, chatRecord())
		require.ErrorIs(t, err, intake.ErrDuplicateUnchecked)
		assert.NotErrorIs(t, err, intake.ErrDuplicate)
		assert.Contains(t, err.Error(), "db down")
	})

	t.Run("save failure", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		saver := mocks.NewMockRecordSaver(ctrl)
		h := newHarness(t, saver, intake.Options{})
		saver.EXPECT().Save(ctx, gomock.Any()).Return("", errors.New("locked"))

		_, err := h.pipeline.Submit(ctx, chatRecord())
		require.Error(t, err)
		assert.Contains(t, err.Error(), "locked")
	})

	t.Run("no saver", func(t *testing.T) {
		h := newHarness(t, nil, intake.Options{})
		_, err := h.pipeline.Submit(ctx, chatRecord())
		assert.ErrorIs(t, err, intake.ErrNoSaver)
	})
}
