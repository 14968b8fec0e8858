package bankschema

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func builtin(t *testing.T) *Registry {
	t.Helper()
	r, err := LoadDefault("")
	require.NoError(t, err)
	return r
}

func TestResolve_KnownBanks(t *testing.T) {
	r := builtin(t)

	tests := []struct {
		input string
		want  string
	}{
		{"bca", "BCA"},
		{"BCA", "BCA"},
		{"014", "BCA"},
		{"Bank Central Asia", "BCA"},
		{"  bank bca syariah ", "BCA"},
		{"BRI", "BRI"},
		{"002", "BRI"},
		{"Bank Rakyat Indonesia", "BRI"},
		{"brimo", "BRI"},
		{"OCBC NISP", "OCBC"},
		{"nyala", "OCBC"},
		{"028", "OCBC"},
		{"Mandiri", "MANDIRI"},
		{"livin by mandiri", "MANDIRI"},
		{"008", "MANDIRI"},
		{"bni", "BNI"},
		{"wondr by BNI", "BNI"},
		{"009", "BNI"},
		{"Permata", "PERMATA"},
		{"013", "PERMATA"},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.want, r.Resolve(tt.input).Code)
		})
	}
}

func TestResolve_SameInstanceForVariants(t *testing.T) {
	r := builtin(t)
	a := r.Resolve("bca")
	assert.Same(t, a, r.Resolve("BCA"))
	assert.Same(t, a, r.Resolve("014"))
}

func TestResolve_Fallbacks(t *testing.T) {
	r := builtin(t)

	for _, in := range []string{"Bank Jago", "xyz", "999", "bank"} {
		s := r.Resolve(in)
		require.NotNil(t, s)
		assert.True(t, s.IsGeneric(), in)
	}

	assert.Equal(t, "BCA", r.Resolve("").Code)
	assert.Equal(t, "BCA", r.Resolve("   ").Code)
}

func TestResolve_ConfiguredDefault(t *testing.T) {
	r, err := LoadDefault("bni")
	require.NoError(t, err)
	assert.Equal(t, "BNI", r.Resolve("").Code)
	assert.Same(t, r.Default(), r.Resolve(""))
}

func TestResolve_PriorityOrder(t *testing.T) {
	r := builtin(t)
	// Mentions two banks; the earlier one in priority order wins.
	assert.Equal(t, "BCA", r.Resolve("transfer BRI ke BCA").Code)
	assert.Equal(t, "BRI", r.Resolve("bri mandiri").Code)
}

func TestMandatoryFieldsFor(t *testing.T) {
	r := builtin(t)
	bri := r.Resolve("BRI")

	assert.ElementsMatch(t, []string{"QRIS", "TABUNGAN"}, bri.SubtypeKeys())

	qris := bri.MandatoryFieldsFor("qris")
	assert.Contains(t, qris, models.FieldBriMerchantUser)
	assert.NotContains(t, qris, models.FieldNoATM)

	tab := bri.MandatoryFieldsFor("TABUNGAN")
	assert.Contains(t, tab, models.FieldBrimoUser)

	assert.Equal(t, bri.Mandatory(), bri.MandatoryFieldsFor("GIRO"))
	assert.Equal(t, bri.Mandatory(), bri.MandatoryFieldsFor(""))
	assert.Contains(t, bri.OptionalFieldsFor("QRIS"), models.FieldNoATM)

	bca := r.Resolve("BCA")
	assert.Contains(t, bca.MandatoryFieldsFor("QRIS"), models.FieldPinMBca)
}

func TestMandatoryFields_ReturnsCopies(t *testing.T) {
	s := builtin(t).Resolve("BCA")
	m := s.Mandatory()
	m[0] = "changed"
	assert.Equal(t, models.FieldNoOrder, s.Mandatory()[0])
}

func TestNormalizeFieldName(t *testing.T) {
	r := builtin(t)
	bca := r.Resolve("BCA")
	bni := r.Resolve("BNI")

	tests := []struct {
		name   string
		schema *BankSchema
		label  string
		want   models.FieldKey
		ok     bool
	}{
		{"common alias", bca, "No. Rekening", models.FieldNoRek, true},
		{"trailing colon and spacing", bca, "  Nama   Ibu Kandung : ", models.FieldNamaIbuKandung, true},
		{"variant label", bca, "Tempat Tgl Lahir", models.FieldTempatTanggalLahir, true},
		{"bank specific", bca, "PIN m-BCA", models.FieldPinMBca, true},
		{"bank specific elsewhere is unknown", bni, "PIN m-BCA", "PIN m-BCA", false},
		{"bni dialect", bni, "User Wondr", models.FieldMobileUser, true},
		{"canonical key name", bni, "noHp", models.FieldNoHP, true},
		{"unicode dash", bca, "E–mail", models.FieldEmail, true},
		{"unknown passes through", bca, "Catatan", "Catatan", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tt.schema.NormalizeFieldName(tt.label)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDisplayLabel(t *testing.T) {
	r := builtin(t)

	assert.Equal(t, "No. Rekening", r.Resolve("BCA").DisplayLabel(models.FieldNoRek))
	assert.Equal(t, "PIN m-BCA", r.Resolve("BCA").DisplayLabel(models.FieldPinMBca))
	assert.Equal(t, "User Wondr", r.Resolve("BNI").DisplayLabel(models.FieldMobileUser))
	assert.Equal(t, "Password Mobile Banking", r.Resolve("PERMATA").DisplayLabel(models.FieldMobilePassword))
	assert.Equal(t, "kodeAkses", r.Generic().DisplayLabel(models.FieldKodeAkses))
}

func TestMissingMandatory(t *testing.T) {
	r := builtin(t)
	qris := r.Resolve("BRI")

	rec := models.NewRecord(models.FromFile("a.pdf"))
	for _, k := range qris.MandatoryFieldsFor("QRIS") {
		rec.Set(k, "x")
	}
	assert.Empty(t, qris.MissingMandatory("QRIS", rec))

	rec.Set(models.FieldNoRek, "-")
	rec.Delete(models.FieldEmail)
	assert.Equal(t, []models.FieldKey{models.FieldNoRek, models.FieldEmail}, qris.MissingMandatory("QRIS", rec))

	// The base BRI set also needs ATM fields.
	assert.Contains(t, qris.MissingMandatory("", rec), models.FieldNoATM)
}

func TestSchemas_OrderAndCredentials(t *testing.T) {
	r := builtin(t)
	var codes []string
	for _, s := range r.Schemas() {
		codes = append(codes, s.Code)
		assert.NotEmpty(t, s.Credentials, s.Code)
	}
	assert.Equal(t, []string{"BCA", "BRI", "OCBC", "MANDIRI", "BNI", "PERMATA", "GENERIC"}, codes)

	s, ok := r.Lookup("ocbc")
	require.True(t, ok)
	assert.Equal(t, models.FieldOcbcNyalaUser, s.Credentials[0])
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		yaml   string
		reason string
	}{
		{"malformed", "banks: [", "malformed yaml"},
		{"no banks", "default: BCA\n", "no banks declared"},
		{"missing generic", "banks:\n  - code: BCA\n", "GENERIC bank is not declared"},
		{"unknown field", "banks:\n  - code: GENERIC\n    mandatory: [nik, shoeSize]\n", `unknown field "shoeSize"`},
		{
			"overlapping sets",
			"banks:\n  - code: GENERIC\n    mandatory: [nik]\n    optional: [nik]\n",
			"both mandatory and optional",
		},
		{
			"overlapping subtype sets",
			"banks:\n  - code: GENERIC\n  - code: BRI\n    subtypes:\n      QRIS:\n        mandatory: [nik]\n        optional: [nik]\n",
			"both mandatory and optional",
		},
		{
			"alias mapped twice",
			"common:\n  aliases:\n    nik: [\"ktp\"]\n    nama: [\"KTP\"]\nbanks:\n  - code: GENERIC\n",
			`alias "ktp" maps to both`,
		},
		{"duplicate bank", "banks:\n  - code: GENERIC\n  - code: bca\n  - code: BCA\n", "declared twice"},
		{"unknown default", "default: JAGO\nbanks:\n  - code: GENERIC\n", "default bank is not declared"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load([]byte(tt.yaml), "")
			require.Error(t, err)

			var schemaErr *parsererror.SchemaError
			require.True(t, errors.As(err, &schemaErr))
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestLoad_BankAliasOverridesCommon(t *testing.T) {
	data := `
common:
  aliases:
    mobilePin: ["pin app"]
banks:
  - code: GENERIC
  - code: X
    match: ["xbank"]
    aliases:
      pinWondr: ["pin app"]
`
	r, err := Load([]byte(data), "")
	require.NoError(t, err)

	k, ok := r.Resolve("xbank").NormalizeFieldName("PIN App")
	assert.True(t, ok)
	assert.Equal(t, models.FieldPinWondr, k)

	k, _ = r.Generic().NormalizeFieldName("pin app")
	assert.Equal(t, models.FieldMobilePin, k)

	// No default declared: empty input falls back to GENERIC.
	assert.True(t, r.Resolve("").IsGeneric())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "banks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("banks:\n  - code: GENERIC\n    mandatory: [nik]\n"), 0600))

	r, err := LoadFile(path, "")
	require.NoError(t, err)
	assert.Equal(t, []models.FieldKey{models.FieldNIK}, r.Generic().Mandatory())

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)
}
