package extraction

import (
	"regexp"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

// Rule binds a label pattern to a field. When Secondary is set and the value
// ends in a parenthesised part, e.g. "BCA (Gold)", the part in parentheses
// fills Secondary unless that field is extracted directly.
type Rule struct {
	Field     models.FieldKey
	Label     string
	Secondary models.FieldKey
}

// Shared label fragments.
const (
	mb  = `(?:Mobile(?:\s*Banking)?|M[\s\-]?Banking)`
	ib  = `(?:I[\s\-]?Banking|Internet\s*Banking|IB)`
	pwd = `Pass(?:word)?`
)

// orderMarker starts a new record block.
var orderMarker = regexp.MustCompile(`(?i)\bNo(?:mor)?\s*[.:\-#]?\s*Order\b`)

// CommonRules apply to every block regardless of bank.
var CommonRules = []Rule{
	{Field: models.FieldNoOrder, Label: `No(?:mor)?\s*[.:\-#]?\s*Order`},
	{Field: models.FieldCodeAgen, Label: `(?:Kode|Code)\s*Agen`},
	{Field: models.FieldCustomer, Label: `(?:Kode\s+)?Customer|Pelanggan`},
	{Field: models.FieldFieldStaff, Label: `(?:Kode\s+)?Field\s*Staff`},
	{Field: models.FieldBank, Label: `Bank\s*\(\s*Grade\s*\)`, Secondary: models.FieldGrade},
	{Field: models.FieldBank, Label: `(?:Nama\s+)?Bank`, Secondary: models.FieldGrade},
	{Field: models.FieldGrade, Label: `Grade`},
	{Field: models.FieldKCP, Label: `KCP|Kantor\s+Cabang`},
	{Field: models.FieldJenisRekening, Label: `(?:Jenis|Tipe)\s+Rekening`},
	{Field: models.FieldNIK, Label: `NIK|No\.?\s*KTP|Nomor\s+KTP`},
	{Field: models.FieldNama, Label: `Nama(?:\s+Lengkap|\s+Nasabah)?`},
	{Field: models.FieldNamaIbuKandung, Label: `(?:Nama\s+)?Ibu\s+Kandung|Nama\s+Ibu`},
	{Field: models.FieldTempatTanggalLahir, Label: `Tempat\s*[/,]?\s*(?:Tanggal|Tgl\.?)\s*Lahir|TTL`},
	{Field: models.FieldNoRek, Label: `No\.?\s*Rek(?:ening)?\.?|Nomor\s+Rekening`},
	{Field: models.FieldNoATM, Label: `No\.?\s*ATM\s*\(\s*Valid\s*Thru\s*\)`, Secondary: models.FieldValidThru},
	{Field: models.FieldNoATM, Label: `No\.?\s*(?:ATM|Kartu)|Nomor\s+(?:ATM|Kartu)`, Secondary: models.FieldValidThru},
	{Field: models.FieldValidThru, Label: `Valid\s*Thru|Masa\s+Berlaku(?:\s+Kartu)?`},
	{Field: models.FieldNoHP, Label: `No\.?\s*(?:HP|Handphone|Telp)|Nomor\s+HP|Handphone`},
	{Field: models.FieldPinATM, Label: `PIN\s*ATM|PIN\s+Kartu`},
	{Field: models.FieldEmail, Label: `(?:Alamat\s+)?E-?mail`},
	{Field: models.FieldPassEmail, Label: pwd + `\s*E-?mail`},
	{Field: models.FieldExpired, Label: `(?:Tanggal\s+|Tgl\.?\s*)?Exp(?:ired)?`},
	{Field: models.FieldMobileUser, Label: `User\s*` + mb + `|` + mb + `\s*User`},
	{Field: models.FieldMobilePassword, Label: pwd + `\s*` + mb + `|` + mb + `\s*` + pwd},
	{Field: models.FieldMobilePin, Label: `PIN\s*` + mb + `|` + mb + `\s*PIN`},
	{Field: models.FieldIBUser, Label: `User\s*(?:ID\s*)?` + ib + `|` + ib + `\s*User`},
	{Field: models.FieldIBPassword, Label: pwd + `\s*` + ib + `|` + ib + `\s*` + pwd},
	{Field: models.FieldIBPin, Label: `PIN\s*` + ib + `|` + ib + `\s*PIN`},
	{Field: models.FieldUploadFotoID, Label: `Foto\s+(?:KTP|ID)`},
	{Field: models.FieldUploadFotoSelfie, Label: `Foto\s+Selfie`},
}

// DialectRules add bank-specific labels, keyed by bank code. They are
// consulted before the common rules.
var DialectRules = map[string][]Rule{
	"BCA": {
		{Field: models.FieldKodeAkses, Label: `Kode\s+Akses(?:\s+m[\s\-]?BCA)?`},
		{Field: models.FieldPinMBca, Label: `PIN\s*m[\s\-]?BCA`},
		{Field: models.FieldMyBCAUser, Label: `User\s*(?:ID\s*)?my\s*BCA|my\s*BCA\s*User|BCA\s*ID`},
		{Field: models.FieldMyBCAPassword, Label: pwd + `\s*my\s*BCA|my\s*BCA\s*` + pwd},
		{Field: models.FieldMyBCAPin, Label: `PIN\s*my\s*BCA|my\s*BCA\s*PIN`},
		{Field: models.FieldIBUser, Label: `User\s*(?:ID\s*)?Klik\s*BCA|Klik\s*BCA\s*User`},
		{Field: models.FieldIBPin, Label: `PIN\s*Key\s*BCA|Key\s*BCA\s*PIN`},
	},
	"BRI": {
		{Field: models.FieldBrimoUser, Label: `User\s*BRI\s*mo|BRI\s*mo\s*User`},
		{Field: models.FieldBrimoPassword, Label: pwd + `\s*BRI\s*mo|BRI\s*mo\s*` + pwd},
		{Field: models.FieldMobilePin, Label: `PIN\s*BRI\s*mo|BRI\s*mo\s*PIN`},
		{Field: models.FieldBriMerchantUser, Label: `User\s*(?:BRI\s*)?(?:Merchant|QRIS)|(?:BRI\s*)?(?:Merchant|QRIS)\s*User`},
		{Field: models.FieldBriMerchantPassword, Label: pwd + `\s*(?:BRI\s*)?(?:Merchant|QRIS)|(?:BRI\s*)?(?:Merchant|QRIS)\s*` + pwd},
	},
	"OCBC": {
		{Field: models.FieldOcbcNyalaUser, Label: `User\s*(?:OCBC\s*)?Nyala|(?:OCBC\s*)?Nyala\s*User`},
		{Field: models.FieldMobilePassword, Label: pwd + `\s*(?:OCBC\s*)?Nyala`},
		{Field: models.FieldMobilePin, Label: `PIN\s*(?:OCBC\s*)?Nyala`},
	},
	"MANDIRI": {
		{Field: models.FieldMobileUser, Label: `User\s*Livin'?`},
		{Field: models.FieldMobilePassword, Label: pwd + `\s*Livin'?`},
		{Field: models.FieldMobilePin, Label: `PIN\s*Livin'?`},
	},
	"BNI": {
		{Field: models.FieldMobileUser, Label: `User\s*Wondr|Wondr\s*User`},
		{Field: models.FieldPinWondr, Label: `PIN\s*Wondr|Wondr\s*PIN`},
		{Field: models.FieldPassWondr, Label: pwd + `\s*Wondr|Wondr\s*` + pwd},
	},
	"PERMATA": {
		{Field: models.FieldMobileUser, Label: `User\s*Permata\s*(?:Mobile(?:\s*X)?)?`},
	},
}

type compiledRule struct {
	Rule
	re *regexp.Regexp
}

func compileRules(rules []Rule) []compiledRule {
	out := make([]compiledRule, len(rules))
	for i, r := range rules {
		re := regexp.MustCompile(`(?i)` + r.Label)
		re.Longest()
		out[i] = compiledRule{Rule: r, re: re}
	}
	return out
}
