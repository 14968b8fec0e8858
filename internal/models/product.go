package models

// ProductRow is the flat CSV representation of a record, one column per
// field key.
type ProductRow struct {
	SourceFile          string `csv:"sourceFile"`
	NoOrder             string `csv:"noOrder"`
	CodeAgen            string `csv:"codeAgen"`
	Customer            string `csv:"customer"`
	FieldStaff          string `csv:"fieldStaff"`
	Bank                string `csv:"bank"`
	Grade               string `csv:"grade"`
	KCP                 string `csv:"kcp"`
	JenisRekening       string `csv:"jenisRekening"`
	Nama                string `csv:"nama"`
	NIK                 string `csv:"nik"`
	NamaIbuKandung      string `csv:"namaIbuKandung"`
	TempatTanggalLahir  string `csv:"tempatTanggalLahir"`
	NoRek               string `csv:"noRek"`
	NoATM               string `csv:"noAtm"`
	ValidThru           string `csv:"validThru"`
	NoHP                string `csv:"noHp"`
	PinATM              string `csv:"pinAtm"`
	Email               string `csv:"email"`
	PassEmail           string `csv:"passEmail"`
	Expired             string `csv:"expired"`
	MobileUser          string `csv:"mobileUser"`
	MobilePassword      string `csv:"mobilePassword"`
	MobilePin           string `csv:"mobilePin"`
	IBUser              string `csv:"ibUser"`
	IBPassword          string `csv:"ibPassword"`
	IBPin               string `csv:"ibPin"`
	MyBCAUser           string `csv:"myBCAUser"`
	MyBCAPassword       string `csv:"myBCAPassword"`
	MyBCAPin            string `csv:"myBCAPin"`
	PinMBca             string `csv:"pinMBca"`
	BrimoUser           string `csv:"brimoUser"`
	BrimoPassword       string `csv:"brimoPassword"`
	BriMerchantUser     string `csv:"briMerchantUser"`
	BriMerchantPassword string `csv:"briMerchantPassword"`
	OcbcNyalaUser       string `csv:"ocbcNyalaUser"`
	PinWondr            string `csv:"pinWondr"`
	PassWondr           string `csv:"passWondr"`
	KodeAkses           string `csv:"kodeAkses"`
	UploadFotoID        string `csv:"uploadFotoId"`
	UploadFotoSelfie    string `csv:"uploadFotoSelfie"`
}

func (p *ProductRow) columns() map[FieldKey]*string {
	return map[FieldKey]*string{
		FieldNoOrder: &p.NoOrder, FieldCodeAgen: &p.CodeAgen, FieldCustomer: &p.Customer,
		FieldFieldStaff: &p.FieldStaff, FieldBank: &p.Bank, FieldGrade: &p.Grade,
		FieldKCP: &p.KCP, FieldJenisRekening: &p.JenisRekening, FieldNama: &p.Nama,
		FieldNIK: &p.NIK, FieldNamaIbuKandung: &p.NamaIbuKandung,
		FieldTempatTanggalLahir: &p.TempatTanggalLahir, FieldNoRek: &p.NoRek,
		FieldNoATM: &p.NoATM, FieldValidThru: &p.ValidThru, FieldNoHP: &p.NoHP,
		FieldPinATM: &p.PinATM, FieldEmail: &p.Email, FieldPassEmail: &p.PassEmail,
		FieldExpired: &p.Expired, FieldMobileUser: &p.MobileUser,
		FieldMobilePassword: &p.MobilePassword, FieldMobilePin: &p.MobilePin,
		FieldIBUser: &p.IBUser, FieldIBPassword: &p.IBPassword, FieldIBPin: &p.IBPin,
		FieldMyBCAUser: &p.MyBCAUser, FieldMyBCAPassword: &p.MyBCAPassword,
		FieldMyBCAPin: &p.MyBCAPin, FieldPinMBca: &p.PinMBca,
		FieldBrimoUser: &p.BrimoUser, FieldBrimoPassword: &p.BrimoPassword,
		FieldBriMerchantUser: &p.BriMerchantUser, FieldBriMerchantPassword: &p.BriMerchantPassword,
		FieldOcbcNyalaUser: &p.OcbcNyalaUser, FieldPinWondr: &p.PinWondr,
		FieldPassWondr: &p.PassWondr, FieldKodeAkses: &p.KodeAkses,
		FieldUploadFotoID: &p.UploadFotoID, FieldUploadFotoSelfie: &p.UploadFotoSelfie,
	}
}

// RowFromRecord flattens a record. Absent fields become empty columns.
func RowFromRecord(r Record) ProductRow {
	var row ProductRow
	row.SourceFile = r.Provenance.SourceFile
	for k, dst := range row.columns() {
		*dst = r.Value(k)
	}
	return row
}

// ToRecord converts the row back into a record. Empty columns are treated as
// absent, since CSV cannot tell the two apart.
func (p ProductRow) ToRecord() Record {
	rec := NewRecord(FromFile(p.SourceFile))
	for k, src := range p.columns() {
		if *src != "" {
			rec.Set(k, *src)
		}
	}
	return rec
}
