package models

import "strings"

// FieldKey identifies one attribute of a product record.
type FieldKey string

// Identity, account and contact fields.
const (
	FieldNoOrder            FieldKey = "noOrder"
	FieldCodeAgen           FieldKey = "codeAgen"
	FieldCustomer           FieldKey = "customer"
	FieldFieldStaff         FieldKey = "fieldStaff"
	FieldBank               FieldKey = "bank"
	FieldGrade              FieldKey = "grade"
	FieldKCP                FieldKey = "kcp"
	FieldNIK                FieldKey = "nik"
	FieldNama               FieldKey = "nama"
	FieldNamaIbuKandung     FieldKey = "namaIbuKandung"
	FieldTempatTanggalLahir FieldKey = "tempatTanggalLahir"
	FieldNoRek              FieldKey = "noRek"
	FieldNoATM              FieldKey = "noAtm"
	FieldValidThru          FieldKey = "validThru"
	FieldNoHP               FieldKey = "noHp"
	FieldPinATM             FieldKey = "pinAtm"
	FieldEmail              FieldKey = "email"
	FieldPassEmail          FieldKey = "passEmail"
	FieldExpired            FieldKey = "expired"
	FieldUploadFotoID       FieldKey = "uploadFotoId"
	FieldUploadFotoSelfie   FieldKey = "uploadFotoSelfie"
	FieldJenisRekening      FieldKey = "jenisRekening"
)

// Per-channel credential fields.
const (
	FieldMobileUser          FieldKey = "mobileUser"
	FieldMobilePassword      FieldKey = "mobilePassword"
	FieldMobilePin           FieldKey = "mobilePin"
	FieldIBUser              FieldKey = "ibUser"
	FieldIBPassword          FieldKey = "ibPassword"
	FieldIBPin               FieldKey = "ibPin"
	FieldMyBCAUser           FieldKey = "myBCAUser"
	FieldMyBCAPassword       FieldKey = "myBCAPassword"
	FieldMyBCAPin            FieldKey = "myBCAPin"
	FieldBrimoUser           FieldKey = "brimoUser"
	FieldBrimoPassword       FieldKey = "brimoPassword"
	FieldBriMerchantUser     FieldKey = "briMerchantUser"
	FieldBriMerchantPassword FieldKey = "briMerchantPassword"
	FieldOcbcNyalaUser       FieldKey = "ocbcNyalaUser"
	FieldPinWondr            FieldKey = "pinWondr"
	FieldPassWondr           FieldKey = "passWondr"
	FieldKodeAkses           FieldKey = "kodeAkses"
	FieldPinMBca             FieldKey = "pinMBca"
)

var allFieldKeys = []FieldKey{
	FieldNoOrder, FieldCodeAgen, FieldCustomer, FieldFieldStaff,
	FieldBank, FieldGrade, FieldKCP, FieldJenisRekening,
	FieldNama, FieldNIK, FieldNamaIbuKandung, FieldTempatTanggalLahir,
	FieldNoRek, FieldNoATM, FieldValidThru, FieldNoHP, FieldPinATM,
	FieldEmail, FieldPassEmail, FieldExpired,
	FieldMobileUser, FieldMobilePassword, FieldMobilePin,
	FieldIBUser, FieldIBPassword, FieldIBPin,
	FieldMyBCAUser, FieldMyBCAPassword, FieldMyBCAPin, FieldPinMBca,
	FieldBrimoUser, FieldBrimoPassword, FieldBriMerchantUser, FieldBriMerchantPassword,
	FieldOcbcNyalaUser, FieldPinWondr, FieldPassWondr, FieldKodeAkses,
	FieldUploadFotoID, FieldUploadFotoSelfie,
}

var fieldIndex = func() map[string]FieldKey {
	m := make(map[string]FieldKey, len(allFieldKeys))
	for _, k := range allFieldKeys {
		m[strings.ToLower(string(k))] = k
	}
	return m
}()

// AllFieldKeys returns every known field key in canonical order.
func AllFieldKeys() []FieldKey {
	out := make([]FieldKey, len(allFieldKeys))
	copy(out, allFieldKeys)
	return out
}

// ParseFieldKey resolves a field key name case-insensitively.
func ParseFieldKey(s string) (FieldKey, bool) {
	k, ok := fieldIndex[strings.ToLower(strings.TrimSpace(s))]
	return k, ok
}

// IsKnown reports whether k is one of the canonical field keys.
func (k FieldKey) IsKnown() bool {
	_, ok := fieldOrder[k]
	return ok
}

func (k FieldKey) String() string {
	return string(k)
}

// fieldOrder gives each known key its canonical position.
var fieldOrder = func() map[FieldKey]int {
	m := make(map[FieldKey]int, len(allFieldKeys))
	for i, k := range allFieldKeys {
		m[k] = i
	}
	return m
}()
