// Package bankschema holds the per-bank field schemas: which fields a bank
// requires, which header texts name which field, and how fields are labelled.
package bankschema

import (
	"sort"
	"strings"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/textnorm"
)

// GenericCode is the code of the fallback schema.
const GenericCode = "GENERIC"

// Subtype is an account-type variant with its own field sets.
type Subtype struct {
	Mandatory []models.FieldKey
	Optional  []models.FieldKey
}

// BankSchema is the immutable field configuration of one bank.
type BankSchema struct {
	Code        string
	Name        string
	NumericCode string
	Credentials []models.FieldKey

	matchTerms []string
	mandatory  []models.FieldKey
	optional   []models.FieldKey
	aliases    map[string]models.FieldKey
	labels     map[models.FieldKey]string
	subtypes   map[string]Subtype
}

// IsGeneric reports whether s is the fallback schema.
func (s *BankSchema) IsGeneric() bool {
	return s.Code == GenericCode
}

// Mandatory returns the base mandatory fields.
func (s *BankSchema) Mandatory() []models.FieldKey {
	return append([]models.FieldKey(nil), s.mandatory...)
}

// Optional returns the base optional fields.
func (s *BankSchema) Optional() []models.FieldKey {
	return append([]models.FieldKey(nil), s.optional...)
}

// SubtypeKeys lists the declared subtypes.
func (s *BankSchema) SubtypeKeys() []string {
	keys := make([]string, 0, len(s.subtypes))
	for k := range s.subtypes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func (s *BankSchema) subtype(key string) (Subtype, bool) {
	st, ok := s.subtypes[strings.ToUpper(strings.TrimSpace(key))]
	return st, ok
}

// MandatoryFieldsFor returns the subtype's mandatory fields when subtype names
// a declared subtype, and the base mandatory set otherwise.
func (s *BankSchema) MandatoryFieldsFor(subtype string) []models.FieldKey {
	if st, ok := s.subtype(subtype); ok {
		return append([]models.FieldKey(nil), st.Mandatory...)
	}
	return s.Mandatory()
}

// OptionalFieldsFor mirrors MandatoryFieldsFor for optional fields.
func (s *BankSchema) OptionalFieldsFor(subtype string) []models.FieldKey {
	if st, ok := s.subtype(subtype); ok {
		return append([]models.FieldKey(nil), st.Optional...)
	}
	return s.Optional()
}

// NormalizeFieldName maps a free-text label to a field key. Unmatched labels
// come back unchanged as a FieldKey with ok false.
func (s *BankSchema) NormalizeFieldName(rawLabel string) (models.FieldKey, bool) {
	if k, ok := s.aliases[aliasKey(rawLabel)]; ok {
		return k, true
	}
	if k, ok := models.ParseFieldKey(rawLabel); ok {
		return k, true
	}
	return models.FieldKey(rawLabel), false
}

// DisplayLabel returns the human label for k, falling back to the key name.
func (s *BankSchema) DisplayLabel(k models.FieldKey) string {
	if l, ok := s.labels[k]; ok {
		return l
	}
	return string(k)
}

// MissingMandatory lists the mandatory fields (for the given subtype) that
// are absent or blank in r. This is the per-bank completeness policy; the
// record validator applies its own global policy.
func (s *BankSchema) MissingMandatory(subtype string, r models.Record) []models.FieldKey {
	var missing []models.FieldKey
	for _, k := range s.MandatoryFieldsFor(subtype) {
		if v, ok := r.Get(k); !ok || models.IsBlank(v) {
			missing = append(missing, k)
		}
	}
	return missing
}

func (s *BankSchema) matches(input string) bool {
	for _, term := range s.matchTerms {
		if strings.Contains(input, term) {
			return true
		}
	}
	return false
}

// aliasKey canonicalizes a label for alias lookup.
func aliasKey(label string) string {
	label = strings.ToLower(textnorm.Normalize(label))
	label = strings.TrimSpace(label)
	label = strings.TrimRight(label, ": ")
	return textnorm.CollapseSpaces(label)
}
