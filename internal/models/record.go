package models

import (
	"sort"
	"strings"
)

// SourceKind tells where a record came from.
type SourceKind string

const (
	SourceFile SourceKind = "file"
	SourceChat SourceKind = "chat"
)

// Provenance records the origin of a record.
type Provenance struct {
	Source     SourceKind `json:"source"`
	SourceFile string     `json:"sourceFile,omitempty"`
	ChatID     string     `json:"chatId,omitempty"`
}

// FromFile returns file provenance.
func FromFile(name string) Provenance {
	return Provenance{Source: SourceFile, SourceFile: name}
}

// FromChat returns chat provenance.
func FromChat(chatID string) Provenance {
	return Provenance{Source: SourceChat, ChatID: chatID}
}

// Record is a sparse set of extracted field values. A key that was never
// matched is absent, which is distinct from a key matched with an empty value.
type Record struct {
	Fields     map[FieldKey]string `json:"fields"`
	Provenance Provenance          `json:"provenance"`
}

// NewRecord returns an empty record with the given provenance.
func NewRecord(p Provenance) Record {
	return Record{Fields: make(map[FieldKey]string), Provenance: p}
}

// Get returns the value of k and whether it is present.
func (r Record) Get(k FieldKey) (string, bool) {
	v, ok := r.Fields[k]
	return v, ok
}

// Value returns the value of k, or "" when absent.
func (r Record) Value(k FieldKey) string {
	return r.Fields[k]
}

// Has reports whether k is present.
func (r Record) Has(k FieldKey) bool {
	_, ok := r.Fields[k]
	return ok
}

// Set stores v under k.
func (r *Record) Set(k FieldKey, v string) {
	if r.Fields == nil {
		r.Fields = make(map[FieldKey]string)
	}
	r.Fields[k] = v
}

// Delete removes k.
func (r *Record) Delete(k FieldKey) {
	delete(r.Fields, k)
}

// Len returns the number of populated fields.
func (r Record) Len() int {
	return len(r.Fields)
}

// Clone returns a deep copy that shares no map with r.
func (r Record) Clone() Record {
	out := Record{Fields: make(map[FieldKey]string, len(r.Fields)), Provenance: r.Provenance}
	for k, v := range r.Fields {
		out.Fields[k] = v
	}
	return out
}

// Keys returns the populated keys. Known keys come first in canonical order,
// unknown keys follow alphabetically.
func (r Record) Keys() []FieldKey {
	keys := make([]FieldKey, 0, len(r.Fields))
	for k := range r.Fields {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		oi, iKnown := fieldOrder[keys[i]]
		oj, jKnown := fieldOrder[keys[j]]
		switch {
		case iKnown && jKnown:
			return oi < oj
		case iKnown != jKnown:
			return iKnown
		default:
			return keys[i] < keys[j]
		}
	})
	return keys
}

// IsBlank reports whether v carries no information: empty, whitespace or a
// placeholder dash.
func IsBlank(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || v == "-"
}
