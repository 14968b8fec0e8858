package bankschema

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/parsererror"

	"gopkg.in/yaml.v3"
)

//go:embed banks.yaml
var builtinSchemas []byte

type subtypeEntry struct {
	Mandatory []string `yaml:"mandatory"`
	Optional  []string `yaml:"optional"`
}

type bankEntry struct {
	Code        string                  `yaml:"code"`
	Name        string                  `yaml:"name"`
	NumericCode string                  `yaml:"numeric_code"`
	Match       []string                `yaml:"match"`
	Mandatory   []string                `yaml:"mandatory"`
	Optional    []string                `yaml:"optional"`
	Credentials []string                `yaml:"credentials"`
	Aliases     map[string][]string     `yaml:"aliases"`
	Labels      map[string]string       `yaml:"labels"`
	Subtypes    map[string]subtypeEntry `yaml:"subtypes"`
}

type schemaFile struct {
	Default string `yaml:"default"`
	Common  struct {
		Aliases map[string][]string `yaml:"aliases"`
		Labels  map[string]string   `yaml:"labels"`
	} `yaml:"common"`
	Banks []bankEntry `yaml:"banks"`
}

// Registry resolves free-text bank names to schemas.
type Registry struct {
	ordered     []*BankSchema
	byCode      map[string]*BankSchema
	generic     *BankSchema
	defaultBank *BankSchema
}

// LoadDefault loads the built-in schemas. An empty defaultBank keeps the
// default declared in the schema file.
func LoadDefault(defaultBank string) (*Registry, error) {
	return Load(builtinSchemas, defaultBank)
}

// LoadFile loads schemas from a YAML file.
func LoadFile(path, defaultBank string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read bank schema file: %w", err)
	}
	return Load(data, defaultBank)
}

// Load parses and validates YAML schema data. Any inconsistency is reported
// as a *parsererror.SchemaError.
func Load(data []byte, defaultBank string) (*Registry, error) {
	var file schemaFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, &parsererror.SchemaError{Reason: fmt.Sprintf("malformed yaml: %v", err)}
	}
	if len(file.Banks) == 0 {
		return nil, &parsererror.SchemaError{Reason: "no banks declared"}
	}

	commonAliases, err := buildAliases("common", file.Common.Aliases)
	if err != nil {
		return nil, err
	}
	commonLabels, err := buildLabels("common", file.Common.Labels)
	if err != nil {
		return nil, err
	}

	r := &Registry{byCode: make(map[string]*BankSchema)}
	for _, entry := range file.Banks {
		schema, err := buildSchema(entry, commonAliases, commonLabels)
		if err != nil {
			return nil, err
		}
		if _, dup := r.byCode[schema.Code]; dup {
			return nil, &parsererror.SchemaError{Bank: schema.Code, Reason: "bank declared twice"}
		}
		r.byCode[schema.Code] = schema
		if schema.IsGeneric() {
			r.generic = schema
			continue
		}
		r.ordered = append(r.ordered, schema)
	}
	if r.generic == nil {
		return nil, &parsererror.SchemaError{Reason: "GENERIC bank is not declared"}
	}

	if defaultBank == "" {
		defaultBank = file.Default
	}
	if defaultBank == "" {
		r.defaultBank = r.generic
	} else {
		d, ok := r.byCode[strings.ToUpper(strings.TrimSpace(defaultBank))]
		if !ok {
			return nil, &parsererror.SchemaError{Bank: defaultBank, Reason: "default bank is not declared"}
		}
		r.defaultBank = d
	}
	return r, nil
}

func buildSchema(e bankEntry, commonAliases map[string]models.FieldKey, commonLabels map[models.FieldKey]string) (*BankSchema, error) {
	code := strings.ToUpper(strings.TrimSpace(e.Code))
	if code == "" {
		return nil, &parsererror.SchemaError{Reason: "bank without code"}
	}

	mandatory, err := fieldList(code, "mandatory", e.Mandatory)
	if err != nil {
		return nil, err
	}
	optional, err := fieldList(code, "optional", e.Optional)
	if err != nil {
		return nil, err
	}
	if err := disjoint(code, mandatory, optional); err != nil {
		return nil, err
	}
	credentials, err := fieldList(code, "credentials", e.Credentials)
	if err != nil {
		return nil, err
	}

	s := &BankSchema{
		Code:        code,
		Name:        e.Name,
		NumericCode: strings.TrimSpace(e.NumericCode),
		Credentials: credentials,
		mandatory:   mandatory,
		optional:    optional,
		aliases:     make(map[string]models.FieldKey, len(commonAliases)),
		labels:      make(map[models.FieldKey]string, len(commonLabels)),
		subtypes:    make(map[string]Subtype, len(e.Subtypes)),
	}
	for _, term := range e.Match {
		if t := aliasKey(term); t != "" {
			s.matchTerms = append(s.matchTerms, t)
		}
	}

	for k, v := range commonAliases {
		s.aliases[k] = v
	}
	own, err := buildAliases(code, e.Aliases)
	if err != nil {
		return nil, err
	}
	for k, v := range own {
		s.aliases[k] = v
	}

	for k, v := range commonLabels {
		s.labels[k] = v
	}
	ownLabels, err := buildLabels(code, e.Labels)
	if err != nil {
		return nil, err
	}
	for k, v := range ownLabels {
		s.labels[k] = v
	}

	for name, st := range e.Subtypes {
		key := strings.ToUpper(strings.TrimSpace(name))
		sm, err := fieldList(code+"/"+key, "mandatory", st.Mandatory)
		if err != nil {
			return nil, err
		}
		so, err := fieldList(code+"/"+key, "optional", st.Optional)
		if err != nil {
			return nil, err
		}
		if err := disjoint(code+"/"+key, sm, so); err != nil {
			return nil, err
		}
		s.subtypes[key] = Subtype{Mandatory: sm, Optional: so}
	}
	return s, nil
}

func fieldList(bank, set string, names []string) ([]models.FieldKey, error) {
	out := make([]models.FieldKey, 0, len(names))
	seen := make(map[models.FieldKey]bool, len(names))
	for _, n := range names {
		k, ok := models.ParseFieldKey(n)
		if !ok {
			return nil, &parsererror.SchemaError{Bank: bank, Reason: fmt.Sprintf("unknown field %q in %s", n, set)}
		}
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out, nil
}

func disjoint(bank string, mandatory, optional []models.FieldKey) error {
	m := make(map[models.FieldKey]bool, len(mandatory))
	for _, k := range mandatory {
		m[k] = true
	}
	for _, k := range optional {
		if m[k] {
			return &parsererror.SchemaError{Bank: bank, Reason: fmt.Sprintf("field %s is both mandatory and optional", k)}
		}
	}
	return nil
}

func buildAliases(bank string, in map[string][]string) (map[string]models.FieldKey, error) {
	out := make(map[string]models.FieldKey)
	// Iterate fields in a stable order so error messages are deterministic.
	fields := make([]string, 0, len(in))
	for f := range in {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	for _, f := range fields {
		k, ok := models.ParseFieldKey(f)
		if !ok {
			return nil, &parsererror.SchemaError{Bank: bank, Reason: fmt.Sprintf("alias for unknown field %q", f)}
		}
		for _, alias := range in[f] {
			a := aliasKey(alias)
			if a == "" {
				continue
			}
			if prev, dup := out[a]; dup && prev != k {
				return nil, &parsererror.SchemaError{Bank: bank, Reason: fmt.Sprintf("alias %q maps to both %s and %s", a, prev, k)}
			}
			out[a] = k
		}
	}
	return out, nil
}

func buildLabels(bank string, in map[string]string) (map[models.FieldKey]string, error) {
	out := make(map[models.FieldKey]string, len(in))
	for f, label := range in {
		k, ok := models.ParseFieldKey(f)
		if !ok {
			return nil, &parsererror.SchemaError{Bank: bank, Reason: fmt.Sprintf("label for unknown field %q", f)}
		}
		out[k] = label
	}
	return out, nil
}

// Resolve maps a free-text bank name or code to a schema. Empty input yields
// the default bank; input matching nothing yields GENERIC. Never returns nil.
func (r *Registry) Resolve(nameOrCode string) *BankSchema {
	in := aliasKey(nameOrCode)
	if in == "" {
		return r.defaultBank
	}
	if s, ok := r.byCode[strings.ToUpper(in)]; ok {
		return s
	}
	for _, s := range r.ordered {
		if s.NumericCode != "" && in == s.NumericCode {
			return s
		}
	}
	for _, s := range r.ordered {
		if s.matches(in) {
			return s
		}
	}
	return r.generic
}

// Lookup returns the schema with the given code.
func (r *Registry) Lookup(code string) (*BankSchema, bool) {
	s, ok := r.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return s, ok
}

// Default returns the configured default bank.
func (r *Registry) Default() *BankSchema {
	return r.defaultBank
}

// Generic returns the fallback schema.
func (r *Registry) Generic() *BankSchema {
	return r.generic
}

// Schemas lists the named banks in matching priority order, followed by
// GENERIC.
func (r *Registry) Schemas() []*BankSchema {
	out := make([]*BankSchema, 0, len(r.ordered)+1)
	out = append(out, r.ordered...)
	return append(out, r.generic)
}
