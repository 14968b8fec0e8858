// Package extraction turns normalized free text into product records. Text is
// split into one block per order marker and each block is scanned with an
// ordered table of labelled rules, extended by the dialect of the block's bank.
package extraction

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/bankschema"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/dateutils"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/textnorm"
)

// MatchPolicy decides which value is kept when a field is matched more than
// once in the same block.
type MatchPolicy int

const (
	LastMatchWins MatchPolicy = iota
	FirstMatchWins
)

func (p MatchPolicy) String() string {
	if p == FirstMatchWins {
		return "first"
	}
	return "last"
}

// ParseMatchPolicy parses "first" or "last". Empty input means last.
func ParseMatchPolicy(s string) (MatchPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "last":
		return LastMatchWins, nil
	case "first":
		return FirstMatchWins, nil
	}
	return LastMatchWins, fmt.Errorf("unknown match policy %q", s)
}

// DefaultMinBlockLength is the shortest block content kept as a record.
const DefaultMinBlockLength = 20

// Options configures an Engine.
type Options struct {
	Policy         MatchPolicy
	MinBlockLength int
}

// Engine extracts records from text and tables.
type Engine struct {
	registry       *bankschema.Registry
	policy         MatchPolicy
	minBlockLength int
	common         []compiledRule
	dialects       map[string][]compiledRule
	logger         logging.Logger
}

// NewEngine builds an engine over the given bank registry.
func NewEngine(registry *bankschema.Registry, opts Options, logger logging.Logger) *Engine {
	if opts.MinBlockLength <= 0 {
		opts.MinBlockLength = DefaultMinBlockLength
	}
	common := compileRules(CommonRules)
	dialects := make(map[string][]compiledRule, len(DialectRules))
	for code, rules := range DialectRules {
		// Dialect rules come first so they win ties with common labels.
		dialects[code] = append(compileRules(rules), common...)
	}
	return &Engine{
		registry:       registry,
		policy:         opts.Policy,
		minBlockLength: opts.MinBlockLength,
		common:         common,
		dialects:       dialects,
		logger:         logging.OrDefault(logger),
	}
}

// Policy returns the configured match policy.
func (e *Engine) Policy() MatchPolicy {
	return e.policy
}

// SplitBlocks cuts text at every order marker. Text before the first marker
// is dropped, as is any block whose content after the marker is shorter than
// minLength runes.
func SplitBlocks(text string, minLength int) []string {
	locs := orderMarker.FindAllStringIndex(text, -1)
	var blocks []string
	for i, loc := range locs {
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		content := strings.TrimSpace(text[loc[1]:end])
		if utf8.RuneCountInString(content) < minLength {
			continue
		}
		blocks = append(blocks, text[loc[0]:end])
	}
	return blocks
}

// ExtractRecords returns one record per block of text. Text without any
// order marker yields no records.
func (e *Engine) ExtractRecords(text string, prov models.Provenance) []models.Record {
	blocks := SplitBlocks(text, e.minBlockLength)
	records := make([]models.Record, 0, len(blocks))
	for i, block := range blocks {
		rec, bank := e.extractBlock(block, prov)
		e.logger.Debug("Extracted record block",
			logging.F(logging.FieldRecordIndex, i),
			logging.F(logging.FieldBank, bank),
			logging.F(logging.FieldCount, rec.Len()))
		records = append(records, rec)
	}
	e.logger.Info("Extracted records from text",
		logging.F(logging.FieldFile, prov.SourceFile),
		logging.F(logging.FieldCount, len(records)))
	return records
}

type occurrence struct {
	rule     *compiledRule
	start    int
	end      int
	priority int
	value    string
	colon    bool
}

func (e *Engine) extractBlock(block string, prov models.Provenance) (models.Record, string) {
	occ := scan(block, e.common)

	schema := e.registry.Resolve(e.pick(occ, models.FieldBank))
	if rules, ok := e.dialects[schema.Code]; ok {
		occ = scan(block, rules)
	}

	rec := models.NewRecord(prov)
	secondary := make(map[models.FieldKey]string)
	var secondaryOrder []models.FieldKey

	for _, o := range occ {
		field := o.rule.Field
		value, sec, hasSec := o.value, "", false
		if o.rule.Secondary != "" {
			value, sec, hasSec = splitSecondary(o.value)
		}
		if e.policy == LastMatchWins || !rec.Has(field) {
			rec.Set(field, value)
		}
		if !hasSec {
			continue
		}
		if _, seen := secondary[o.rule.Secondary]; !seen {
			secondaryOrder = append(secondaryOrder, o.rule.Secondary)
			secondary[o.rule.Secondary] = sec
		} else if e.policy == LastMatchWins {
			secondary[o.rule.Secondary] = sec
		}
	}

	for _, k := range secondaryOrder {
		if !rec.Has(k) {
			rec.Set(k, secondary[k])
		}
	}

	CleanRecord(&rec)
	return rec, schema.Code
}

// pick returns the value the match policy selects for field, after any
// secondary part has been split off.
func (e *Engine) pick(occ []occurrence, field models.FieldKey) string {
	var value string
	found := false
	for _, o := range occ {
		if o.rule.Field != field {
			continue
		}
		if found && e.policy == FirstMatchWins {
			break
		}
		value, _, _ = splitSecondary(o.value)
		found = true
	}
	return value
}

var (
	linePrefix  = regexp.MustCompile(`^[ \t]*(?:(?:[-*]|\d{1,2}[.)])[ \t]*)?$`)
	colonAfter  = regexp.MustCompile(`^[ \t]*[:=]`)
	separator   = regexp.MustCompile(`^[ \t]*(?:[:=][ \t]*|-[ \t]+)?`)
	secondaryRe = regexp.MustCompile(`^(.*?)\s*\(([^()]*)\)$`)
)

// scan finds every label occurrence in block. A label counts when it starts
// a line (optionally after a bullet), follows a tab, or is followed by a
// colon. Overlapping occurrences keep the longest label; equal lengths keep
// the rule listed first. Each value runs to the end of the line or to the
// next label, whichever is closer.
func scan(block string, rules []compiledRule) []occurrence {
	var cands []occurrence
	for i := range rules {
		for _, loc := range rules[i].re.FindAllStringIndex(block, -1) {
			s, end := loc[0], loc[1]
			if s == end || !atWordBoundary(block, s, end) {
				continue
			}
			if !atLineStart(block, s) && !colonAfter.MatchString(block[end:]) {
				continue
			}
			cands = append(cands, occurrence{rule: &rules[i], start: s, end: end, priority: i})
		}
	}

	sort.SliceStable(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.start != cb.start {
			return ca.start < cb.start
		}
		if la, lb := ca.end-ca.start, cb.end-cb.start; la != lb {
			return la > lb
		}
		return ca.priority < cb.priority
	})

	accepted := make([]occurrence, 0, len(cands))
	lastEnd := -1
	for _, c := range cands {
		if c.start < lastEnd {
			continue
		}
		accepted = append(accepted, c)
		lastEnd = c.end
	}

	out := make([]occurrence, 0, len(accepted))
	for i := range accepted {
		o := accepted[i]
		sep := separator.FindString(block[o.end:])
		valueStart := o.end + len(sep)

		limit := len(block)
		if nl := strings.IndexByte(block[valueStart:], '\n'); nl >= 0 {
			limit = valueStart + nl
		}
		if i+1 < len(accepted) && accepted[i+1].start < limit {
			limit = accepted[i+1].start
		}
		if limit < valueStart {
			limit = valueStart
		}

		o.value = strings.TrimRight(strings.TrimSpace(block[valueStart:limit]), " \t,;|")
		o.colon = strings.ContainsAny(sep, ":=")
		// A bare label with nothing after it is a heading, not a value.
		if o.value == "" && !o.colon {
			continue
		}
		out = append(out, o)
	}
	return out
}

func atWordBoundary(s string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(s[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(s) {
		r, _ := utf8.DecodeRuneInString(s[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func atLineStart(s string, pos int) bool {
	if pos > 0 && s[pos-1] == '\t' {
		return true
	}
	lineStart := strings.LastIndexByte(s[:pos], '\n') + 1
	return linePrefix.MatchString(s[lineStart:pos])
}

// splitSecondary splits "BCA (Gold)" into "BCA" and "Gold".
func splitSecondary(value string) (string, string, bool) {
	m := secondaryRe.FindStringSubmatch(value)
	if m == nil {
		return value, "", false
	}
	primary, sec := strings.TrimSpace(m[1]), strings.TrimSpace(m[2])
	if primary == "" || sec == "" {
		return value, "", false
	}
	return primary, sec, true
}

var nameLikeFields = []models.FieldKey{
	models.FieldNama,
	models.FieldNamaIbuKandung,
	models.FieldTempatTanggalLahir,
	models.FieldKCP,
	models.FieldCustomer,
	models.FieldBank,
}

var numberFields = []models.FieldKey{
	models.FieldNoHP,
	models.FieldNIK,
	models.FieldNoRek,
	models.FieldNoATM,
}

// CleanRecord normalizes extracted values in place. Placeholder values such as
// "-" are left alone.
func CleanRecord(rec *models.Record) {
	for _, k := range nameLikeFields {
		if v, ok := rec.Get(k); ok {
			rec.Set(k, textnorm.CollapseSpaces(v))
		}
	}
	for _, k := range numberFields {
		if v, ok := rec.Get(k); ok && !models.IsBlank(v) {
			rec.Set(k, textnorm.StripSeparators(v))
		}
	}
	if v, ok := rec.Get(models.FieldExpired); ok {
		if iso, parsed := dateutils.NormalizeExpiry(v); parsed {
			rec.Set(models.FieldExpired, iso)
		}
	}
	if v, ok := rec.Get(models.FieldValidThru); ok {
		if mmyy, parsed := dateutils.NormalizeValidThru(v); parsed {
			rec.Set(models.FieldValidThru, mmyy)
		}
	}
}
