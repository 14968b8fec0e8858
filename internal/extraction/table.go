package extraction

import (
	"strings"

	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/logging"
	"github.com/windhydevelop-sys/website-aksesoris-sub000/internal/models"
)

// maxHeaderScan bounds how many leading rows may precede the header row.
const maxHeaderScan = 5

// minHeaderFields is the number of recognised header cells that marks a
// table as importable.
const minHeaderFields = 2

// tableSecondary splits combined cells, e.g. a bank cell "BCA (Gold)".
var tableSecondary = map[models.FieldKey]models.FieldKey{
	models.FieldBank:  models.FieldGrade,
	models.FieldNoATM: models.FieldValidThru,
}

// HeaderFields locates the header row and maps its columns to field keys.
// It returns -1 when no row within the first few has enough known headers.
func (e *Engine) HeaderFields(rows [][]string) (int, map[int]models.FieldKey) {
	for i := 0; i < len(rows) && i < maxHeaderScan; i++ {
		mapping := e.mapHeader(rows[i])
		if len(mapping) >= minHeaderFields {
			return i, mapping
		}
	}
	return -1, nil
}

func (e *Engine) mapHeader(row []string) map[int]models.FieldKey {
	mapping := make(map[int]models.FieldKey)
	used := make(map[models.FieldKey]bool)
	for col, cell := range row {
		if strings.TrimSpace(cell) == "" {
			continue
		}
		for _, schema := range e.registry.Schemas() {
			k, ok := schema.NormalizeFieldName(cell)
			if !ok {
				continue
			}
			if !used[k] {
				mapping[col] = k
				used[k] = true
			}
			break
		}
	}
	return mapping
}

// RecordsFromTable imports rows under a recognised header row, one record
// per non-blank row. The boolean is false when no header row was found, in
// which case the caller should fall back to free-text extraction.
func (e *Engine) RecordsFromTable(rows [][]string, prov models.Provenance) ([]models.Record, bool) {
	header, mapping := e.HeaderFields(rows)
	if header < 0 {
		return nil, false
	}

	var records []models.Record
	for _, row := range rows[header+1:] {
		rec := models.NewRecord(prov)
		for col, key := range mapping {
			if col >= len(row) {
				continue
			}
			if v := strings.TrimSpace(row[col]); v != "" {
				rec.Set(key, v)
			}
		}
		if rec.Len() == 0 {
			continue
		}
		for primary, sec := range tableSecondary {
			v, ok := rec.Get(primary)
			if !ok || rec.Has(sec) {
				continue
			}
			if p, s, split := splitSecondary(v); split {
				rec.Set(primary, p)
				rec.Set(sec, s)
			}
		}
		CleanRecord(&rec)
		records = append(records, rec)
	}

	e.logger.Info("Imported records from table",
		logging.F(logging.FieldFile, prov.SourceFile),
		logging.F(logging.FieldCount, len(records)))
	return records, true
}
