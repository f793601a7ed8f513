package dataset

import (
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/auditlab/secop-cli/internal/model"
)

// CleanStats counts what the cleaner kept and discarded. Bad values are
// dropped silently from the record stream, but the counts are surfaced so
// callers can report data loss.
type CleanStats struct {
	Rows               int `json:"rows"`
	Kept               int `json:"kept"`
	DroppedUnparseable int `json:"dropped_unparseable"`
	DroppedNonPositive int `json:"dropped_non_positive"`
}

// Dropped returns the total number of discarded rows.
func (s CleanStats) Dropped() int {
	return s.DroppedUnparseable + s.DroppedNonPositive
}

// valueSanitizer strips currency symbols and thousands separators before
// numeric coercion.
var valueSanitizer = strings.NewReplacer("$", "", ",", "")

// Clean normalizes the value column of a loaded table into CleanRecords.
// Rows whose value fails numeric coercion or is not strictly positive are
// dropped and counted. The input table is never mutated.
//
// Fails with ErrMissingColumn when any resolved column does not exist in the
// table.
func Clean(t *Table, schema Schema) ([]model.CleanRecord, CleanStats, error) {
	stats := CleanStats{Rows: t.Len()}

	for _, col := range []string{schema.ValueCol, schema.ModalityCol, schema.EntityNameCol, schema.EntityIDCol} {
		if !t.HasColumn(col) {
			return nil, stats, eris.Wrapf(ErrMissingColumn, "dataset: clean: column %q", col)
		}
	}

	records := make([]model.CleanRecord, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		raw := strings.TrimSpace(valueSanitizer.Replace(t.Cell(i, schema.ValueCol)))
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			stats.DroppedUnparseable++
			continue
		}
		if value <= 0 {
			stats.DroppedNonPositive++
			continue
		}

		modality := t.Cell(i, schema.ModalityCol)
		records = append(records, model.CleanRecord{
			EntityID:      t.Cell(i, schema.EntityIDCol),
			EntityName:    t.Cell(i, schema.EntityNameCol),
			Modality:      modality,
			Value:         value,
			IsDirectAward: isDirectAward(modality),
		})
	}
	stats.Kept = len(records)

	if stats.Dropped() > 0 {
		zap.L().Warn("dataset: dropped rows during cleaning",
			zap.Int("rows", stats.Rows),
			zap.Int("unparseable", stats.DroppedUnparseable),
			zap.Int("non_positive", stats.DroppedNonPositive),
		)
	}

	return records, stats, nil
}

// isDirectAward reports whether a modality describes non-competitive direct
// contracting ("Contratación Directa" and variants).
func isDirectAward(modality string) bool {
	return strings.Contains(strings.ToLower(modality), "directa")
}
