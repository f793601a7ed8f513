package dataset

import "strings"

// Schema maps the four logical roles of the procurement pipeline onto actual
// dataset columns.
type Schema struct {
	ValueCol      string `json:"value_col"`
	ModalityCol   string `json:"modality_col"`
	EntityNameCol string `json:"entity_name_col"`
	EntityIDCol   string `json:"entity_id_col"`
}

// Default column names used when no column matches a role's predicates.
// They follow the canonical SECOP II export schema and may not exist in a
// given dataset; downstream stages surface ErrMissingColumn in that case.
const (
	defaultValueCol      = "valor_total_adjudicacion"
	defaultModalityCol   = "modalidad_de_contratacion"
	defaultEntityNameCol = "entidad"
	defaultEntityIDCol   = "nit_entidad"
)

// Resolve locates the pipeline's columns by substring matching against
// lower-cased column names, scanning in original column order. The first
// matching column wins; ambiguity between multiple plausible columns is
// resolved by order, which is a documented limitation rather than an error.
// Resolve itself never fails.
func Resolve(columns []string) Schema {
	return Schema{
		ValueCol: firstMatch(columns, defaultValueCol, func(c string) bool {
			return strings.Contains(c, "valor") || strings.Contains(c, "cuantia")
		}),
		ModalityCol: firstMatch(columns, defaultModalityCol, func(c string) bool {
			return strings.Contains(c, "modalidad")
		}),
		EntityNameCol: firstMatch(columns, defaultEntityNameCol, func(c string) bool {
			return strings.Contains(c, "entidad") && !strings.Contains(c, "nit")
		}),
		EntityIDCol: firstMatch(columns, defaultEntityIDCol, func(c string) bool {
			return strings.Contains(c, "nit")
		}),
	}
}

// firstMatch returns the first column satisfying pred, or fallback when none
// does.
func firstMatch(columns []string, fallback string, pred func(string) bool) string {
	for _, col := range columns {
		if pred(strings.ToLower(col)) {
			return col
		}
	}
	return fallback
}
