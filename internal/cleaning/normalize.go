// Package cleaning turns a raw billing export into typed encounter rows:
// header normalization, cell coercion, and the billable-encounter filter.
package cleaning

import (
	"strings"

	"clinicrev/internal/core"
)

// Canonical field names.
const (
	FieldEncounterDate   = "encounter_date"
	FieldCPTCode         = "cpt_code"
	FieldDurationMin     = "duration_min"
	FieldIsBillable      = "is_billable"
	FieldEncounterStatus = "encounter_status"
	FieldFacility        = "facility"
	FieldEncounterType   = "encounter_type"
)

// RequiredFields must all be present after normalization.
var RequiredFields = []string{
	FieldEncounterDate,
	FieldCPTCode,
	FieldIsBillable,
	FieldEncounterStatus,
	FieldDurationMin,
}

// headerAliases maps normalized export headers to canonical names.
// Headers that already normalize to a canonical name need no entry.
var headerAliases = map[string]string{
	"visit_date":         FieldEncounterDate,
	"cpt___revenue":      FieldCPTCode, // "CPT / Revenue"
	"encounter_facility": FieldFacility,
}

var headerReplacer = strings.NewReplacer(
	" ", "_",
	"/", "_",
	"(", "",
	")", "",
)

// NormalizeHeader trims and lowercases h, replaces spaces and slashes with
// underscores, drops parentheses, then maps known export variants to their
// canonical name.
func NormalizeHeader(h string) string {
	n := headerReplacer.Replace(strings.ToLower(strings.TrimSpace(h)))
	if canonical, ok := headerAliases[n]; ok {
		return canonical
	}
	return n
}

// Normalize returns a copy of t with normalized headers. Rows are copied
// unchanged and in order.
func Normalize(t core.RawTable) core.RawTable {
	out := core.RawTable{
		Header: make([]string, len(t.Header)),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, h := range t.Header {
		out.Header[i] = NormalizeHeader(h)
	}
	for i, row := range t.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
