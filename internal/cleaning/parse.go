package cleaning

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"clinicrev/internal/core"
)

// ErrMissingColumn is matched by every *SchemaError.
var ErrMissingColumn = errors.New("required column missing")

// SchemaError lists the canonical columns absent from a normalized table.
type SchemaError struct {
	Missing []string
	Header  []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("schema error: missing required column(s) %s; got headers=%v",
		strings.Join(e.Missing, ","), e.Header)
}

func (e *SchemaError) Is(target error) bool { return target == ErrMissingColumn }

// dateLayouts are tried in order; only the calendar date is kept.
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"1/2/2006",
	"1/2/2006 15:04",
	"1/2/2006 15:04:05",
	"1/2/2006 3:04 PM",
	"1/2/2006 3:04:05 PM",
	"1/2/06",
	"2006/1/2",
	"Jan 2, 2006",
	"January 2, 2006",
	"2-Jan-2006",
}

// ParseDate parses an export date cell. Unparseable or blank values yield a
// missing (zero) Date rather than an error.
func ParseDate(s string) core.Date {
	s = strings.TrimSpace(s)
	if s == "" {
		return core.Date{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return core.NewDate(t.Year(), int(t.Month()), t.Day())
		}
	}
	return core.Date{}
}

// ParseDuration parses a minutes cell, defaulting to 0 when unparseable.
func ParseDuration(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

// Parse converts a normalized table into encounters, coercing dates,
// durations, and the status/billable flags. It fails only when a required
// column is absent. Row order is preserved.
func Parse(t core.RawTable) ([]core.Encounter, error) {
	idx := make(map[string]int, len(t.Header))
	for i, h := range t.Header {
		if _, dup := idx[h]; !dup {
			idx[h] = i
		}
	}
	var missing []string
	for _, f := range RequiredFields {
		if _, ok := idx[f]; !ok {
			missing = append(missing, f)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing, Header: append([]string(nil), t.Header...)}
	}

	col := func(name string) int {
		if i, ok := idx[name]; ok {
			return i
		}
		return -1
	}
	var (
		cDate     = col(FieldEncounterDate)
		cCode     = col(FieldCPTCode)
		cDuration = col(FieldDurationMin)
		cBillable = col(FieldIsBillable)
		cStatus   = col(FieldEncounterStatus)
		cFacility = col(FieldFacility)
		cType     = col(FieldEncounterType)
	)

	out := make([]core.Encounter, len(t.Rows))
	for i := range t.Rows {
		out[i] = core.Encounter{
			Date:        ParseDate(t.Cell(i, cDate)),
			Code:        strings.TrimSpace(t.Cell(i, cCode)),
			DurationMin: ParseDuration(t.Cell(i, cDuration)),
			Billable:    NormalizeFlag(t.Cell(i, cBillable)),
			Status:      NormalizeFlag(t.Cell(i, cStatus)),
			Facility:    t.Cell(i, cFacility),
			Type:        t.Cell(i, cType),
		}
	}
	return out, nil
}
