package cleaning

import "clinicrev/internal/core"

// DropReason names the first predicate that rejected a row.
type DropReason string

const (
	DropHeaderEcho   DropReason = "header_echo"
	DropNotBillable  DropReason = "not_closed_billable"
	DropGroupSession DropReason = "group_session"
	DropMissingDate  DropReason = "missing_date"
	DropBlankCode    DropReason = "blank_code"
)

// FilterStats counts rows in, rows kept, and rows dropped per reason.
type FilterStats struct {
	Input   int
	Kept    int
	Dropped map[DropReason]int
}

// Check returns the reason e would be dropped, or "" when it is kept.
// Predicates run in a fixed order; only the first failure is reported.
func Check(e core.Encounter) DropReason {
	switch {
	case IsHeaderEcho(e.Status, e.Billable):
		return DropHeaderEcho
	case !IsClosed(e.Status) || !IsBillable(e.Billable):
		return DropNotBillable
	case IsGroupSession(e.Type):
		return DropGroupSession
	case e.Date.IsEmpty():
		return DropMissingDate
	case e.Code == "":
		return DropBlankCode
	}
	return ""
}

// Filter keeps closed, billable, individual encounters with a date and a
// billing code. The result is a new slice in input order; encounters are
// not modified. Filtering an already filtered slice returns it unchanged.
func Filter(in []core.Encounter) ([]core.Encounter, FilterStats) {
	stats := FilterStats{Input: len(in), Dropped: map[DropReason]int{}}
	out := make([]core.Encounter, 0, len(in))
	for _, e := range in {
		if reason := Check(e); reason != "" {
			stats.Dropped[reason]++
			continue
		}
		out = append(out, e)
	}
	stats.Kept = len(out)
	return out, stats
}
