package core

// RawTable is a spreadsheet export as read from its source: one header row
// and string cells. Rows may be shorter than the header.
type RawTable struct {
	Header []string
	Rows   [][]string
}

// Cell returns the value at row i for column index col, or "" when the row
// is short or col is negative.
func (t RawTable) Cell(i, col int) string {
	if col < 0 || i < 0 || i >= len(t.Rows) {
		return ""
	}
	row := t.Rows[i]
	if col >= len(row) {
		return ""
	}
	return row[col]
}

// MonthlyTotal aggregates every encounter in a month.
type MonthlyTotal struct {
	Month       Date
	Encounters  int
	ClientHours float64
	Units       int
	Revenue     Money
}

// MonthlyByFacility aggregates encounters per month and facility.
type MonthlyByFacility struct {
	Month      Date
	Facility   string
	Encounters int
	Units      int
	Revenue    Money
}

// MonthlyByCode aggregates encounters per month and billing code.
type MonthlyByCode struct {
	Month      Date
	Code       string
	Encounters int
	Units      int
	Revenue    Money
}

// Rollups bundles the three monthly views handed to reporting.
type Rollups struct {
	Total      []MonthlyTotal
	ByFacility []MonthlyByFacility
	ByCode     []MonthlyByCode
}
