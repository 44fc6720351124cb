package cleaning

import "strings"

// Export vocabulary. Comparisons run against normalized values (trimmed,
// lowercase) and are exact: alternate spellings are not accepted.
const (
	// StatusClosed is the only encounter status that is billed.
	StatusClosed = "closed"
	// BillableYes is the only billable flag that is billed.
	BillableYes = "yes"

	// Header labels that reappear as data when sheets are concatenated.
	StatusHeaderLabel   = "encounter status"
	BillableHeaderLabel = "is billable"

	// groupMarker identifies group sessions within encounter_type.
	groupMarker = "group"
)

// NormalizeFlag trims and lowercases a free-text status or billable value.
func NormalizeFlag(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// IsClosed reports whether a normalized status is StatusClosed.
func IsClosed(status string) bool { return status == StatusClosed }

// IsBillable reports whether a normalized billable flag is BillableYes.
func IsBillable(billable string) bool { return billable == BillableYes }

// IsHeaderEcho reports whether a row carries header labels in place of data.
func IsHeaderEcho(status, billable string) bool {
	return status == StatusHeaderLabel || billable == BillableHeaderLabel
}

// IsGroupSession reports whether an encounter type names a group session.
func IsGroupSession(encounterType string) bool {
	return strings.Contains(strings.ToLower(encounterType), groupMarker)
}
