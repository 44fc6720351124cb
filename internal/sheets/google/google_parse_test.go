package google

import (
	"reflect"
	"testing"
)

func TestParseValues(t *testing.T) {
	values := [][]interface{}{
		{"Visit Date", "CPT / Revenue", "Duration (min)", "Is Billable", "Encounter Status", "Encounter Facility", "Encounter Type"},
		{"11/2/2023", "H0004", 47.0, "Yes", "Closed", "A", "Individual"},
		{"6/10/2023", "90834", 45.5, "yes", "closed"},
		{"", "", ""},
		{"Visit Date", "CPT / Revenue", "Duration (min)", "Is Billable", "Encounter Status", "Encounter Facility", "Encounter Type"},
		{nil, 90837, true},
	}
	got := parseValues(values)

	if len(got.Header) != 7 || got.Header[0] != "Visit Date" {
		t.Fatalf("header = %v", got.Header)
	}
	wantRows := [][]string{
		{"11/2/2023", "H0004", "47", "Yes", "Closed", "A", "Individual"},
		{"6/10/2023", "90834", "45.5", "yes", "closed"},
		{"Visit Date", "CPT / Revenue", "Duration (min)", "Is Billable", "Encounter Status", "Encounter Facility", "Encounter Type"},
		{"", "90837", "true"},
	}
	if !reflect.DeepEqual(got.Rows, wantRows) {
		t.Fatalf("rows =\n%v\nwant\n%v", got.Rows, wantRows)
	}
}

func TestParseValuesEmpty(t *testing.T) {
	got := parseValues(nil)
	if len(got.Header) != 0 || len(got.Rows) != 0 {
		t.Fatalf("expected empty table, got %+v", got)
	}
}
