package cleaning

import (
	"errors"
	"reflect"
	"testing"

	"clinicrev/internal/core"
)

func TestNormalizeHeader(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Visit Date", FieldEncounterDate},
		{"  visit date  ", FieldEncounterDate},
		{"CPT / Revenue", FieldCPTCode},
		{"Duration (min)", FieldDurationMin},
		{"Is Billable", FieldIsBillable},
		{"Encounter Status", FieldEncounterStatus},
		{"Encounter Facility", FieldFacility},
		{"Encounter Type", FieldEncounterType},
		{"Client ID", "client_id"},
		{"Payer/Plan", "payer_plan"},
	}
	for _, tt := range tests {
		if got := NormalizeHeader(tt.in); got != tt.want {
			t.Errorf("NormalizeHeader(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeCopiesRows(t *testing.T) {
	raw := core.RawTable{
		Header: []string{"Visit Date", "Notes"},
		Rows:   [][]string{{"2023-11-02", "a"}, {"bad", "b"}},
	}
	got := Normalize(raw)
	if !reflect.DeepEqual(got.Header, []string{FieldEncounterDate, "notes"}) {
		t.Fatalf("header = %v", got.Header)
	}
	if !reflect.DeepEqual(got.Rows, raw.Rows) {
		t.Fatalf("rows changed: %v", got.Rows)
	}
	got.Rows[0][0] = "changed"
	if raw.Rows[0][0] != "2023-11-02" {
		t.Fatalf("Normalize shares row storage with its input")
	}
	if raw.Header[0] != "Visit Date" {
		t.Fatalf("Normalize mutated input header")
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		in   string
		want core.Date
	}{
		{"2023-11-02", core.NewDate(2023, 11, 2)},
		{"2023-11-02 14:30:00", core.NewDate(2023, 11, 2)},
		{"11/02/2023", core.NewDate(2023, 11, 2)},
		{"11/2/2023 3:15 PM", core.NewDate(2023, 11, 2)},
		{"Nov 2, 2023", core.NewDate(2023, 11, 2)},
		{" 2023-06-10 ", core.NewDate(2023, 6, 10)},
		{"", core.Date{}},
		{"not a date", core.Date{}},
		{"2023-13-45", core.Date{}},
	}
	for _, tt := range tests {
		got := ParseDate(tt.in)
		if !got.Equal(tt.want.Time) {
			t.Errorf("ParseDate(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"47", 47},
		{" 45.5 ", 45.5},
		{"-10", -10},
		{"", 0},
		{"n/a", 0},
		{"NaN", 0},
		{"Inf", 0},
	}
	for _, tt := range tests {
		if got := ParseDuration(tt.in); got != tt.want {
			t.Errorf("ParseDuration(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseMissingColumns(t *testing.T) {
	tbl := core.RawTable{Header: []string{FieldEncounterDate, FieldCPTCode, "facility"}}
	_, err := Parse(tbl)
	if !errors.Is(err, ErrMissingColumn) {
		t.Fatalf("expected ErrMissingColumn, got %v", err)
	}
	var se *SchemaError
	if !errors.As(err, &se) {
		t.Fatalf("expected *SchemaError, got %T", err)
	}
	want := []string{FieldIsBillable, FieldEncounterStatus, FieldDurationMin}
	if !reflect.DeepEqual(se.Missing, want) {
		t.Fatalf("missing = %v, want %v", se.Missing, want)
	}
}

func TestParseCoercesCells(t *testing.T) {
	tbl := Normalize(core.RawTable{
		Header: []string{"Visit Date", "CPT / Revenue", "Duration (min)", "Is Billable", "Encounter Status"},
		Rows: [][]string{
			{"2023-11-02", " H0004 ", "47", " Yes ", "CLOSED"},
			{"garbage", "90834", "abc"}, // short row
		},
	})
	got, err := Parse(tbl)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	want := []core.Encounter{
		{Date: core.NewDate(2023, 11, 2), Code: "H0004", DurationMin: 47, Billable: "yes", Status: "closed"},
		{Code: "90834"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Parse =\n%+v\nwant\n%+v", got, want)
	}
}

func encounter(status, billable, typ string) core.Encounter {
	return core.Encounter{
		Date:     core.NewDate(2023, 11, 2),
		Code:     "H0004",
		Status:   NormalizeFlag(status),
		Billable: NormalizeFlag(billable),
		Type:     typ,
		Facility: "A",
	}
}

func TestCheck(t *testing.T) {
	noDate := encounter("closed", "yes", "Individual")
	noDate.Date = core.Date{}
	noCode := encounter("closed", "yes", "Individual")
	noCode.Code = ""

	tests := []struct {
		name string
		in   core.Encounter
		want DropReason
	}{
		{"closed billable individual", encounter(" Closed ", "YES", "Individual"), ""},
		{"open", encounter("Open", "Yes", "Individual"), DropNotBillable},
		{"not billable", encounter("Closed", "No", "Individual"), DropNotBillable},
		{"alternate spelling", encounter("Closed", "Y", "Individual"), DropNotBillable},
		{"status header echo", encounter("Encounter Status", "Yes", ""), DropHeaderEcho},
		{"billable header echo", encounter("Closed", "Is Billable", ""), DropHeaderEcho},
		{"group session", encounter("Closed", "Yes", "Group Session"), DropGroupSession},
		{"group any case", encounter("Closed", "Yes", "IOP GROUP"), DropGroupSession},
		{"missing date", noDate, DropMissingDate},
		{"blank code", noCode, DropBlankCode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Check(tt.in); got != tt.want {
				t.Errorf("Check() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFilterStableAndIdempotent(t *testing.T) {
	in := []core.Encounter{
		encounter("Closed", "Yes", "Individual"),
		encounter("Open", "Yes", "Individual"),
		encounter("Closed", "Yes", "Group Session"),
		encounter("closed", "yes", "Family"),
		encounter("Encounter Status", "Is Billable", "Encounter Type"),
	}
	in[3].Code = "90834"

	first, stats := Filter(in)
	if len(first) != 2 || first[0].Code != "H0004" || first[1].Code != "90834" {
		t.Fatalf("unexpected filter result: %+v", first)
	}
	if stats.Input != 5 || stats.Kept != 2 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
	if stats.Dropped[DropNotBillable] != 1 || stats.Dropped[DropGroupSession] != 1 || stats.Dropped[DropHeaderEcho] != 1 {
		t.Fatalf("unexpected drop counts: %+v", stats.Dropped)
	}

	second, stats2 := Filter(first)
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("Filter is not idempotent:\n%+v\n%+v", first, second)
	}
	if stats2.Kept != stats2.Input {
		t.Fatalf("second pass dropped rows: %+v", stats2)
	}
}

func TestFilterEmpty(t *testing.T) {
	out, stats := Filter(nil)
	if len(out) != 0 || stats.Input != 0 || stats.Kept != 0 {
		t.Fatalf("unexpected result for empty input: %v %+v", out, stats)
	}
}
