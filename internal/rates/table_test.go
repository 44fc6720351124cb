package rates

import (
	"errors"
	"strings"
	"testing"

	"clinicrev/internal/core"
)

func TestFiscalYearOf(t *testing.T) {
	tests := []struct {
		name string
		date core.Date
		want core.FiscalYear
	}{
		{"october starts next fiscal year", core.NewDate(2023, 10, 15), "FY24"},
		{"september closes current fiscal year", core.NewDate(2023, 9, 15), "FY23"},
		{"january", core.NewDate(2024, 1, 1), "FY24"},
		{"december", core.NewDate(2025, 12, 31), "FY26"},
		{"first of october", core.NewDate(2022, 10, 1), "FY23"},
		{"two digit padding", core.NewDate(2004, 11, 1), "FY05"},
		{"century rollover", core.NewDate(2099, 10, 1), "FY00"},
		{"missing date", core.Date{}, core.FYUnknown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FiscalYearOf(tt.date); got != tt.want {
				t.Errorf("FiscalYearOf(%v) = %q, want %q", tt.date, got, tt.want)
			}
		})
	}
}

func TestDefaultRates(t *testing.T) {
	tbl := Default()
	tests := []struct {
		code  string
		fy    core.FiscalYear
		cents int64
	}{
		{"90834", core.FY23, 10000},
		{"H0004", core.FY24, 2950},
		{"T1007", core.FY23, 11700},
		{"H0038", core.FY24, 2650},
		// Carried forward from FY24
		{"H0004", core.FY25, 2950},
		{"90837", core.FY26, 14200},
		// Misses resolve to zero
		{"99999", core.FY24, 0},
		{"H0004", core.FYUnknown, 0},
		{"H0004", "FY22", 0},
		{"H0004", "FY27", 0},
	}
	for _, tt := range tests {
		if got := tbl.Rate(tt.code, tt.fy); got.Cents != tt.cents {
			t.Errorf("Rate(%s, %s) = %d, want %d", tt.code, tt.fy, got.Cents, tt.cents)
		}
	}
}

func TestDefaultCategoriesPartitionCodes(t *testing.T) {
	tbl := Default()
	timeBased := 0
	for _, code := range tbl.Codes() {
		switch tbl.Category(code) {
		case TimeBased:
			timeBased++
		case PerEncounter:
		default:
			t.Errorf("code %s has no category", code)
		}
	}
	if timeBased != 2 {
		t.Errorf("expected 2 time-based codes, got %d", timeBased)
	}
	if !tbl.IsTimeBased("H0004") || tbl.IsTimeBased("90834") {
		t.Errorf("unexpected classification of H0004/90834")
	}
	if tbl.Category("nope") != CategoryUnknown {
		t.Errorf("unknown code should be CategoryUnknown")
	}
	for _, fy := range tbl.Years() {
		for _, code := range tbl.Codes() {
			if tbl.Rate(code, fy).Cents <= 0 {
				t.Errorf("%s %s has no rate", fy, code)
			}
		}
	}
}

func TestYearsSorted(t *testing.T) {
	got := Default().Years()
	want := []core.FiscalYear{core.FY23, core.FY24, core.FY25, core.FY26}
	if len(got) != len(want) {
		t.Fatalf("Years() = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Years() = %v, want %v", got, want)
		}
	}
}

func TestNilTable(t *testing.T) {
	var tbl *Table
	if tbl.Rate("H0004", core.FY24).Cents != 0 {
		t.Fatalf("nil table should price everything at zero")
	}
	if tbl.Category("H0004") != CategoryUnknown {
		t.Fatalf("nil table should not categorize codes")
	}
}

func TestNewValidation(t *testing.T) {
	t.Run("negative rate", func(t *testing.T) {
		def := DefaultDefinition()
		def.Schedules[core.FY23]["H0004"] = core.Money{Cents: -1}
		if _, err := New(def); !errors.Is(err, ErrNegativeRate) {
			t.Fatalf("expected ErrNegativeRate, got %v", err)
		}
	})
	t.Run("uncategorized code", func(t *testing.T) {
		def := DefaultDefinition()
		def.Schedules[core.FY23]["X1"] = core.Money{Cents: 100}
		if _, err := New(def); !errors.Is(err, ErrUncategorizedCode) {
			t.Fatalf("expected ErrUncategorizedCode, got %v", err)
		}
	})
	t.Run("missing carry-forward source", func(t *testing.T) {
		def := DefaultDefinition()
		def.CarryForward = []CarryForward{{From: "FY30", To: "FY31"}}
		if _, err := New(def); !errors.Is(err, ErrUnknownSourceYear) {
			t.Fatalf("expected ErrUnknownSourceYear, got %v", err)
		}
	})
}

func TestParseOverrides(t *testing.T) {
	in := strings.Join([]string{
		"fiscal_year,code,rate,category",
		"# FY25 schedule received",
		"FY25,H0004,31.25",
		"fy26, 90834 ,120",
		"FY25,H2019,20.00,time",
	}, "\n")
	ov, err := ParseOverrides(strings.NewReader(in))
	if err != nil {
		t.Fatalf("ParseOverrides: %v", err)
	}
	if len(ov) != 3 {
		t.Fatalf("expected 3 overrides, got %d: %+v", len(ov), ov)
	}
	if ov[0].FiscalYear != core.FY25 || ov[0].Code != "H0004" || ov[0].Rate.Cents != 3125 {
		t.Errorf("unexpected first override: %+v", ov[0])
	}
	if ov[1].FiscalYear != core.FY26 || ov[1].Code != "90834" || ov[1].Rate.Cents != 12000 {
		t.Errorf("unexpected second override: %+v", ov[1])
	}
	if ov[2].Category != TimeBased {
		t.Errorf("expected time-based category, got %v", ov[2].Category)
	}
}

func TestParseOverridesErrors(t *testing.T) {
	bad := []string{
		"2025,H0004,1.00",
		"FY25,,1.00",
		"FY25,H0004,-1",
		"FY25,H0004",
		"FY25,H0004,1.00,hourly",
	}
	for _, in := range bad {
		if _, err := ParseOverrides(strings.NewReader(in)); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestApplyOverrides(t *testing.T) {
	def := DefaultDefinition()
	tbl, err := New(def.Apply([]Override{
		{FiscalYear: core.FY25, Code: "H0004", Rate: core.Money{Cents: 3125}},
		{FiscalYear: core.FY24, Code: "90834", Rate: core.Money{Cents: 11500}},
		{FiscalYear: core.FY26, Code: "H2019", Rate: core.Money{Cents: 2000}, Category: TimeBased},
	}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	checks := []struct {
		code  string
		fy    core.FiscalYear
		cents int64
	}{
		{"H0004", core.FY24, 2950}, // untouched
		{"H0004", core.FY25, 3125}, // explicit
		{"H0004", core.FY26, 3125}, // inherits FY25
		{"90834", core.FY24, 11500},
		{"90834", core.FY25, 11500}, // FY24 change carries forward
		{"90834", core.FY26, 11500},
		{"H0038", core.FY25, 2650}, // other FY25 codes still carried
		{"H2019", core.FY26, 2000},
		{"H2019", core.FY25, 0},
	}
	for _, c := range checks {
		if got := tbl.Rate(c.code, c.fy); got.Cents != c.cents {
			t.Errorf("Rate(%s, %s) = %d, want %d", c.code, c.fy, got.Cents, c.cents)
		}
	}
	if !tbl.IsTimeBased("H2019") {
		t.Errorf("H2019 should be time-based")
	}

	// The source definition is not mutated.
	if _, ok := def.Schedules[core.FY25]; ok {
		t.Errorf("Apply mutated the source definition")
	}
}
