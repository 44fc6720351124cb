package revenue

import (
	"context"
	"math"
	"reflect"
	"testing"

	"clinicrev/internal/core"
	"clinicrev/internal/rates"
)

func TestUnits(t *testing.T) {
	tests := []struct {
		name     string
		cat      rates.Category
		duration float64
		want     int
	}{
		{"time-based 47 minutes", rates.TimeBased, 47, 3},
		{"time-based 14 minutes", rates.TimeBased, 14, 0},
		{"time-based exact block", rates.TimeBased, 60, 4},
		{"time-based negative clamps", rates.TimeBased, -30, 0},
		{"time-based fractional", rates.TimeBased, 29.9, 1},
		{"per-encounter long", rates.PerEncounter, 120, 1},
		{"per-encounter zero", rates.PerEncounter, 0, 1},
		{"unknown code", rates.CategoryUnknown, 90, 1},
		{"time-based huge duration caps", rates.TimeBased, 1e17, MaxUnits},
		{"time-based beyond int range caps", rates.TimeBased, 1e30, MaxUnits},
		{"time-based infinity caps", rates.TimeBased, math.Inf(1), MaxUnits},
		{"time-based NaN", rates.TimeBased, math.NaN(), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Units(tt.cat, tt.duration); got != tt.want {
				t.Errorf("Units(%v, %v) = %d, want %d", tt.cat, tt.duration, got, tt.want)
			}
		})
	}
}

func TestDerive(t *testing.T) {
	calc := NewCalculator(rates.Default())
	tests := []struct {
		name    string
		in      core.Encounter
		fy      core.FiscalYear
		month   core.Date
		units   int
		rate    int64
		revenue int64
	}{
		{
			name:  "time-based FY24",
			in:    core.Encounter{Date: core.NewDate(2023, 11, 2), Code: "H0004", DurationMin: 47, Facility: "A"},
			fy:    "FY24", month: core.NewDate(2023, 11, 1),
			units: 3, rate: 2950, revenue: 8850,
		},
		{
			name:  "per-encounter FY23",
			in:    core.Encounter{Date: core.NewDate(2023, 6, 10), Code: "90834", DurationMin: 45},
			fy:    "FY23", month: core.NewDate(2023, 6, 1),
			units: 1, rate: 10000, revenue: 10000,
		},
		{
			name:  "unmapped code",
			in:    core.Encounter{Date: core.NewDate(2023, 6, 10), Code: "H2019", DurationMin: 60},
			fy:    "FY23", month: core.NewDate(2023, 6, 1),
			units: 1, rate: 0, revenue: 0,
		},
		{
			name:  "year outside table",
			in:    core.Encounter{Date: core.NewDate(2021, 3, 4), Code: "90834"},
			fy:    "FY21", month: core.NewDate(2021, 3, 1),
			units: 1, rate: 0, revenue: 0,
		},
		{
			name:  "short time-based session",
			in:    core.Encounter{Date: core.NewDate(2024, 10, 1), Code: "H0038", DurationMin: 14},
			fy:    "FY25", month: core.NewDate(2024, 10, 1),
			units: 0, rate: 2650, revenue: 0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calc.Derive(tt.in)
			if got.FiscalYear != tt.fy {
				t.Errorf("fiscal year = %q, want %q", got.FiscalYear, tt.fy)
			}
			if !got.Month.Equal(tt.month.Time) {
				t.Errorf("month = %v, want %v", got.Month, tt.month)
			}
			if got.Units != tt.units || got.Rate.Cents != tt.rate || got.Revenue.Cents != tt.revenue {
				t.Errorf("units/rate/revenue = %d/%d/%d, want %d/%d/%d",
					got.Units, got.Rate.Cents, got.Revenue.Cents, tt.units, tt.rate, tt.revenue)
			}
			if !reflect.DeepEqual(got.Encounter, tt.in) {
				t.Errorf("source encounter altered: %+v", got.Encounter)
			}
		})
	}
}

func TestCalculateUsesInjectedTable(t *testing.T) {
	def := rates.DefaultDefinition().Apply([]rates.Override{
		{FiscalYear: core.FY24, Code: "H0004", Rate: core.Money{Cents: 1000}},
	})
	tbl, err := rates.New(def)
	if err != nil {
		t.Fatalf("rates.New: %v", err)
	}
	got := NewCalculator(tbl).Calculate([]core.Encounter{
		{Date: core.NewDate(2023, 11, 2), Code: "H0004", DurationMin: 30},
	})
	if len(got) != 1 || got[0].Revenue.Cents != 2000 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestCalculateParallelMatchesSequential(t *testing.T) {
	calc := NewCalculator(rates.Default())
	codes := []string{"H0004", "H0038", "90832", "90834", "T1012", "X999"}
	in := make([]core.Encounter, 5000)
	for i := range in {
		in[i] = core.Encounter{
			Date:        core.NewDate(2022+i%4, 1+i%12, 1+i%28),
			Code:        codes[i%len(codes)],
			DurationMin: float64(i % 97),
			Facility:    []string{"A", "B"}[i%2],
		}
	}
	want := calc.Calculate(in)
	got, err := calc.CalculateParallel(context.Background(), in, 4)
	if err != nil {
		t.Fatalf("CalculateParallel: %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("parallel result differs from sequential")
	}
}

func TestCalculateParallelCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := make([]core.Encounter, 2000)
	if _, err := NewCalculator(rates.Default()).CalculateParallel(ctx, in, 4); err == nil {
		t.Fatalf("expected context error")
	}
}
