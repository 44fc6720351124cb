package rates

import "clinicrev/internal/core"

// Published schedules, in cents.
// FY23: Oct 2022 - Sep 2023
// FY24: Oct 2023 - Sep 2024
var (
	fy23Cents = map[string]int64{
		"90832": 6500,
		"90834": 10000,
		"90837": 12900,
		"H0001": 17600,
		"H0006": 4550,
		"T1012": 4750,
		"T1007": 11700,
		"H0004": 2650,
		"H0038": 2400,
	}
	fy24Cents = map[string]int64{
		"90832": 7150,
		"90834": 11000,
		"90837": 14200,
		"H0001": 19400,
		"H0006": 5050,
		"T1012": 5250,
		"T1007": 12900,
		"H0004": 2950,
		"H0038": 2650,
	}

	// No FY25 or FY26 schedule has been published. Those years reuse the
	// last known rates until an override file supplies real ones.
	defaultCarryForward = []CarryForward{
		{From: core.FY24, To: core.FY25},
		{From: core.FY25, To: core.FY26},
	}

	defaultCategories = map[string]Category{
		"H0004": TimeBased,
		"H0038": TimeBased,
		"90832": PerEncounter,
		"90834": PerEncounter,
		"90837": PerEncounter,
		"H0001": PerEncounter,
		"H0006": PerEncounter,
		"T1012": PerEncounter,
		"T1007": PerEncounter,
	}
)

// DefaultDefinition returns a fresh copy of the built-in rate definition.
// Callers may modify it before passing it to New.
func DefaultDefinition() Definition {
	cats := make(map[string]Category, len(defaultCategories))
	for code, c := range defaultCategories {
		cats[code] = c
	}
	return Definition{
		Schedules: map[core.FiscalYear]Schedule{
			core.FY23: scheduleFromCents(fy23Cents),
			core.FY24: scheduleFromCents(fy24Cents),
		},
		CarryForward: append([]CarryForward(nil), defaultCarryForward...),
		Categories:   cats,
	}
}

// Default returns the built-in table.
func Default() *Table {
	t, err := New(DefaultDefinition())
	if err != nil {
		panic("rates: invalid built-in definition: " + err.Error())
	}
	return t
}

func scheduleFromCents(in map[string]int64) Schedule {
	s := make(Schedule, len(in))
	for code, c := range in {
		s[code] = core.Money{Cents: c}
	}
	return s
}
