// Package rates holds the fiscal-year billing rate table and the
// classification of billing codes into time-based and per-encounter codes.
//
// A Table is immutable once built. Callers construct one at startup, from
// Default or from a Definition with overrides applied, and pass it to the
// revenue calculator explicitly.
package rates

import (
	"errors"
	"fmt"
	"sort"

	"clinicrev/internal/core"
)

// UnitMinutes is the block size for time-based codes.
const UnitMinutes = 15

// Category says how a billing code turns an encounter into units.
type Category int

const (
	// CategoryUnknown is returned for codes the table has never seen.
	CategoryUnknown Category = iota
	// TimeBased codes bill one unit per full UnitMinutes block.
	TimeBased
	// PerEncounter codes bill exactly one unit per encounter.
	PerEncounter
)

func (c Category) String() string {
	switch c {
	case TimeBased:
		return "time-based"
	case PerEncounter:
		return "per-encounter"
	default:
		return "unknown"
	}
}

// ParseCategory accepts the String forms plus the short aliases "time" and
// "encounter".
func ParseCategory(s string) (Category, error) {
	switch s {
	case "time-based", "time":
		return TimeBased, nil
	case "per-encounter", "encounter":
		return PerEncounter, nil
	}
	return CategoryUnknown, fmt.Errorf("unknown rate category %q", s)
}

// Schedule maps billing code to rate for one fiscal year.
type Schedule map[string]core.Money

// CarryForward fills year To with every rate of year From that To does not
// define itself.
type CarryForward struct {
	From core.FiscalYear
	To   core.FiscalYear
}

// Definition is the mutable input used to build a Table.
type Definition struct {
	Schedules    map[core.FiscalYear]Schedule
	CarryForward []CarryForward
	Categories   map[string]Category
}

var (
	ErrNegativeRate      = errors.New("rate must not be negative")
	ErrUncategorizedCode = errors.New("billing code has no category")
	ErrUnknownSourceYear = errors.New("carry-forward source year is not defined")
)

// Table is the resolved, read-only rate table.
type Table struct {
	rates      map[core.FiscalYear]map[string]core.Money
	categories map[string]Category
}

// New resolves a Definition into a Table. Carry-forward rules are applied in
// order, so a chain FY24->FY25->FY26 propagates FY24 rates to FY26.
func New(def Definition) (*Table, error) {
	t := &Table{
		rates:      make(map[core.FiscalYear]map[string]core.Money, len(def.Schedules)),
		categories: make(map[string]Category, len(def.Categories)),
	}
	for code, cat := range def.Categories {
		if cat != TimeBased && cat != PerEncounter {
			return nil, fmt.Errorf("%w: %s", ErrUncategorizedCode, code)
		}
		t.categories[code] = cat
	}
	for fy, sched := range def.Schedules {
		m := make(map[string]core.Money, len(sched))
		for code, rate := range sched {
			if rate.Cents < 0 {
				return nil, fmt.Errorf("%w: %s %s", ErrNegativeRate, fy, code)
			}
			if _, ok := t.categories[code]; !ok {
				return nil, fmt.Errorf("%w: %s", ErrUncategorizedCode, code)
			}
			m[code] = rate
		}
		t.rates[fy] = m
	}
	for _, cf := range def.CarryForward {
		src, ok := t.rates[cf.From]
		if !ok {
			return nil, fmt.Errorf("%w: %s -> %s", ErrUnknownSourceYear, cf.From, cf.To)
		}
		dst, ok := t.rates[cf.To]
		if !ok {
			dst = make(map[string]core.Money, len(src))
			t.rates[cf.To] = dst
		}
		for code, rate := range src {
			if _, set := dst[code]; !set {
				dst[code] = rate
			}
		}
	}
	return t, nil
}

// FiscalYearOf returns the Oct-Sep fiscal year containing d, labeled by the
// calendar year it ends in. A missing date maps to FYUnknown.
func FiscalYearOf(d core.Date) core.FiscalYear {
	if d.IsEmpty() {
		return core.FYUnknown
	}
	fy := d.Year()
	if d.Month() >= 10 {
		fy++
	}
	return core.FiscalYear(fmt.Sprintf("FY%02d", fy%100))
}

// Rate returns the rate for code in fy, or zero when either is unmapped.
func (t *Table) Rate(code string, fy core.FiscalYear) core.Money {
	if t == nil {
		return core.Money{}
	}
	return t.rates[fy][code]
}

// Category returns the code's billing category.
func (t *Table) Category(code string) Category {
	if t == nil {
		return CategoryUnknown
	}
	return t.categories[code]
}

// IsTimeBased reports whether code bills in UnitMinutes blocks.
func (t *Table) IsTimeBased(code string) bool {
	return t.Category(code) == TimeBased
}

// Years lists the fiscal years with a schedule, ascending.
func (t *Table) Years() []core.FiscalYear {
	out := make([]core.FiscalYear, 0, len(t.rates))
	for fy := range t.rates {
		out = append(out, fy)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Codes lists every categorized billing code, ascending.
func (t *Table) Codes() []string {
	out := make([]string, 0, len(t.categories))
	for code := range t.categories {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}
