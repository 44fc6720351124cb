// Package rollup aggregates priced encounters into monthly views.
//
// Each view partitions its input: every encounter lands in exactly one
// group, so counts, units, and revenue sum back to the encounter-level
// totals.
package rollup

import (
	"sort"

	"clinicrev/internal/core"
)

type monthKey struct {
	month int64 // unix seconds of the month start
	label string
}

type bucket struct {
	month      core.Date
	label      string
	encounters int
	minutes    float64
	units      int
	revenue    core.Money
}

func group(rows []core.DerivedEncounter, label func(core.DerivedEncounter) string) []*bucket {
	idx := make(map[monthKey]*bucket)
	var out []*bucket
	for _, r := range rows {
		k := monthKey{month: r.Month.Unix(), label: label(r)}
		b, ok := idx[k]
		if !ok {
			b = &bucket{month: r.Month, label: k.label}
			idx[k] = b
			out = append(out, b)
		}
		b.encounters++
		b.minutes += r.DurationMin
		b.units += r.Units
		b.revenue = b.revenue.Add(r.Revenue)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].month.Equal(out[j].month.Time) {
			return out[i].month.Before(out[j].month)
		}
		return out[i].label < out[j].label
	})
	return out
}

// MonthlyTotals groups by month, ascending.
func MonthlyTotals(rows []core.DerivedEncounter) []core.MonthlyTotal {
	buckets := group(rows, func(core.DerivedEncounter) string { return "" })
	out := make([]core.MonthlyTotal, len(buckets))
	for i, b := range buckets {
		out[i] = core.MonthlyTotal{
			Month:       b.month,
			Encounters:  b.encounters,
			ClientHours: b.minutes / 60.0,
			Units:       b.units,
			Revenue:     b.revenue,
		}
	}
	return out
}

// MonthlyByFacility groups by month then facility, both ascending.
func MonthlyByFacility(rows []core.DerivedEncounter) []core.MonthlyByFacility {
	buckets := group(rows, func(r core.DerivedEncounter) string { return r.Facility })
	out := make([]core.MonthlyByFacility, len(buckets))
	for i, b := range buckets {
		out[i] = core.MonthlyByFacility{
			Month:      b.month,
			Facility:   b.label,
			Encounters: b.encounters,
			Units:      b.units,
			Revenue:    b.revenue,
		}
	}
	return out
}

// MonthlyByCode groups by month then billing code, both ascending.
func MonthlyByCode(rows []core.DerivedEncounter) []core.MonthlyByCode {
	buckets := group(rows, func(r core.DerivedEncounter) string { return r.Code })
	out := make([]core.MonthlyByCode, len(buckets))
	for i, b := range buckets {
		out[i] = core.MonthlyByCode{
			Month:      b.month,
			Code:       b.label,
			Encounters: b.encounters,
			Units:      b.units,
			Revenue:    b.revenue,
		}
	}
	return out
}

// Build produces all three views.
func Build(rows []core.DerivedEncounter) core.Rollups {
	return core.Rollups{
		Total:      MonthlyTotals(rows),
		ByFacility: MonthlyByFacility(rows),
		ByCode:     MonthlyByCode(rows),
	}
}
