// Package revenue derives billable units and revenue for filtered encounters.
package revenue

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"clinicrev/internal/core"
	"clinicrev/internal/rates"
)

// minChunk is the smallest slice handed to one worker.
const minChunk = 512

// MaxUnits caps the units billed for one encounter. Durations past
// MaxUnits*UnitMinutes are data errors, not sessions.
const MaxUnits = 1 << 20

// Calculator prices encounters against one rate table.
type Calculator struct {
	rates *rates.Table
}

// NewCalculator returns a Calculator bound to table.
func NewCalculator(table *rates.Table) *Calculator {
	return &Calculator{rates: table}
}

// Units returns the billable units for an encounter of the given category.
// Time-based codes bill one unit per full 15-minute block, clamped to
// [0, MaxUnits]; every other code bills exactly one unit.
func Units(cat rates.Category, durationMin float64) int {
	if cat != rates.TimeBased {
		return 1
	}
	u := math.Floor(durationMin / rates.UnitMinutes)
	switch {
	case math.IsNaN(u) || u < 0:
		return 0
	case u > MaxUnits:
		return MaxUnits
	}
	return int(u)
}

// Derive prices a single encounter. Unmapped codes or years price at zero.
func (c *Calculator) Derive(e core.Encounter) core.DerivedEncounter {
	fy := rates.FiscalYearOf(e.Date)
	units := Units(c.rates.Category(e.Code), e.DurationMin)
	rate := c.rates.Rate(e.Code, fy)
	return core.DerivedEncounter{
		Encounter:  e,
		FiscalYear: fy,
		Month:      e.Date.MonthStart(),
		Units:      units,
		Rate:       rate,
		Revenue:    rate.Times(units),
	}
}

// Calculate prices every encounter sequentially, preserving order.
func (c *Calculator) Calculate(in []core.Encounter) []core.DerivedEncounter {
	out := make([]core.DerivedEncounter, len(in))
	for i, e := range in {
		out[i] = c.Derive(e)
	}
	return out
}

// CalculateParallel prices encounters across up to workers goroutines. Rows
// are independent, so the result equals Calculate(in). workers <= 1 runs
// sequentially.
func (c *Calculator) CalculateParallel(ctx context.Context, in []core.Encounter, workers int) ([]core.DerivedEncounter, error) {
	if workers <= 1 || len(in) <= minChunk {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return c.Calculate(in), nil
	}

	out := make([]core.DerivedEncounter, len(in))
	chunk := (len(in) + workers - 1) / workers
	if chunk < minChunk {
		chunk = minChunk
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < len(in); start += chunk {
		start, end := start, min(start+chunk, len(in))
		g.Go(func() error {
			for i := start; i < end; i++ {
				if i%minChunk == 0 {
					if err := ctx.Err(); err != nil {
						return err
					}
				}
				out[i] = c.Derive(in[i])
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
