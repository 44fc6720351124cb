// Package pipeline runs the revenue computation end to end: column
// normalization, row parsing and filtering, pricing, and monthly rollups.
// Each stage builds a new table from the previous one; nothing is modified
// in place.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"clinicrev/internal/cleaning"
	"clinicrev/internal/core"
	applog "clinicrev/internal/log"
	"clinicrev/internal/rates"
	"clinicrev/internal/revenue"
	"clinicrev/internal/rollup"
)

// Result is the output of one run.
type Result struct {
	RunID      uuid.UUID
	RawRows    int
	Filter     cleaning.FilterStats
	Encounters []core.DerivedEncounter
	Rollups    core.Rollups
	Elapsed    time.Duration
}

// TotalRevenue sums revenue over the encounter-level table.
func (r *Result) TotalRevenue() core.Money {
	var total core.Money
	for _, e := range r.Encounters {
		total = total.Add(e.Revenue)
	}
	return total
}

// UnpricedEncounters counts encounters that priced at zero because their
// code or fiscal year has no rate.
func (r *Result) UnpricedEncounters() int {
	n := 0
	for _, e := range r.Encounters {
		if e.Rate.Cents == 0 {
			n++
		}
	}
	return n
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithWorkers sets row-pricing parallelism; 1 keeps it sequential.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithLogger sets the logger used for stage reports.
func WithLogger(l *applog.Logger) Option {
	return func(p *Pipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// Pipeline holds the rate table and run settings.
type Pipeline struct {
	calc    *revenue.Calculator
	workers int
	logger  *applog.Logger
}

// New returns a Pipeline pricing against table.
func New(table *rates.Table, opts ...Option) *Pipeline {
	p := &Pipeline{
		calc:    revenue.NewCalculator(table),
		workers: 1,
		logger:  applog.New(applog.DefaultConfig()).WithComponent(applog.ComponentPipeline),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run transforms a raw export into priced encounters and rollups. The only
// error it returns for well-formed input is a *cleaning.SchemaError when a
// required column is missing.
func (p *Pipeline) Run(ctx context.Context, raw core.RawTable) (*Result, error) {
	start := time.Now()
	res := &Result{RunID: uuid.New(), RawRows: len(raw.Rows)}
	runID := res.RunID.String()
	sl := applog.NewStructuredLogger(p.logger)

	normalized := cleaning.Normalize(raw)
	sl.LogStage(ctx, runID, applog.StageNormalize, len(raw.Rows), len(normalized.Rows), nil)

	parsed, err := cleaning.Parse(normalized)
	if err != nil {
		sl.LogError(ctx, "Export schema check failed", err, applog.OpParse,
			applog.NewFields().WithRunID(runID).With(applog.FieldErrorType, applog.ErrorTypeSchema))
		return nil, err
	}
	sl.LogStage(ctx, runID, applog.StageParse, len(normalized.Rows), len(parsed), nil)

	filtered, stats := cleaning.Filter(parsed)
	res.Filter = stats
	dropped := applog.NewFields()
	for reason, n := range stats.Dropped {
		dropped.With("dropped_"+string(reason), n)
	}
	sl.LogStage(ctx, runID, applog.StageFilter, stats.Input, stats.Kept, dropped)

	priced, err := p.calc.CalculateParallel(ctx, filtered, p.workers)
	if err != nil {
		return nil, fmt.Errorf("price encounters: %w", err)
	}
	res.Encounters = priced
	sl.LogStage(ctx, runID, applog.StageRevenue, len(filtered), len(priced),
		applog.NewFields().
			With(applog.FieldRevenue, res.TotalRevenue().String()).
			With("unpriced", res.UnpricedEncounters()))

	res.Rollups = rollup.Build(priced)
	sl.LogStage(ctx, runID, applog.StageRollup, len(priced), len(res.Rollups.Total),
		applog.NewFields().With(applog.FieldMonths, len(res.Rollups.Total)))

	res.Elapsed = time.Since(start)
	return res, nil
}
