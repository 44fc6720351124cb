// Package report prepares the numeric side of the revenue trend report:
// the split of monthly totals around the takeover date and a linear trend
// for each side. Rendering is left to the chart consumer.
package report

import (
	"clinicrev/internal/core"
)

// DefaultTakeoverDate is the business takeover the report is annotated with.
var DefaultTakeoverDate = core.NewDate(2023, 7, 1)

// TrendPoint is one month on a trend line.
type TrendPoint struct {
	Month   core.Date `json:"month"`
	Index   int       `json:"index"`
	Revenue float64   `json:"revenue"`
	Fitted  float64   `json:"fitted"`
}

// TrendLine is an ordinary least-squares fit of revenue on month index.
type TrendLine struct {
	Label     string       `json:"label"`
	Slope     float64      `json:"slope"`
	Intercept float64      `json:"intercept"`
	Points    []TrendPoint `json:"points"`
}

// Period summarizes the months on one side of the takeover date.
type Period struct {
	Months         int        `json:"months"`
	Revenue        core.Money `json:"revenue"`
	AverageMonthly float64    `json:"average_monthly_revenue"`
	Trend          *TrendLine `json:"trend,omitempty"`
}

// Takeover is the pre/post comparison handed to the chart layer.
type Takeover struct {
	TakeoverDate core.Date `json:"takeover_date"`
	Pre          Period    `json:"pre"`
	Post         Period    `json:"post"`
}

// BuildTakeover splits monthly totals into months whose first day is before
// the takeover date and the rest. A mid-month takeover leaves its own month
// on the pre side. Months are indexed 0..n-1 across the whole
// series, in month order, and each side gets a trend line when it has at
// least two months.
func BuildTakeover(totals []core.MonthlyTotal, takeover core.Date) Takeover {
	out := Takeover{TakeoverDate: takeover}
	var pre, post []TrendPoint
	for i, m := range totals {
		p := TrendPoint{Month: m.Month, Index: i, Revenue: m.Revenue.Dollars()}
		if m.Month.Before(takeover) {
			pre = append(pre, p)
			out.Pre.Revenue = out.Pre.Revenue.Add(m.Revenue)
		} else {
			post = append(post, p)
			out.Post.Revenue = out.Post.Revenue.Add(m.Revenue)
		}
	}
	out.Pre.Months, out.Post.Months = len(pre), len(post)
	out.Pre.AverageMonthly = average(out.Pre.Revenue, len(pre))
	out.Post.AverageMonthly = average(out.Post.Revenue, len(post))
	out.Pre.Trend = fitTrend("Pre-takeover trend", pre)
	out.Post.Trend = fitTrend("Post-takeover trend", post)
	return out
}

func average(total core.Money, n int) float64 {
	if n == 0 {
		return 0
	}
	return total.Dollars() / float64(n)
}

func fitTrend(label string, pts []TrendPoint) *TrendLine {
	if len(pts) < 2 {
		return nil
	}
	slope, intercept := leastSquares(pts)
	line := &TrendLine{Label: label, Slope: slope, Intercept: intercept, Points: make([]TrendPoint, len(pts))}
	for i, p := range pts {
		p.Fitted = slope*float64(p.Index) + intercept
		line.Points[i] = p
	}
	return line
}

// leastSquares fits y = slope*x + intercept. Indices are distinct, so the
// denominator is non-zero for two or more points.
func leastSquares(pts []TrendPoint) (slope, intercept float64) {
	n := float64(len(pts))
	var sx, sy float64
	for _, p := range pts {
		sx += float64(p.Index)
		sy += p.Revenue
	}
	mx, my := sx/n, sy/n
	var num, den float64
	for _, p := range pts {
		dx := float64(p.Index) - mx
		num += dx * (p.Revenue - my)
		den += dx * dx
	}
	slope = num / den
	return slope, my - slope*mx
}
