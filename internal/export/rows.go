package export

import (
	"strconv"

	"clinicrev/internal/core"
)

// Flat row shapes for the Parquet and JSON writers. Dates are ISO strings
// and currency is dollars.

// EncounterRow is one priced encounter.
type EncounterRow struct {
	EncounterDate string  `parquet:"encounter_date" json:"encounter_date"`
	CPTCode       string  `parquet:"cpt_code" json:"cpt_code"`
	DurationMin   float64 `parquet:"duration_min" json:"duration_min"`
	Facility      string  `parquet:"facility" json:"facility"`
	EncounterType string  `parquet:"encounter_type" json:"encounter_type"`
	FiscalYear    string  `parquet:"fy" json:"fy"`
	Month         string  `parquet:"month" json:"month"`
	Units         int64   `parquet:"units" json:"units"`
	Rate          float64 `parquet:"rate" json:"rate"`
	Revenue       float64 `parquet:"revenue" json:"revenue"`
}

// MonthlyTotalRow is one month of the monthly_total view.
type MonthlyTotalRow struct {
	Month       string  `parquet:"month" json:"month"`
	Encounters  int64   `parquet:"encounters" json:"encounters"`
	ClientHours float64 `parquet:"client_hours" json:"client_hours"`
	TotalUnits  int64   `parquet:"total_units" json:"total_units"`
	Revenue     float64 `parquet:"revenue" json:"revenue"`
}

// MonthlyFacilityRow is one month and facility of the monthly_by_facility view.
type MonthlyFacilityRow struct {
	Month      string  `parquet:"month" json:"month"`
	Facility   string  `parquet:"facility" json:"facility"`
	Encounters int64   `parquet:"encounters" json:"encounters"`
	TotalUnits int64   `parquet:"total_units" json:"total_units"`
	Revenue    float64 `parquet:"revenue" json:"revenue"`
}

// MonthlyCodeRow is one month and billing code of the monthly_by_code view.
type MonthlyCodeRow struct {
	Month      string  `parquet:"month" json:"month"`
	CPTCode    string  `parquet:"cpt_code" json:"cpt_code"`
	Encounters int64   `parquet:"encounters" json:"encounters"`
	TotalUnits int64   `parquet:"total_units" json:"total_units"`
	Revenue    float64 `parquet:"revenue" json:"revenue"`
}

func encounterRows(in []core.DerivedEncounter) []EncounterRow {
	out := make([]EncounterRow, len(in))
	for i, e := range in {
		out[i] = EncounterRow{
			EncounterDate: e.Date.String(),
			CPTCode:       e.Code,
			DurationMin:   e.DurationMin,
			Facility:      e.Facility,
			EncounterType: e.Type,
			FiscalYear:    string(e.FiscalYear),
			Month:         e.Month.String(),
			Units:         int64(e.Units),
			Rate:          e.Rate.Dollars(),
			Revenue:       e.Revenue.Dollars(),
		}
	}
	return out
}

func monthlyTotalRows(in []core.MonthlyTotal) []MonthlyTotalRow {
	out := make([]MonthlyTotalRow, len(in))
	for i, m := range in {
		out[i] = MonthlyTotalRow{
			Month:       m.Month.String(),
			Encounters:  int64(m.Encounters),
			ClientHours: m.ClientHours,
			TotalUnits:  int64(m.Units),
			Revenue:     m.Revenue.Dollars(),
		}
	}
	return out
}

func monthlyFacilityRows(in []core.MonthlyByFacility) []MonthlyFacilityRow {
	out := make([]MonthlyFacilityRow, len(in))
	for i, m := range in {
		out[i] = MonthlyFacilityRow{
			Month:      m.Month.String(),
			Facility:   m.Facility,
			Encounters: int64(m.Encounters),
			TotalUnits: int64(m.Units),
			Revenue:    m.Revenue.Dollars(),
		}
	}
	return out
}

func monthlyCodeRows(in []core.MonthlyByCode) []MonthlyCodeRow {
	out := make([]MonthlyCodeRow, len(in))
	for i, m := range in {
		out[i] = MonthlyCodeRow{
			Month:      m.Month.String(),
			CPTCode:    m.Code,
			Encounters: int64(m.Encounters),
			TotalUnits: int64(m.Units),
			Revenue:    m.Revenue.Dollars(),
		}
	}
	return out
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
