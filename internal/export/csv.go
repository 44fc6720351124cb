package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"clinicrev/internal/core"
)

func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}

// WriteEncountersCSV writes the encounter-level table. Currency columns use
// exact two-decimal values.
func WriteEncountersCSV(w io.Writer, rows []core.DerivedEncounter) error {
	records := make([][]string, len(rows))
	for i, e := range rows {
		records[i] = []string{
			e.Date.String(),
			e.Code,
			formatFloat(e.DurationMin),
			e.Facility,
			e.Type,
			string(e.FiscalYear),
			e.Month.String(),
			strconv.Itoa(e.Units),
			e.Rate.String(),
			e.Revenue.String(),
		}
	}
	return writeCSV(w, []string{
		"encounter_date", "cpt_code", "duration_min", "facility", "encounter_type",
		"fy", "month", "units", "rate", "revenue",
	}, records)
}

// WriteMonthlyTotalsCSV writes the monthly_total view.
func WriteMonthlyTotalsCSV(w io.Writer, rows []core.MonthlyTotal) error {
	records := make([][]string, len(rows))
	for i, m := range rows {
		records[i] = []string{
			m.Month.String(),
			strconv.Itoa(m.Encounters),
			formatFloat(m.ClientHours),
			strconv.Itoa(m.Units),
			m.Revenue.String(),
		}
	}
	return writeCSV(w, []string{"month", "encounters", "client_hours", "total_units", "revenue"}, records)
}

// WriteMonthlyByFacilityCSV writes the monthly_by_facility view.
func WriteMonthlyByFacilityCSV(w io.Writer, rows []core.MonthlyByFacility) error {
	records := make([][]string, len(rows))
	for i, m := range rows {
		records[i] = []string{
			m.Month.String(),
			m.Facility,
			strconv.Itoa(m.Encounters),
			strconv.Itoa(m.Units),
			m.Revenue.String(),
		}
	}
	return writeCSV(w, []string{"month", "facility", "encounters", "total_units", "revenue"}, records)
}

// WriteMonthlyByCodeCSV writes the monthly_by_code view.
func WriteMonthlyByCodeCSV(w io.Writer, rows []core.MonthlyByCode) error {
	records := make([][]string, len(rows))
	for i, m := range rows {
		records[i] = []string{
			m.Month.String(),
			m.Code,
			strconv.Itoa(m.Encounters),
			strconv.Itoa(m.Units),
			m.Revenue.String(),
		}
	}
	return writeCSV(w, []string{"month", "cpt_code", "encounters", "total_units", "revenue"}, records)
}
