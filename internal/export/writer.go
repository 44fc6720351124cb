package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"clinicrev/internal/core"
	applog "clinicrev/internal/log"
	"clinicrev/internal/report"
)

// Output file base names.
const (
	NameEncounters        = "encounters"
	NameMonthlyTotal      = "monthly_total"
	NameMonthlyByFacility = "monthly_by_facility"
	NameMonthlyByCode     = "monthly_by_code"
	TrendFile             = "trend.json"
)

// Writer writes run outputs into Dir, one file per table and format.
type Writer struct {
	Dir     string
	Formats []Format
	logger  *applog.Logger
}

// NewWriter returns a Writer for dir. With no formats it writes CSV.
func NewWriter(dir string, formats []Format, logger *applog.Logger) *Writer {
	if len(formats) == 0 {
		formats = []Format{FormatCSV}
	}
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &Writer{Dir: dir, Formats: formats, logger: logger.WithComponent(applog.ComponentExport)}
}

// WriteAll writes the encounter table and the three rollups in every
// configured format, plus trend.json. It returns the paths written.
func (w *Writer) WriteAll(ctx context.Context, encounters []core.DerivedEncounter, rollups core.Rollups, takeover report.Takeover) ([]string, error) {
	if err := os.MkdirAll(w.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	var written []string
	for _, f := range w.Formats {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		paths, err := w.writeFormat(f, encounters, rollups)
		written = append(written, paths...)
		if err != nil {
			applog.NewStructuredLogger(w.logger).LogError(ctx, "Failed to write outputs", err, applog.OpWrite,
				applog.NewFields().
					With(applog.FieldFormat, string(f)).
					With(applog.FieldErrorType, applog.ErrorTypeIO))
			return written, err
		}
		w.logger.DebugContext(ctx, "Format written",
			applog.FieldOperation, applog.OpWrite,
			applog.FieldFormat, string(f),
			"files", len(paths),
		)
	}

	trendPath := filepath.Join(w.Dir, TrendFile)
	if err := writeFile(trendPath, func(out io.Writer) error { return WriteTrendJSON(out, takeover) }); err != nil {
		return written, err
	}
	written = append(written, trendPath)

	for _, p := range written {
		w.logger.DebugContext(ctx, "Output written", applog.FieldPath, p)
	}
	w.logger.InfoContext(ctx, "Exports complete",
		applog.FieldPath, w.Dir,
		"files", len(written),
	)
	return written, nil
}

// output is one file to produce for a format.
type output struct {
	name  string
	write func(path string) error
}

func (w *Writer) writeFormat(f Format, encounters []core.DerivedEncounter, rollups core.Rollups) ([]string, error) {
	var outputs []output
	switch f {
	case FormatCSV:
		outputs = []output{
			{NameEncounters, csvFile(func(o io.Writer) error { return WriteEncountersCSV(o, encounters) })},
			{NameMonthlyTotal, csvFile(func(o io.Writer) error { return WriteMonthlyTotalsCSV(o, rollups.Total) })},
			{NameMonthlyByFacility, csvFile(func(o io.Writer) error { return WriteMonthlyByFacilityCSV(o, rollups.ByFacility) })},
			{NameMonthlyByCode, csvFile(func(o io.Writer) error { return WriteMonthlyByCodeCSV(o, rollups.ByCode) })},
		}
	case FormatParquet:
		outputs = []output{
			{NameEncounters, func(p string) error { return writeParquet(p, encounterRows(encounters)) }},
			{NameMonthlyTotal, func(p string) error { return writeParquet(p, monthlyTotalRows(rollups.Total)) }},
			{NameMonthlyByFacility, func(p string) error { return writeParquet(p, monthlyFacilityRows(rollups.ByFacility)) }},
			{NameMonthlyByCode, func(p string) error { return writeParquet(p, monthlyCodeRows(rollups.ByCode)) }},
		}
	case FormatJSON:
		outputs = []output{
			{NameEncounters, jsonFile(encounterRows(encounters))},
			{NameMonthlyTotal, jsonFile(monthlyTotalRows(rollups.Total))},
			{NameMonthlyByFacility, jsonFile(monthlyFacilityRows(rollups.ByFacility))},
			{NameMonthlyByCode, jsonFile(monthlyCodeRows(rollups.ByCode))},
		}
	default:
		return nil, fmt.Errorf("unsupported output format %q", f)
	}

	var written []string
	for _, o := range outputs {
		p := filepath.Join(w.Dir, o.name+"."+string(f))
		if err := o.write(p); err != nil {
			return written, fmt.Errorf("write %s: %w", filepath.Base(p), err)
		}
		written = append(written, p)
	}
	return written, nil
}

func csvFile(write func(io.Writer) error) func(string) error {
	return func(p string) error { return writeFile(p, write) }
}

func jsonFile(v any) func(string) error {
	return func(p string) error {
		return writeFile(p, func(out io.Writer) error { return writeJSON(out, v) })
	}
}

// WriteTrendJSON writes the takeover report as indented JSON.
func WriteTrendJSON(w io.Writer, takeover report.Takeover) error {
	return writeJSON(w, takeover)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

func writeFile(path string, write func(io.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
