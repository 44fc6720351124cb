package rates

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"clinicrev/internal/core"
)

var fyLabelPattern = regexp.MustCompile(`^FY\d{2}$`)

// Override sets one rate, and optionally the code's category.
type Override struct {
	FiscalYear core.FiscalYear
	Code       string
	Rate       core.Money
	Category   Category // CategoryUnknown keeps the existing category
}

// LoadOverridesFile reads overrides from a CSV file; see ParseOverrides.
func LoadOverridesFile(path string) ([]Override, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rate overrides: %w", err)
	}
	defer f.Close()
	ov, err := ParseOverrides(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ov, nil
}

// ParseOverrides reads "fiscal_year,code,rate[,category]" records. A leading
// header row starting with "fiscal_year" is skipped, as are lines whose
// first cell starts with "#".
func ParseOverrides(r io.Reader) ([]Override, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comment = '#'

	var out []Override
	line := 0
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read overrides: %w", err)
		}
		line++
		if line == 1 && strings.EqualFold(strings.TrimSpace(rec[0]), "fiscal_year") {
			continue
		}
		if len(rec) < 3 || len(rec) > 4 {
			return nil, fmt.Errorf("line %d: want 3 or 4 fields, got %d", line, len(rec))
		}
		fy := core.FiscalYear(strings.ToUpper(strings.TrimSpace(rec[0])))
		if !fyLabelPattern.MatchString(string(fy)) {
			return nil, fmt.Errorf("line %d: invalid fiscal year %q", line, rec[0])
		}
		code := strings.TrimSpace(rec[1])
		if code == "" {
			return nil, fmt.Errorf("line %d: empty billing code", line)
		}
		cents, err := core.ParseDecimalToCents(rec[2])
		if err != nil {
			return nil, fmt.Errorf("line %d: rate %q: %w", line, rec[2], err)
		}
		o := Override{FiscalYear: fy, Code: code, Rate: core.Money{Cents: cents}}
		if len(rec) == 4 && strings.TrimSpace(rec[3]) != "" {
			cat, err := ParseCategory(strings.ToLower(strings.TrimSpace(rec[3])))
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			o.Category = cat
		}
		out = append(out, o)
	}
	return out, nil
}

// Apply returns a copy of def with the overrides applied. The overridden
// year becomes explicit, so carry-forward no longer fills that code there
// but does propagate it onward to later years.
func (def Definition) Apply(overrides []Override) Definition {
	out := Definition{
		Schedules:    make(map[core.FiscalYear]Schedule, len(def.Schedules)),
		CarryForward: append([]CarryForward(nil), def.CarryForward...),
		Categories:   make(map[string]Category, len(def.Categories)),
	}
	for fy, s := range def.Schedules {
		cp := make(Schedule, len(s))
		for code, r := range s {
			cp[code] = r
		}
		out.Schedules[fy] = cp
	}
	for code, c := range def.Categories {
		out.Categories[code] = c
	}
	for _, o := range overrides {
		s, ok := out.Schedules[o.FiscalYear]
		if !ok {
			s = Schedule{}
			out.Schedules[o.FiscalYear] = s
		}
		s[o.Code] = o.Rate
		if o.Category != CategoryUnknown {
			out.Categories[o.Code] = o.Category
		}
	}
	return out
}
