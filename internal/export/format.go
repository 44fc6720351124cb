// Package export writes the encounter-level table, the monthly rollups, and
// the takeover trend report to an output directory.
package export

import (
	"fmt"
	"strings"
)

// Format is an output file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatParquet Format = "parquet"
	FormatJSON    Format = "json"
)

// IsValid reports whether f is a supported format.
func (f Format) IsValid() bool {
	switch f {
	case FormatCSV, FormatParquet, FormatJSON:
		return true
	}
	return false
}

// ParseFormats parses a comma-separated list such as "csv,parquet".
// Duplicates are dropped; order is preserved.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := map[Format]bool{}
	for _, part := range strings.Split(s, ",") {
		f := Format(strings.ToLower(strings.TrimSpace(part)))
		if f == "" {
			continue
		}
		if !f.IsValid() {
			return nil, fmt.Errorf("unsupported output format %q: must be one of csv, parquet, json", part)
		}
		if seen[f] {
			continue
		}
		seen[f] = true
		out = append(out, f)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no output format given")
	}
	return out, nil
}
