package sheets

import (
	"context"

	"clinicrev/internal/core"
)

// Ports for inbound adapters.
type (
	// ExportReader loads one billing export as a raw table.
	ExportReader interface {
		ReadExport(ctx context.Context) (core.RawTable, error)
	}

	// Describer names an export source for logs, e.g. a file path or
	// spreadsheet range.
	Describer interface {
		Describe() string
	}
)

// Describe returns r's description, or its type when it has none.
func Describe(r ExportReader) string {
	if d, ok := r.(Describer); ok {
		return d.Describe()
	}
	return "export"
}
