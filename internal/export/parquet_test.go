package export

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/parquet-go/parquet-go"
)

// readParquet reads every row of a file written by writeParquet.
func readParquet[T any](path string) ([]T, error) {
	rows, err := parquet.ReadFile[T](path)
	if err != nil {
		return nil, fmt.Errorf("read parquet: %w", err)
	}
	return rows, nil
}

func TestWriteParquetAcrossFlushes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "totals.parquet")
	in := make([]MonthlyTotalRow, flushInterval+3)
	for i := range in {
		in[i] = MonthlyTotalRow{Month: "2023-07-01", Encounters: int64(i), Revenue: 1.5}
	}
	if err := writeParquet(path, in); err != nil {
		t.Fatalf("writeParquet: %v", err)
	}
	got, err := readParquet[MonthlyTotalRow](path)
	if err != nil {
		t.Fatalf("readParquet: %v", err)
	}
	if len(got) != len(in) {
		t.Fatalf("rows = %d, want %d", len(got), len(in))
	}
	if got[len(got)-1].Encounters != int64(len(in)-1) {
		t.Errorf("last row = %+v", got[len(got)-1])
	}
}
