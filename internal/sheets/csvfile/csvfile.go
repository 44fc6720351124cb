// Package csvfile reads a billing export saved as CSV.
package csvfile

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"clinicrev/internal/core"
	ports "clinicrev/internal/sheets"
)

var (
	_ ports.ExportReader = (*Reader)(nil)
	_ ports.Describer    = (*Reader)(nil)
)

// ErrEmptyExport is returned when the file has no header row.
var ErrEmptyExport = errors.New("export has no header row")

// Reader reads one CSV export file.
type Reader struct {
	path string
}

// New returns a Reader for path.
func New(path string) *Reader {
	return &Reader{path: path}
}

// ReadExport implements sheets.ExportReader.
func (r *Reader) ReadExport(ctx context.Context) (core.RawTable, error) {
	f, err := os.Open(r.path)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer f.Close()
	tbl, err := Decode(ctx, f)
	if err != nil {
		return core.RawTable{}, fmt.Errorf("%s: %w", r.path, err)
	}
	return tbl, nil
}

// Describe implements sheets.Describer.
func (r *Reader) Describe() string {
	return "csv:" + r.path
}

// Decode reads a header row and all data rows from src. A UTF-8 BOM is
// skipped, quotes are parsed leniently, and rows may have any width.
func Decode(ctx context.Context, src io.Reader) (core.RawTable, error) {
	bufReader := bufio.NewReaderSize(src, 256*1024)

	if bom, err := bufReader.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return core.RawTable{}, ErrEmptyExport
	}
	if err != nil {
		return core.RawTable{}, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	tbl := core.RawTable{Header: header}
	for line := 2; ; line++ {
		if line%10_000 == 0 {
			if err := ctx.Err(); err != nil {
				return core.RawTable{}, err
			}
		}
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return core.RawTable{}, fmt.Errorf("read row %d: %w", line, err)
		}
		tbl.Rows = append(tbl.Rows, rec)
	}
	return tbl, nil
}
