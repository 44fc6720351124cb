// Package memory serves a billing export held in memory.
package memory

import (
	"context"
	"sync"

	"clinicrev/internal/core"
	ports "clinicrev/internal/sheets"
)

var _ ports.ExportReader = (*Store)(nil)

type Store struct {
	mu  sync.Mutex
	tbl core.RawTable
}

// New stores a copy of header and rows.
func New(header []string, rows [][]string) *Store {
	return &Store{tbl: clone(core.RawTable{Header: header, Rows: rows})}
}

// Append adds a data row.
func (s *Store) Append(row ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tbl.Rows = append(s.tbl.Rows, append([]string(nil), row...))
}

// ReadExport returns a copy of the stored table.
func (s *Store) ReadExport(_ context.Context) (core.RawTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.tbl), nil
}

// Describe implements sheets.Describer.
func (s *Store) Describe() string {
	return "memory"
}

func clone(t core.RawTable) core.RawTable {
	out := core.RawTable{
		Header: append([]string(nil), t.Header...),
		Rows:   make([][]string, len(t.Rows)),
	}
	for i, r := range t.Rows {
		out.Rows[i] = append([]string(nil), r...)
	}
	return out
}
