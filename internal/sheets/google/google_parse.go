package google

import (
	"fmt"
	"strconv"
	"strings"

	"clinicrev/internal/core"
)

// parseValues converts a values matrix (as returned by the Sheets API) into
// a raw table. The first row is the header. Trailing empty cells are
// omitted by the API, so rows may be shorter than the header; rows that are
// entirely blank are dropped.
func parseValues(values [][]interface{}) core.RawTable {
	if len(values) == 0 {
		return core.RawTable{}
	}
	tbl := core.RawTable{Header: toStrings(values[0])}
	for _, raw := range values[1:] {
		row := toStrings(raw)
		if isBlank(row) {
			continue
		}
		tbl.Rows = append(tbl.Rows, row)
	}
	return tbl
}

func toStrings(in []interface{}) []string {
	out := make([]string, len(in))
	for i, v := range in {
		switch x := v.(type) {
		case nil:
			out[i] = ""
		case string:
			out[i] = x
		case float64:
			out[i] = strconv.FormatFloat(x, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(x)
		}
	}
	return out
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
