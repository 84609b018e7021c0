package data

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"battery-scheduler/internal/model"
)

// timestampLayouts are tried in order. Layouts without an offset are read in
// the caller's location.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp parses s with the accepted layouts; zone-less values use loc.
func ParseTimestamp(s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}

// table is a CSV body with a header index.
type table struct {
	cols map[string]int
	rows [][]string
}

func readTable(r io.Reader) (*table, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, model.InvalidInputf("read csv: %v", err)
	}
	if len(records) == 0 {
		return nil, model.InvalidInputf("csv has no header")
	}
	cols := make(map[string]int, len(records[0]))
	for i, h := range records[0] {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return &table{cols: cols, rows: records[1:]}, nil
}

// column returns the index of the first present name.
func (t *table) column(names ...string) (int, error) {
	for _, n := range names {
		if i, ok := t.cols[n]; ok {
			return i, nil
		}
	}
	return 0, model.InvalidInputf("missing column %s", strings.Join(names, " or "))
}

func parseFloatCell(row []string, col, line int, name string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
	if err != nil {
		return 0, model.InvalidInputf("line %d: %s: %v", line, name, err)
	}
	return v, nil
}

func parseTimeCell(row []string, col, line int, loc *time.Location) (time.Time, error) {
	ts, err := ParseTimestamp(row[col], loc)
	if err != nil {
		return time.Time{}, model.InvalidInputf("line %d: %v", line, err)
	}
	return ts, nil
}
