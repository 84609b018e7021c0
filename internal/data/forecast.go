package data

import (
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"battery-scheduler/internal/model"
)

// ReadForecastCSV parses timestamp,pv_kw,load_kw rows (pv_kw_pred and
// load_kw_pred are accepted too) and returns them sorted by time.
func ReadForecastCSV(r io.Reader, loc *time.Location) ([]model.ForecastPoint, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}
	tsCol, err := t.column("timestamp", "time")
	if err != nil {
		return nil, err
	}
	pvCol, err := t.column("pv_kw", "pv_kw_pred")
	if err != nil {
		return nil, err
	}
	loadCol, err := t.column("load_kw", "load_kw_pred")
	if err != nil {
		return nil, err
	}

	points := make([]model.ForecastPoint, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		ts, err := parseTimeCell(row, tsCol, line, loc)
		if err != nil {
			return nil, err
		}
		pv, err := parseFloatCell(row, pvCol, line, "pv_kw")
		if err != nil {
			return nil, err
		}
		load, err := parseFloatCell(row, loadCol, line, "load_kw")
		if err != nil {
			return nil, err
		}
		points = append(points, model.ForecastPoint{Timestamp: ts.In(loc), PVKW: pv, LoadKW: load})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Timestamp.Before(points[j].Timestamp)
	})
	return points, nil
}

// LoadForecast reads a forecast file. Files ending in .json are decoded as
// JSON, anything else as CSV.
func LoadForecast(path string, loc *time.Location) ([]model.ForecastPoint, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadForecastJSON(path, loc)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadForecastCSV(f, loc)
}
