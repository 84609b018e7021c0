package report

import (
	"encoding/csv"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"battery-scheduler/internal/model"
)

var traceHeader = []string{
	"timestamp",
	"regime",
	"action",
	"pv_kw",
	"load_kw",
	"batt_kw",
	"soc_pct",
	"grid_import_kw",
	"wasted_pv_kw",
}

// WriteTrace writes records as CSV, one row per simulated point.
func WriteTrace(w io.Writer, records []model.SimulationRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(traceHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			fmtTime(r.Timestamp),
			r.Regime.String(),
			string(r.Action()),
			fmtFloat(r.PVKW),
			fmtFloat(r.LoadKW),
			fmtFloat(r.BattKW),
			fmtFloat(r.SOCPct),
			fmtFloat(r.GridImportKW),
			fmtFloat(r.WastedPVKW),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteTraceCSV writes the trace to path, creating parent directories.
func WriteTraceCSV(path string, records []model.SimulationRecord) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteTrace(f, records); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// SimulationPath is the trace file placed next to a forecast input,
// e.g. 2025-06-01_predictions.csv -> 2025-06-01_predictions_soc_sim.csv.
func SimulationPath(forecastPath string) string {
	ext := filepath.Ext(forecastPath)
	return strings.TrimSuffix(forecastPath, ext) + "_soc_sim.csv"
}

func fmtTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func fmtFloat(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
