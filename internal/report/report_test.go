package report

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-scheduler/internal/model"
	"battery-scheduler/internal/optimizer"
)

var day = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

func sampleTrace() []model.SimulationRecord {
	return []model.SimulationRecord{
		{Timestamp: day, Regime: model.RegimeNight, LoadKW: 1, BattKW: -1.0 / 0.9, SOCPct: 72.777778},
		{Timestamp: day.Add(time.Hour), Regime: model.RegimeDay, PVKW: 3, LoadKW: 1, BattKW: 1.9, SOCPct: 95, WastedPVKW: 0.5},
		{Timestamp: day.Add(2 * time.Hour), Regime: model.RegimeEvening, LoadKW: 0.5, SOCPct: 95, GridImportKW: 0.5},
	}
}

func TestWriteTrace(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTrace(&buf, sampleTrace()))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, traceHeader, rows[0])
	assert.Equal(t, []string{
		"2025-06-01T00:00:00Z", "night", "DISCHARGING",
		"0.000000", "1.000000", "-1.111111", "72.777778", "0.000000", "0.000000",
	}, rows[1])
	assert.Equal(t, "CHARGING", rows[2][2])
	assert.Equal(t, "0.500000", rows[2][8])
	assert.Equal(t, "evening", rows[3][1])
	assert.Equal(t, "IDLE", rows[3][2])
}

func TestWriteTraceCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "2025-06-01_schedule.csv")
	require.NoError(t, WriteTraceCSV(path, sampleTrace()))

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(raw), strings.Join(traceHeader, ",")+"\n"))
	assert.Equal(t, 4, strings.Count(string(raw), "\n"))
}

func TestSimulationPath(t *testing.T) {
	assert.Equal(t, filepath.Join("fc", "2025-06-01_predictions_soc_sim.csv"),
		SimulationPath(filepath.Join("fc", "2025-06-01_predictions.csv")))
	assert.Equal(t, "day_soc_sim.csv", SimulationPath("day"))
}

func TestSummaryMessage(t *testing.T) {
	res := &optimizer.Result{
		TNightClock:        "02:15",
		TEvenClock:         "18:00",
		EveningPolicy:      optimizer.PolicyWeather,
		SOCEndPct:          95,
		TotalGridImportKWh: 3.456,
		TotalWastedPVKWh:   0.5,
		Cost:               5.1,
		Trace:              sampleTrace(),
	}
	s := FromResult(day, res)

	assert.Equal(t, "2025-06-01", s.Date)
	assert.InDelta(t, 3, s.PVKWh, 1e-9)
	assert.InDelta(t, 2.5, s.LoadKWh, 1e-9)

	msg := s.Message()
	assert.Contains(t, msg, "Battery schedule for 2025-06-01\n")
	assert.Contains(t, msg, "Night switch (to battery): 02:15\n")
	assert.Contains(t, msg, "Evening switch (to grid): 18:00\n")
	assert.Contains(t, msg, "Grid import: 3.46 kWh\n")
	assert.Contains(t, msg, "Wasted PV: 0.50 kWh\n")
	assert.True(t, strings.HasSuffix(msg, "Final SOC: 95.0%"))

	s.WastedPVKWh = 0
	assert.NotContains(t, s.Message(), "Wasted PV")
}

func TestFromTrace(t *testing.T) {
	s := FromTrace(day, 1.5, 20, sampleTrace())
	assert.Equal(t, "01:30", s.TNight)
	assert.Equal(t, "20:00", s.TEven)
	assert.InDelta(t, 0.5, s.GridImportKWh, 1e-9)
	assert.InDelta(t, 0.5, s.WastedPVKWh, 1e-9)
	assert.Equal(t, 95.0, s.SOCEndPct)
	assert.Empty(t, s.EveningPolicy)
}
