package report

import (
	"fmt"
	"strings"
	"time"

	"battery-scheduler/internal/model"
	"battery-scheduler/internal/optimizer"
	"battery-scheduler/internal/simulator"
)

// Summary is the daily outcome handed to people: the chosen switch times
// plus the forecast and simulated energy totals.
type Summary struct {
	Date          string                  `json:"date"`
	TNight        string                  `json:"t_night"`
	TEven         string                  `json:"t_even"`
	EveningPolicy optimizer.EveningPolicy `json:"evening_policy,omitempty"`
	PVKWh         float64                 `json:"pv_kwh"`
	LoadKWh       float64                 `json:"load_kwh"`
	GridImportKWh float64                 `json:"grid_import_kwh"`
	WastedPVKWh   float64                 `json:"wasted_pv_kwh"`
	SOCEndPct     float64                 `json:"soc_end_pct"`
	Cost          float64                 `json:"cost"`
}

// FromResult summarizes an optimizer result for day.
func FromResult(day time.Time, res *optimizer.Result) Summary {
	tot := simulator.Summarize(res.Trace)
	return Summary{
		Date:          day.Format("2006-01-02"),
		TNight:        res.TNightClock,
		TEven:         res.TEvenClock,
		EveningPolicy: res.EveningPolicy,
		PVKWh:         tot.PVKWh,
		LoadKWh:       tot.LoadKWh,
		GridImportKWh: res.TotalGridImportKWh,
		WastedPVKWh:   res.TotalWastedPVKWh,
		SOCEndPct:     res.SOCEndPct,
		Cost:          res.Cost,
	}
}

// FromTrace summarizes a standalone simulation with fixed switch times.
func FromTrace(day time.Time, tNight, tEven float64, records []model.SimulationRecord) Summary {
	tot := simulator.Summarize(records)
	return Summary{
		Date:          day.Format("2006-01-02"),
		TNight:        model.FormatClock(tNight),
		TEven:         model.FormatClock(tEven),
		PVKWh:         tot.PVKWh,
		LoadKWh:       tot.LoadKWh,
		GridImportKWh: tot.GridImportKWh,
		WastedPVKWh:   tot.WastedPVKWh,
		SOCEndPct:     tot.FinalSOCPct,
	}
}

// Message renders the summary as a multi-line notification.
func (s Summary) Message() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Battery schedule for %s\n", s.Date)
	fmt.Fprintf(&b, "Night switch (to battery): %s\n", s.TNight)
	fmt.Fprintf(&b, "Evening switch (to grid): %s\n", s.TEven)
	fmt.Fprintf(&b, "Forecast generation: %.2f kWh\n", s.PVKWh)
	fmt.Fprintf(&b, "Forecast consumption: %.2f kWh\n", s.LoadKWh)
	fmt.Fprintf(&b, "Grid import: %.2f kWh\n", s.GridImportKWh)
	if s.WastedPVKWh > 0 {
		fmt.Fprintf(&b, "Wasted PV: %.2f kWh\n", s.WastedPVKWh)
	}
	fmt.Fprintf(&b, "Final SOC: %.1f%%", s.SOCEndPct)
	return b.String()
}
