package simulator

import "battery-scheduler/internal/model"

// Totals aggregates a simulation trace into energies (kWh).
type Totals struct {
	PVKWh         float64 `json:"pv_kwh"`
	LoadKWh       float64 `json:"load_kwh"`
	GridImportKWh float64 `json:"grid_import_kwh"`
	WastedPVKWh   float64 `json:"wasted_pv_kwh"`
	ChargedKWh    float64 `json:"charged_kwh"`
	DischargedKWh float64 `json:"discharged_kwh"`
	FinalSOCPct   float64 `json:"final_soc_pct"`
}

// Summarize sums the power columns of records and scales them by the step
// duration. Records are assumed to come from one Simulate call.
func Summarize(records []model.SimulationRecord) Totals {
	var t Totals
	if len(records) == 0 {
		return t
	}
	dtH := 1.0
	if len(records) > 1 {
		dtH = records[1].Timestamp.Sub(records[0].Timestamp).Hours()
	}

	for _, r := range records {
		t.PVKWh += r.PVKW
		t.LoadKWh += r.LoadKW
		t.GridImportKWh += r.GridImportKW
		t.WastedPVKWh += r.WastedPVKW
		if r.BattKW > 0 {
			t.ChargedKWh += r.BattKW
		} else {
			t.DischargedKWh -= r.BattKW
		}
	}
	t.PVKWh *= dtH
	t.LoadKWh *= dtH
	t.GridImportKWh *= dtH
	t.WastedPVKWh *= dtH
	t.ChargedKWh *= dtH
	t.DischargedKWh *= dtH
	t.FinalSOCPct = records[len(records)-1].SOCPct
	return t
}
