package model

import (
	"fmt"
	"time"
)

// Regime is the operating regime a forecast point falls into.
type Regime int

const (
	// RegimeNight: the battery alone serves the load.
	RegimeNight Regime = iota
	// RegimeDay: PV serves the load first, surplus charges, deficit discharges.
	RegimeDay
	// RegimeEvening: the grid serves the load and tops the battery up.
	RegimeEvening
)

func (r Regime) String() string {
	switch r {
	case RegimeNight:
		return "night"
	case RegimeDay:
		return "day"
	case RegimeEvening:
		return "evening"
	default:
		return "unknown"
	}
}

func (r Regime) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Regime) UnmarshalText(b []byte) error {
	switch string(b) {
	case "night":
		*r = RegimeNight
	case "day":
		*r = RegimeDay
	case "evening":
		*r = RegimeEvening
	default:
		return fmt.Errorf("unknown regime %q", b)
	}
	return nil
}

// ClassifyRegime selects the regime for a fractional hour. Boundaries are
// inclusive at the start of each regime.
func ClassifyRegime(hour, tNight, tEven float64) Regime {
	switch {
	case hour < tNight:
		return RegimeNight
	case hour < tEven:
		return RegimeDay
	default:
		return RegimeEvening
	}
}

// SimulationRecord is one output row per ForecastPoint.
// BattKW is signed: positive = into the battery, negative = drawn from it,
// measured on the battery side.
type SimulationRecord struct {
	Timestamp    time.Time `json:"timestamp"`
	Regime       Regime    `json:"regime"`
	PVKW         float64   `json:"pv_kw"`
	LoadKW       float64   `json:"load_kw"`
	BattKW       float64   `json:"batt_kw"`
	SOCPct       float64   `json:"soc_pct"`
	GridImportKW float64   `json:"grid_import_kw"`
	WastedPVKW   float64   `json:"wasted_pv_kw"`
}

func (r SimulationRecord) Action() Action {
	return ActionFromBatteryKW(r.BattKW)
}
