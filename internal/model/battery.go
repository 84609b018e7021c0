package model

import "math"

// BatteryParams defines the physical parameters of the home battery.
// Units:
// - CapacityKWh: kWh
// - Efficiencies: (0..1]
// - SOC bounds: percent of capacity
type BatteryParams struct {
	CapacityKWh         float64 `json:"capacity_kwh"`
	ChargeEfficiency    float64 `json:"charge_efficiency"`
	DischargeEfficiency float64 `json:"discharge_efficiency"`
	MinSOCPct           float64 `json:"min_soc_pct"`
	MaxSOCPct           float64 `json:"max_soc_pct"`
}

// DefaultBatteryParams returns the reference 5 kWh configuration.
func DefaultBatteryParams() BatteryParams {
	return BatteryParams{
		CapacityKWh:         5.0,
		ChargeEfficiency:    0.95,
		DischargeEfficiency: 0.90,
		MinSOCPct:           10,
		MaxSOCPct:           95,
	}
}

func (p BatteryParams) Validate() error {
	if !IsFinite(p.CapacityKWh) || p.CapacityKWh <= 0 {
		return ConfigErrorf("CapacityKWh must be > 0")
	}
	if !IsFinite(p.ChargeEfficiency) || p.ChargeEfficiency <= 0 || p.ChargeEfficiency > 1 {
		return ConfigErrorf("ChargeEfficiency must be in (0, 1]")
	}
	if !IsFinite(p.DischargeEfficiency) || p.DischargeEfficiency <= 0 || p.DischargeEfficiency > 1 {
		return ConfigErrorf("DischargeEfficiency must be in (0, 1]")
	}
	if !IsFinite(p.MinSOCPct) || !IsFinite(p.MaxSOCPct) ||
		p.MinSOCPct < 0 || p.MaxSOCPct > 100 || p.MinSOCPct >= p.MaxSOCPct {
		return ConfigErrorf("MinSOCPct/MaxSOCPct must satisfy 0<=MinSOCPct<MaxSOCPct<=100")
	}
	return nil
}

// ClampSOC bounds a SOC percentage to [MinSOCPct, MaxSOCPct].
func (p BatteryParams) ClampSOC(socPct float64) float64 {
	if socPct < p.MinSOCPct {
		return p.MinSOCPct
	}
	if socPct > p.MaxSOCPct {
		return p.MaxSOCPct
	}
	return socPct
}

// AvailableKWh is the stored energy above the SOC floor.
func (p BatteryParams) AvailableKWh(socPct float64) float64 {
	return math.Max(0, (socPct-p.MinSOCPct)*p.CapacityKWh/100)
}

// HeadroomKWh is the energy that can still be stored before the SOC ceiling.
func (p BatteryParams) HeadroomKWh(socPct float64) float64 {
	return math.Max(0, (p.MaxSOCPct-socPct)*p.CapacityKWh/100)
}

// PctFromKWh converts an energy amount to a SOC percentage delta.
func (p BatteryParams) PctFromKWh(kwh float64) float64 {
	return kwh * 100 / p.CapacityKWh
}

// NormalizeSOCPct accepts either a fraction (<= 1) or a percentage and returns a percentage.
func NormalizeSOCPct(v float64) float64 {
	if v <= 1 {
		return v * 100
	}
	return v
}

// IsFinite reports whether x is neither NaN nor infinite.
func IsFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
