package simulator

import (
	"math"

	"battery-scheduler/internal/model"
)

// step is the outcome of one forecast point, in kWh over the step duration.
// socPct is the unclamped SOC after the step.
type step struct {
	battKWh   float64
	gridKWh   float64
	wastedKWh float64
	socPct    float64
}

type regimeFunc func(p model.BatteryParams, socPct, pvKWh, loadKWh float64) step

// regimes holds one handler per model.Regime.
var regimes = [...]regimeFunc{
	model.RegimeNight:   nightStep,
	model.RegimeDay:     dayStep,
	model.RegimeEvening: eveningStep,
}

// nightStep serves the whole load from the battery; PV is ignored.
func nightStep(p model.BatteryParams, socPct, _, loadKWh float64) step {
	return discharge(p, socPct, loadKWh)
}

// dayStep balances PV against load first. Surplus is stored after charge
// efficiency up to the headroom and the rest is wasted; a deficit follows the
// night discharge rule.
func dayStep(p model.BatteryParams, socPct, pvKWh, loadKWh float64) step {
	net := pvKWh - loadKWh
	if net < 0 {
		return discharge(p, socPct, -net)
	}
	offered := net * p.ChargeEfficiency
	stored := math.Min(offered, p.HeadroomKWh(socPct))
	return step{
		battKWh:   stored,
		wastedKWh: offered - stored,
		socPct:    socPct + p.PctFromKWh(stored),
	}
}

// eveningStep recharges to MaxSOCPct from the grid while the grid also serves the load.
func eveningStep(p model.BatteryParams, socPct, _, loadKWh float64) step {
	needed := p.HeadroomKWh(socPct)
	return step{
		battKWh: needed,
		gridKWh: loadKWh + needed/p.ChargeEfficiency,
		socPct:  p.MaxSOCPct,
	}
}

// discharge draws demandKWh (load side) from the battery, capped by the energy
// above MinSOCPct before efficiency is applied. The shortfall is imported.
func discharge(p model.BatteryParams, socPct, demandKWh float64) step {
	drawn := math.Min(demandKWh/p.DischargeEfficiency, p.AvailableKWh(socPct))
	delivered := drawn * p.DischargeEfficiency
	s := step{
		gridKWh: math.Max(0, demandKWh-delivered),
		socPct:  socPct - p.PctFromKWh(drawn),
	}
	if drawn > 0 {
		s.battKWh = -drawn
	}
	return s
}
