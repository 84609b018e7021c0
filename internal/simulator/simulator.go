package simulator

import (
	"battery-scheduler/internal/model"
)

// Simulator replays one day of energy flow for a fixed battery configuration.
// It holds no mutable state and is safe for concurrent use.
type Simulator struct {
	params model.BatteryParams
}

// New validates params and returns a Simulator. Invalid parameters fail here,
// before any simulation runs.
func New(params model.BatteryParams) (*Simulator, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Simulator{params: params}, nil
}

func (s *Simulator) Params() model.BatteryParams { return s.params }

// Simulate runs the day starting from a full battery (MaxSOCPct).
func (s *Simulator) Simulate(points []model.ForecastPoint, tNight, tEven float64) ([]model.SimulationRecord, error) {
	return s.SimulateFrom(points, tNight, tEven, s.params.MaxSOCPct)
}

// SimulateFrom runs the day starting at soc0Pct, which is clamped into the
// operating bounds. tNight and tEven are fractional hours with
// 0 <= tNight < tEven <= 24.
func (s *Simulator) SimulateFrom(points []model.ForecastPoint, tNight, tEven, soc0Pct float64) ([]model.SimulationRecord, error) {
	if !model.IsFinite(tNight) || !model.IsFinite(tEven) || tNight < 0 || tNight >= tEven || tEven > 24 {
		return nil, model.InvalidInputf("switch times must satisfy 0 <= t_night < t_even <= 24 (got %v, %v)", tNight, tEven)
	}
	if !model.IsFinite(soc0Pct) {
		return nil, model.InvalidInputf("initial SOC must be finite")
	}
	if len(points) == 0 {
		return []model.SimulationRecord{}, nil
	}
	if err := model.ValidatePoints(points); err != nil {
		return nil, err
	}
	dtH, err := model.StepHours(points)
	if err != nil {
		return nil, err
	}

	p := s.params
	soc := p.ClampSOC(soc0Pct)
	records := make([]model.SimulationRecord, 0, len(points))

	for _, pt := range points {
		regime := model.ClassifyRegime(model.HourOfDay(pt.Timestamp), tNight, tEven)
		st := regimes[regime](p, soc, pt.PVKW*dtH, pt.LoadKW*dtH)

		// Clamp before recording and before the next point starts from it.
		soc = p.ClampSOC(st.socPct)

		records = append(records, model.SimulationRecord{
			Timestamp:    pt.Timestamp,
			Regime:       regime,
			PVKW:         pt.PVKW,
			LoadKW:       pt.LoadKW,
			BattKW:       st.battKWh / dtH,
			SOCPct:       soc,
			GridImportKW: st.gridKWh / dtH,
			WastedPVKW:   st.wastedKWh / dtH,
		})
	}

	return records, nil
}
