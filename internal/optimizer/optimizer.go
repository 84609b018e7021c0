package optimizer

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"battery-scheduler/internal/model"
	"battery-scheduler/internal/simulator"
)

// CandidateScore is the outcome of one evaluated night switch time.
type CandidateScore struct {
	TNight        float64 `json:"t_night_hours"`
	TNightClock   string  `json:"t_night"`
	Cost          float64 `json:"cost"`
	GridImportKWh float64 `json:"grid_import_kwh"`
	WastedPVKWh   float64 `json:"wasted_pv_kwh"`
	SOCEndPct     float64 `json:"soc_end_pct"`
}

// before orders candidates by cost, then by earlier t_night.
func (c CandidateScore) before(o CandidateScore) bool {
	if c.Cost != o.Cost {
		return c.Cost < o.Cost
	}
	return c.TNight < o.TNight
}

// Result is the selected schedule and its simulated outcome.
type Result struct {
	TNight             float64       `json:"t_night_hours"`
	TEven              float64       `json:"t_even_hours"`
	TNightClock        string        `json:"t_night"`
	TEvenClock         string        `json:"t_even"`
	SOCEndPct          float64       `json:"soc_end_pct"`
	TotalGridImportKWh float64       `json:"total_grid_import_kwh"`
	TotalWastedPVKWh   float64       `json:"total_wasted_pv_kwh"`
	Cost               float64       `json:"cost"`
	EveningPolicy      EveningPolicy `json:"evening_policy"`

	// Trace is the winning candidate's simulation.
	Trace []model.SimulationRecord `json:"-"`
	// Candidates holds every evaluated candidate sorted by (cost, t_night).
	Candidates []CandidateScore `json:"-"`
}

type Optimizer struct {
	sim    *simulator.Simulator
	params Params
	log    *zap.Logger
}

// New builds an Optimizer around sim. A nil logger disables logging.
func New(sim *simulator.Simulator, params Params, log *zap.Logger) (*Optimizer, error) {
	if sim == nil {
		return nil, model.ConfigErrorf("simulator is nil")
	}
	if err := params.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Optimizer{sim: sim, params: params, log: log}, nil
}

func (o *Optimizer) Params() Params { return o.params }

// EveningTime picks t_even. Usable weather wins; otherwise the PV forecast is used.
// points must be non-empty.
func (o *Optimizer) EveningTime(points []model.ForecastPoint, weather []model.HourlyWeather) (float64, EveningPolicy) {
	if len(weather) > 0 {
		if tEven, ok := o.params.eveningFromWeather(weather, points[0].Timestamp); ok {
			return tEven, PolicyWeather
		}
		o.log.Warn("weather rows unusable, falling back to PV forecast",
			zap.Int("rows", len(weather)),
			zap.Time("day", points[0].Timestamp),
		)
	}
	return o.params.eveningFromPV(points), PolicyPV
}

// Optimize searches for the cheapest schedule starting from a full battery.
func (o *Optimizer) Optimize(ctx context.Context, points []model.ForecastPoint, weather []model.HourlyWeather) (*Result, error) {
	return o.OptimizeFrom(ctx, points, weather, o.sim.Params().MaxSOCPct)
}

// OptimizeFrom is Optimize with an explicit starting SOC.
func (o *Optimizer) OptimizeFrom(ctx context.Context, points []model.ForecastPoint, weather []model.HourlyWeather, soc0Pct float64) (*Result, error) {
	if len(points) == 0 {
		return nil, model.ErrNoForecastData
	}
	if err := model.ValidatePoints(points); err != nil {
		return nil, err
	}
	if _, err := model.StepHours(points); err != nil {
		return nil, err
	}

	tEven, policy := o.EveningTime(points, weather)
	nights, err := o.params.candidates(tEven)
	if err != nil {
		return nil, err
	}

	scores := make([]CandidateScore, len(nights))
	traces := make([][]model.SimulationRecord, len(nights))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.params.Workers)
	for i, tNight := range nights {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			recs, err := o.sim.SimulateFrom(points, tNight, tEven, soc0Pct)
			if err != nil {
				return fmt.Errorf("candidate %s: %w", model.FormatClock(tNight), err)
			}
			tot := simulator.Summarize(recs)
			scores[i] = CandidateScore{
				TNight:        tNight,
				TNightClock:   model.FormatClock(tNight),
				Cost:          tot.GridImportKWh + o.params.Gamma*tot.WastedPVKWh + o.params.Lambda*tNight,
				GridImportKWh: tot.GridImportKWh,
				WastedPVKWh:   tot.WastedPVKWh,
				SOCEndPct:     tot.FinalSOCPct,
			}
			traces[i] = recs
			o.log.Debug("candidate evaluated",
				zap.String("t_night", scores[i].TNightClock),
				zap.Float64("cost", scores[i].Cost),
				zap.Float64("grid_import_kwh", tot.GridImportKWh),
				zap.Float64("wasted_pv_kwh", tot.WastedPVKWh),
			)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	best := 0
	for i := range scores {
		if scores[i].before(scores[best]) {
			best = i
		}
	}
	win := scores[best]

	ranked := make([]CandidateScore, len(scores))
	copy(ranked, scores)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].before(ranked[j]) })

	res := &Result{
		TNight:             win.TNight,
		TEven:              tEven,
		TNightClock:        win.TNightClock,
		TEvenClock:         model.FormatClock(tEven),
		SOCEndPct:          win.SOCEndPct,
		TotalGridImportKWh: win.GridImportKWh,
		TotalWastedPVKWh:   win.WastedPVKWh,
		Cost:               win.Cost,
		EveningPolicy:      policy,
		Trace:              traces[best],
		Candidates:         ranked,
	}

	o.log.Info("schedule selected",
		zap.String("t_night", res.TNightClock),
		zap.String("t_even", res.TEvenClock),
		zap.String("evening_policy", string(policy)),
		zap.Int("candidates", len(nights)),
		zap.Float64("cost", res.Cost),
		zap.Float64("grid_import_kwh", res.TotalGridImportKWh),
		zap.Float64("wasted_pv_kwh", res.TotalWastedPVKWh),
		zap.Float64("soc_end_pct", res.SOCEndPct),
	)
	return res, nil
}
