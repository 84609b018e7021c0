package optimizer

import "battery-scheduler/internal/model"

// Params are the search and scoring tunables. They are fixed at construction.
type Params struct {
	// Gamma weighs wasted PV against imported energy in the cost.
	Gamma float64 `yaml:"gamma" json:"gamma"`
	// Lambda is the per-hour lateness penalty on t_night.
	Lambda float64 `yaml:"lambda" json:"lambda"`

	IrradianceThreshold float64 `yaml:"irradiance_threshold" json:"irradiance_threshold"`
	PVActiveThresholdKW float64 `yaml:"pv_active_threshold_kw" json:"pv_active_threshold_kw"`
	EveningMinHour      float64 `yaml:"evening_min_hour" json:"evening_min_hour"`
	EveningMaxHour      float64 `yaml:"evening_max_hour" json:"evening_max_hour"`
	EveningDefaultHour  float64 `yaml:"evening_default_hour" json:"evening_default_hour"`

	SearchStepMinutes int     `yaml:"search_step_minutes" json:"search_step_minutes"`
	SearchStartHour   float64 `yaml:"search_start_hour" json:"search_start_hour"`
	SearchEndHour     float64 `yaml:"search_end_hour" json:"search_end_hour"`
	// SearchUntilEvening widens the window to every step before t_even and
	// ignores SearchEndHour.
	SearchUntilEvening bool `yaml:"search_until_evening" json:"search_until_evening"`

	// Workers bounds parallel candidate evaluation.
	Workers int `yaml:"workers" json:"workers"`
}

func DefaultParams() Params {
	return Params{
		Gamma:               2.0,
		Lambda:              0.3,
		IrradianceThreshold: 20,
		PVActiveThresholdKW: 0.05,
		EveningMinHour:      17,
		EveningMaxHour:      23,
		EveningDefaultHour:  20,
		SearchStepMinutes:   15,
		SearchStartHour:     0,
		SearchEndHour:       5,
		Workers:             1,
	}
}

// Validate checks ranges. An empty search window (start >= end) is not a
// configuration error; Optimize reports it as model.ErrNoCandidate.
func (p Params) Validate() error {
	weights := []struct {
		name string
		v    float64
	}{
		{"gamma", p.Gamma},
		{"lambda", p.Lambda},
		{"irradiance_threshold", p.IrradianceThreshold},
		{"pv_active_threshold_kw", p.PVActiveThresholdKW},
	}
	for _, w := range weights {
		if !model.IsFinite(w.v) || w.v < 0 {
			return model.ConfigErrorf("%s must be finite and >= 0 (got %v)", w.name, w.v)
		}
	}
	if !inDay(p.EveningMinHour) || !inDay(p.EveningMaxHour) || p.EveningMinHour <= 0 || p.EveningMinHour > p.EveningMaxHour {
		return model.ConfigErrorf("evening clamp must satisfy 0 < min <= max <= 24 (got [%v, %v])", p.EveningMinHour, p.EveningMaxHour)
	}
	if !inDay(p.EveningDefaultHour) || p.EveningDefaultHour <= 0 {
		return model.ConfigErrorf("evening_default_hour must be in (0, 24] (got %v)", p.EveningDefaultHour)
	}
	if p.SearchStepMinutes <= 0 || p.SearchStepMinutes > 24*60 {
		return model.ConfigErrorf("search_step_minutes must be in [1, 1440] (got %d)", p.SearchStepMinutes)
	}
	if !inDay(p.SearchStartHour) || !inDay(p.SearchEndHour) {
		return model.ConfigErrorf("search window must lie within [0, 24] (got [%v, %v])", p.SearchStartHour, p.SearchEndHour)
	}
	if p.Workers < 1 {
		return model.ConfigErrorf("workers must be >= 1 (got %d)", p.Workers)
	}
	return nil
}

func inDay(h float64) bool {
	return model.IsFinite(h) && h >= 0 && h <= 24
}
