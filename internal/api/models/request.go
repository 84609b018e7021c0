package models

import (
	"encoding/json"

	"battery-scheduler/internal/model"
)

// OptimizeRequest represents the request body for POST /api/v1/optimize.
// Battery and Optimizer are partial JSON objects laid over the server's
// effective configuration; fields they omit keep the server value.
type OptimizeRequest struct {
	Date      string                `json:"date,omitempty"` // YYYY-MM-DD, default: date of the first point
	Points    []model.ForecastPoint `json:"points"`
	Weather   []model.HourlyWeather `json:"weather,omitempty"`
	Battery   json.RawMessage       `json:"battery,omitempty"`
	Optimizer json.RawMessage       `json:"optimizer,omitempty"`
	Options   OptimizeOptions       `json:"options,omitempty"`
}

// OptimizeOptions selects the diagnostics included in the response.
type OptimizeOptions struct {
	IncludeTrace      bool `json:"include_trace,omitempty"`
	IncludeCandidates bool `json:"include_candidates,omitempty"`
}

// SimulateRequest represents the request body for POST /api/v1/simulate.
type SimulateRequest struct {
	Points  []model.ForecastPoint `json:"points"`
	TNight  string                `json:"t_night" binding:"required"` // HH:MM
	TEven   string                `json:"t_even" binding:"required"`  // HH:MM
	Battery json.RawMessage       `json:"battery,omitempty"`
	// SOCStartPct accepts a fraction (<= 1) or a percentage; default: battery start SOC.
	SOCStartPct *float64 `json:"soc_start_pct,omitempty"`
}

// CompareRequest runs the optimizer once per variation over the same forecast.
type CompareRequest struct {
	Points     []model.ForecastPoint `json:"points"`
	Weather    []model.HourlyWeather `json:"weather,omitempty"`
	Variations []Variation           `json:"variations" binding:"required,min=1,dive"`
}

// Variation defines one configuration to compare.
type Variation struct {
	Name      string          `json:"name" binding:"required"`
	Battery   json.RawMessage `json:"battery,omitempty"`
	Optimizer json.RawMessage `json:"optimizer,omitempty"`
}
