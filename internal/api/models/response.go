package models

import (
	"battery-scheduler/internal/config"
	"battery-scheduler/internal/model"
	"battery-scheduler/internal/optimizer"
	"battery-scheduler/internal/report"
)

// OptimizeResponse represents the response from an optimization run
type OptimizeResponse struct {
	Schedule   optimizer.Result           `json:"schedule"`
	Summary    report.Summary             `json:"summary"`
	Message    string                     `json:"message"`
	Trace      []TraceRow                 `json:"trace,omitempty"`
	Candidates []optimizer.CandidateScore `json:"candidates,omitempty"`
}

// SimulateResponse represents the response from a fixed-schedule simulation
type SimulateResponse struct {
	Records []TraceRow     `json:"records"`
	Summary report.Summary `json:"summary"`
}

// TraceRow is one simulated point with its derived action
type TraceRow struct {
	model.SimulationRecord
	Action model.Action `json:"action"`
}

func TraceRows(records []model.SimulationRecord) []TraceRow {
	rows := make([]TraceRow, len(records))
	for i, r := range records {
		rows[i] = TraceRow{SimulationRecord: r, Action: r.Action()}
	}
	return rows
}

// CompareResponse represents the response from a comparison
type CompareResponse struct {
	Comparison []ComparisonResult `json:"comparison"`
}

// ComparisonResult contains results for one variation; Error is set when
// the variation could not be optimized.
type ComparisonResult struct {
	Name     string            `json:"name"`
	Schedule *optimizer.Result `json:"schedule,omitempty"`
	Error    *ErrorDetail      `json:"error,omitempty"`
}

// BatteryInfo represents information about a battery preset
type BatteryInfo struct {
	ID      string               `json:"id"`
	Name    string               `json:"name"`
	File    string               `json:"file"`
	Battery config.BatteryConfig `json:"battery"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains error information
type ErrorDetail struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}
