package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"battery-scheduler/internal/data"
	"battery-scheduler/internal/notify"
	"battery-scheduler/internal/optimizer"
	"battery-scheduler/internal/report"
)

// Pipeline runs one day end to end: load the per-date files, optimize,
// write the trace and notify.
type Pipeline struct {
	Layout    data.Layout
	Optimizer *optimizer.Optimizer
	// StartSOCPct is the SOC the day starts with.
	StartSOCPct float64
	Notifier    notify.Notifier
	Log         *zap.Logger
}

func (p *Pipeline) Run(ctx context.Context, day time.Time) (*report.Summary, error) {
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}
	date := day.Format(data.DateLayout)

	d, err := p.Layout.LoadDay(day)
	if err != nil {
		return nil, err
	}
	log.Debug("inputs loaded",
		zap.String("date", date),
		zap.Int("points", len(d.Forecast)),
		zap.Int("weather_rows", len(d.Weather)),
	)

	res, err := p.Optimizer.OptimizeFrom(ctx, d.Forecast, d.Weather, p.StartSOCPct)
	if err != nil {
		return nil, fmt.Errorf("optimize %s: %w", date, err)
	}

	out := p.Layout.SchedulePath(day)
	if err := report.WriteTraceCSV(out, res.Trace); err != nil {
		return nil, fmt.Errorf("write trace: %w", err)
	}
	log.Info("trace written", zap.String("path", out))

	s := report.FromResult(day, res)
	if p.Notifier != nil {
		if err := p.Notifier.Notify(ctx, s); err != nil {
			return &s, fmt.Errorf("notify: %w", err)
		}
	}
	return &s, nil
}
