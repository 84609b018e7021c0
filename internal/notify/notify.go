package notify

import (
	"context"

	"go.uber.org/zap"

	"battery-scheduler/internal/report"
)

// Notifier delivers a daily schedule summary somewhere people will see it.
type Notifier interface {
	Notify(ctx context.Context, s report.Summary) error
}

// LogNotifier writes the summary to the log; used when MQTT is disabled.
type LogNotifier struct {
	Log *zap.Logger
}

func (n LogNotifier) Notify(_ context.Context, s report.Summary) error {
	n.Log.Info("daily schedule",
		zap.String("date", s.Date),
		zap.String("t_night", s.TNight),
		zap.String("t_even", s.TEven),
		zap.Float64("grid_import_kwh", s.GridImportKWh),
		zap.Float64("soc_end_pct", s.SOCEndPct),
	)
	return nil
}
