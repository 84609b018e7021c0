package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"battery-scheduler/internal/config"
	"battery-scheduler/internal/data"
	"battery-scheduler/internal/logging"
	"battery-scheduler/internal/notify"
	"battery-scheduler/internal/optimizer"
	"battery-scheduler/internal/pipeline"
	"battery-scheduler/internal/simulator"
)

func main() {
	once := flag.Bool("once", false, "Run a single day and exit instead of waiting for the cron trigger")
	date := flag.String("date", "", "Date to run with -once (YYYY-MM-DD, default today)")
	flag.Parse()

	_ = godotenv.Load()

	svc, err := config.LoadService()
	if err != nil {
		log.Fatalf("service config: %v", err)
	}

	logger, err := logging.New(svc.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("using settings", zap.Any("service", svc.Redacted()))

	if err := run(svc, *once, *date, logger); err != nil {
		logger.Error("scheduler stopped", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(svc *config.ServiceConfig, once bool, date string, logger *zap.Logger) error {
	cfg, err := config.Load(svc.ConfigFile)
	if err != nil {
		return err
	}
	loc, err := cfg.Location()
	if err != nil {
		return err
	}

	sim, err := simulator.New(cfg.Battery.ToModelParams())
	if err != nil {
		return err
	}
	opt, err := optimizer.New(sim, cfg.Optimizer, logger)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var notifier notify.Notifier = notify.LogNotifier{Log: logger}
	if svc.MQTT.Enabled {
		m := notify.NewMQTT(svc.MQTT, logger)
		if err := m.Connect(ctx); err != nil {
			return err
		}
		defer m.Close()
		notifier = m
	}

	p := &pipeline.Pipeline{
		Layout: data.Layout{
			ForecastDir: svc.ForecastDir,
			WeatherDir:  svc.WeatherDir,
			ResultsDir:  svc.ResultsDir,
		},
		Optimizer:   opt,
		StartSOCPct: cfg.Battery.StartSOCPct(),
		Notifier:    notifier,
		Log:         logger,
	}

	runDay := func(ctx context.Context, day time.Time) error {
		s, err := p.Run(ctx, day)
		if err != nil {
			return err
		}
		logger.Info("schedule ready", zap.String("date", s.Date), zap.String("t_night", s.TNight), zap.String("t_even", s.TEven))
		return nil
	}

	if once {
		day := data.Today(time.Now(), loc)
		if date != "" {
			if day, err = data.ParseDate(date, loc); err != nil {
				return err
			}
		}
		return runDay(ctx, day)
	}

	daily, err := pipeline.NewDaily(svc.Cron, loc, runDay, logger)
	if err != nil {
		return err
	}
	return daily.Run(ctx)
}
