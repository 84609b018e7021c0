package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/carlmjohnson/versioninfo"
	"go.uber.org/zap"

	"battery-scheduler/internal/config"
	"battery-scheduler/internal/data"
	"battery-scheduler/internal/logging"
	"battery-scheduler/internal/model"
	"battery-scheduler/internal/optimizer"
	"battery-scheduler/internal/report"
	"battery-scheduler/internal/simulator"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "optimize":
		cmdOptimize(os.Args[2:])
	case "simulate":
		cmdSimulate(os.Args[2:])
	case "sweep":
		cmdSweep(os.Args[2:])
	case "version":
		fmt.Println(versioninfo.Short())
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Println("usage:")
	fmt.Println("  cli optimize --config config.yaml --forecast forecasts/2025-06-01_predictions.csv [--weather weather.csv]")
	fmt.Println("  cli optimize --config config.yaml --date 2025-06-01 --forecast-dir forecasts --weather-dir weather")
	fmt.Println("  cli simulate --forecast day.csv --t-night 06:30 --t-even 19:00 [--soc-start 0.8]")
	fmt.Println("  cli sweep --forecast day.csv [--weather weather.csv]")
	fmt.Println("  cli version")
	fmt.Println("")
	fmt.Println("notes:")
	fmt.Println("  - optimize writes the winning trace CSV with regime/action per forecast step")
	fmt.Println("  - simulate writes <forecast stem>_soc_sim.csv unless --out is set")
	fmt.Println("  - --soc-start accepts a fraction (<= 1) or a percentage")
}

// inputFlags are shared by every command that reads a day of forecasts.
type inputFlags struct {
	cfgPath     *string
	forecast    *string
	weather     *string
	date        *string
	forecastDir *string
	weatherDir  *string
	capacity    *float64
	minSOC      *float64
	maxSOC      *float64
	logLevel    *string
}

func addInputFlags(fs *flag.FlagSet) *inputFlags {
	return &inputFlags{
		cfgPath:     fs.String("config", "", "Path to YAML config (optional, defaults apply)"),
		forecast:    fs.String("forecast", "", "Forecast CSV or JSON (timestamp,pv_kw,load_kw)"),
		weather:     fs.String("weather", "", "Hourly weather CSV with shortwave_radiation (optional)"),
		date:        fs.String("date", "", "Resolve per-date files for YYYY-MM-DD instead of --forecast/--weather"),
		forecastDir: fs.String("forecast-dir", "forecasts", "Directory of <date>_predictions.csv files"),
		weatherDir:  fs.String("weather-dir", "weather", "Directory of forecast_hourly_<date>.csv files"),
		capacity:    fs.Float64("capacity-kwh", 0, "Override battery capacity"),
		minSOC:      fs.Float64("min-soc", 0, "Override battery SOC floor (percent)"),
		maxSOC:      fs.Float64("max-soc", 0, "Override battery SOC ceiling (percent)"),
		logLevel:    fs.String("log-level", "info", "debug|info|warn|error"),
	}
}

// inputs is everything a command needs once flags are resolved.
type inputs struct {
	cfg    *config.Config
	loc    *time.Location
	day    time.Time
	points []model.ForecastPoint
	// weather is nil when no weather file is available.
	weather []model.HourlyWeather
	log     *zap.Logger
}

func (f *inputFlags) load() (*inputs, error) {
	log, err := logging.NewConsole(*f.logLevel)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadUnchecked(*f.cfgPath)
	if err != nil {
		return nil, err
	}
	cfg.Battery = config.MergeBattery(cfg.Battery, config.BatteryConfig{
		CapacityKWh: *f.capacity,
		MinSOCPct:   *f.minSOC,
		MaxSOCPct:   *f.maxSOC,
	})
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	in := &inputs{cfg: cfg, loc: loc, log: log}
	if *f.date != "" {
		day, err := data.ParseDate(*f.date, loc)
		if err != nil {
			return nil, err
		}
		layout := data.Layout{ForecastDir: *f.forecastDir, WeatherDir: *f.weatherDir}
		d, err := layout.LoadDay(day)
		if err != nil {
			return nil, err
		}
		in.day, in.points, in.weather = day, d.Forecast, d.Weather
		return in, nil
	}

	if *f.forecast == "" {
		return nil, fmt.Errorf("--forecast or --date is required")
	}
	in.points, err = data.LoadForecast(*f.forecast, loc)
	if err != nil {
		return nil, err
	}
	if *f.weather != "" {
		in.weather, err = data.LoadWeather(*f.weather, loc)
		if err != nil {
			return nil, err
		}
	}
	in.day = data.Today(time.Now(), loc)
	if len(in.points) > 0 {
		in.day = data.Today(in.points[0].Timestamp, loc)
	}
	return in, nil
}

func (in *inputs) optimize(ctx context.Context) (*optimizer.Result, error) {
	sim, err := simulator.New(in.cfg.Battery.ToModelParams())
	if err != nil {
		return nil, err
	}
	opt, err := optimizer.New(sim, in.cfg.Optimizer, in.log)
	if err != nil {
		return nil, err
	}
	return opt.OptimizeFrom(ctx, in.points, in.weather, in.cfg.Battery.StartSOCPct())
}

func cmdOptimize(args []string) {
	fs := flag.NewFlagSet("optimize", flag.ExitOnError)
	f := addInputFlags(fs)
	resultsDir := fs.String("results-dir", "results", "Where --date runs write <date>_schedule.csv")
	outPath := fs.String("out", "", "Trace CSV path (default depends on --date/--forecast)")
	asJSON := fs.Bool("json", false, "Print the schedule as JSON instead of the summary message")
	_ = fs.Parse(args)

	in, err := f.load()
	exitOn(err)
	defer in.log.Sync()

	res, err := in.optimize(context.Background())
	exitOn(err)

	out := *outPath
	if out == "" {
		if *f.date != "" {
			out = data.Layout{ResultsDir: *resultsDir}.SchedulePath(in.day)
		} else {
			out = report.SimulationPath(*f.forecast)
		}
	}
	exitOn(report.WriteTraceCSV(out, res.Trace))
	in.log.Info("trace written", zap.String("path", out), zap.Int("rows", len(res.Trace)))

	s := report.FromResult(in.day, res)
	if *asJSON {
		printJSON(struct {
			Schedule *optimizer.Result `json:"schedule"`
			Summary  report.Summary    `json:"summary"`
		}{res, s})
		return
	}
	fmt.Println(s.Message())
}

func cmdSimulate(args []string) {
	fs := flag.NewFlagSet("simulate", flag.ExitOnError)
	f := addInputFlags(fs)
	tNightStr := fs.String("t-night", "", "Switch to battery at HH:MM (required)")
	tEvenStr := fs.String("t-even", "", "Switch to grid at HH:MM (required)")
	socStart := fs.Float64("soc-start", -1, "Initial SOC as fraction (<= 1) or percent (default: config)")
	outPath := fs.String("out", "", "Trace CSV path (default <forecast stem>_soc_sim.csv)")
	_ = fs.Parse(args)

	if *tNightStr == "" || *tEvenStr == "" {
		fmt.Println("--t-night and --t-even are required")
		os.Exit(2)
	}
	tNight, err := model.ParseClock(*tNightStr)
	exitOn(err)
	tEven, err := model.ParseClock(*tEvenStr)
	exitOn(err)

	in, err := f.load()
	exitOn(err)
	defer in.log.Sync()

	soc0 := in.cfg.Battery.StartSOCPct()
	if *socStart >= 0 {
		soc0 = model.NormalizeSOCPct(*socStart)
	}

	sim, err := simulator.New(in.cfg.Battery.ToModelParams())
	exitOn(err)
	records, err := sim.SimulateFrom(in.points, tNight, tEven, soc0)
	exitOn(err)

	out := *outPath
	if out == "" {
		src := *f.forecast
		if src == "" {
			src = data.Layout{ForecastDir: *f.forecastDir}.ForecastPath(in.day)
		}
		out = report.SimulationPath(src)
	}
	exitOn(report.WriteTraceCSV(out, records))
	in.log.Info("trace written", zap.String("path", out), zap.Int("rows", len(records)))

	fmt.Println(report.FromTrace(in.day, tNight, tEven, records).Message())
}

func cmdSweep(args []string) {
	fs := flag.NewFlagSet("sweep", flag.ExitOnError)
	f := addInputFlags(fs)
	top := fs.Int("top", 0, "Print only the best N candidates (0=all)")
	_ = fs.Parse(args)

	in, err := f.load()
	exitOn(err)
	defer in.log.Sync()

	res, err := in.optimize(context.Background())
	exitOn(err)

	fmt.Printf("evening switch %s (%s)\n", res.TEvenClock, res.EveningPolicy)
	fmt.Printf("%-4s %-8s %-10s %-12s %-12s %-8s\n", "rank", "t_night", "cost", "import_kwh", "wasted_kwh", "soc_end")
	for i, c := range res.Candidates {
		if *top > 0 && i >= *top {
			break
		}
		fmt.Printf("%-4d %-8s %-10.3f %-12.3f %-12.3f %-8.1f\n",
			i+1, c.TNightClock, c.Cost, c.GridImportKWh, c.WastedPVKWh, c.SOCEndPct)
	}
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	exitOn(enc.Encode(v))
}

func exitOn(err error) {
	if err == nil {
		return
	}
	fmt.Fprintln(os.Stderr, "error:", err)
	os.Exit(1)
}
