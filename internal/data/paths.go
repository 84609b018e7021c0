package data

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"battery-scheduler/internal/model"
)

const DateLayout = "2006-01-02"

// Layout of the per-day files produced by the forecasting side.
type Layout struct {
	ForecastDir string
	WeatherDir  string
	ResultsDir  string
}

func (l Layout) ForecastPath(day time.Time) string {
	return filepath.Join(l.ForecastDir, fmt.Sprintf("%s_predictions.csv", day.Format(DateLayout)))
}

func (l Layout) WeatherPath(day time.Time) string {
	return filepath.Join(l.WeatherDir, fmt.Sprintf("forecast_hourly_%s.csv", day.Format(DateLayout)))
}

func (l Layout) SchedulePath(day time.Time) string {
	return filepath.Join(l.ResultsDir, fmt.Sprintf("%s_schedule.csv", day.Format(DateLayout)))
}

// ParseDate parses YYYY-MM-DD as midnight in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, loc)
}

// Today returns midnight of now's calendar day in loc.
func Today(now time.Time, loc *time.Location) time.Time {
	y, m, d := now.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}

// Day is a resolved pair of inputs for one date.
type Day struct {
	Date     time.Time
	Forecast []model.ForecastPoint
	Weather  []model.HourlyWeather
}

// LoadDay reads the forecast (required) and weather (optional) files for day.
// A missing weather file leaves Weather nil so the PV-driven evening time applies.
func (l Layout) LoadDay(day time.Time) (*Day, error) {
	loc := day.Location()
	points, err := LoadForecast(l.ForecastPath(day), loc)
	if err != nil {
		return nil, fmt.Errorf("forecast for %s: %w", day.Format(DateLayout), err)
	}
	weather, err := LoadWeather(l.WeatherPath(day), loc)
	if errors.Is(err, fs.ErrNotExist) {
		weather, err = nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("weather for %s: %w", day.Format(DateLayout), err)
	}
	return &Day{Date: day, Forecast: points, Weather: weather}, nil
}
