package data

import (
	"io"
	"os"
	"sort"
	"time"

	"battery-scheduler/internal/model"
)

// ReadWeatherCSV parses hourly weather rows. Only the timestamp (or time) and
// shortwave_radiation columns are used.
func ReadWeatherCSV(r io.Reader, loc *time.Location) ([]model.HourlyWeather, error) {
	t, err := readTable(r)
	if err != nil {
		return nil, err
	}
	tsCol, err := t.column("timestamp", "time")
	if err != nil {
		return nil, err
	}
	radCol, err := t.column("shortwave_radiation")
	if err != nil {
		return nil, err
	}

	rows := make([]model.HourlyWeather, 0, len(t.rows))
	for i, row := range t.rows {
		line := i + 2
		ts, err := parseTimeCell(row, tsCol, line, loc)
		if err != nil {
			return nil, err
		}
		rad, err := parseFloatCell(row, radCol, line, "shortwave_radiation")
		if err != nil {
			return nil, err
		}
		rows = append(rows, model.HourlyWeather{Timestamp: ts.In(loc), ShortwaveRadiation: rad})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Timestamp.Before(rows[j].Timestamp)
	})
	return rows, nil
}

// LoadWeather reads a weather CSV. A missing file is reported with an error
// matching fs.ErrNotExist.
func LoadWeather(path string, loc *time.Location) ([]model.HourlyWeather, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadWeatherCSV(f, loc)
}
