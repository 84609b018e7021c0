package data

import (
	"context"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"battery-scheduler/internal/model"
	"battery-scheduler/internal/optimizer"
	"battery-scheduler/internal/simulator"
)

var kyiv = time.FixedZone("EEST", 3*3600)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"2025-06-01T10:00:00Z", time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)},
		{"2025-06-01T10:00:00+02:00", time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)},
		{"2025-06-01 10:00:00", time.Date(2025, 6, 1, 10, 0, 0, 0, kyiv)},
		{"2025-06-01 10:00", time.Date(2025, 6, 1, 10, 0, 0, 0, kyiv)},
		{"2025-06-01T10:30", time.Date(2025, 6, 1, 10, 30, 0, 0, kyiv)},
		{" 2025-06-01T10:00:00 ", time.Date(2025, 6, 1, 10, 0, 0, 0, kyiv)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in, kyiv)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s", got)
		})
	}

	_, err := ParseTimestamp("01/06/2025 10:00", kyiv)
	assert.Error(t, err)
}

func TestReadForecastCSV(t *testing.T) {
	body := "timestamp, pv_kw_pred ,load_kw_pred,temp\n" +
		"2025-06-01 01:00:00,0,0.4,12\n" +
		"2025-06-01 00:00:00,0,0.5,11\n" +
		"2025-06-01 02:00:00,0.1,0.3,10\n"

	points, err := ReadForecastCSV(strings.NewReader(body), kyiv)
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.Equal(t, 0, points[0].Timestamp.Hour())
	assert.Equal(t, 0.5, points[0].LoadKW)
	assert.Equal(t, 0.1, points[2].PVKW)
	assert.Equal(t, kyiv, points[0].Timestamp.Location())
}

func TestReadForecastCSV_Errors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"missing load", "timestamp,pv_kw\n2025-06-01 00:00,1\n"},
		{"bad number", "timestamp,pv_kw,load_kw\n2025-06-01 00:00,x,1\n"},
		{"bad time", "timestamp,pv_kw,load_kw\nyesterday,1,1\n"},
		{"ragged", "timestamp,pv_kw,load_kw\n2025-06-01 00:00,1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadForecastCSV(strings.NewReader(tt.body), kyiv)
			assert.ErrorIs(t, err, model.ErrInvalidInput)
		})
	}
}

func TestReadWeatherCSV(t *testing.T) {
	body := "time,temperature_2m,shortwave_radiation\n" +
		"2025-06-01T04:00:00Z,14,120\n" +
		"2025-06-01T03:00:00Z,13,40\n"

	rows, err := ReadWeatherCSV(strings.NewReader(body), kyiv)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 6, rows[0].Timestamp.Hour())
	assert.Equal(t, 40.0, rows[0].ShortwaveRadiation)
	assert.Equal(t, 120.0, rows[1].ShortwaveRadiation)

	_, err = ReadWeatherCSV(strings.NewReader("time,cloud_cover\n2025-06-01T04:00:00Z,1\n"), kyiv)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestLayout_LoadDay(t *testing.T) {
	dir := t.TempDir()
	l := Layout{
		ForecastDir: filepath.Join(dir, "fc"),
		WeatherDir:  filepath.Join(dir, "wx"),
		ResultsDir:  filepath.Join(dir, "out"),
	}
	day, err := ParseDate("2025-06-01", kyiv)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "fc", "2025-06-01_predictions.csv"), l.ForecastPath(day))
	assert.Equal(t, filepath.Join(dir, "wx", "forecast_hourly_2025-06-01.csv"), l.WeatherPath(day))
	assert.Equal(t, filepath.Join(dir, "out", "2025-06-01_schedule.csv"), l.SchedulePath(day))

	_, err = l.LoadDay(day)
	assert.Error(t, err)

	require.NoError(t, os.MkdirAll(l.ForecastDir, 0o755))
	require.NoError(t, os.WriteFile(l.ForecastPath(day),
		[]byte("timestamp,pv_kw,load_kw\n2025-06-01 00:00,0,1\n2025-06-01 01:00,0,1\n"), 0o644))

	d, err := l.LoadDay(day)
	require.NoError(t, err)
	assert.Len(t, d.Forecast, 2)
	assert.Nil(t, d.Weather)

	require.NoError(t, os.MkdirAll(l.WeatherDir, 0o755))
	require.NoError(t, os.WriteFile(l.WeatherPath(day),
		[]byte("timestamp,shortwave_radiation\n2025-06-01 12:00,500\n"), 0o644))

	d, err = l.LoadDay(day)
	require.NoError(t, err)
	require.Len(t, d.Weather, 1)
	assert.Equal(t, 500.0, d.Weather[0].ShortwaveRadiation)
}

func TestLoadForecastJSON(t *testing.T) {
	dir := t.TempDir()
	arr := filepath.Join(dir, "a.json")
	doc := filepath.Join(dir, "b.json")
	require.NoError(t, os.WriteFile(arr,
		[]byte(`[{"timestamp":"2025-06-01T00:00:00+03:00","pv_kw":0,"load_kw":1}]`), 0o644))
	require.NoError(t, os.WriteFile(doc,
		[]byte(`{"points":[{"timestamp":"2025-06-01T00:00:00+03:00","pv_kw":2,"load_kw":1}]}`), 0o644))

	p, err := LoadForecast(arr, kyiv)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.Equal(t, 1.0, p[0].LoadKW)

	p, err = LoadForecast(doc, kyiv)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.Equal(t, 2.0, p[0].PVKW)

	bad := filepath.Join(dir, "c.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"points":`), 0o644))
	_, err = LoadForecast(bad, kyiv)
	assert.ErrorIs(t, err, model.ErrInvalidInput)
}

func TestToday(t *testing.T) {
	now := time.Date(2025, 6, 1, 22, 30, 0, 0, time.UTC)
	got := Today(now, kyiv)
	assert.Equal(t, "2025-06-02", got.Format(DateLayout))
	assert.Equal(t, 0, got.Hour())
}

// utcDay renders one Kyiv day as UTC RFC3339 rows: forecast PV peaks at local
// 13:00 and irradiance is bright for local hours 7-17.
func utcDay(t *testing.T, loc *time.Location) (forecast, weather string) {
	t.Helper()
	var fc, wx strings.Builder
	fc.WriteString("timestamp,pv_kw,load_kw\n")
	wx.WriteString("time,shortwave_radiation\n")
	start := time.Date(2025, 6, 1, 0, 0, 0, 0, loc)
	for h := 0; h < 24; h++ {
		ts := start.Add(time.Duration(h) * time.Hour).UTC().Format(time.RFC3339)
		pv := 0.0
		if h >= 6 && h <= 20 {
			pv = 3 * math.Sin(math.Pi*float64(h-6)/14)
		}
		rad := 0.0
		if h >= 7 && h <= 17 {
			rad = 300
		}
		fmt.Fprintf(&fc, "%s,%.4f,0.5\n", ts, pv)
		fmt.Fprintf(&wx, "%s,%.1f\n", ts, rad)
	}
	return fc.String(), wx.String()
}

func TestReadForecastCSV_UTCStampsUseLocalHours(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Kyiv")
	require.NoError(t, err)
	fc, wx := utcDay(t, loc)

	points, err := ReadForecastCSV(strings.NewReader(fc), loc)
	require.NoError(t, err)
	require.Len(t, points, 24)
	assert.Equal(t, loc, points[0].Timestamp.Location())
	assert.Equal(t, 0, points[0].Timestamp.Hour())
	assert.Equal(t, 1, points[0].Timestamp.Day())
	assert.Equal(t, 23, points[23].Timestamp.Hour())

	weather, err := ReadWeatherCSV(strings.NewReader(wx), loc)
	require.NoError(t, err)

	sim, err := simulator.New(model.DefaultBatteryParams())
	require.NoError(t, err)
	opt, err := optimizer.New(sim, optimizer.DefaultParams(), nil)
	require.NoError(t, err)
	res, err := opt.Optimize(context.Background(), points, weather)
	require.NoError(t, err)
	assert.Equal(t, "18:00", res.TEvenClock)
	assert.Equal(t, optimizer.PolicyWeather, res.EveningPolicy)
}

func TestLoadForecastJSON_ConvertsToZone(t *testing.T) {
	path := filepath.Join(t.TempDir(), "utc.json")
	require.NoError(t, os.WriteFile(path,
		[]byte(`[{"timestamp":"2025-05-31T21:00:00Z","pv_kw":0,"load_kw":1}]`), 0o644))

	p, err := LoadForecast(path, kyiv)
	require.NoError(t, err)
	require.Len(t, p, 1)
	assert.Equal(t, kyiv, p[0].Timestamp.Location())
	assert.Equal(t, 0, p[0].Timestamp.Hour())
}

func TestLoadWeather_MissingFile(t *testing.T) {
	_, err := LoadWeather(filepath.Join(t.TempDir(), "nope.csv"), kyiv)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}
