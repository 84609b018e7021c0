package optimizer

import (
	"math"
	"time"

	"battery-scheduler/internal/model"
)

// EveningPolicy names the rule that produced t_even.
type EveningPolicy string

const (
	PolicyWeather EveningPolicy = "weather"
	PolicyPV      EveningPolicy = "pv"
)

// eveningFromWeather returns one hour after the last hour of the forecast day
// whose irradiance exceeds the threshold, clamped to the evening range.
// ok is false when the weather rows cannot be used.
func (p Params) eveningFromWeather(weather []model.HourlyWeather, day time.Time) (tEven float64, ok bool) {
	loc := day.Location()
	y, m, d := day.Date()

	last := -1
	matched := 0
	for _, w := range weather {
		if w.Timestamp.IsZero() || !model.IsFinite(w.ShortwaveRadiation) || w.ShortwaveRadiation < 0 {
			return 0, false
		}
		local := w.Timestamp.In(loc)
		if wy, wm, wd := local.Date(); wy != y || wm != m || wd != d {
			continue
		}
		matched++
		if w.ShortwaveRadiation > p.IrradianceThreshold && local.Hour() > last {
			last = local.Hour()
		}
	}
	if matched == 0 {
		return 0, false
	}
	if last < 0 {
		return p.EveningDefaultHour, true
	}
	return math.Min(math.Max(float64(last+1), p.EveningMinHour), p.EveningMaxHour), true
}

// eveningFromPV returns the hour after the last point producing more than the
// PV-active threshold, or the default hour.
func (p Params) eveningFromPV(points []model.ForecastPoint) float64 {
	for i := len(points) - 1; i >= 0; i-- {
		if points[i].PVKW > p.PVActiveThresholdKW {
			return math.Min(math.Floor(model.HourOfDay(points[i].Timestamp))+1, 24)
		}
	}
	return p.EveningDefaultHour
}
