package model

import "time"

// ForecastPoint is one time step of forecast input.
type ForecastPoint struct {
	Timestamp time.Time `json:"timestamp"`
	PVKW      float64   `json:"pv_kw"`
	LoadKW    float64   `json:"load_kw"`
}

// HourlyWeather is one row of the weather feed used by the evening heuristic.
// ShortwaveRadiation is in W/m².
type HourlyWeather struct {
	Timestamp          time.Time `json:"timestamp"`
	ShortwaveRadiation float64   `json:"shortwave_radiation"`
}

// PointsIn returns a copy of points with every timestamp expressed in loc,
// so regimes follow the civil hour of that zone.
func PointsIn(points []ForecastPoint, loc *time.Location) []ForecastPoint {
	if points == nil {
		return nil
	}
	out := make([]ForecastPoint, len(points))
	for i, p := range points {
		p.Timestamp = p.Timestamp.In(loc)
		out[i] = p
	}
	return out
}

// WeatherIn is PointsIn for weather rows.
func WeatherIn(rows []HourlyWeather, loc *time.Location) []HourlyWeather {
	if rows == nil {
		return nil
	}
	out := make([]HourlyWeather, len(rows))
	for i, w := range rows {
		w.Timestamp = w.Timestamp.In(loc)
		out[i] = w
	}
	return out
}

// HourOfDay returns the civil hour of t as a fractional value, e.g. 06:45 -> 6.75.
func HourOfDay(t time.Time) float64 {
	return float64(t.Hour()) + float64(t.Minute())/60 + float64(t.Second())/3600
}

// StepHours returns the uniform step of a forecast sequence in hours.
// A single point is treated as one hour. Timestamps must be strictly
// ascending and evenly spaced.
func StepHours(points []ForecastPoint) (float64, error) {
	if len(points) < 2 {
		return 1, nil
	}
	step := points[1].Timestamp.Sub(points[0].Timestamp)
	if step <= 0 {
		return 0, InvalidInputf("timestamps must be strictly ascending (index 1)")
	}
	for i := 2; i < len(points); i++ {
		d := points[i].Timestamp.Sub(points[i-1].Timestamp)
		if d <= 0 {
			return 0, InvalidInputf("timestamps must be strictly ascending (index %d)", i)
		}
		if d != step {
			return 0, InvalidInputf("non-uniform step at index %d: %s != %s", i, d, step)
		}
	}
	return step.Hours(), nil
}

// ValidatePoints checks that every forecast value is finite and non-negative.
func ValidatePoints(points []ForecastPoint) error {
	for i, p := range points {
		if !IsFinite(p.PVKW) || !IsFinite(p.LoadKW) {
			return InvalidInputf("non-finite forecast value at index %d", i)
		}
		if p.PVKW < 0 || p.LoadKW < 0 {
			return InvalidInputf("negative forecast value at index %d", i)
		}
	}
	return nil
}
