package model

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var day = time.Date(2025, 5, 1, 0, 0, 0, 0, time.UTC)

func pointsEvery(step time.Duration, n int) []ForecastPoint {
	out := make([]ForecastPoint, n)
	for i := range out {
		out[i] = ForecastPoint{Timestamp: day.Add(time.Duration(i) * step)}
	}
	return out
}

func TestStepHours(t *testing.T) {
	t.Run("hourly", func(t *testing.T) {
		h, err := StepHours(pointsEvery(time.Hour, 24))
		require.NoError(t, err)
		assert.Equal(t, 1.0, h)
	})

	t.Run("quarter hour", func(t *testing.T) {
		h, err := StepHours(pointsEvery(15*time.Minute, 96))
		require.NoError(t, err)
		assert.Equal(t, 0.25, h)
	})

	t.Run("single point defaults to an hour", func(t *testing.T) {
		h, err := StepHours(pointsEvery(time.Hour, 1))
		require.NoError(t, err)
		assert.Equal(t, 1.0, h)
	})

	t.Run("descending", func(t *testing.T) {
		pts := pointsEvery(time.Hour, 3)
		pts[2].Timestamp = pts[0].Timestamp
		_, err := StepHours(pts)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("duplicate", func(t *testing.T) {
		pts := pointsEvery(time.Hour, 2)
		pts[1].Timestamp = pts[0].Timestamp
		_, err := StepHours(pts)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("non-uniform", func(t *testing.T) {
		pts := pointsEvery(time.Hour, 3)
		pts[2].Timestamp = pts[2].Timestamp.Add(time.Minute)
		_, err := StepHours(pts)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestValidatePoints(t *testing.T) {
	pts := pointsEvery(time.Hour, 2)
	assert.NoError(t, ValidatePoints(pts))

	pts[1].PVKW = math.NaN()
	assert.True(t, errors.Is(ValidatePoints(pts), ErrInvalidInput))

	pts[1].PVKW = 0
	pts[0].LoadKW = math.Inf(1)
	assert.True(t, errors.Is(ValidatePoints(pts), ErrInvalidInput))

	pts[0].LoadKW = -0.1
	assert.True(t, errors.Is(ValidatePoints(pts), ErrInvalidInput))
}

func TestHourOfDay(t *testing.T) {
	assert.InDelta(t, 6.75, HourOfDay(day.Add(6*time.Hour+45*time.Minute)), 1e-9)
	assert.InDelta(t, 0, HourOfDay(day), 1e-9)
}

func TestPointsIn(t *testing.T) {
	zone := time.FixedZone("EEST", 3*3600)
	utc := time.Date(2025, 5, 31, 21, 0, 0, 0, time.UTC)
	points := []ForecastPoint{{Timestamp: utc, PVKW: 1, LoadKW: 2}}

	got := PointsIn(points, zone)
	require.Len(t, got, 1)
	assert.Equal(t, 0, got[0].Timestamp.Hour())
	assert.True(t, utc.Equal(got[0].Timestamp))
	assert.Equal(t, time.UTC, points[0].Timestamp.Location(), "input is not modified")
	assert.Nil(t, PointsIn(nil, zone))

	wx := WeatherIn([]HourlyWeather{{Timestamp: utc, ShortwaveRadiation: 10}}, zone)
	assert.Equal(t, 0, wx[0].Timestamp.Hour())
}
