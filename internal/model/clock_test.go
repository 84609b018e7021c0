package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"00:00", 0},
		{"05:45", 5.75},
		{" 18:30 ", 18.5},
		{"24:00", 24},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseClock(tt.in)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}

	for _, bad := range []string{"", "7", "25:00", "24:30", "12:60", "ab:cd", "7x:00", "07:3o", "07:", ":30"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseClock(bad)
			assert.Error(t, err)
		})
	}
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", FormatClock(0))
	assert.Equal(t, "01:15", FormatClock(1.25))
	assert.Equal(t, "05:45", FormatClock(5.75))
	assert.Equal(t, "18:00", FormatClock(18))
	assert.Equal(t, "24:00", FormatClock(24))
}

func TestClassifyRegime(t *testing.T) {
	assert.Equal(t, RegimeNight, ClassifyRegime(0, 1, 20))
	assert.Equal(t, RegimeDay, ClassifyRegime(1, 1, 20))
	assert.Equal(t, RegimeDay, ClassifyRegime(19.75, 1, 20))
	assert.Equal(t, RegimeEvening, ClassifyRegime(20, 1, 20))
	// t_night = 0 means no night regime at all
	assert.Equal(t, RegimeDay, ClassifyRegime(0, 0, 20))
	assert.Equal(t, "evening", RegimeEvening.String())
}

func TestRegime_TextRoundTrip(t *testing.T) {
	for _, r := range []Regime{RegimeNight, RegimeDay, RegimeEvening} {
		b, err := r.MarshalText()
		assert.NoError(t, err)
		var got Regime
		assert.NoError(t, got.UnmarshalText(b))
		assert.Equal(t, r, got)
	}
	var r Regime
	assert.Error(t, r.UnmarshalText([]byte("dusk")))
}
