package model

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseClock parses "HH:MM" into fractional hours. "24:00" is accepted as end of day.
func ParseClock(s string) (float64, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid minute in %q", s)
	}
	if h == 24 && m == 0 {
		return 24, nil
	}
	if h < 0 || h > 23 || m < 0 || m > 59 {
		return 0, fmt.Errorf("invalid time %q", s)
	}
	return float64(h) + float64(m)/60, nil
}

// FormatClock renders fractional hours as zero-padded "HH:MM".
func FormatClock(hours float64) string {
	total := int(math.Round(hours * 60))
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
