package model

import (
	"errors"
	"fmt"
)

// Error kinds surfaced by the simulator and optimizer. Callers match them with errors.Is.
var (
	// ErrConfiguration marks invalid battery, efficiency, SOC-bound or search parameters.
	ErrConfiguration = errors.New("invalid configuration")
	// ErrInvalidInput marks empty or malformed forecast/weather sequences.
	ErrInvalidInput = errors.New("bad input")
	// ErrNoCandidate is returned when the candidate search space is empty.
	ErrNoCandidate = errors.New("no candidate")

	ErrNoForecastData = fmt.Errorf("%w: no forecast data", ErrInvalidInput)
)

// ConfigErrorf builds an error wrapping ErrConfiguration.
func ConfigErrorf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrConfiguration, fmt.Sprintf(format, a...))
}

// InvalidInputf builds an error wrapping ErrInvalidInput.
func InvalidInputf(format string, a ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, a...))
}
