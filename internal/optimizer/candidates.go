package optimizer

import (
	"fmt"
	"math"

	"battery-scheduler/internal/model"
)

// candidates lists night switch times in ascending order. The bounded window
// includes its end; every candidate is strictly before tEven.
func (p Params) candidates(tEven float64) ([]float64, error) {
	start := minutes(p.SearchStartHour)
	end := minutes(p.SearchEndHour)
	if p.SearchUntilEvening {
		end = minutes(tEven)
	} else if start >= end {
		return nil, fmt.Errorf("%w: search window %s-%s is empty", model.ErrNoCandidate,
			model.FormatClock(p.SearchStartHour), model.FormatClock(p.SearchEndHour))
	}

	var out []float64
	for m := start; m <= end; m += p.SearchStepMinutes {
		h := float64(m) / 60
		if h >= tEven {
			break
		}
		out = append(out, h)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: no night switch before evening %s", model.ErrNoCandidate, model.FormatClock(tEven))
	}
	return out, nil
}

func minutes(h float64) int { return int(math.Round(h * 60)) }
