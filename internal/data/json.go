package data

import (
	"bytes"
	"encoding/json"
	"os"
	"time"

	"battery-scheduler/internal/model"
)

type forecastDoc struct {
	Points []model.ForecastPoint `json:"points"`
}

// LoadForecastJSON reads either a bare array of points or {"points": [...]}.
// Timestamps must be RFC3339; they are returned in loc.
func LoadForecastJSON(path string, loc *time.Location) ([]model.ForecastPoint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	raw = bytes.TrimSpace(raw)

	var points []model.ForecastPoint
	if len(raw) > 0 && raw[0] == '[' {
		err = json.Unmarshal(raw, &points)
	} else {
		var doc forecastDoc
		err = json.Unmarshal(raw, &doc)
		points = doc.Points
	}
	if err != nil {
		return nil, model.InvalidInputf("decode %s: %v", path, err)
	}
	return model.PointsIn(points, loc), nil
}
