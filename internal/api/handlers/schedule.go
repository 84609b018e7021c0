package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"battery-scheduler/internal/api/models"
	"battery-scheduler/internal/config"
	"battery-scheduler/internal/data"
	"battery-scheduler/internal/model"
	"battery-scheduler/internal/optimizer"
	"battery-scheduler/internal/report"
	"battery-scheduler/internal/simulator"
)

// ScheduleHandler serves optimization and simulation requests against the
// server's effective configuration.
type ScheduleHandler struct {
	cfg config.Config
	log *zap.Logger
}

func NewScheduleHandler(cfg config.Config, log *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{cfg: cfg, log: log}
}

// Optimize handles POST /api/v1/optimize
func (h *ScheduleHandler) Optimize(c *gin.Context) {
	var req models.OptimizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	cfg, err := h.buildConfig(req.Battery, req.Optimizer)
	if err != nil {
		respondError(c, err)
		return
	}
	day, err := h.requestDay(cfg, req.Date, req.Points)
	if err != nil {
		respondError(c, err)
		return
	}

	res, err := h.optimize(c, cfg, req.Points, req.Weather)
	if err != nil {
		respondError(c, err)
		return
	}

	summary := report.FromResult(day, res)
	resp := models.OptimizeResponse{
		Schedule: *res,
		Summary:  summary,
		Message:  summary.Message(),
	}
	if req.Options.IncludeTrace {
		resp.Trace = models.TraceRows(res.Trace)
	}
	if req.Options.IncludeCandidates {
		resp.Candidates = res.Candidates
	}
	c.JSON(http.StatusOK, resp)
}

// Simulate handles POST /api/v1/simulate
func (h *ScheduleHandler) Simulate(c *gin.Context) {
	var req models.SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}

	cfg, err := h.buildConfig(req.Battery, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	tNight, err := model.ParseClock(req.TNight)
	if err != nil {
		respondError(c, model.InvalidInputf("t_night: %v", err))
		return
	}
	tEven, err := model.ParseClock(req.TEven)
	if err != nil {
		respondError(c, model.InvalidInputf("t_even: %v", err))
		return
	}
	soc0 := cfg.Battery.StartSOCPct()
	if req.SOCStartPct != nil {
		soc0 = model.NormalizeSOCPct(*req.SOCStartPct)
	}

	loc, err := cfg.Location()
	if err != nil {
		respondError(c, err)
		return
	}
	points := model.PointsIn(req.Points, loc)

	sim, err := simulator.New(cfg.Battery.ToModelParams())
	if err != nil {
		respondError(c, err)
		return
	}
	records, err := sim.SimulateFrom(points, tNight, tEven, soc0)
	if err != nil {
		respondError(c, err)
		return
	}
	day, err := h.requestDay(cfg, "", points)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.SimulateResponse{
		Records: models.TraceRows(records),
		Summary: report.FromTrace(day, tNight, tEven, records),
	})
}

// Compare handles POST /api/v1/compare
func (h *ScheduleHandler) Compare(c *gin.Context) {
	var req models.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c, err)
		return
	}
	if len(req.Points) == 0 {
		respondError(c, model.ErrNoForecastData)
		return
	}

	comparison := make([]models.ComparisonResult, 0, len(req.Variations))
	for _, v := range req.Variations {
		out := models.ComparisonResult{Name: v.Name}
		cfg, err := h.buildConfig(v.Battery, v.Optimizer)
		if err == nil {
			out.Schedule, err = h.optimize(c, cfg, req.Points, req.Weather)
		}
		if err != nil {
			detail := errorDetail(err)
			out.Error = &detail
		}
		comparison = append(comparison, out)
	}

	c.JSON(http.StatusOK, models.CompareResponse{Comparison: comparison})
}

// optimize runs the optimizer with timestamps moved into the configured zone.
func (h *ScheduleHandler) optimize(c *gin.Context, cfg *config.Config, points []model.ForecastPoint, weather []model.HourlyWeather) (*optimizer.Result, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}
	points, weather = model.PointsIn(points, loc), model.WeatherIn(weather, loc)

	sim, err := simulator.New(cfg.Battery.ToModelParams())
	if err != nil {
		return nil, err
	}
	opt, err := optimizer.New(sim, cfg.Optimizer, h.log)
	if err != nil {
		return nil, err
	}
	return opt.OptimizeFrom(c.Request.Context(), points, weather, cfg.Battery.StartSOCPct())
}

// buildConfig lays the request overrides over a copy of the server config
// and validates the result.
func (h *ScheduleHandler) buildConfig(battery, opt json.RawMessage) (*config.Config, error) {
	cfg := h.cfg
	if len(battery) > 0 {
		if err := json.Unmarshal(battery, &cfg.Battery); err != nil {
			return nil, model.ConfigErrorf("battery: %v", err)
		}
	}
	if len(opt) > 0 {
		if err := json.Unmarshal(opt, &cfg.Optimizer); err != nil {
			return nil, model.ConfigErrorf("optimizer: %v", err)
		}
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// requestDay resolves the calendar day a request is about.
func (h *ScheduleHandler) requestDay(cfg *config.Config, date string, points []model.ForecastPoint) (time.Time, error) {
	loc, err := cfg.Location()
	if err != nil {
		return time.Time{}, err
	}
	if date != "" {
		day, err := data.ParseDate(date, loc)
		if err != nil {
			return time.Time{}, model.InvalidInputf("date: %v", err)
		}
		return day, nil
	}
	if len(points) == 0 {
		return data.Today(time.Now(), loc), nil
	}
	return data.Today(points[0].Timestamp, loc), nil
}
