package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"battery-scheduler/internal/api/models"
	"battery-scheduler/internal/config"
)

// BatteryHandler lists the battery presets usable as battery_file
type BatteryHandler struct {
	batteryDir string
	log        *zap.Logger
}

// NewBatteryHandler creates a handler reading presets from dir
func NewBatteryHandler(dir string, log *zap.Logger) *BatteryHandler {
	if abs, err := filepath.Abs(dir); err == nil {
		dir = abs
	}
	return &BatteryHandler{batteryDir: dir, log: log}
}

// ListBatteries handles GET /api/v1/batteries
func (h *BatteryHandler) ListBatteries(c *gin.Context) {
	batteries := []models.BatteryInfo{}

	entries, err := os.ReadDir(h.batteryDir)
	if err != nil {
		h.log.Warn("battery directory unreadable", zap.String("dir", h.batteryDir), zap.Error(err))
		c.JSON(http.StatusOK, gin.H{"batteries": batteries})
		return
	}

	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(h.batteryDir, entry.Name())
		info, err := loadBatteryInfo(path, entry.Name())
		if err != nil {
			h.log.Warn("skipping battery preset", zap.String("file", path), zap.Error(err))
			continue
		}
		batteries = append(batteries, *info)
	}
	sort.Slice(batteries, func(i, j int) bool { return batteries[i].ID < batteries[j].ID })

	c.JSON(http.StatusOK, gin.H{"batteries": batteries})
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func loadBatteryInfo(path, filename string) (*models.BatteryInfo, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var wrapper struct {
		Battery config.BatteryConfig `yaml:"battery"`
	}
	if err := yaml.Unmarshal(raw, &wrapper); err != nil {
		return nil, err
	}
	if err := wrapper.Battery.ToModelParams().Validate(); err != nil {
		return nil, err
	}

	// "home_5kwh.yaml" -> "home_5kwh"
	id := strings.TrimSuffix(filename, filepath.Ext(filename))
	name := wrapper.Battery.Name
	if name == "" {
		name = id
	}

	return &models.BatteryInfo{
		ID:      id,
		Name:    name,
		File:    path,
		Battery: wrapper.Battery,
	}, nil
}
