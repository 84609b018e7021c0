package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"battery-scheduler/internal/config"
)

// ConfigHandler exposes the effective tunables
type ConfigHandler struct {
	cfg config.Config
}

func NewConfigHandler(cfg config.Config) *ConfigHandler {
	return &ConfigHandler{cfg: cfg}
}

// GetConfig handles GET /api/v1/config
func (h *ConfigHandler) GetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, h.cfg)
}
