package handlers

import (
	"net/http"

	"github.com/carlmjohnson/versioninfo"
	"github.com/gin-gonic/gin"

	"battery-scheduler/internal/api/models"
)

// Health handles GET /health
func Health(c *gin.Context) {
	c.JSON(http.StatusOK, models.HealthResponse{Status: "ok", Version: versioninfo.Short()})
}
