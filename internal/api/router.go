package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"battery-scheduler/internal/api/handlers"
	"battery-scheduler/internal/api/middleware"
	"battery-scheduler/internal/config"
)

// Deps are the inputs of the HTTP API.
type Deps struct {
	Config      config.Config
	BatteryDir  string
	HTTPLog     bool
	CORSOrigins []string
	Log         *zap.Logger
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(d Deps) *gin.Engine {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}

	router := gin.New()
	router.Use(middleware.CORS(d.CORSOrigins))
	if d.HTTPLog {
		router.Use(middleware.Logger(log))
	}
	router.Use(middleware.ErrorHandler(log))

	scheduleHandler := handlers.NewScheduleHandler(d.Config, log)
	configHandler := handlers.NewConfigHandler(d.Config)
	batteryHandler := handlers.NewBatteryHandler(d.BatteryDir, log)

	router.GET("/health", handlers.Health)

	api := router.Group("/api/v1")
	{
		api.GET("/config", configHandler.GetConfig)
		api.GET("/batteries", batteryHandler.ListBatteries)

		api.POST("/optimize", scheduleHandler.Optimize)
		api.POST("/simulate", scheduleHandler.Simulate)
		api.POST("/compare", scheduleHandler.Compare)
	}

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "Not found"}})
	})
	return router
}

// NewServer wraps handler in an http.Server listening on port.
func NewServer(port uint, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:         fmt.Sprintf(":%d", port),
		Handler:      handler,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}
