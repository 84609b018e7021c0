package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"battery-scheduler/internal/api"
	"battery-scheduler/internal/config"
	"battery-scheduler/internal/logging"
)

func gracefulShutdown(apiServer *http.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down gracefully, press Ctrl+C again to force")

	// in-flight requests get 5 seconds
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := apiServer.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", zap.Error(err))
	}

	done <- true
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	svc, err := config.LoadService()
	if err != nil {
		log.Fatalf("service config: %v", err)
	}

	logger, err := logging.New(svc.LogLevel)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("using settings", zap.Any("service", svc.Redacted()))

	cfg, err := config.Load(svc.ConfigFile)
	if err != nil {
		logger.Fatal("tunables", zap.String("file", svc.ConfigFile), zap.Error(err))
	}

	if logging.ParseLevel(svc.LogLevel) > zap.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.NewRouter(api.Deps{
		Config:      *cfg,
		BatteryDir:  svc.BatteryDir,
		HTTPLog:     svc.HttpLog,
		CORSOrigins: svc.CORSOrigins,
		Log:         logger,
	})
	server := api.NewServer(svc.Port, router)

	done := make(chan bool, 1)
	go gracefulShutdown(server, logger, done)

	logger.Info("starting API server", zap.String("addr", server.Addr))
	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		panic(fmt.Sprintf("http server error: %s", err))
	}

	<-done
	logger.Info("graceful shutdown complete")
}
