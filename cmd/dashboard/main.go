package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/antipiracy/exposure-dashboard/internal/api"
	"github.com/antipiracy/exposure-dashboard/internal/config"
	"github.com/antipiracy/exposure-dashboard/internal/logging"
	"github.com/antipiracy/exposure-dashboard/internal/metrics"
	"github.com/antipiracy/exposure-dashboard/internal/notifications"
	"github.com/antipiracy/exposure-dashboard/internal/reporting"
	"github.com/antipiracy/exposure-dashboard/internal/scheduler"
	"github.com/antipiracy/exposure-dashboard/internal/storage"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
)

func main() {
	// Load environment variables from .env file if it exists
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logCloser := logging.Setup(cfg)
	defer logCloser.Close()

	logrus.Info("Starting exposure dashboard")

	storageClient, err := newStorage(cfg)
	if err != nil {
		logrus.Fatalf("Failed to initialize storage: %v", err)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(registry)

	notificationService := notifications.NewService(cfg, m)
	reportingService := reporting.NewService(cfg, storageClient, notificationService, m)

	schedulerService := scheduler.NewService(cfg.ReportSchedule, reportingService)
	if err := schedulerService.Start(); err != nil {
		logrus.Fatalf("Failed to start scheduler: %v", err)
	}
	defer schedulerService.Stop()

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      api.NewServer(reportingService, m, cfg.MaxUploadMB).Router(),
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logrus.Infof("HTTP server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("HTTP server failed: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logrus.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logrus.Errorf("Server forced to shutdown: %v", err)
	}

	logrus.Info("Server exited")
}

func newStorage(cfg *config.Config) (storage.StorageInterface, error) {
	switch cfg.StorageBackend {
	case "azure":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		return storage.NewAzureStorage(ctx, cfg.StorageAccount, cfg.StorageContainer)
	default:
		return storage.NewLocalStorage(cfg.LocalStorageDir)
	}
}
