package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"ghginventory/internal/amqp"
	"ghginventory/internal/cli"
	"ghginventory/internal/core"
	apphttp "ghginventory/internal/http"
	"ghginventory/internal/services"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("dashboard")
	cfg := cli.LoadAndValidateConfig(logger)

	// Events are optional; the dashboard works without a broker
	var publisher services.EventPublisher
	if cfg.EventsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("AMQP unavailable, summary events disabled", "error", err)
		} else {
			publisher = client
			logger.Info("AMQP publisher initialized", "exchange", cfg.AMQPExchange)
		}
	}

	svc := services.NewInventoryService(services.Options{
		DataPath:  cfg.DataPath,
		OutputDir: cfg.OutputDir,
	}, publisher)

	var initial *core.Snapshot
	snap, err := svc.LoadDefault(context.Background())
	if err != nil {
		logger.Warn("Starting without a summary", "error", err)
	} else {
		initial = &snap
	}

	srv := apphttp.NewServer(apphttp.Options{
		Addr:                ":" + cfg.Port,
		Title:               cfg.ReportTitle,
		UploadMaxBytes:      cfg.UploadMaxBytes,
		UploadRatePerMinute: cfg.UploadRatePerMinute,
		ChartCacheSize:      cfg.ChartCacheSize,
		ChartCacheTTL:       cfg.ChartCacheTTL,
	}, svc, logger, initial)

	srv.ReadTimeout = 30 * time.Second
	srv.WriteTimeout = 60 * time.Second
	srv.IdleTimeout = 60 * time.Second
	srv.MaxHeaderBytes = 1 << 16

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		if err := svc.Close(); err != nil {
			logger.Error("Failed to close inventory service", "error", err)
		}
	})

	logger.Info("Starting ghg-dashboard", "port", cfg.Port, "events", publisher != nil)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	logger.Info("Server stopped gracefully")
}
