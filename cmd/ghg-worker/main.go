package main

import (
	"context"
	"errors"
	"os"
	"time"

	"ghginventory/internal/amqp"
	"ghginventory/internal/backend"
	"ghginventory/internal/cli"
	"ghginventory/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger("worker")
	cfg := cli.LoadAndValidateConfig(logger)

	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL is required for the worker")
		os.Exit(1)
	}

	sinkCfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid sink configuration", "error", err)
		os.Exit(1)
	}
	sink, err := backend.NewFactory(logger.Logger).CreateSink(context.Background(), sinkCfg)
	if err != nil {
		logger.Error("Failed to create sink", "error", err, "backend", cfg.SinkBackend)
		os.Exit(1)
	}

	client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}

	summaryWorker := worker.NewSummaryWorker(sink.Sink)

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := client.Close(); err != nil {
			logger.Error("Failed to close AMQP client", "error", err)
		}
		if sink.Cleanup != nil {
			if err := sink.Cleanup(); err != nil {
				logger.Error("Sink cleanup failed", "error", err)
			}
		}
	})

	logger.Info("Starting ghg-worker", "sink", sink.Type.String(), "queue", cfg.AMQPQueue)
	if err := client.ConsumeSummaries(ctx, summaryWorker.HandleSummaryMessage); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("Message consumption failed", "error", err)
		os.Exit(1)
	}

	cli.WaitForShutdown(ctx, done)
	written, skipped := summaryWorker.Stats()
	logger.Info("Worker stopped", "written", written, "skipped", skipped)
}
