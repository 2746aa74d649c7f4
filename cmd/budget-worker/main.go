// Command budget-worker consumes entry-recorded events and writes them to
// the journal and the configured export sink.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"budget/internal/backend"
	"budget/internal/cli"
	"budget/internal/log"
	"budget/internal/worker"
)

func main() {
	cli.LoadEnvFile()

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		log.New(log.DefaultConfig()).Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	logger := cli.SetupLogger(os.Stderr, cfg.LogLevel, cfg.LogFormat, log.ComponentWorker)
	logger.Info("Starting budget-worker", log.FieldOperation, log.OpStartup)
	if !cfg.EventsEnabled() {
		logger.Error("AMQP_URL must be set for the worker")
		os.Exit(1)
	}

	bcfg, err := backend.FromAppConfig(cfg)
	if err != nil {
		logger.Error("Invalid backend configuration", log.FieldError, err)
		os.Exit(1)
	}
	bcfg.RequireEvents = true

	startCtx, cancelStart := context.WithTimeout(context.Background(), 2*time.Minute)
	stack, err := backend.NewFactory(logger).Build(startCtx, bcfg)
	cancelStart()
	if err != nil {
		logger.Error("Failed to initialize backend", log.FieldError, err)
		os.Exit(1)
	}

	ctx, done := cli.GracefulShutdown(logger, 30*time.Second, func() {
		if err := stack.Close(); err != nil {
			logger.Warn("Cleanup failed", log.FieldError, err)
		}
	})

	w := worker.NewJournalWorker(stack.JournalWriter(), stack.Sinks, logger)

	go func() {
		err := stack.Events.ConsumeEntryRecorded(ctx, w.HandleEntryRecorded)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Error("Message consumption failed", log.FieldError, err)
			os.Exit(1)
		}
	}()

	cli.WaitForShutdown(ctx, done)
	logger.Info("Worker stopped", log.FieldOperation, log.OpShutdown)
}
