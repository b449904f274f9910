package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"piano/internal/amqp"
	"piano/internal/config"
	applog "piano/internal/log"
	"piano/internal/storage"
	"piano/internal/worker"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	logCfg := applog.DefaultConfig()
	logCfg.Component = applog.ComponentWorker
	logger := applog.New(logCfg)
	applog.SetDefault(logger)

	logger.Info("Starting piano-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	if cfg.AMQPURL == "" {
		logger.Error("AMQP_URL is required for the audit worker")
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	amqpClient, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
	if err != nil {
		logger.Error("Failed to initialize AMQP client", "error", err)
		os.Exit(1)
	}
	defer amqpClient.Close()

	auditWorker := worker.NewAuditWorker(repo)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		handler := func(msg *amqp.EntityChangeMessage) error {
			hctx, hcancel := context.WithTimeout(ctx, cfg.ConsumeTimeout)
			defer hcancel()
			return auditWorker.HandleEntityChange(hctx, msg)
		}
		if err := amqpClient.ConsumeEntityChanges(ctx, handler); err != nil {
			if !errors.Is(err, context.Canceled) {
				logger.Error("Message consumption failed", "error", err)
			}
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info("Shutdown signal received", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("Context cancelled")
	}

	logger.Info("Shutting down worker...")
	cancel()

	// Give the in-flight handler a moment to finish.
	time.Sleep(2 * time.Second)
	logger.Info("Worker shutdown complete")
}
