package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"bilancio/internal/amqp"
	"bilancio/internal/config"
	"bilancio/internal/log"
	"bilancio/internal/services"
	"bilancio/internal/storage"
)

func main() {
	// Load .env file for local development (ignore errors in production/docker)
	_ = godotenv.Load()

	// Setup structured logging
	logCfg := log.DefaultConfig()
	logCfg.Component = log.ComponentWorker
	logger := log.New(logCfg)
	log.SetDefault(logger)

	logger.Info("Starting bilancio-worker")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	// The worker always writes through SQLite; the memory backend has no
	// state worth reconciling across restarts.
	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// AMQP consumer is optional; without it the periodic sweep still runs.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, continuing in sweep-only mode", "error", err)
			amqpClient = nil
		} else {
			defer amqpClient.Close()
			logger.Info("AMQP client initialized - consuming status transitions")
		}
	}

	processor := services.NewReconcileProcessor(repo, repo, cfg.ReconcileBatchSize)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Consume transition messages published by the read path and apply
	// them immediately.
	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeStatusTransitions(ctx, func(msg *amqp.StatusTransitionMessage) error {
				return repo.MarkOverdue(ctx, []string{msg.TransactionID})
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	// Periodic full sweep catches transactions that crossed their due
	// date while nobody was reading.
	g.Go(func() error {
		logger.Info("Running initial overdue reconciliation...")
		if count, err := processor.ProcessOverdue(ctx, time.Now()); err != nil {
			logger.Error("Initial reconciliation failed", "error", err)
		} else {
			logger.Info("Initial reconciliation complete", "transitions", count)
		}

		ticker := time.NewTicker(cfg.ReconcileInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case now := <-ticker.C:
				count, err := processor.ProcessOverdue(ctx, now)
				if err != nil {
					logger.Error("Periodic reconciliation failed", "error", err)
					continue
				}
				logger.Info("Periodic reconciliation complete",
					"transitions", count,
					"next_check", now.Add(cfg.ReconcileInterval).Format("15:04:05"))
			}
		}
	})

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped with error", "error", err)
		os.Exit(1)
	}
	logger.Info("bilancio-worker shutdown complete")
}
