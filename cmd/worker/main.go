package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/trip-impact-service/internal/app"
	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/pkg/logger"
	"github.com/trip-impact-service/internal/worker"
	"github.com/trip-impact-service/internal/worker/simulation"
	"go.uber.org/zap"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if !cfg.Worker.Enabled {
		fmt.Println("Worker is disabled in configuration. Set WORKER_ENABLED=true to enable.")
		return nil
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	log.Info("Starting simulation worker",
		zap.String("consumer_group", cfg.Worker.ConsumerGroup),
		zap.Int("max_retries", cfg.Worker.MaxRetries),
		zap.Duration("shutdown_timeout", cfg.Worker.ShutdownTimeout),
		zap.String("simulator", cfg.Simulator.BaseURL))

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(sigCtx, cfg, log)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}
	defer application.Close()

	manager := worker.NewWorkerManager(log, cfg.Worker.ShutdownTimeout)
	manager.Register(simulation.NewSimulationWorker(
		application.Streams,
		application.Pipeline,
		cfg.Worker.ConsumerGroup,
		cfg.Worker.MaxRetries,
		log,
	))

	// воркеры живут в своём контексте: сигнал не должен обрывать текущий прогон
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := manager.Start(ctx); err != nil {
		return fmt.Errorf("start workers: %w", err)
	}

	select {
	case <-sigCtx.Done():
		log.Info("Received shutdown signal")
	case <-manager.Done():
		log.Error("Workers exited", zap.Error(manager.Err()))
	}

	if err := manager.Stop(); err != nil {
		return fmt.Errorf("stop workers: %w", err)
	}
	if err := manager.Err(); err != nil {
		return err
	}

	log.Info("Worker shutdown complete")
	return nil
}
