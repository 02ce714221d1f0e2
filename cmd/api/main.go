package main

// @title Trip Impact Service API
// @version 1.0.0
// @description Сервис оценки влияния перекрытия дорог на время поездки.
// @description
// @description Основные возможности:
// @description - Генерация сценария симуляции из описания поездки на естественном языке
// @description - Определение дорог, использованных в прогоне
// @description - Повторный прогон с перекрытыми дорогами и метрики времени в пути
// @description - История прогонов

// @contact.name API Support

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:8080
// @BasePath /
// @schemes http

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/trip-impact-service/docs"
	"github.com/trip-impact-service/internal/app"
	"github.com/trip-impact-service/internal/config"
	httpDelivery "github.com/trip-impact-service/internal/delivery/http"
	"github.com/trip-impact-service/internal/delivery/http/handler"
	"github.com/trip-impact-service/internal/pkg/logger"
	"go.uber.org/zap"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("Starting Trip Impact Service",
		zap.String("env", cfg.Server.Env),
		zap.String("server_addr", cfg.GetServerAddr()),
		zap.String("simulator", cfg.Simulator.BaseURL),
		zap.String("map", cfg.Map.Name),
	)

	application, err := app.New(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("init application: %w", err)
	}
	defer application.Close()

	server := httpDelivery.NewServer(
		cfg,
		log,
		handler.NewScenarioHandler(application.Pipeline, cfg.Server.SimulationWait, log),
		handler.NewRunHandler(application.Runs, log),
		handler.NewMapHandler(application.Simulation, log),
	)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
		log.Info("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("http shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
