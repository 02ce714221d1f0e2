package http

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	fiberSwagger "github.com/swaggo/fiber-swagger"
	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/delivery/http/handler"
	"github.com/trip-impact-service/internal/delivery/http/middleware"
	"github.com/trip-impact-service/internal/pkg/utils"
	"github.com/trip-impact-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// pipelineWriteTimeout покрывает прогон симуляции до целевого времени
const pipelineWriteTimeout = 15 * time.Minute

// Server - HTTP сервер на основе Fiber
type Server struct {
	app    *fiber.App
	config *config.Config
	logger *zap.Logger

	// Handlers
	scenarioHandler *handler.ScenarioHandler
	runHandler      *handler.RunHandler
	mapHandler      *handler.MapHandler
}

// NewServer - создание нового HTTP сервера
func NewServer(
	cfg *config.Config,
	logger *zap.Logger,
	scenarioHandler *handler.ScenarioHandler,
	runHandler *handler.RunHandler,
	mapHandler *handler.MapHandler,
) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "Trip Impact Service",
		ReadTimeout:  10 * time.Second,
		WriteTimeout: pipelineWriteTimeout,
		IdleTimeout:  60 * time.Second,
		ErrorHandler: customErrorHandler(logger),
	})

	s := &Server{
		app:             app,
		config:          cfg,
		logger:          logger,
		scenarioHandler: scenarioHandler,
		runHandler:      runHandler,
		mapHandler:      mapHandler,
	}

	s.setupMiddlewares()
	s.setupRoutes()

	return s
}

// setupMiddlewares - настройка middleware
func (s *Server) setupMiddlewares() {
	s.app.Use(middleware.Recovery(s.logger))
	s.app.Use(middleware.Logger(s.logger))
	s.app.Use(middleware.CORS(s.config.Server.CORSOrigins))
	s.app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))
}

// setupRoutes - настройка маршрутов
func (s *Server) setupRoutes() {
	// Swagger documentation route
	s.app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Маршруты старого фронтенда
	s.app.Post("/generate-scenario", s.scenarioHandler.LegacyGenerate)
	s.app.Post("/simulate-with-blocked-roads", s.scenarioHandler.LegacySimulate)

	api := s.app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(dto.HealthResponse{
			Status: "healthy",
			Time:   time.Now().UTC().Format(time.RFC3339),
		})
	})

	// Scenario routes
	scenarios := api.Group("/scenarios")
	scenarios.Post("/generate", s.scenarioHandler.Generate)
	scenarios.Post("/simulate", s.scenarioHandler.Simulate)
	scenarios.Get("/sessions/:id", s.scenarioHandler.GetSession)

	// Run history
	api.Get("/runs", s.runHandler.ListRuns)

	// Map diagnostics
	api.Get("/map/summary", s.mapHandler.GetSummary)
}

// App - fiber-приложение, используется в тестах
func (s *Server) App() *fiber.App {
	return s.app
}

// Start - запуск HTTP сервера
func (s *Server) Start() error {
	addr := s.config.GetServerAddr()
	s.logger.Info("Starting HTTP server", zap.String("address", addr))
	return s.app.Listen(addr)
}

// Shutdown - graceful shutdown HTTP сервера
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down HTTP server")
	return s.app.ShutdownWithContext(ctx)
}

// customErrorHandler - кастомный обработчик ошибок
func customErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code := fiber.StatusInternalServerError
		var fiberErr *fiber.Error
		if stderrors.As(err, &fiberErr) {
			code = fiberErr.Code
		}

		if code >= fiber.StatusInternalServerError {
			logger.Error("HTTP Error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		} else {
			logger.Debug("HTTP client error",
				zap.String("path", c.Path()),
				zap.Int("status", code),
				zap.Error(err),
			)
		}

		return utils.SendError(c, err)
	}
}
