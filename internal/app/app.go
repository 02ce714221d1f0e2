package app

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/infrastructure/importer"
	"github.com/trip-impact-service/internal/infrastructure/nominatim"
	"github.com/trip-impact-service/internal/infrastructure/oracle"
	"github.com/trip-impact-service/internal/infrastructure/simulator"
	"github.com/trip-impact-service/internal/repository/cache"
	"github.com/trip-impact-service/internal/repository/file"
	"github.com/trip-impact-service/internal/repository/postgres"
	redisRepo "github.com/trip-impact-service/internal/repository/redis"
	"github.com/trip-impact-service/internal/repository/sqlite"
	"github.com/trip-impact-service/internal/usecase"
	"go.uber.org/zap"
)

const healthTimeout = 5 * time.Second

// App - собранные зависимости сервиса, общие для api, worker и CLI
type App struct {
	Config     *config.Config
	Logger     *zap.Logger
	Redis      *cache.Redis
	Streams    repository.StreamRepository
	Pipeline   *usecase.PipelineUseCase
	Runs       *usecase.RunUseCase
	Simulation *usecase.SimulationUseCase

	closers []io.Closer
}

// database - общий интерфейс postgres.DB и sqlite.DB
type database interface {
	io.Closer
	Health(ctx context.Context) error
}

// New подключает хранилища, проверяет их и собирает use cases
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	a := &App{Config: cfg, Logger: log}

	// 1. Run store
	db, runRepo, err := openRunStore(cfg, log)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, db)

	// 2. Redis
	redisClient, err := cache.NewRedis(&cfg.Redis, log)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	a.Redis = redisClient
	a.closers = append(a.closers, redisClient)

	// 3. Health checks
	hctx, cancel := context.WithTimeout(ctx, healthTimeout)
	defer cancel()

	if err := db.Health(hctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	if err := redisClient.Health(hctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("redis health check failed: %w", err)
	}
	if err := runRepo.EnsureSchema(hctx); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to ensure run schema: %w", err)
	}

	log.Info("All connections healthy", zap.String("db_driver", cfg.Database.Driver))

	// 4. Repositories and external clients
	cacheRepo := cache.NewCacheRepository(redisClient)
	sessionRepo := cache.NewSessionRepository(redisClient)
	a.Streams = redisRepo.NewStreamRepository(redisClient.Client(), log)
	scenarioRepo := file.NewScenarioRepository(cfg.Map.ScenarioFile, log)

	oracleClient := oracle.NewOracleClient(&cfg.Oracle, log)
	geocoder := nominatim.NewNominatimClient(&cfg.Geocoder, log)
	compiler := importer.NewCLIImporter(&cfg.Importer, log)
	simClient := simulator.NewSimulatorClient(&cfg.Simulator, log)

	if !cfg.Oracle.Enabled() {
		log.Warn("ORACLE_API_KEY is not set, trip extraction will fail")
	}

	// 5. Use cases
	intentUC := usecase.NewIntentUseCase(oracleClient, log)
	geocodeUC := usecase.NewGeocodeUseCase(geocoder, cacheRepo, cfg.Cache.GeocodeCacheTTL, log)
	scenarioUC := usecase.NewScenarioUseCase(scenarioRepo, compiler, cfg, log)
	a.Simulation = usecase.NewSimulationUseCase(simClient, log)
	roadUC := usecase.NewRoadUseCase(simClient, log)
	metricsUC := usecase.NewMetricsUseCase(simClient, log)
	a.Runs = usecase.NewRunUseCase(runRepo, log)

	a.Pipeline = usecase.NewPipelineUseCase(
		intentUC,
		geocodeUC,
		scenarioUC,
		a.Simulation,
		roadUC,
		metricsUC,
		a.Runs,
		sessionRepo,
		cfg.Cache.SessionTTL,
		usecase.NewSimulationLock(cache.NewLockRepository(redisClient), cfg.Simulator.LockKey, cfg.Simulator.LockTTL, log),
		log,
	)

	log.Info("Use cases initialized")
	return a, nil
}

func openRunStore(cfg *config.Config, log *zap.Logger) (database, repository.RunRepository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		db, err := postgres.New(cfg, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
		}
		return db, postgres.NewRunRepository(db), nil
	case "sqlite":
		db, err := sqlite.New(cfg.Database.SQLitePath, log)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open SQLite: %w", err)
		}
		return db, sqlite.NewRunRepository(db), nil
	default:
		return nil, nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.Database.Driver)
	}
}

// Close закрывает соединения в обратном порядке
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.Logger.Error("Failed to close connection", zap.Error(err))
		}
	}
	a.closers = nil
}
