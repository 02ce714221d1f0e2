package usecase

import (
	"context"

	"github.com/trip-impact-service/internal/config"
	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// ScenarioUseCase собирает сценарий, пишет его в файл и компилирует для карты
type ScenarioUseCase struct {
	scenarios repository.ScenarioRepository
	compiler  repository.ScenarioCompilerRepository
	cfg       *config.Config
	logger    *zap.Logger
}

func NewScenarioUseCase(
	scenarios repository.ScenarioRepository,
	compiler repository.ScenarioCompilerRepository,
	cfg *config.Config,
	logger *zap.Logger,
) *ScenarioUseCase {
	return &ScenarioUseCase{
		scenarios: scenarios,
		compiler:  compiler,
		cfg:       cfg,
		logger:    logger,
	}
}

// Build - один человек, одна поездка, фиксированное время отправления
func (uc *ScenarioUseCase) Build(intent *domain.TripIntent, origin, destination domain.Coordinate) *domain.Scenario {
	return domain.NewSingleTripScenario(
		uc.cfg.Map.ScenarioName,
		*intent,
		origin,
		destination,
		uc.cfg.Map.DepartureSeconds,
	)
}

// Write перезаписывает файл сценария
func (uc *ScenarioUseCase) Write(ctx context.Context, scenario *domain.Scenario) (string, error) {
	if err := scenario.Validate(); err != nil {
		return "", errors.ErrInvalidRequest.WithCause(err)
	}

	path, err := uc.scenarios.Save(ctx, scenario)
	if err != nil {
		uc.logger.Error("Failed to write scenario file", zap.Error(err))
		return "", errors.ErrInternalServer.WithCause(err)
	}
	return path, nil
}

// Import компилирует файл сценария и возвращает путь к бинарному артефакту
func (uc *ScenarioUseCase) Import(ctx context.Context, scenarioPath, scenarioName string) (string, error) {
	if err := uc.compiler.Import(ctx, uc.cfg.GetMapBinPath(), scenarioPath); err != nil {
		return "", errors.ErrImport.WithCause(err)
	}
	return uc.cfg.GetScenarioBinPath(scenarioName), nil
}

// LoadCanonical перечитывает сценарий из файла, файл считается источником истины
func (uc *ScenarioUseCase) LoadCanonical(ctx context.Context, path string) (*domain.Scenario, error) {
	scenario, err := uc.scenarios.Load(ctx, path)
	if err != nil {
		uc.logger.Error("Failed to read scenario file", zap.String("path", path), zap.Error(err))
		return nil, errors.ErrInternalServer.WithCause(err)
	}
	return scenario, nil
}

// MapIdentity - карта, к которой относятся правки
func (uc *ScenarioUseCase) MapIdentity() domain.MapIdentity {
	return domain.MapIdentity{
		City: domain.CityIdentity{Country: uc.cfg.Map.Country, City: uc.cfg.Map.City},
		Map:  uc.cfg.Map.Name,
	}
}
