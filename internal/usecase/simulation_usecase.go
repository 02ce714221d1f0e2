package usecase

import (
	"context"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// SimulationUseCase управляет загрузкой сценария и продвижением часов симуляции
type SimulationUseCase struct {
	sim    repository.SimulationRepository
	logger *zap.Logger
}

func NewSimulationUseCase(sim repository.SimulationRepository, logger *zap.Logger) *SimulationUseCase {
	return &SimulationUseCase{
		sim:    sim,
		logger: logger,
	}
}

// Load заменяет загруженный сценарий. edits == nil - базовая карта
func (uc *SimulationUseCase) Load(ctx context.Context, scenarioBinPath string, edits *domain.RoadEdits) error {
	if err := uc.sim.LoadScenario(ctx, scenarioBinPath, edits); err != nil {
		return errors.ErrSimulation.
			WithDetails(map[string]interface{}{"operation": "load", "scenario": scenarioBinPath}).
			WithCause(err)
	}
	return nil
}

// AdvanceTo блокируется, пока сервер не дойдёт до target
func (uc *SimulationUseCase) AdvanceTo(ctx context.Context, target domain.SimulationTarget) error {
	if err := uc.sim.GotoTime(ctx, target); err != nil {
		return errors.ErrSimulation.
			WithDetails(map[string]interface{}{"operation": "goto-time", "target_time": target.String()}).
			WithCause(err)
	}
	return nil
}

// MapSummary - количество дорог и перекрёстков загруженной карты
func (uc *SimulationUseCase) MapSummary(ctx context.Context) (*domain.MapSummary, error) {
	summary, err := uc.sim.GetMapGeometry(ctx)
	if err != nil {
		return nil, errors.ErrSimulation.
			WithDetails(map[string]interface{}{"operation": "get-all-geometry"}).
			WithCause(err)
	}
	return summary, nil
}
