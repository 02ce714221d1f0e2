package usecase

import (
	"context"
	"fmt"
	"sort"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"go.uber.org/zap"
)

// RoadUseCase находит использованные дороги и строит правки для их перекрытия
type RoadUseCase struct {
	sim    repository.SimulationRepository
	logger *zap.Logger
}

func NewRoadUseCase(sim repository.SimulationRepository, logger *zap.Logger) *RoadUseCase {
	return &RoadUseCase{
		sim:    sim,
		logger: logger,
	}
}

// CollectUsedRoads возвращает различные id дорог с ненулевым проездом.
// Пустой результат - ErrNoRoadsUsed
func (uc *RoadUseCase) CollectUsedRoads(ctx context.Context) ([]int64, error) {
	ids, err := uc.sim.GetRoadThroughput(ctx)
	if err != nil {
		return nil, errors.ErrSimulation.
			WithDetails(map[string]interface{}{"operation": "get-road-thruput"}).
			WithCause(err)
	}

	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return nil, errors.ErrNoRoadsUsed
	}

	uc.logger.Info("Roads used in scenario", zap.Int("count", len(ids)))
	return ids, nil
}

// EnrichRoadDetails запрашивает описание каждой дороги по возрастанию id.
// Дороги, для которых запрос не удался, пропускаются: результат может быть короче входа
func (uc *RoadUseCase) EnrichRoadDetails(ctx context.Context, roadIDs []int64) []domain.RoadDetail {
	sorted := uniqueIDs(roadIDs)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })

	details := make([]domain.RoadDetail, 0, len(sorted))
	for _, id := range sorted {
		cmd, err := uc.sim.GetEditRoadCommand(ctx, id)
		if err != nil {
			uc.logger.Warn("Failed to get road details, skipping", zap.Int64("road_id", id), zap.Error(err))
			continue
		}
		detail, err := cmd.Detail(id)
		if err != nil {
			uc.logger.Warn("Malformed road details, skipping", zap.Int64("road_id", id), zap.Error(err))
			continue
		}
		details = append(details, detail)
	}

	if len(details) < len(sorted) {
		uc.logger.Info("Road details partially available",
			zap.Int("requested", len(sorted)),
			zap.Int("returned", len(details)))
	}

	return details
}

// ValidateSelection проверяет, что выбранные дороги входят в обнаруженные
func ValidateSelection(detected, chosen []int64) error {
	session := domain.Session{RoadIDs: detected}
	if invalid := session.InvalidRoads(chosen); len(invalid) > 0 {
		return errors.ErrInvalidRoadSelection.WithDetails(map[string]interface{}{
			"invalid_road_ids": invalid,
		})
	}
	return nil
}

// BuildClosureEdits строит один пакет правок, убирающий все полосы у выбранных дорог.
// Первая неудача запроса прерывает построение, частичных перекрытий нет
func (uc *RoadUseCase) BuildClosureEdits(
	ctx context.Context,
	mapID domain.MapIdentity,
	detected, chosen []int64,
) (*domain.RoadEdits, error) {
	if err := ValidateSelection(detected, chosen); err != nil {
		return nil, err
	}

	chosen = uniqueIDs(chosen)
	commands := make([]domain.RoadEditCommand, 0, len(chosen))
	for _, id := range chosen {
		cmd, err := uc.sim.GetEditRoadCommand(ctx, id)
		if err != nil {
			return nil, errors.ErrSimulation.
				WithDetails(map[string]interface{}{"operation": "get-edit-road-command", "road_id": id}).
				WithCause(err)
		}

		closed, err := cmd.ChangeRoad.Closed()
		if err != nil {
			return nil, errors.ErrSimulation.
				WithDetails(map[string]interface{}{"operation": "close-road", "road_id": id}).
				WithCause(fmt.Errorf("road %d: %w", id, err))
		}

		commands = append(commands, domain.RoadEditCommand{RoadID: id, ChangeRoad: closed})
		uc.logger.Info("Road will be blocked", zap.Int64("road_id", id), zap.String("road_name", cmd.RoadName))
	}

	return domain.NewClosureEdits(mapID, commands), nil
}

// uniqueIDs убирает повторы, сохраняя порядок первого вхождения
func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
