package repository

import (
	"context"

	"github.com/trip-impact-service/internal/domain"
)

// SimulationRepository - HTTP API сервера симуляции. Сервер хранит один загруженный
// сценарий, вызовы разных прогонов нельзя перемежать
type SimulationRepository interface {
	// LoadScenario загружает бинарный сценарий, edits == nil означает базовую карту
	LoadScenario(ctx context.Context, scenarioBinPath string, edits *domain.RoadEdits) error

	// GotoTime прогоняет симуляцию до времени target
	GotoTime(ctx context.Context, target domain.SimulationTarget) error

	// GetRoadThroughput возвращает дороги с ненулевым проездом
	GetRoadThroughput(ctx context.Context) ([]int64, error)

	// GetEditRoadCommand возвращает текущую команду редактирования дороги
	GetEditRoadCommand(ctx context.Context, roadID int64) (*domain.EditRoadCommand, error)

	// GetFinishedTrips возвращает снимок завершённых поездок
	GetFinishedTrips(ctx context.Context) ([]domain.FinishedTrip, error)

	// GetMapGeometry возвращает сводку геометрии карты
	GetMapGeometry(ctx context.Context) (*domain.MapSummary, error)
}
