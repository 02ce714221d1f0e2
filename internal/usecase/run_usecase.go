package usecase

import (
	"context"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const (
	DefaultRunsLimit = 20
	MaxRunsLimit     = 200
)

// RunUseCase - журнал прогонов
type RunUseCase struct {
	runs   repository.RunRepository
	logger *zap.Logger
}

func NewRunUseCase(runs repository.RunRepository, logger *zap.Logger) *RunUseCase {
	return &RunUseCase{
		runs:   runs,
		logger: logger,
	}
}

// Record сохраняет запись. Ошибка возвращается как ErrPersistence и не должна прерывать прогон
func (uc *RunUseCase) Record(ctx context.Context, record *domain.RunRecord) (int64, error) {
	id, err := uc.runs.Insert(ctx, record)
	if err != nil {
		uc.logger.Error("Failed to insert simulation summary",
			zap.String("scenario_name", record.ScenarioName),
			zap.Error(err))
		return 0, errors.ErrPersistence.WithCause(err)
	}

	uc.logger.Info("Simulation summary inserted", zap.Int64("run_id", id))
	return id, nil
}

// ListRecent возвращает последние прогоны, limit ограничивается [1, MaxRunsLimit]
func (uc *RunUseCase) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	if limit <= 0 {
		limit = DefaultRunsLimit
	}
	if limit > MaxRunsLimit {
		limit = MaxRunsLimit
	}

	records, err := uc.runs.ListRecent(ctx, limit)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithCause(err)
	}
	if records == nil {
		records = []domain.RunRecord{}
	}
	return records, nil
}
