package usecase

import (
	"context"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"github.com/trip-impact-service/internal/pkg/errors"
	"go.uber.org/zap"
)

const msPerMinute = 60000.0

// MetricsUseCase считает сводку по завершённым поездкам
type MetricsUseCase struct {
	sim    repository.SimulationRepository
	logger *zap.Logger
}

func NewMetricsUseCase(sim repository.SimulationRepository, logger *zap.Logger) *MetricsUseCase {
	return &MetricsUseCase{
		sim:    sim,
		logger: logger,
	}
}

// Fetch забирает снимок завершённых поездок и считает по нему сводку
func (uc *MetricsUseCase) Fetch(ctx context.Context) (*domain.MetricsSummary, error) {
	trips, err := uc.sim.GetFinishedTrips(ctx)
	if err != nil {
		return nil, errors.ErrSimulation.
			WithDetails(map[string]interface{}{"operation": "get-finished-trips"}).
			WithCause(err)
	}

	summary, err := Summarize(trips)
	if err != nil {
		uc.logger.Info("No finished trips found", zap.Int("snapshot_size", len(trips)))
		return nil, err
	}

	uc.logger.Info("Metrics summary computed",
		zap.String("avg_travel_time", summary.AvgTravelTime),
		zap.String("max_delay", summary.MaxDelay),
		zap.Int("num_trips", summary.NumTrips))

	return summary, nil
}

// Summarize учитывает только поездки с ненулевой длительностью. Пустой набор - ErrNoFinishedTrips
func Summarize(trips []domain.FinishedTrip) (*domain.MetricsSummary, error) {
	var sum, maxMins float64
	count := 0

	for _, t := range trips {
		if t.Duration == nil || *t.Duration == 0 {
			continue
		}
		mins := *t.Duration / msPerMinute
		sum += mins
		if count == 0 || mins > maxMins {
			maxMins = mins
		}
		count++
	}

	if count == 0 {
		return nil, errors.ErrNoFinishedTrips
	}

	avg := sum / float64(count)
	return &domain.MetricsSummary{
		AvgTravelTime:    domain.FormatMinutes(avg),
		MaxDelay:         domain.FormatMinutes(maxMins),
		NumTrips:         count,
		AvgTravelMinutes: avg,
		MaxDelayMinutes:  maxMins,
	}, nil
}
