package postgres

import (
	"context"
	"fmt"

	"github.com/trip-impact-service/internal/domain"
	"github.com/trip-impact-service/internal/domain/repository"
	"go.uber.org/zap"
)

const createSimulationsTable = `
CREATE TABLE IF NOT EXISTS simulations (
	id                  BIGSERIAL PRIMARY KEY,
	map_name            TEXT NOT NULL,
	user_input          TEXT,
	scenario_name       TEXT NOT NULL,
	avg_travel_time_hms TEXT NOT NULL,
	max_delay_hms       TEXT NOT NULL,
	num_trips           INTEGER NOT NULL,
	blocked_roads       TEXT,
	run_timestamp       TIMESTAMP NOT NULL
)`

type runRepository struct {
	db *DB
}

// NewRunRepository создает репозиторий журнала прогонов
func NewRunRepository(db *DB) repository.RunRepository {
	return &runRepository{db: db}
}

func (r *runRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createSimulationsTable); err != nil {
		return fmt.Errorf("create simulations table: %w", err)
	}
	return nil
}

// Insert добавляет запись о прогоне
func (r *runRepository) Insert(ctx context.Context, record *domain.RunRecord) (int64, error) {
	query := `
		INSERT INTO simulations (
			map_name, user_input, scenario_name,
			avg_travel_time_hms, max_delay_hms, num_trips,
			blocked_roads, run_timestamp
		) VALUES (
			:map_name, :user_input, :scenario_name,
			:avg_travel_time_hms, :max_delay_hms, :num_trips,
			:blocked_roads, :run_timestamp
		)
		RETURNING id
	`

	rows, err := r.db.NamedQueryContext(ctx, query, record)
	if err != nil {
		r.db.logger.Error("failed to insert simulation run",
			zap.String("scenario_name", record.ScenarioName),
			zap.Error(err))
		return 0, fmt.Errorf("insert simulation run: %w", err)
	}
	defer rows.Close()

	var id int64
	if rows.Next() {
		if err := rows.Scan(&id); err != nil {
			return 0, fmt.Errorf("scan simulation id: %w", err)
		}
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("insert simulation run: %w", err)
	}

	return id, nil
}

// ListRecent возвращает последние прогоны
func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]domain.RunRecord, error) {
	query := `
		SELECT id, map_name, user_input, scenario_name,
			avg_travel_time_hms, max_delay_hms, num_trips,
			blocked_roads, run_timestamp
		FROM simulations
		ORDER BY run_timestamp DESC, id DESC
		LIMIT $1
	`

	var records []domain.RunRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("list simulation runs: %w", err)
	}

	return records, nil
}
