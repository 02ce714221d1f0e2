package domain

import "github.com/google/uuid"

const (
	PipelineGenerate = "generate"
	PipelineSimulate = "simulate"
)

// Stage - состояние пайплайна
type Stage string

const (
	StageIdle             Stage = "idle"
	StageExtractingIntent Stage = "extracting_intent"
	StageGeocoding        Stage = "geocoding"
	StageScenarioWritten  Stage = "scenario_written"
	StageImported         Stage = "imported"
	StageLoaded           Stage = "loaded"
	StageTargetComputed   Stage = "target_computed"
	StageSimulated        Stage = "simulated"
	StageRoadsCollected   Stage = "roads_collected"
	StageEditsFetched     Stage = "edits_fetched"
	StageTargetRecomputed Stage = "target_recomputed"
	StageResimulated      Stage = "resimulated"
	StageMetricsFetched   Stage = "metrics_fetched"
	StagePersisted        Stage = "persisted"
	StageDone             Stage = "done"
	StageFailed           Stage = "failed"
)

// GenerateResult - итог generate-пайплайна
type GenerateResult struct {
	SessionID       uuid.UUID        `json:"session_id"`
	ScenarioName    string           `json:"scenario_name"`
	ScenarioBinPath string           `json:"scenario_bin_path"`
	TargetTime      SimulationTarget `json:"target_time"`
	Intent          TripIntent       `json:"intent"`
	Origin          Coordinate       `json:"origin"`
	Destination     Coordinate       `json:"destination"`
	DistanceKm      float64          `json:"distance_km"`
	Roads           []RoadDetail     `json:"roads"`
}

// ImpactRequest - запрос прогона с перекрытыми дорогами.
// Пустой BlockedRoadIDs означает базовый прогон без правок
type ImpactRequest struct {
	SessionID       uuid.UUID
	BlockedRoadIDs  []int64
	UserInput       string
	ScenarioBinPath string
}

// ImpactResult - итог прогона с перекрытиями
type ImpactResult struct {
	SessionID      uuid.UUID        `json:"session_id"`
	BlockedRoadIDs []int64          `json:"blocked_road_ids"`
	TargetTime     SimulationTarget `json:"target_time"`
	Metrics        MetricsSummary   `json:"metrics"`
	Persisted      bool             `json:"persisted"`
	RunID          int64            `json:"run_id,omitempty"`
}
