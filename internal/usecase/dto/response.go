package dto

import (
	"time"

	"github.com/trip-impact-service/internal/domain"
)

// RoadResponse - дорога, доступная для перекрытия
type RoadResponse struct {
	ID               int64         `json:"id"`
	Name             string        `json:"name"`
	Lanes            []domain.Lane `json:"lanes"`
	LaneDescriptions string        `json:"lane_descriptions"`
}

// GenerateScenarioResponse - итог генерации сценария
type GenerateScenarioResponse struct {
	SessionID       string            `json:"session_id"`
	ScenarioName    string            `json:"scenario_name"`
	ScenarioBinPath string            `json:"scenario_bin_path"`
	TargetTime      string            `json:"target_time"`
	Intent          domain.TripIntent `json:"intent"`
	Origin          domain.Coordinate `json:"origin"`
	Destination     domain.Coordinate `json:"destination"`
	DistanceKm      float64           `json:"distance_km"`
	Roads           []RoadResponse    `json:"roads"`
}

// SimulateResponse - метрики прогона с перекрытиями
type SimulateResponse struct {
	SessionID      string                `json:"session_id"`
	BlockedRoadIDs []int64               `json:"blocked_road_ids"`
	TargetTime     string                `json:"target_time"`
	Metrics        domain.MetricsSummary `json:"metrics"`
	Persisted      bool                  `json:"persisted"`
	RunID          int64                 `json:"run_id,omitempty"`
}

// LegacyGenerateResponse - ответ /generate-scenario
type LegacyGenerateResponse struct {
	Success         bool                `json:"success"`
	ScenarioBinPath string              `json:"scenario_bin_path,omitempty"`
	Message         string              `json:"message"`
	Roads           []domain.RoadDetail `json:"roads,omitempty"`
}

// LegacySimulateResponse - ответ /simulate-with-blocked-roads
type LegacySimulateResponse struct {
	Success bool                   `json:"success"`
	Metrics *domain.MetricsSummary `json:"metrics,omitempty"`
	Message string                 `json:"message,omitempty"`
}

// RunResponse - запись истории прогонов
type RunResponse struct {
	ID            int64     `json:"id"`
	MapName       string    `json:"map_name"`
	UserInput     *string   `json:"user_input,omitempty"`
	ScenarioName  string    `json:"scenario_name"`
	AvgTravelTime string    `json:"avg_travel_time_hms"`
	MaxDelay      string    `json:"max_delay_hms"`
	NumTrips      int       `json:"num_trips"`
	BlockedRoads  []int64   `json:"blocked_roads"`
	RunTimestamp  time.Time `json:"run_timestamp"`
}

// RunsResponse - история прогонов
type RunsResponse struct {
	Runs  []RunResponse `json:"runs"`
	Total int           `json:"total"`
}

// MapSummaryResponse - размер загруженной карты
type MapSummaryResponse struct {
	Roads         int `json:"roads"`
	Intersections int `json:"intersections"`
}

// HealthResponse - состояние сервиса
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// NewRoadResponses превращает детали дорог в ответ API
func NewRoadResponses(details []domain.RoadDetail) []RoadResponse {
	roads := make([]RoadResponse, 0, len(details))
	for _, d := range details {
		lanes := d.Lanes
		if lanes == nil {
			lanes = []domain.Lane{}
		}
		roads = append(roads, RoadResponse{
			ID:               d.ID,
			Name:             d.Name,
			Lanes:            lanes,
			LaneDescriptions: domain.DescribeLanes(d.Lanes),
		})
	}
	return roads
}

// NewGenerateScenarioResponse - ответ на результат generate
func NewGenerateScenarioResponse(r *domain.GenerateResult) GenerateScenarioResponse {
	return GenerateScenarioResponse{
		SessionID:       r.SessionID.String(),
		ScenarioName:    r.ScenarioName,
		ScenarioBinPath: r.ScenarioBinPath,
		TargetTime:      r.TargetTime.String(),
		Intent:          r.Intent,
		Origin:          r.Origin,
		Destination:     r.Destination,
		DistanceKm:      r.DistanceKm,
		Roads:           NewRoadResponses(r.Roads),
	}
}

// NewSimulateResponse - ответ на результат прогона с перекрытиями
func NewSimulateResponse(r *domain.ImpactResult) SimulateResponse {
	blocked := r.BlockedRoadIDs
	if blocked == nil {
		blocked = []int64{}
	}
	return SimulateResponse{
		SessionID:      r.SessionID.String(),
		BlockedRoadIDs: blocked,
		TargetTime:     r.TargetTime.String(),
		Metrics:        r.Metrics,
		Persisted:      r.Persisted,
		RunID:          r.RunID,
	}
}

// NewRunsResponse - ответ истории. Нечитаемый список дорог отдаётся пустым
func NewRunsResponse(records []domain.RunRecord) RunsResponse {
	runs := make([]RunResponse, 0, len(records))
	for _, r := range records {
		blocked, err := r.BlockedRoadIDs()
		if err != nil || blocked == nil {
			blocked = []int64{}
		}
		runs = append(runs, RunResponse{
			ID:            r.ID,
			MapName:       r.MapName,
			UserInput:     r.UserInput,
			ScenarioName:  r.ScenarioName,
			AvgTravelTime: r.AvgTravelTime,
			MaxDelay:      r.MaxDelay,
			NumTrips:      r.NumTrips,
			BlockedRoads:  blocked,
			RunTimestamp:  r.RunTimestamp,
		})
	}
	return RunsResponse{Runs: runs, Total: len(runs)}
}
