package domain

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// FinishedTrip - поездка из /data/get-finished-trips. Duration в миллисекундах,
// отсутствует для незавершённых поездок
type FinishedTrip struct {
	Duration *float64 `json:"duration"`
}

// MetricsSummary - итог прогона по завершённым поездкам
type MetricsSummary struct {
	AvgTravelTime    string  `json:"avg_travel_time_hms"`
	MaxDelay         string  `json:"max_delay_hms"`
	NumTrips         int     `json:"num_trips"`
	AvgTravelMinutes float64 `json:"avg_travel_time_min"`
	MaxDelayMinutes  float64 `json:"max_delay_min"`
}

// FormatMinutes - HH:MM:SS из минут, секунды отбрасывают дробную часть
func FormatMinutes(mins float64) string {
	whole := int64(mins)
	h, m := whole/60, whole%60
	s := int64(math.Mod(mins*60, 60))
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// RunRecord - строка таблицы simulations
type RunRecord struct {
	ID            int64     `json:"id" db:"id"`
	MapName       string    `json:"map_name" db:"map_name"`
	UserInput     *string   `json:"user_input,omitempty" db:"user_input"`
	ScenarioName  string    `json:"scenario_name" db:"scenario_name"`
	AvgTravelTime string    `json:"avg_travel_time_hms" db:"avg_travel_time_hms"`
	MaxDelay      string    `json:"max_delay_hms" db:"max_delay_hms"`
	NumTrips      int       `json:"num_trips" db:"num_trips"`
	BlockedRoads  *string   `json:"blocked_roads,omitempty" db:"blocked_roads"`
	RunTimestamp  time.Time `json:"run_timestamp" db:"run_timestamp"`
}

// NewRunRecord собирает запись прогона. Пустой ввод и пустой список дорог хранятся как NULL
func NewRunRecord(mapName, scenarioName, userInput string, metrics MetricsSummary, blocked []int64, at time.Time) RunRecord {
	var input *string
	if userInput != "" {
		input = &userInput
	}
	return RunRecord{
		MapName:       mapName,
		UserInput:     input,
		ScenarioName:  scenarioName,
		AvgTravelTime: metrics.AvgTravelTime,
		MaxDelay:      metrics.MaxDelay,
		NumTrips:      metrics.NumTrips,
		BlockedRoads:  FormatBlockedRoads(blocked),
		RunTimestamp:  at,
	}
}

// FormatBlockedRoads - "5,9" или nil
func FormatBlockedRoads(ids []int64) *string {
	if len(ids) == 0 {
		return nil
	}
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	joined := strings.Join(parts, ",")
	return &joined
}

// BlockedRoadIDs разбирает сохранённый список перекрытых дорог
func (r RunRecord) BlockedRoadIDs() ([]int64, error) {
	if r.BlockedRoads == nil || *r.BlockedRoads == "" {
		return nil, nil
	}
	parts := strings.Split(*r.BlockedRoads, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("parse blocked road %q: %w", p, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}
