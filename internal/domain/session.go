package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session - результат generate-пайплайна, на который ссылается прогон с перекрытиями
type Session struct {
	ID              uuid.UUID        `json:"id"`
	ScenarioName    string           `json:"scenario_name"`
	ScenarioFile    string           `json:"scenario_file"`
	ScenarioBinPath string           `json:"scenario_bin_path"`
	UserInput       string           `json:"user_input"`
	RoadIDs         []int64          `json:"road_ids"`
	TargetTime      SimulationTarget `json:"target_time"`
	CreatedAt       time.Time        `json:"created_at"`
}

// InvalidRoads возвращает выбранные дороги, которых нет среди обнаруженных
func (s *Session) InvalidRoads(chosen []int64) []int64 {
	detected := make(map[int64]struct{}, len(s.RoadIDs))
	for _, id := range s.RoadIDs {
		detected[id] = struct{}{}
	}
	var invalid []int64
	for _, id := range chosen {
		if _, ok := detected[id]; !ok {
			invalid = append(invalid, id)
		}
	}
	return invalid
}
