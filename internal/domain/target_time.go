package domain

import "fmt"

const (
	// TargetBufferSeconds - запас в один час после последнего отправления
	TargetBufferSeconds int64 = 3600
	// TargetHorizonSeconds - сутки на завершение всех поездок
	TargetHorizonSeconds int64 = 24 * 3600
)

// SimulationTarget - время симуляции в формате HH:MM:SS, часы не ограничены 24
type SimulationTarget string

func (t SimulationTarget) String() string {
	return string(t)
}

// LatestDeparture - максимальное время отправления по всем поездкам, 0 если поездок нет
func (s *Scenario) LatestDeparture() int64 {
	var latest int64
	for _, p := range s.People {
		for _, t := range p.Trips {
			if t.Departure > latest {
				latest = t.Departure
			}
		}
	}
	return latest
}

// TargetTime вычисляет время, до которого нужно прогнать симуляцию
func TargetTime(s *Scenario) SimulationTarget {
	var latest int64
	if s != nil {
		latest = s.LatestDeparture()
	}
	return SimulationTarget(FormatClock(latest + TargetBufferSeconds + TargetHorizonSeconds))
}

// FormatClock форматирует секунды как HH:MM:SS без переноса через сутки
func FormatClock(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
}
