package domain

import (
	"fmt"
	"strings"
)

type TravelMode string

const (
	TravelModeDrive TravelMode = "Drive"
	TravelModeWalk  TravelMode = "Walk"
	TravelModeBike  TravelMode = "Bike"
)

type TripPurpose string

const (
	TripPurposeWork       TripPurpose = "Work"
	TripPurposeMeal       TripPurpose = "Meal"
	TripPurposeRecreation TripPurpose = "Recreation"
)

// ParseTravelMode - регистронезависимый разбор, пустое значение даёт Drive
func ParseTravelMode(s string) (TravelMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "drive":
		return TravelModeDrive, nil
	case "walk":
		return TravelModeWalk, nil
	case "bike":
		return TravelModeBike, nil
	}
	return "", fmt.Errorf("unknown travel mode %q", s)
}

// ParseTripPurpose - регистронезависимый разбор, пустое значение даёт Work
func ParseTripPurpose(s string) (TripPurpose, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "work":
		return TripPurposeWork, nil
	case "meal":
		return TripPurposeMeal, nil
	case "recreation":
		return TripPurposeRecreation, nil
	}
	return "", fmt.Errorf("unknown trip purpose %q", s)
}

// TripIntent - структурированное намерение поездки, извлечённое из текста
type TripIntent struct {
	Origin      string      `json:"origin" validate:"required"`
	Destination string      `json:"destination" validate:"required"`
	Mode        TravelMode  `json:"mode" validate:"required,oneof=Drive Walk Bike"`
	Purpose     TripPurpose `json:"purpose" validate:"required,oneof=Work Meal Recreation"`
}

// Scenario - документ сценария, который принимает компилятор симулятора
type Scenario struct {
	ScenarioName string   `json:"scenario_name"`
	People       []Person `json:"people"`
}

type Person struct {
	Trips []Trip `json:"trips"`
}

type Trip struct {
	Departure   int64        `json:"departure"`
	Origin      TripEndpoint `json:"origin"`
	Destination TripEndpoint `json:"destination"`
	Mode        TravelMode   `json:"mode"`
	Purpose     TripPurpose  `json:"purpose"`
}

type TripEndpoint struct {
	Position Coordinate `json:"Position"`
}

// NewSingleTripScenario собирает сценарий из одного человека с одной поездкой
func NewSingleTripScenario(name string, intent TripIntent, origin, destination Coordinate, departure int64) *Scenario {
	return &Scenario{
		ScenarioName: name,
		People: []Person{{
			Trips: []Trip{{
				Departure:   departure,
				Origin:      TripEndpoint{Position: origin},
				Destination: TripEndpoint{Position: destination},
				Mode:        intent.Mode,
				Purpose:     intent.Purpose,
			}},
		}},
	}
}

// Validate проверяет инвариант неотрицательного времени отправления
func (s *Scenario) Validate() error {
	for i, p := range s.People {
		for j, t := range p.Trips {
			if t.Departure < 0 {
				return fmt.Errorf("person %d trip %d: negative departure %d", i, j, t.Departure)
			}
		}
	}
	return nil
}
