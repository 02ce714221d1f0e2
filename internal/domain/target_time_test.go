package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTargetTime(t *testing.T) {
	intent := TripIntent{Mode: TravelModeDrive, Purpose: TripPurposeWork}

	tests := []struct {
		name     string
		scenario *Scenario
		expected SimulationTarget
	}{
		{
			name:     "single trip at 8000s is not wrapped past midnight",
			scenario: NewSingleTripScenario("s", intent, Coordinate{}, Coordinate{}, 8000),
			expected: "27:13:20",
		},
		{
			name:     "no trips defaults to zero departure",
			scenario: &Scenario{ScenarioName: "empty"},
			expected: "25:00:00",
		},
		{
			name:     "nil scenario",
			scenario: nil,
			expected: "25:00:00",
		},
		{
			name: "latest departure across people wins",
			scenario: &Scenario{People: []Person{
				{Trips: []Trip{{Departure: 100}, {Departure: 7261}}},
				{Trips: []Trip{{Departure: 3599}}},
			}},
			expected: "27:01:01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TargetTime(tt.scenario))
		})
	}
}

func TestTargetTime_SurvivesSerialization(t *testing.T) {
	intent := TripIntent{Origin: "a", Destination: "b", Mode: TravelModeBike, Purpose: TripPurposeMeal}
	s := NewSingleTripScenario("natural_lang_trip", intent,
		Coordinate{Lon: 31.4713, Lat: 30.0275}, Coordinate{Lon: 31.4997, Lat: 30.0187}, 8000)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var reparsed Scenario
	require.NoError(t, json.Unmarshal(data, &reparsed))

	assert.Equal(t, TargetTime(s), TargetTime(&reparsed))
	assert.Equal(t, *s, reparsed)
}

func TestScenario_JSONShape(t *testing.T) {
	intent := TripIntent{Mode: TravelModeWalk, Purpose: TripPurposeRecreation}
	s := NewSingleTripScenario("natural_lang_trip", intent, Coordinate{Lon: 1.5, Lat: 2.5}, Coordinate{Lon: 3, Lat: 4}, 8000)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	assert.JSONEq(t, `{
		"scenario_name": "natural_lang_trip",
		"people": [{"trips": [{
			"departure": 8000,
			"origin": {"Position": {"longitude": 1.5, "latitude": 2.5}},
			"destination": {"Position": {"longitude": 3, "latitude": 4}},
			"mode": "Walk",
			"purpose": "Recreation"
		}]}]
	}`, string(data))
}

func TestScenario_Validate(t *testing.T) {
	ok := &Scenario{People: []Person{{Trips: []Trip{{Departure: 0}}}}}
	assert.NoError(t, ok.Validate())

	bad := &Scenario{People: []Person{{Trips: []Trip{{Departure: -1}}}}}
	assert.Error(t, bad.Validate())
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00:00", FormatClock(0))
	assert.Equal(t, "01:01:01", FormatClock(3661))
	assert.Equal(t, "100:00:59", FormatClock(360059))
}
