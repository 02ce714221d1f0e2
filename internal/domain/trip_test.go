package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTravelMode(t *testing.T) {
	tests := []struct {
		input    string
		expected TravelMode
		wantErr  bool
	}{
		{"Drive", TravelModeDrive, false},
		{"", TravelModeDrive, false},
		{"  walk ", TravelModeWalk, false},
		{"BIKE", TravelModeBike, false},
		{"Teleport", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTravelMode(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestParseTripPurpose(t *testing.T) {
	tests := []struct {
		input    string
		expected TripPurpose
		wantErr  bool
	}{
		{"Work", TripPurposeWork, false},
		{"", TripPurposeWork, false},
		{"meal", TripPurposeMeal, false},
		{"Recreation", TripPurposeRecreation, false},
		{"Shopping", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTripPurpose(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCoordinate_Valid(t *testing.T) {
	assert.True(t, Coordinate{Lon: 31.47, Lat: 30.02}.Valid())
	assert.False(t, Coordinate{Lon: 181, Lat: 0}.Valid())
	assert.False(t, Coordinate{Lon: 0, Lat: -91}.Valid())
}

func TestCoordinate_DistanceKm(t *testing.T) {
	tower := Coordinate{Lat: 30.0459, Lon: 31.2243}
	pyramids := Coordinate{Lat: 29.9792, Lon: 31.1342}

	assert.InDelta(t, 11.5, tower.DistanceKm(pyramids), 1.0)
	assert.InDelta(t, tower.DistanceKm(pyramids), pyramids.DistanceKm(tower), 1e-9)
	assert.Zero(t, tower.DistanceKm(tower))
}
