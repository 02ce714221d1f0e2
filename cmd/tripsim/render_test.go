package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trip-impact-service/internal/domain"
	apperrors "github.com/trip-impact-service/internal/pkg/errors"
)

func TestParseRoadIDs(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []int64
		wantErr bool
	}{
		{name: "empty", input: "", want: nil},
		{name: "spaces only", input: "   ", want: nil},
		{name: "single", input: "5", want: []int64{5}},
		{name: "with spaces", input: " 5 , 9 ", want: []int64{5, 9}},
		{name: "duplicates kept", input: "5,5", want: []int64{5, 5}},
		{name: "not a number", input: "5,abc", wantErr: true},
		{name: "trailing comma", input: "5,", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRoadIDs(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPrintGenerateResult(t *testing.T) {
	var buf bytes.Buffer
	printGenerateResult(&buf, &domain.GenerateResult{
		SessionID:    uuid.New(),
		ScenarioName: "natural_lang_trip",
		TargetTime:   "02:13:20",
		Intent:       domain.TripIntent{Mode: domain.TravelModeBike, Purpose: domain.TripPurposeRecreation},
		DistanceKm:   3.456,
		Roads: []domain.RoadDetail{
			{ID: 9, Name: "Main St", Lanes: []domain.Lane{{LaneType: "Driving", Dir: "Fwd", Width: 3500}}},
			{ID: 5, Name: "Unknown"},
		},
	})

	out := buf.String()
	assert.Contains(t, out, "Detected Road IDs used in simulation: [5, 9]")
	assert.Contains(t, out, "  - Road ID 9 -> Road Name: Main St\n    Lanes: Driving (Fwd, 3.5 m)\n")
	assert.Contains(t, out, "  - Road ID 5 -> Road Name: Unknown\n    Lanes: None\n")
	assert.Contains(t, out, "3.46 km")
}

func TestFormatKm(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{3.456, "3.46"},
		{3.454, "3.45"},
		{3.999, "4"},
		{12.5, "12.5"},
		{0, "0"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, formatKm(tt.in), "km=%v", tt.in)
	}
}

func TestPrintImpactResult(t *testing.T) {
	metrics := domain.MetricsSummary{AvgTravelTime: "00:02:00", MaxDelay: "00:03:00", NumTrips: 1200}

	t.Run("persisted run", func(t *testing.T) {
		var buf bytes.Buffer
		printImpactResult(&buf, &domain.ImpactResult{
			BlockedRoadIDs: []int64{5, 9},
			TargetTime:     "02:13:20",
			Metrics:        metrics,
			Persisted:      true,
			RunID:          42,
		})

		out := buf.String()
		assert.Contains(t, out, "blocked roads [5, 9]")
		assert.Contains(t, out, "Simulation ID: 42")
		assert.Contains(t, out, "Average travel time: 00:02:00")
		assert.Contains(t, out, "Maximum delay: 00:03:00")
		assert.Contains(t, out, "Number of trips: 1,200")
	})

	t.Run("baseline not saved", func(t *testing.T) {
		var buf bytes.Buffer
		printImpactResult(&buf, &domain.ImpactResult{TargetTime: "02:13:20", Metrics: metrics})

		out := buf.String()
		assert.Contains(t, out, "Baseline simulation")
		assert.Contains(t, out, "Simulation ID: not saved")
	})
}

func TestPrintRuns(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		var buf bytes.Buffer
		printRuns(&buf, nil)
		assert.Equal(t, "No simulation runs yet.\n", buf.String())
	})

	t.Run("records", func(t *testing.T) {
		input := "from A to B"
		blocked := "5,9"
		var buf bytes.Buffer
		printRuns(&buf, []domain.RunRecord{
			{
				ID:            3,
				UserInput:     &input,
				AvgTravelTime: "00:02:00",
				MaxDelay:      "00:03:00",
				NumTrips:      3,
				BlockedRoads:  &blocked,
				RunTimestamp:  time.Now().Add(-2 * time.Hour),
			},
			{ID: 2, RunTimestamp: time.Now().Add(-48 * time.Hour)},
		})

		out := buf.String()
		assert.Contains(t, out, "#3  2 hours ago")
		assert.Contains(t, out, "blocked 5,9")
		assert.Contains(t, out, `"from A to B"`)
		assert.Contains(t, out, "#2  2 days ago")
		assert.Contains(t, out, "blocked none")
	})
}

func TestDescribeFailure(t *testing.T) {
	t.Run("non-fatal stop is not an error", func(t *testing.T) {
		var buf bytes.Buffer
		err := describeFailure(&buf, apperrors.ErrNoRoadsUsed)
		assert.NoError(t, err)
		assert.Equal(t, "No roads detected in scenario.\n", buf.String())
	})

	t.Run("fatal error is returned", func(t *testing.T) {
		var buf bytes.Buffer
		err := describeFailure(&buf, apperrors.ErrImport)
		assert.ErrorIs(t, err, apperrors.ErrImport)
		assert.Contains(t, buf.String(), "Error: Failed to import scenario")
	})

	t.Run("invalid selection lists road ids", func(t *testing.T) {
		var buf bytes.Buffer
		err := describeFailure(&buf, apperrors.ErrInvalidRoadSelection.WithDetails(map[string]interface{}{
			"invalid_road_ids": []int64{7},
		}))
		assert.Error(t, err)
		assert.Contains(t, buf.String(), "Invalid Road IDs (not in detected roads): [7]")
	})
}
