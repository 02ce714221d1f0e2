package main

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/trip-impact-service/internal/domain"
	apperrors "github.com/trip-impact-service/internal/pkg/errors"
)

// parseRoadIDs - "5, 9" -> [5 9]. Пустая строка - пустой список
func parseRoadIDs(s string) ([]int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	ids := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid road id %q: only comma-separated integers are allowed", strings.TrimSpace(part))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func joinIDs(ids []int64) string {
	parts := make([]string, 0, len(ids))
	for _, id := range ids {
		parts = append(parts, strconv.FormatInt(id, 10))
	}
	return strings.Join(parts, ", ")
}

// formatKm - километры, округлённые до двух знаков
func formatKm(km float64) string {
	return humanize.FtoaWithDigits(math.Round(km*100)/100, 2)
}

func printGenerateResult(w io.Writer, r *domain.GenerateResult) {
	fmt.Fprintf(w, "\nScenario %q generated (session %s)\n", r.ScenarioName, r.SessionID)
	fmt.Fprintf(w, "Trip: %s for %s, %s km straight-line\n",
		r.Intent.Mode, r.Intent.Purpose, formatKm(r.DistanceKm))
	fmt.Fprintf(w, "Simulated until %s\n", r.TargetTime)

	fmt.Fprintf(w, "\nDetected Road IDs used in simulation: [%s]\n", joinIDs(sortedRoadIDs(r.Roads)))
	fmt.Fprintln(w, "\nRoad Details:")
	for _, road := range r.Roads {
		fmt.Fprintf(w, "  - Road ID %d -> Road Name: %s\n", road.ID, road.Name)
		fmt.Fprintf(w, "    Lanes: %s\n", domain.DescribeLanes(road.Lanes))
	}
}

func printImpactResult(w io.Writer, r *domain.ImpactResult) {
	if len(r.BlockedRoadIDs) > 0 {
		fmt.Fprintf(w, "\nSimulation with blocked roads [%s] until %s\n", joinIDs(r.BlockedRoadIDs), r.TargetTime)
	} else {
		fmt.Fprintf(w, "\nBaseline simulation until %s\n", r.TargetTime)
	}

	fmt.Fprintln(w, "\nSimulation Metrics Summary:")
	if r.Persisted {
		fmt.Fprintf(w, "Simulation ID: %d\n", r.RunID)
	} else {
		fmt.Fprintln(w, "Simulation ID: not saved")
	}
	fmt.Fprintf(w, "Average travel time: %s\n", r.Metrics.AvgTravelTime)
	fmt.Fprintf(w, "Maximum delay: %s\n", r.Metrics.MaxDelay)
	fmt.Fprintf(w, "Number of trips: %s\n", humanize.Comma(int64(r.Metrics.NumTrips)))
}

func printRuns(w io.Writer, records []domain.RunRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No simulation runs yet.")
		return
	}
	for _, rec := range records {
		blocked := "none"
		if rec.BlockedRoads != nil {
			blocked = *rec.BlockedRoads
		}
		input := ""
		if rec.UserInput != nil {
			input = *rec.UserInput
		}
		fmt.Fprintf(w, "#%d  %s  avg %s  max %s  trips %d  blocked %s\n",
			rec.ID, humanize.Time(rec.RunTimestamp), rec.AvgTravelTime, rec.MaxDelay, rec.NumTrips, blocked)
		if input != "" {
			fmt.Fprintf(w, "     %q\n", input)
		}
	}
}

// describeFailure печатает штатные остановки прогона, сбои возвращает как ошибку
func describeFailure(w io.Writer, err error) error {
	appErr, ok := apperrors.As(err)
	if !ok {
		fmt.Fprintf(w, "Error: %v\n", err)
		return err
	}
	if !appErr.Fatal {
		fmt.Fprintf(w, "%s.\n", appErr.Message)
		return nil
	}
	fmt.Fprintf(w, "Error: %s\n", appErr.Message)
	if ids, found := appErr.Details["invalid_road_ids"]; found {
		fmt.Fprintf(w, "Invalid Road IDs (not in detected roads): %v\n", ids)
	}
	return err
}
